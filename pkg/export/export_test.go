package export

import (
	"bytes"
	"encoding/json"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willbeason/tree-armature/pkg/tree"
	"gopkg.in/yaml.v3"
	"strings"
	"testing"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	params := tree.DefaultParameters()
	params.MaxDepth = 2
	params.BranchesPerSegment = 2

	trunk, err := tree.Generate(params)
	require.NoError(t, err)
	return NewDocument("Tree", params, trunk)
}

func TestNewDocument(t *testing.T) {
	doc := sampleDocument(t)

	require.Len(t, doc.Bones, 7)
	assert.Equal(t, "Trunk", doc.Bones[0].Name)
	assert.Empty(t, doc.Bones[0].Parent)
	assert.Equal(t, [3]float32{0, 0, 0}, doc.Bones[0].Head)
	assert.InDelta(t, 1.0, doc.Bones[0].Tail[2], 1e-6)

	assert.Equal(t, "Bough", doc.Bones[1].Name)
	assert.Equal(t, "Trunk", doc.Bones[1].Parent)
	assert.Equal(t, "Bough", doc.Bones[2].Parent)
	assert.Equal(t, "Trunk", doc.Bones[4].Parent)
	assert.Equal(t, 1, doc.Bones[4].Slot)
	assert.Equal(t, doc.Bones[0].Tail, doc.Bones[1].Head)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": JSON, "JSON": JSON, "yml": YAML, "yaml": YAML, " toml ": TOML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	doc := sampleDocument(t)

	decoders := map[Format]func([]byte, *Document) error{
		JSON: func(b []byte, d *Document) error { return json.Unmarshal(b, d) },
		YAML: func(b []byte, d *Document) error { return yaml.Unmarshal(b, d) },
		TOML: func(b []byte, d *Document) error { return toml.Unmarshal(b, d) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, format))

			var got Document
			require.NoError(t, decode(buf.Bytes(), &got))
			assert.Equal(t, doc.Name, got.Name)
			assert.Equal(t, doc.Parameters.MaxDepth, got.Parameters.MaxDepth)
			require.Len(t, got.Bones, len(doc.Bones))
			assert.Equal(t, doc.Bones[5].Parent, got.Bones[5].Parent)
		})
	}
}

func TestEncode_YAMLKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument(t), YAML))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "name: Tree\n"))
	assert.Contains(t, out, "branches_per_segment: 2")
	assert.Contains(t, out, "parent: Trunk")
}
