package main

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willbeason/tree-armature/pkg/export"
	"github.com/willbeason/tree-armature/pkg/tree"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerate_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.yaml")

	cmd := mainCmd()
	cmd.SetArgs([]string{"generate", "--depth", "2", "--branches", "2", "--format", "yaml", "--out", out})
	cmd.SetErr(io.Discard)
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc struct {
		Name  string `yaml:"name"`
		Bones []struct {
			Name string `yaml:"name"`
		} `yaml:"bones"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "Tree", doc.Name)
	require.Len(t, doc.Bones, 7)
	assert.Equal(t, "Trunk", doc.Bones[0].Name)
}

func TestWriteDocument_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "tree.json")
	trunk := &tree.Segment{Length: 1}
	doc := export.NewDocument("Tree", tree.DefaultParameters(), trunk)

	err := writeDocument(path, doc, export.JSON)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
