package export

import (
	"encoding/json"
	"fmt"
	"github.com/pelletier/go-toml/v2"
	"github.com/willbeason/tree-armature/pkg/tree"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType is the media type documents in f are served as.
func (f Format) ContentType() string {
	switch f {
	case YAML:
		return "application/yaml"
	case TOML:
		return "application/toml"
	default:
		return "application/json"
	}
}

// A Document is a flattened armature: bones in creation order, each naming its parent.
type Document struct {
	Name       string          `json:"name" yaml:"name" toml:"name"`
	Parameters tree.Parameters `json:"parameters" yaml:"parameters" toml:"parameters"`
	Bones      []Bone          `json:"bones" yaml:"bones" toml:"bones"`
}

type Bone struct {
	Name       string     `json:"name" yaml:"name" toml:"name"`
	Parent     string     `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
	Depth      int        `json:"depth" yaml:"depth" toml:"depth"`
	Slot       int        `json:"slot" yaml:"slot" toml:"slot"`
	Length     float64    `json:"length" yaml:"length" toml:"length"`
	RollOffset float64    `json:"roll_offset" yaml:"roll_offset" toml:"roll_offset"`
	Roll       float64    `json:"roll" yaml:"roll" toml:"roll"`
	Tilt       float64    `json:"tilt" yaml:"tilt" toml:"tilt"`
	Head       [3]float32 `json:"head" yaml:"head,flow" toml:"head"`
	Tail       [3]float32 `json:"tail" yaml:"tail,flow" toml:"tail"`
}

// NewDocument flattens the tree rooted at trunk.
func NewDocument(name string, params tree.Parameters, trunk *tree.Segment) Document {
	doc := Document{
		Name:       name,
		Parameters: params,
		Bones:      make([]Bone, 0, trunk.Count()),
	}

	_ = trunk.Walk(func(seg *tree.Segment) error {
		bone := Bone{
			Name:       seg.Name,
			Depth:      seg.Depth,
			Slot:       seg.Slot,
			Length:     seg.Length,
			RollOffset: seg.RollOffset,
			Roll:       seg.Roll,
			Tilt:       seg.Tilt,
		}
		if seg.Parent != nil {
			bone.Parent = seg.Parent.Name
		}
		head, tail := seg.Pose.Head, seg.Tail()
		bone.Head = [3]float32{head.X, head.Y, head.Z}
		bone.Tail = [3]float32{tail.X, tail.Y, tail.Z}

		doc.Bones = append(doc.Bones, bone)
		return nil
	})

	return doc
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(doc)
		if err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
