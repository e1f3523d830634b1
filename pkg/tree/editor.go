package tree

import (
	"fmt"
	"github.com/willbeason/tree-armature/pkg/geometry"
)

// Handle identifies a segment created by an Editor.
type Handle int

// An Editor is a scene-graph editing API that can hold an armature.
//
// Editors may be stateful: extrusion happens from the active segment, and
// newly created segments become active.
type Editor interface {
	// CreateRoot creates the first segment of an armature with the given pose.
	CreateRoot(origin geometry.Pose, length float64) (Handle, error)

	// ExtrudeChild creates a segment at parent's tail, extending along parent's
	// local axis by length.
	ExtrudeChild(parent Handle, length float64, axis geometry.Axis) (Handle, error)

	// AlignOrientation gives seg the same orientation and roll as reference.
	AlignOrientation(seg, reference Handle) error

	// SetRoll sets the twist of seg around its own forward axis.
	SetRoll(seg Handle, angle float64) error

	// RotateLocal rotates seg around one of its local axes.
	RotateLocal(seg Handle, angle float64, axis geometry.Axis) error

	Rename(seg Handle, label string) error

	SetActive(seg Handle) error
}

// Materialize replays the tree rooted at trunk onto ed, in creation order.
// Segments are renamed only when debugLabels is set.
func Materialize(trunk *Segment, ed Editor, debugLabels bool) error {
	root, err := ed.CreateRoot(trunk.Pose, trunk.Length)
	if err != nil {
		return fmt.Errorf("creating %s: %w", trunk.Name, err)
	}
	if debugLabels {
		err = ed.Rename(root, trunk.Name)
		if err != nil {
			return fmt.Errorf("renaming %s: %w", trunk.Name, err)
		}
	}

	for _, child := range trunk.Children {
		err = materialize(child, root, ed, debugLabels)
		if err != nil {
			return err
		}
	}
	return nil
}

func materialize(seg *Segment, parent Handle, ed Editor, debugLabels bool) error {
	h, err := ed.ExtrudeChild(parent, seg.Length, geometry.Forward)
	if err != nil {
		return fmt.Errorf("extruding %s: %w", seg.Name, err)
	}
	if debugLabels {
		err = ed.Rename(h, seg.Name)
		if err != nil {
			return fmt.Errorf("renaming %s: %w", seg.Name, err)
		}
	}

	err = ed.AlignOrientation(h, parent)
	if err != nil {
		return fmt.Errorf("aligning %s: %w", seg.Name, err)
	}
	err = ed.SetRoll(h, seg.Roll)
	if err != nil {
		return fmt.Errorf("rolling %s: %w", seg.Name, err)
	}
	err = ed.RotateLocal(h, seg.Tilt, geometry.Transverse)
	if err != nil {
		return fmt.Errorf("tilting %s: %w", seg.Name, err)
	}

	for _, child := range seg.Children {
		err = materialize(child, h, ed, debugLabels)
		if err != nil {
			return err
		}
	}

	// Siblings extrude from the parent, so hand the selection back to it.
	err = ed.SetActive(parent)
	if err != nil {
		return fmt.Errorf("reselecting parent of %s: %w", seg.Name, err)
	}
	return nil
}
