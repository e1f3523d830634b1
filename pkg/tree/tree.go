package tree

import (
	"cogentcore.org/core/math32"
	"fmt"
	"github.com/willbeason/tree-armature/pkg/geometry"
)

const (
	// TrunkName is the name of the root segment.
	TrunkName = "Trunk"

	// BoughName is the base name of every other segment. Later segments get a
	// numeric suffix: Bough, Bough.001, Bough.002, ...
	BoughName = "Bough"
)

// A Segment is one bone of the armature: a straight piece of branch.
//
// The recursive structure mirrors the generated armature, the trunk being the root.
type Segment struct {
	Name string

	// Depth is the number of splits between the trunk and this segment.
	Depth int

	// DepthRemaining is how many more levels grow out of this segment.
	DepthRemaining int

	// Slot is the index of this segment among its siblings, in angular order.
	Slot int

	Length float64

	// RollOffset is the twist around the parent's axis this segment was placed at.
	// Siblings are spaced evenly: slot i of n has offset i * 2pi/n.
	RollOffset float64

	// Roll is the accumulated twist, the parent's Roll plus RollOffset.
	Roll float64

	// Tilt is how far this segment bends away from extending its parent.
	Tilt float64

	// Pose is the world-space head and orientation.
	Pose geometry.Pose

	Parent   *Segment
	Children []*Segment
}

// Tail is the world position where the segment ends and its children start.
func (s *Segment) Tail() math32.Vector3 {
	return s.Pose.Tail(s.Length)
}

func (s *Segment) IsRoot() bool {
	return s.Parent == nil
}

// Walk visits s and all of its descendants depth-first, siblings in slot order.
// Walking stops at the first error fn returns.
func (s *Segment) Walk(fn func(*Segment) error) error {
	if err := fn(s); err != nil {
		return err
	}
	for _, child := range s.Children {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of segments in the tree rooted at s.
func (s *Segment) Count() int {
	n := 1
	for _, child := range s.Children {
		n += child.Count()
	}
	return n
}

// Levels groups the segments of the tree rooted at s by depth.
func (s *Segment) Levels() [][]*Segment {
	var levels [][]*Segment
	_ = s.Walk(func(seg *Segment) error {
		d := seg.Depth - s.Depth
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], seg)
		return nil
	})
	return levels
}

func (s *Segment) String() string {
	return fmt.Sprintf("%s(depth=%d slot=%d length=%g roll=%g tilt=%g)",
		s.Name, s.Depth, s.Slot, s.Length, s.RollOffset, s.Tilt)
}

// boughName returns the name of the i-th bough created, counting from zero.
func boughName(i int) string {
	if i == 0 {
		return BoughName
	}
	return fmt.Sprintf("%s.%03d", BoughName, i)
}

// assignNames names segments in creation order.
func assignNames(root *Segment) {
	created := 0
	_ = root.Walk(func(seg *Segment) error {
		if seg.IsRoot() {
			seg.Name = TrunkName
			return nil
		}
		seg.Name = boughName(created)
		created++
		return nil
	})
}
