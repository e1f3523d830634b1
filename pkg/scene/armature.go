package scene

import (
	"cogentcore.org/core/math32"
	"errors"
	"fmt"
	"github.com/willbeason/tree-armature/pkg/geometry"
	"github.com/willbeason/tree-armature/pkg/tree"
)

var (
	ErrUnknownBone = errors.New("unknown bone")
	ErrNotActive   = errors.New("bone is not active")
	ErrHasRoot     = errors.New("armature already has a root bone")
)

const defaultBoneName = "Bone"

// A Bone is one element of an Armature.
type Bone struct {
	Name string

	// Parent is the index of the parent bone, or -1 for the root.
	Parent int

	Head   math32.Vector3
	Length float64

	// Quat orients the bone; local +Y points from Head to Tail.
	Quat math32.Quat

	// Roll is the twist around the bone's own axis.
	Roll float64
}

// Tail is the end of the bone.
func (b Bone) Tail() math32.Vector3 {
	return b.pose().Tail(b.Length)
}

func (b Bone) pose() geometry.Pose {
	return geometry.Pose{Head: b.Head, Quat: b.Quat}
}

// An Armature is an in-memory edit-mode armature. Like an interactive editor it
// has a single active bone: extrusion only happens from it, and every new
// bone becomes active.
type Armature struct {
	Name string

	// ShowNames is set once any bone has been explicitly labelled.
	ShowNames bool

	bones  []Bone
	names  map[string]bool
	active int
}

func New(name string) *Armature {
	return &Armature{
		Name:   name,
		names:  make(map[string]bool),
		active: -1,
	}
}

var _ tree.Editor = (*Armature)(nil)

// Bones returns a copy of the bones in creation order.
func (a *Armature) Bones() []Bone {
	result := make([]Bone, len(a.bones))
	copy(result, a.bones)
	return result
}

// Bone returns the bone for h.
func (a *Armature) Bone(h tree.Handle) (Bone, error) {
	if err := a.check(h); err != nil {
		return Bone{}, err
	}
	return a.bones[h], nil
}

// Active returns the active bone, or false if there is none.
func (a *Armature) Active() (tree.Handle, bool) {
	return tree.Handle(a.active), a.active >= 0
}

func (a *Armature) CreateRoot(origin geometry.Pose, length float64) (tree.Handle, error) {
	if len(a.bones) > 0 {
		return 0, ErrHasRoot
	}
	return a.add(Bone{
		Name:   a.uniqueName(defaultBoneName),
		Parent: -1,
		Head:   origin.Head,
		Length: length,
		Quat:   origin.Quat,
	}), nil
}

func (a *Armature) ExtrudeChild(parent tree.Handle, length float64, axis geometry.Axis) (tree.Handle, error) {
	if err := a.check(parent); err != nil {
		return 0, err
	}
	if int(parent) != a.active {
		return 0, fmt.Errorf("%w: extruding from %q", ErrNotActive, a.bones[parent].Name)
	}

	p := a.bones[parent]
	pose := p.pose().Extrude(p.Length)
	switch axis {
	case geometry.X:
		pose = pose.Rotate(geometry.Z, -math32.Pi/2)
	case geometry.Z:
		pose = pose.Rotate(geometry.X, math32.Pi/2)
	}

	return a.add(Bone{
		Name:   a.uniqueName(defaultBoneName),
		Parent: int(parent),
		Head:   pose.Head,
		Length: length,
		Quat:   pose.Quat,
		Roll:   p.Roll,
	}), nil
}

func (a *Armature) AlignOrientation(seg, reference tree.Handle) error {
	if err := a.check(seg); err != nil {
		return err
	}
	if err := a.check(reference); err != nil {
		return err
	}
	a.bones[seg].Quat = a.bones[reference].Quat
	a.bones[seg].Roll = a.bones[reference].Roll
	return nil
}

func (a *Armature) SetRoll(seg tree.Handle, angle float64) error {
	if err := a.check(seg); err != nil {
		return err
	}
	b := &a.bones[seg]
	b.Quat = b.pose().Rotate(geometry.Forward, angle-b.Roll).Quat
	b.Roll = angle
	return nil
}

func (a *Armature) RotateLocal(seg tree.Handle, angle float64, axis geometry.Axis) error {
	if err := a.check(seg); err != nil {
		return err
	}
	b := &a.bones[seg]
	b.Quat = b.pose().Rotate(axis, angle).Quat
	if axis == geometry.Forward {
		b.Roll += angle
	}
	return nil
}

// Rename labels seg. Taken labels get a numeric suffix.
func (a *Armature) Rename(seg tree.Handle, label string) error {
	if err := a.check(seg); err != nil {
		return err
	}
	b := &a.bones[seg]
	if b.Name == label {
		return nil
	}
	delete(a.names, b.Name)
	b.Name = a.uniqueName(label)
	a.names[b.Name] = true
	a.ShowNames = true
	return nil
}

func (a *Armature) SetActive(seg tree.Handle) error {
	if err := a.check(seg); err != nil {
		return err
	}
	a.active = int(seg)
	return nil
}

func (a *Armature) add(b Bone) tree.Handle {
	a.bones = append(a.bones, b)
	a.names[b.Name] = true
	a.active = len(a.bones) - 1
	return tree.Handle(a.active)
}

func (a *Armature) check(h tree.Handle) error {
	if h < 0 || int(h) >= len(a.bones) {
		return fmt.Errorf("%w: %d", ErrUnknownBone, h)
	}
	return nil
}

func (a *Armature) uniqueName(base string) string {
	name := base
	for i := 1; a.names[name]; i++ {
		name = fmt.Sprintf("%s.%03d", base, i)
	}
	return name
}
