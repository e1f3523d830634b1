package geometry

import "cogentcore.org/core/math32"

// Axis is one of the three axes of a segment's local frame.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

const (
	// Forward is the local axis a segment extends along, and the axis it rolls around.
	Forward = Y

	// Transverse is the local axis a segment tilts around once rolled.
	Transverse = X
)

func (a Axis) Vector() math32.Vector3 {
	switch a {
	case X:
		return math32.Vec3(1, 0, 0)
	case Y:
		return math32.Vec3(0, 1, 0)
	default:
		return math32.Vec3(0, 0, 1)
	}
}

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "unknown"
	}
}
