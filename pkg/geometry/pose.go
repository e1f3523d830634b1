package geometry

import "cogentcore.org/core/math32"

// A Pose is where a segment starts and how it is oriented in world space.
//
// The local frame follows the bone convention: segments extend along local +Y.
type Pose struct {
	// Head is the world position the segment grows out of.
	Head math32.Vector3

	// Quat rotates local axes into world space.
	Quat math32.Quat
}

// Upright returns the pose of a segment at the origin extending along world +Z,
// the construction axis for new armatures.
func Upright() Pose {
	return Pose{
		Quat: math32.NewQuatAxisAngle(X.Vector(), math32.Pi/2),
	}
}

// Direction returns the world direction of the given local axis.
func (p Pose) Direction(axis Axis) math32.Vector3 {
	return axis.Vector().MulQuat(p.Quat)
}

// Tail is the end of a segment of the given length with this pose.
func (p Pose) Tail(length float64) math32.Vector3 {
	return p.Head.Add(p.Direction(Forward).MulScalar(float32(length)))
}

// Extrude returns a pose starting at the tail of this one with the same orientation.
func (p Pose) Extrude(length float64) Pose {
	return Pose{
		Head: p.Tail(length),
		Quat: p.Quat,
	}
}

// Rotate rotates the pose around one of its own local axes by angle radians.
// The head stays in place.
func (p Pose) Rotate(axis Axis, angle float64) Pose {
	q := p.Quat
	q.SetMul(math32.NewQuatAxisAngle(axis.Vector(), float32(angle)))
	q.Normalize()
	return Pose{
		Head: p.Head,
		Quat: q,
	}
}
