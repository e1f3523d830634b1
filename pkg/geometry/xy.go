package geometry

import (
	"cogentcore.org/core/math32"
	"math"
)

// XY is a point on a 2D view plane.
type XY struct {
	X, Y float64
}

// Project orthographically projects v onto the vertical plane facing the viewer,
// after turning the world by azimuth radians around +Z. World +Z maps to +Y.
func Project(v math32.Vector3, azimuth float64) XY {
	x, y := float64(v.X), float64(v.Y)
	return XY{
		X: x*math.Cos(azimuth) - y*math.Sin(azimuth),
		Y: float64(v.Z),
	}
}
