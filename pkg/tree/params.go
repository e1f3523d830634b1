package tree

import (
	"fmt"
	"math"
)

// Parameters control the shape of a generated tree. Angles are in radians.
type Parameters struct {
	// StartLength is the length of the trunk. Branches are sized relative to it.
	StartLength float64 `json:"start_length" yaml:"start_length" toml:"start_length"`

	// StartTilt is how far the first level of branches bends away from the trunk.
	StartTilt float64 `json:"start_tilt" yaml:"start_tilt" toml:"start_tilt"`

	// MaxDepth is the number of times a branch splits into smaller branches.
	// Zero produces a lone trunk.
	MaxDepth int `json:"max_depth" yaml:"max_depth" toml:"max_depth"`

	// BranchesPerSegment is how many branches grow out of each split, evenly
	// spaced around the parent.
	BranchesPerSegment int `json:"branches_per_segment" yaml:"branches_per_segment" toml:"branches_per_segment"`

	// LengthIncrement is added to the length at every level. Usually negative.
	LengthIncrement float64 `json:"length_increment" yaml:"length_increment" toml:"length_increment"`

	// TiltIncrement is added to the tilt at every level below the first.
	TiltIncrement float64 `json:"tilt_increment" yaml:"tilt_increment" toml:"tilt_increment"`

	// DebugLabels asks editors to label every segment with its name.
	DebugLabels bool `json:"debug_labels" yaml:"debug_labels" toml:"debug_labels"`
}

// DefaultParameters returns a small, three-way splitting tree.
func DefaultParameters() Parameters {
	return Parameters{
		StartLength:        1.0,
		StartTilt:          1.053414,
		MaxDepth:           3,
		BranchesPerSegment: 3,
		LengthIncrement:    -0.1,
		TiltIncrement:      -0.157434,
	}
}

// Limits bound how large a tree may get before generation is refused.
type Limits struct {
	MaxDepth    int
	MaxBranches int
	MaxSegments int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    10,
		MaxBranches: 10,
		MaxSegments: 200_000,
	}
}

// SegmentCount is the number of segments in a tree with the given fan-out and depth:
// 1 + b + b^2 + ... + b^depth. Saturates at math.MaxInt.
func SegmentCount(branches, depth int) int {
	if depth < 0 || branches < 1 {
		return 1
	}
	total, level := 1, 1
	for d := 0; d < depth; d++ {
		if level > math.MaxInt/branches {
			return math.MaxInt
		}
		level *= branches
		if total > math.MaxInt-level {
			return math.MaxInt
		}
		total += level
	}
	return total
}

// LengthAt is the length of every segment at the given depth, the trunk being depth 0.
func (p Parameters) LengthAt(depth int) float64 {
	return p.StartLength + float64(depth)*p.LengthIncrement
}

// TiltAt is the tilt of every segment at the given depth. The trunk has none.
func (p Parameters) TiltAt(depth int) float64 {
	if depth == 0 {
		return 0
	}
	return p.StartTilt + float64(depth-1)*p.TiltIncrement
}

// ShortestLength is the length of the segments at the deepest level. Lengths
// change monotonically with depth, so no segment is shorter than both this and
// the trunk.
func (p Parameters) ShortestLength() float64 {
	return p.LengthAt(p.MaxDepth)
}

// Validate reports the first reason p cannot be generated within limits.
func (p Parameters) Validate(limits Limits) error {
	scalars := []struct {
		name  string
		value float64
	}{
		{"start length", p.StartLength},
		{"start tilt", p.StartTilt},
		{"length increment", p.LengthIncrement},
		{"tilt increment", p.TiltIncrement},
	}
	for _, s := range scalars {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParameter, s.name, s.value)
		}
	}

	if p.StartLength <= 0 {
		return fmt.Errorf("%w: start length must be positive, got %g", ErrInvalidParameter, p.StartLength)
	}
	if p.StartTilt < -math.Pi || p.StartTilt > 2*math.Pi {
		return fmt.Errorf("%w: start tilt %g outside [-pi, 2pi]", ErrInvalidParameter, p.StartTilt)
	}
	if p.TiltIncrement < -math.Pi || p.TiltIncrement > math.Pi {
		return fmt.Errorf("%w: tilt increment %g outside [-pi, pi]", ErrInvalidParameter, p.TiltIncrement)
	}

	if p.BranchesPerSegment < 1 {
		return fmt.Errorf("%w: need at least one branch per segment, got %d", ErrInvalidTopology, p.BranchesPerSegment)
	}
	if p.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidParameter, p.MaxDepth)
	}

	if p.MaxDepth > limits.MaxDepth {
		return fmt.Errorf("%w: max depth %d exceeds %d", ErrResourceLimit, p.MaxDepth, limits.MaxDepth)
	}
	if p.BranchesPerSegment > limits.MaxBranches {
		return fmt.Errorf("%w: %d branches per segment exceeds %d", ErrResourceLimit, p.BranchesPerSegment, limits.MaxBranches)
	}
	if n := SegmentCount(p.BranchesPerSegment, p.MaxDepth); n > limits.MaxSegments {
		return fmt.Errorf("%w: tree would have %d segments, limit is %d", ErrResourceLimit, n, limits.MaxSegments)
	}

	if shortest := p.ShortestLength(); shortest <= 0 {
		return fmt.Errorf("%w: segments at depth %d would have length %g", ErrInvalidParameter, p.MaxDepth, shortest)
	}

	return nil
}
