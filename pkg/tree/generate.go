package tree

import (
	"cogentcore.org/core/math32"
	"context"
	"github.com/willbeason/tree-armature/pkg/geometry"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"math"
	"runtime"
)

// A Generator builds trees from Parameters.
type Generator struct {
	Limits Limits

	// Parallel builds the subtrees under the trunk concurrently. The result is
	// identical to a sequential build.
	Parallel bool

	// Origin is where the trunk starts.
	Origin math32.Vector3

	Logger *slog.Logger
}

type Option func(*Generator)

func WithLimits(limits Limits) Option {
	return func(g *Generator) {
		g.Limits = limits
	}
}

func WithParallel(parallel bool) Option {
	return func(g *Generator) {
		g.Parallel = parallel
	}
}

func WithOrigin(origin math32.Vector3) Option {
	return func(g *Generator) {
		g.Origin = origin
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.Logger = logger
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		Limits: DefaultLimits(),
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a tree with the default Generator.
func Generate(params Parameters) (*Segment, error) {
	return NewGenerator().Generate(context.Background(), params)
}

// Generate validates params and builds the whole tree, returning its trunk.
// Nothing is built if params are invalid.
func (g *Generator) Generate(ctx context.Context, params Parameters) (*Segment, error) {
	err := params.Validate(g.Limits)
	if err != nil {
		return nil, err
	}

	pose := geometry.Upright()
	pose.Head = g.Origin

	trunk := &Segment{
		DepthRemaining: params.MaxDepth,
		Length:         params.LengthAt(0),
		Pose:           pose,
	}

	if params.MaxDepth > 0 {
		b := builder{params: params}
		trunk.Children = make([]*Segment, params.BranchesPerSegment)

		if g.Parallel {
			var eg errgroup.Group
			eg.SetLimit(runtime.NumCPU())
			for slot := range trunk.Children {
				eg.Go(func() error {
					trunk.Children[slot] = b.branch(trunk, slot)
					return nil
				})
			}
			err = eg.Wait()
			if err != nil {
				return nil, err
			}
		} else {
			for slot := range trunk.Children {
				trunk.Children[slot] = b.branch(trunk, slot)
			}
		}
	}

	assignNames(trunk)

	if g.Logger != nil {
		g.Logger.DebugContext(ctx, "generated tree",
			"segments", trunk.Count(),
			"max_depth", params.MaxDepth,
			"branches_per_segment", params.BranchesPerSegment,
			"parallel", g.Parallel,
		)
	}

	return trunk, nil
}

type builder struct {
	params Parameters
}

// rollOffset is the twist of the given slot around the parent's axis.
func (b builder) rollOffset(slot int) float64 {
	return float64(slot) * 2 * math.Pi / float64(b.params.BranchesPerSegment)
}

// branch creates the segment in the given slot of parent along with everything
// growing out of it. Length and tilt follow from the depth alone, so every
// segment matches what Validate checked.
func (b builder) branch(parent *Segment, slot int) *Segment {
	offset := b.rollOffset(slot)
	level := parent.Depth + 1
	depth := b.params.MaxDepth - level
	length := b.params.LengthAt(level)
	tilt := b.params.TiltAt(level)

	// Start where the parent ends, lined up with it, then roll and finally tilt
	// in the rolled frame.
	pose := parent.Pose.Extrude(parent.Length)
	pose = pose.Rotate(geometry.Forward, offset)
	pose = pose.Rotate(geometry.Transverse, tilt)

	seg := &Segment{
		Depth:          level,
		DepthRemaining: depth,
		Slot:           slot,
		Length:         length,
		RollOffset:     offset,
		Roll:           parent.Roll + offset,
		Tilt:           tilt,
		Pose:           pose,
		Parent:         parent,
	}

	if depth > 0 {
		seg.Children = make([]*Segment, b.params.BranchesPerSegment)
		for j := range seg.Children {
			seg.Children[j] = b.branch(seg, j)
		}
	}

	return seg
}
