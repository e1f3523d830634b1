package render

import (
	"github.com/willbeason/tree-armature/pkg/geometry"
	"github.com/willbeason/tree-armature/pkg/tree"
	"golang.org/x/image/vector"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
)

// maxMargin keeps some of the image for the tree however large Margin is set.
const maxMargin = 0.45

// Options control how an armature is drawn.
type Options struct {
	Width, Height int

	// Azimuth turns the tree around the vertical axis before projecting, in radians.
	Azimuth float64

	// Margin is the fraction of the image left empty around the tree, at most maxMargin.
	Margin float64

	// Thickness is the stroke width of the trunk in pixels. Deeper segments are thinner.
	Thickness float64

	Background color.Color

	// Colors are used per depth, the last one repeating for deeper levels.
	Colors []color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:      1280,
		Height:     1280,
		Margin:     0.05,
		Thickness:  8.0,
		Background: color.White,
		Colors: []color.Color{
			color.RGBA{R: 0x5b, G: 0x3a, B: 0x1e, A: 0xff},
			color.RGBA{R: 0x7a, G: 0x55, B: 0x2e, A: 0xff},
			color.RGBA{R: 0x55, G: 0x7a, B: 0x2e, A: 0xff},
			color.RGBA{R: 0x3c, G: 0x9a, B: 0x3c, A: 0xff},
		},
	}
}

type line struct {
	from, to geometry.XY
}

// view maps projected tree coordinates to pixels.
type view struct {
	left, top, scale float64
}

func (v view) pixel(xy geometry.XY) (float32, float32) {
	return float32((xy.X - v.left) * v.scale), float32((v.top - xy.Y) * v.scale)
}

// Render draws the tree rooted at trunk, projected orthographically.
func Render(trunk *tree.Segment, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	var levels [][]line
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	_ = trunk.Walk(func(seg *tree.Segment) error {
		l := line{
			from: geometry.Project(seg.Pose.Head, opts.Azimuth),
			to:   geometry.Project(seg.Tail(), opts.Azimuth),
		}
		for _, p := range []geometry.XY{l.from, l.to} {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}

		d := seg.Depth - trunk.Depth
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], l)
		return nil
	})

	v := fit(minX, maxX, minY, maxY, opts)

	z := vector.NewRasterizer(opts.Width, opts.Height)
	for depth, lines := range levels {
		z.Reset(opts.Width, opts.Height)
		half := opts.Thickness / (2 * float64(depth+1))
		for _, l := range lines {
			stroke(z, v, l, half)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(levelColor(opts.Colors, depth)), image.Point{})
	}

	return img
}

// fit centers the bounding box in the image, keeping the aspect ratio.
func fit(minX, maxX, minY, maxY float64, opts Options) view {
	w := math.Max(maxX-minX, 1e-9)
	h := math.Max(maxY-minY, 1e-9)

	margin := math.Max(0, math.Min(opts.Margin, maxMargin))
	usable := 1.0 - 2*margin
	scale := math.Min(float64(opts.Width)*usable/w, float64(opts.Height)*usable/h)

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	return view{
		left:  centerX - float64(opts.Width)/(2*scale),
		top:   centerY + float64(opts.Height)/(2*scale),
		scale: scale,
	}
}

// stroke adds a quad around l. Every quad winds the same way so overlaps don't cancel.
func stroke(z *vector.Rasterizer, v view, l line, half float64) {
	if half <= 0 {
		return
	}
	ax, ay := v.pixel(l.from)
	bx, by := v.pixel(l.to)

	dx, dy := float64(bx-ax), float64(by-ay)
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		// Seen end-on: draw a dot.
		bx = ax + float32(half)
		dx, dy, length = half, 0, half
	}
	nx := float32(-dy / length * half)
	ny := float32(dx / length * half)

	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

func levelColor(colors []color.Color, depth int) color.Color {
	if len(colors) == 0 {
		return color.Black
	}
	if depth >= len(colors) {
		return colors[len(colors)-1]
	}
	return colors[depth]
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(f, img)
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
