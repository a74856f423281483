// Package debugviz draws a top-down (XZ plane) diagram of the cascade split:
// each sub-frustum, the bounding sphere fitted around it and the camera.
// It needs no GL context, so it is usable from tests and offline tools.
package debugviz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"csm/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Options controls the output image
type Options struct {
	Width, Height int
	// Margin in pixels around the fitted content
	Margin    int
	LineWidth float32
	Labels    bool
}

// DefaultOptions returns a 1024x1024 labelled diagram
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 1024, Margin: 32, LineWidth: 2, Labels: true}
}

var (
	Background = color.RGBA{0x18, 0x1a, 0x20, 0xff}
	CameraDot  = color.RGBA{0xff, 0xff, 0xff, 0xff}

	// Palette per cascade, lightened for the sphere outline
	Palette = [shadow.CascadeCount]color.RGBA{
		{0xff, 0x4d, 0x4d, 0xff},
		{0x4d, 0xff, 0x4d, 0xff},
		{0x4d, 0x7f, 0xff, 0xff},
		{0xff, 0xff, 0x4d, 0xff},
	}
)

var ErrBadOptions = errors.New("debugviz: image size must be positive")

const (
	// polygon resolution of a circle outline
	sphereSegments  = 96
	cameraDotRadius = 4
)

var edges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Render draws the cascades of one frame. Sub-frusta are rebuilt from the
// snapshot and each record's split fraction; spheres are drawn only for
// valid records.
func Render(cascades [shadow.CascadeCount]shadow.Cascade, cam shadow.CameraSnapshot, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrBadOptions
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}

	inv, err := cam.InvViewProj()
	if err != nil {
		return nil, fmt.Errorf("debugviz: %w", err)
	}
	full, err := shadow.WorldCorners(inv)
	if err != nil {
		return nil, fmt.Errorf("debugviz: %w", err)
	}

	var slices [shadow.CascadeCount]shadow.FrustumCorners
	last := float32(0)
	for i, c := range cascades {
		slices[i] = shadow.SliceCorners(full, last, c.SplitFraction)
		last = c.SplitFraction
	}

	eye := inv.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	eye = eye.Mul(1 / eye.W())
	// the near-plane centre is close enough to the eye at diagram scale
	camPos := mgl32.Vec2{eye.X(), eye.Z()}

	proj := fitProjection(slices, cascades, camPos, opts)

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	r := vector.NewRasterizer(opts.Width, opts.Height)
	fillCircle(r, proj.apply(camPos.X(), camPos.Y()), cameraDotRadius)
	r.Draw(img, img.Bounds(), image.NewUniform(CameraDot), image.Point{})

	for i, c := range cascades {
		r.Reset(opts.Width, opts.Height)
		for _, e := range edges {
			a, b := slices[i][e[0]], slices[i][e[1]]
			strokeLine(r, proj.apply(a.X(), a.Z()), proj.apply(b.X(), b.Z()), opts.LineWidth)
		}
		if c.Valid {
			strokeCircle(r, proj.apply(c.Sphere.Center.X(), c.Sphere.Center.Z()), c.Sphere.Radius*proj.scale, opts.LineWidth/2)
		}
		r.Draw(img, img.Bounds(), image.NewUniform(Palette[i]), image.Point{})
	}

	if opts.Labels {
		drawLabels(img, cascades, opts)
	}
	return img, nil
}

// projection maps world XZ to pixels, +X right and +Z down
type projection struct {
	scale      float32
	minX, minZ float32
	offX, offY float32
}

func (p projection) apply(x, z float32) mgl32.Vec2 {
	return mgl32.Vec2{(x-p.minX)*p.scale + p.offX, (z-p.minZ)*p.scale + p.offY}
}

func fitProjection(slices [shadow.CascadeCount]shadow.FrustumCorners, cascades [shadow.CascadeCount]shadow.Cascade, cam mgl32.Vec2, opts Options) projection {
	minX, minZ := cam.X(), cam.Y()
	maxX, maxZ := minX, minZ
	grow := func(x, z float32) {
		minX, maxX = min(minX, x), max(maxX, x)
		minZ, maxZ = min(minZ, z), max(maxZ, z)
	}
	for i := range slices {
		for _, p := range slices[i] {
			grow(p.X(), p.Z())
		}
		if c := cascades[i]; c.Valid {
			grow(c.Sphere.Center.X()-c.Sphere.Radius, c.Sphere.Center.Z()-c.Sphere.Radius)
			grow(c.Sphere.Center.X()+c.Sphere.Radius, c.Sphere.Center.Z()+c.Sphere.Radius)
		}
	}

	w := float32(opts.Width - 2*opts.Margin)
	h := float32(opts.Height - 2*opts.Margin)
	if w <= 0 || h <= 0 {
		w, h = float32(opts.Width), float32(opts.Height)
	}
	spanX := max(maxX-minX, 1e-3)
	spanZ := max(maxZ-minZ, 1e-3)
	scale := min(w/spanX, h/spanZ)

	// centre the content
	return projection{
		scale: scale,
		minX:  minX,
		minZ:  minZ,
		offX:  (float32(opts.Width) - spanX*scale) / 2,
		offY:  (float32(opts.Height) - spanZ*scale) / 2,
	}
}

// strokeLine adds a quad of the given width around segment ab
func strokeLine(r *vector.Rasterizer, a, b mgl32.Vec2, width float32) {
	d := b.Sub(a)
	if d.Len() < 1e-6 {
		return
	}
	n := mgl32.Vec2{-d.Y(), d.X()}.Normalize().Mul(width / 2)
	r.MoveTo(a.X()+n.X(), a.Y()+n.Y())
	r.LineTo(b.X()+n.X(), b.Y()+n.Y())
	r.LineTo(b.X()-n.X(), b.Y()-n.Y())
	r.LineTo(a.X()-n.X(), a.Y()-n.Y())
	r.ClosePath()
}

func strokeCircle(r *vector.Rasterizer, c mgl32.Vec2, radius, width float32) {
	prev := c.Add(mgl32.Vec2{radius, 0})
	for i := 1; i <= sphereSegments; i++ {
		a := float64(i) / sphereSegments * 2 * math.Pi
		p := c.Add(mgl32.Vec2{radius * float32(math.Cos(a)), radius * float32(math.Sin(a))})
		strokeLine(r, prev, p, width)
		prev = p
	}
}

func fillCircle(r *vector.Rasterizer, c mgl32.Vec2, radius float32) {
	r.MoveTo(c.X()+radius, c.Y())
	for i := 1; i < sphereSegments; i++ {
		a := float64(i) / sphereSegments * 2 * math.Pi
		r.LineTo(c.X()+radius*float32(math.Cos(a)), c.Y()+radius*float32(math.Sin(a)))
	}
	r.ClosePath()
}

func drawLabels(img *image.RGBA, cascades [shadow.CascadeCount]shadow.Cascade, opts Options) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 2

	for i, c := range cascades {
		label := fmt.Sprintf("C%d  far %.2f  r %.3f", i, -c.SplitDepth, c.Sphere.Radius)
		if !c.Valid {
			label = fmt.Sprintf("C%d  far %.2f  skipped", i, -c.SplitDepth)
		}
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(Palette[i]),
			Face: face,
			Dot:  fixed.P(8, 8+lineHeight*(i+1)),
		}
		d.DrawString(label)
	}
}
