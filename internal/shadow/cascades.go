package shadow

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraSnapshot is the camera state a cascade update consumes.
type CameraSnapshot struct {
	Near float32
	Far  float32
	View mgl32.Mat4
	Proj mgl32.Mat4
}

// InvViewProj returns inverse(proj * view).
func (c CameraSnapshot) InvViewProj() (mgl32.Mat4, error) {
	vp := c.Proj.Mul4(c.View)
	if det := vp.Det(); det == 0 || !isFinite(det) {
		return mgl32.Mat4{}, fmt.Errorf("%w: singular view-projection", ErrDegenerateFrustum)
	}
	return vp.Inv(), nil
}

// Cascade is one depth slice and the light transform used to render it.
type Cascade struct {
	Index int
	// SplitFraction is the far boundary in [0,1] of the camera depth range.
	SplitFraction float32
	// SplitDepth is the camera-space depth (negative) of the far boundary.
	SplitDepth float32
	Sphere     BoundingSphere
	View       mgl32.Mat4
	Proj       mgl32.Mat4
	ViewProj   mgl32.Mat4
	// Valid is false when the matrices could not be built this frame; the
	// depth pass must skip the layer.
	Valid bool
}

// Settings configures the per-frame cascade fit.
type Settings struct {
	Lambda       float32
	Quantization float32
	// LightDir is the direction the light travels, normalized on use.
	LightDir mgl32.Vec3
}

// DefaultSettings returns the stock split blend and quantization with a
// light shining mostly downwards.
func DefaultSettings() Settings {
	return Settings{
		Lambda:       DefaultSplitLambda,
		Quantization: DefaultQuantization,
		LightDir:     mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
	}
}

// Validate checks settings before they reach the per-frame path.
func (s Settings) Validate() error {
	if !isFinite(s.Lambda) || s.Lambda < 0 || s.Lambda > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidLambda, s.Lambda)
	}
	if !isFinite(s.Quantization) || s.Quantization <= 0 {
		return fmt.Errorf("shadow: quantization step must be positive, got %v", s.Quantization)
	}
	if _, err := normalizeLightDir(s.LightDir); err != nil {
		return err
	}
	return nil
}

// Cascades owns the fixed set of cascade records. Update replaces every record
// each frame; nothing carries over between frames.
type Cascades struct {
	settings Settings
	records  [CascadeCount]Cascade
	// reported tracks which cascades have already logged a skip so a
	// persistent fault logs once instead of every frame.
	reported [CascadeCount]bool
}

// NewCascades validates the settings and returns an empty cascade set.
func NewCascades(s Settings) (*Cascades, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := &Cascades{settings: s}
	for i := range c.records {
		c.records[i].Index = i
	}
	return c, nil
}

// Settings returns the current settings.
func (c *Cascades) Settings() Settings {
	return c.settings
}

// SetSettings swaps the settings used from the next Update on.
func (c *Cascades) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	return nil
}

// Records returns a copy of the current cascade records.
func (c *Cascades) Records() [CascadeCount]Cascade {
	return c.records
}

// At returns cascade i.
func (c *Cascades) At(i int) Cascade {
	return c.records[i]
}

// Update refits every cascade to the camera. An error means the camera state
// itself was unusable; all cascades are then invalid. Failures confined to a
// single cascade only invalidate that record and are not returned.
func (c *Cascades) Update(cam CameraSnapshot) error {
	slices, splits, err := FrustumSlices(cam, c.settings.Lambda)
	if err != nil {
		c.invalidateAll()
		return err
	}

	for i := 0; i < CascadeCount; i++ {
		rec := Cascade{
			Index:         i,
			SplitFraction: splits[i],
			SplitDepth:    SplitDepth(cam.Near, cam.Far, splits[i]),
		}
		rec.Sphere = FitSphere(slices[i], c.settings.Quantization)

		view, proj, err := BuildLightMatrices(rec.Sphere, c.settings.LightDir)
		if err == nil {
			rec.View, rec.Proj = view, proj
			rec.ViewProj = proj.Mul4(view)
			if !matrixFinite(rec.ViewProj) {
				err = ErrNonFiniteMatrix
			}
		}
		if err != nil {
			if !c.reported[i] {
				log.Printf("shadow: skipping cascade %d: %v", i, err)
				c.reported[i] = true
			}
			c.records[i] = Cascade{Index: i, SplitFraction: rec.SplitFraction, SplitDepth: rec.SplitDepth}
			continue
		}

		rec.Valid = true
		c.reported[i] = false
		c.records[i] = rec
	}
	return nil
}

func (c *Cascades) invalidateAll() {
	for i := range c.records {
		c.records[i] = Cascade{Index: i}
	}
}

// FrustumSlices splits the camera frustum and returns each cascade's corners
// alongside the split fractions.
func FrustumSlices(cam CameraSnapshot, lambda float32) ([CascadeCount]FrustumCorners, [CascadeCount]float32, error) {
	var slices [CascadeCount]FrustumCorners

	splits, err := ComputeSplits(cam.Near, cam.Far, lambda)
	if err != nil {
		return slices, splits, err
	}
	inv, err := cam.InvViewProj()
	if err != nil {
		return slices, splits, err
	}
	full, err := WorldCorners(inv)
	if err != nil {
		return slices, splits, err
	}

	last := float32(0)
	for i, s := range splits {
		slices[i] = SliceCorners(full, last, s)
		last = s
	}
	return slices, splits, nil
}
