package app

import (
	"fmt"
	"math"

	"csm/internal/graphics/renderables/scene"
	"csm/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultScene is a ground plane with a ring of boxes at varying heights so
// every cascade has casters in range. A non-empty gltfPath adds that model
// at the origin.
func DefaultScene(gltfPath string) ([]scene.Object, error) {
	objects := []scene.Object{
		{
			Mesh:  mesh.Plane(400),
			Model: mgl32.Ident4(),
			Color: mgl32.Vec3{0.55, 0.6, 0.5},
		},
	}

	const rings = 4
	for ring := 0; ring < rings; ring++ {
		radius := float32(6 * (ring + 1) * (ring + 1))
		count := 6 + 4*ring
		for i := 0; i < count; i++ {
			angle := float32(i) / float32(count) * 2 * mgl32.Pi
			height := float32(1 + (i+ring)%4)
			model := mgl32.Translate3D(radius*float32(math.Cos(float64(angle))), height/2, radius*float32(math.Sin(float64(angle)))).
				Mul4(mgl32.HomogRotate3DY(angle)).
				Mul4(mgl32.Scale3D(1, height, 1))
			objects = append(objects, scene.Object{
				Mesh:       mesh.Cube(1),
				Model:      model,
				Color:      mgl32.Vec3{0.8, 0.75 - 0.1*float32(ring), 0.6},
				CastShadow: true,
			})
		}
	}

	if gltfPath != "" {
		m, err := mesh.LoadGLTF(gltfPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		// sit the model on the ground
		lift := mgl32.Translate3D(0, -m.Min.Y(), 0)
		objects = append(objects, scene.Object{
			Mesh:       m,
			Model:      lift,
			Color:      mgl32.Vec3{0.9, 0.9, 0.9},
			CastShadow: true,
		})
	}

	return objects, nil
}
