package mesh

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads a .gltf or .glb file and merges all triangle primitives of
// all meshes into one Mesh.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	m, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	m.Name = filepath.Base(path)
	return m, nil
}

// FromDocument converts an in-memory glTF document.
func FromDocument(doc *gltf.Document) (*Mesh, error) {
	out := New("gltf")
	needNormals := false

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d positions: %w", mi, pi, err)
			}

			var normals [][3]float32
			if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = modeler.ReadNormal(doc, doc.Accessors[nIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d normals: %w", mi, pi, err)
				}
			}
			if len(normals) != len(positions) {
				normals = nil
				needNormals = true
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d indices: %w", mi, pi, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}
			for _, idx := range indices {
				if int(idx) >= len(positions) {
					return nil, fmt.Errorf("mesh %d primitive %d: index %d out of range (%d vertices)", mi, pi, idx, len(positions))
				}
			}

			part := New(gm.Name)
			part.Positions = make([]mgl32.Vec3, len(positions))
			for i, p := range positions {
				part.Positions[i] = mgl32.Vec3(p)
			}
			part.Normals = make([]mgl32.Vec3, len(positions))
			for i := range normals {
				part.Normals[i] = mgl32.Vec3(normals[i])
			}
			part.Indices = indices
			out.Append(part)
		}
	}

	if len(out.Positions) == 0 {
		return nil, fmt.Errorf("gltf: no triangle geometry")
	}
	if needNormals {
		out.ComputeNormals()
	}
	out.CalculateBounds()
	return out, nil
}
