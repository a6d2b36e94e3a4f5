// Package sdfx implements the solid.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"bridgewright/pkg/solid"
)

// Compile-time interface check.
var _ solid.Kernel = (*Kernel)(nil)

// meshCells controls marching cubes tessellation resolution. Member
// solids are long and thin, so the grid has to stay fine enough that a
// single cross section still covers a few cells across the full span.
const meshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement solid.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements solid.Kernel using sdfx.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s solid.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) solid.Solid {
	return &sdfxSolid{s: s}
}

// Bar creates a square-section prism along +X. sdf.Box3D centers the box
// at the origin, so the solid is shifted by half its length to start at
// x=0 while staying centered on the X axis.
func (k *Kernel) Bar(length, side float64) solid.Solid {
	s, err := sdf.Box3D(v3.Vec{X: length, Y: side, Z: side}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: length / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Rod creates a circular-section prism along +X. sdf.Cylinder3D runs
// along Z, so the cylinder is rotated onto the X axis first.
func (k *Kernel) Rod(length, radius float64) solid.Solid {
	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	onX := sdf.Transform3D(s, sdf.RotateY(math.Pi/2))
	m := sdf.Translate3d(v3.Vec{X: length / 2})
	return wrap(sdf.Transform3D(onX, m))
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b solid.Solid) solid.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s solid.Solid, x, y, z float64) solid.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// RotateZ rotates a solid about the Z axis by the given angle in degrees.
func (k *Kernel) RotateZ(s solid.Solid, degrees float64) solid.Solid {
	m := sdf.RotateZ(degrees * math.Pi / 180.0)
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Kernel) ToMesh(s solid.Solid) (*solid.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &solid.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
