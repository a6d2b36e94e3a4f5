// Package solid defines the abstract solid-modeling kernel used to turn
// a planar truss into renderable 3D member solids. Implementations (sdfx)
// provide the geometry behind this interface so backends can be swapped
// without touching the rest of the system.
package solid

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and combines member solids. Bar and Rod both run along
// +X from the origin, centered on the X axis, so a member is placed by
// rotating about Z and translating to its start node.
type Kernel interface {
	// Bar is a square-section prism of the given length and side.
	Bar(length, side float64) Solid
	// Rod is a circular-section prism of the given length and radius.
	Rod(length, radius float64) Solid

	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid
	// RotateZ rotates about the Z axis; degrees.
	RotateZ(s Solid, degrees float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
