// Package preview maps a generated truss geometry to 2D drawable
// primitives and renders them as an SVG schematic. The mapping is pure:
// every call rebuilds the scene from scratch, so the preview can never
// drift from the geometry it was built from.
package preview

import (
	"fmt"

	"bridgewright/pkg/truss"
)

// Style is the stroke for one member role.
type Style struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// roleStyles is the fixed style table. Chords share one style.
var roleStyles = map[truss.Role]Style{
	truss.RoleBottomChord: {Color: "#f59e0b", Width: 2.2},
	truss.RoleTopChord:    {Color: "#f59e0b", Width: 2.2},
	truss.RoleDiagonal:    {Color: "#60a5fa", Width: 1.5},
	truss.RoleVertical:    {Color: "#94a3b8", Width: 1.4},
}

// Node marker and support colors.
const (
	nodeFill     = "#1e293b"
	nodeStroke   = "#60a5fa"
	leftSupport  = "#f59e0b"
	rightSupport = "#60a5fa"
	groundColor  = "#475569"
)

// StyleFor returns the stroke style for a member role.
func StyleFor(role truss.Role) Style {
	if s, ok := roleStyles[role]; ok {
		return s
	}
	return Style{Color: nodeStroke, Width: 1.5}
}

// Line is one member in world coordinates.
type Line struct {
	X1, Y1, X2, Y2 float64
	Role           truss.Role
	Style          Style
}

// Point is a node marker in world coordinates.
type Point struct {
	X, Y float64
}

// LegendEntry is one swatch in the role legend.
type LegendEntry struct {
	Label string
	Color string
}

// Scene is the full set of drawable primitives for one geometry. The z
// coordinate is dropped: the truss is planar and the projection is x/y.
type Scene struct {
	Title  string
	Lines  []Line
	Nodes  []Point
	Left   Point // left support marker (triangle)
	Right  Point // right support marker (square)
	Legend []LegendEntry

	// World-coordinate view box, padded the way the desktop preview
	// frames it: 5% of span horizontally, -25%..+130% of height.
	MinX, MaxX, MinY, MaxY float64
}

// Build maps a geometry to a scene.
func Build(g *truss.Geometry) *Scene {
	p := g.Params
	s := &Scene{
		Title: fmt.Sprintf("%s  |  Span %g  ·  H %g  ·  %d panels", p.Topology, p.Span, p.Height, p.Panels),
		MinX:  -p.Span * 0.05,
		MaxX:  p.Span * 1.05,
		MinY:  -p.Height * 0.25,
		MaxY:  p.Height * 1.3,
		Legend: []LegendEntry{
			{Label: "Chord", Color: roleStyles[truss.RoleBottomChord].Color},
			{Label: "Diagonal", Color: roleStyles[truss.RoleDiagonal].Color},
			{Label: "Vertical", Color: roleStyles[truss.RoleVertical].Color},
		},
	}

	for _, role := range truss.Roles {
		style := StyleFor(role)
		for _, id := range g.Roles[role] {
			m := g.MemberByID(id)
			a, b := g.NodeByID(m.Start), g.NodeByID(m.End)
			s.Lines = append(s.Lines, Line{
				X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
				Role:  role,
				Style: style,
			})
		}
	}

	for _, n := range g.Nodes {
		s.Nodes = append(s.Nodes, Point{X: n.X, Y: n.Y})
	}

	left := g.NodeByID(g.LeftSupport())
	right := g.NodeByID(g.RightSupport())
	s.Left = Point{X: left.X, Y: left.Y}
	s.Right = Point{X: right.X, Y: right.Y}

	return s
}
