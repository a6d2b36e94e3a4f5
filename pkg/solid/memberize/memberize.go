// Package memberize turns a planar truss geometry into 3D member solids
// using a solid kernel: chords become square bars, verticals and
// diagonals become rods. One mesh is produced per member role so the
// viewport can color role groups independently. The conversion is
// read-only over the geometry.
package memberize

import (
	"fmt"
	"math"

	"bridgewright/pkg/solid"
	"bridgewright/pkg/truss"
)

// Options sizes the member cross sections. Zero values are filled from
// the truss height so any span renders with sensible proportions.
type Options struct {
	BarSide   float64 // chord square-section side
	RodRadius float64 // vertical/diagonal radius
}

// withDefaults fills zero options from the truss parameters. Sections
// are oversized relative to real steel so they stay several tessellation
// cells wide across the whole span.
func (o Options) withDefaults(p truss.Params) Options {
	if o.BarSide <= 0 {
		o.BarSide = p.Height * 0.15
	}
	if o.RodRadius <= 0 {
		o.RodRadius = p.Height * 0.075
	}
	return o
}

// Memberize produces one mesh per member role present in the geometry,
// in role order. Roles with no members are skipped.
func Memberize(g *truss.Geometry, k solid.Kernel, opts Options) ([]*solid.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	opts = opts.withDefaults(g.Params)

	var meshes []*solid.Mesh
	for _, role := range truss.Roles {
		ids := g.Roles[role]
		if len(ids) == 0 {
			continue
		}

		var group solid.Solid
		for _, id := range ids {
			m := g.MemberByID(id)
			s, err := memberSolid(g, k, m, role, opts)
			if err != nil {
				return nil, fmt.Errorf("memberize: member %d: %w", id, err)
			}
			if s == nil {
				continue
			}
			if group == nil {
				group = s
			} else {
				group = k.Union(group, s)
			}
		}
		if group == nil {
			continue
		}

		mesh, err := k.ToMesh(group)
		if err != nil {
			return nil, fmt.Errorf("memberize: mesh %s group: %w", role, err)
		}
		mesh.Role = role.String()
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// memberSolid builds one member: a prism along +X rotated to the member
// direction and translated to its start node. Zero-length members yield
// a nil solid.
func memberSolid(g *truss.Geometry, k solid.Kernel, m *truss.Member, role truss.Role, opts Options) (solid.Solid, error) {
	a := g.NodeByID(m.Start)
	b := g.NodeByID(m.End)
	if a == nil || b == nil {
		return nil, fmt.Errorf("endpoints %d-%d not in node set", m.Start, m.End)
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		// Coincident endpoints have no renderable solid. A bowstring
		// arch springs from the deck, so its outermost hangers are
		// zero-length.
		return nil, nil
	}
	angle := math.Atan2(dy, dx) * 180 / math.Pi

	var s solid.Solid
	switch role {
	case truss.RoleBottomChord, truss.RoleTopChord:
		s = k.Bar(length, opts.BarSide)
	default:
		s = k.Rod(length, opts.RodRadius)
	}
	s = k.RotateZ(s, angle)
	return k.Translate(s, a.X, a.Y, 0), nil
}
