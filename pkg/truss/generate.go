package truss

import "math"

// round4 rounds to 4 decimal places so exported coordinates are stable
// and diff-friendly across runs.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// builder accumulates nodes and members during one generation call.
// Counters are local to the builder, never package state, so repeated or
// concurrent calls cannot interfere.
type builder struct {
	nodes   []Node
	members []Member
	roles   map[Role][]int
}

func newBuilder() *builder {
	return &builder{roles: map[Role][]int{
		RoleBottomChord: {},
		RoleTopChord:    {},
		RoleVertical:    {},
		RoleDiagonal:    {},
	}}
}

// node appends a node at (x, y, 0) and returns its id.
func (b *builder) node(x, y float64) int {
	id := len(b.nodes) + 1
	b.nodes = append(b.nodes, Node{ID: id, X: round4(x), Y: round4(y), Z: 0})
	return id
}

// member appends a member from a to b under the given role.
func (b *builder) member(role Role, a, n int) int {
	id := len(b.members) + 1
	b.members = append(b.members, Member{ID: id, Start: a, End: n})
	b.roles[role] = append(b.roles[role], id)
	return id
}

// Generate produces the node/member graph for the given parameters.
// It is deterministic and side-effect free: identical params produce
// identical geometry.
func Generate(p Params) (*Geometry, error) {
	if verr := p.Validate(); verr != nil {
		return nil, verr
	}

	panelW := p.PanelWidth()
	b := newBuilder()

	// Bottom chord nodes, left to right.
	bottom := make([]int, 0, p.Panels+1)
	for i := 0; i <= p.Panels; i++ {
		bottom = append(bottom, b.node(float64(i)*panelW, 0))
	}

	// Top chord layout depends on topology.
	var top []int
	switch p.Topology {
	case Warren:
		// Apex nodes sit mid-panel; no top node above the end supports.
		for i := 0; i < p.Panels; i++ {
			top = append(top, b.node((float64(i)+0.5)*panelW, p.Height))
		}
	case Bowstring:
		// Single sine arch: zero at both ends, maximum at midspan.
		for i := 0; i <= p.Panels; i++ {
			y := p.Height * math.Sin(float64(i)/float64(p.Panels)*math.Pi)
			top = append(top, b.node(float64(i)*panelW, y))
		}
	default: // Pratt, Howe: flat top chord, full length.
		for i := 0; i <= p.Panels; i++ {
			top = append(top, b.node(float64(i)*panelW, p.Height))
		}
	}

	// Bottom chord members.
	for i := 0; i < p.Panels; i++ {
		b.member(RoleBottomChord, bottom[i], bottom[i+1])
	}

	switch p.Topology {
	case Warren:
		for i := 0; i < p.Panels-1; i++ {
			b.member(RoleTopChord, top[i], top[i+1])
		}
		// Repeating W: up into the panel, down out of it.
		for i := 0; i < p.Panels; i++ {
			b.member(RoleDiagonal, bottom[i], top[i])
			b.member(RoleDiagonal, top[i], bottom[i+1])
		}

	case Pratt, Howe:
		for i := 0; i < p.Panels; i++ {
			b.member(RoleTopChord, top[i], top[i+1])
		}
		for i := 0; i <= p.Panels; i++ {
			b.member(RoleVertical, bottom[i], top[i])
		}
		// Diagonal direction flips at the midpoint. The truncating
		// division keeps the original asymmetric split for odd panel
		// counts.
		half := p.Panels / 2
		for i := 0; i < p.Panels; i++ {
			toward := i < half
			if p.Topology == Howe {
				toward = !toward
			}
			if toward {
				b.member(RoleDiagonal, top[i], bottom[i+1])
			} else {
				b.member(RoleDiagonal, bottom[i], top[i+1])
			}
		}

	case Bowstring:
		for i := 0; i < p.Panels; i++ {
			b.member(RoleTopChord, top[i], top[i+1])
		}
		// Hangers.
		for i := 0; i <= p.Panels; i++ {
			b.member(RoleVertical, bottom[i], top[i])
		}
		// Diagonals all slope the same direction.
		for i := 0; i < p.Panels; i++ {
			b.member(RoleDiagonal, bottom[i], top[i+1])
		}
	}

	return &Geometry{
		Params:  p,
		Nodes:   b.nodes,
		Members: b.members,
		Bottom:  bottom,
		Top:     top,
		Roles:   b.roles,
	}, nil
}
