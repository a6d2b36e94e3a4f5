// Package truss defines the planar truss geometry model for Bridgewright.
// A Geometry is a pure value produced from Params; it is never mutated
// after generation.
package truss

import (
	"encoding/json"
	"fmt"
)

// Topology enumerates the supported truss patterns.
type Topology int

const (
	Pratt     Topology = iota // flat top chord, diagonals V toward center
	Warren                    // apex top nodes, W diagonals, no verticals
	Howe                      // flat top chord, mirrored Pratt diagonals
	Bowstring                 // sine arch top chord with hangers
)

func (t Topology) String() string {
	switch t {
	case Pratt:
		return "Pratt Truss"
	case Warren:
		return "Warren Truss"
	case Howe:
		return "Howe Truss"
	case Bowstring:
		return "Bowstring Arch"
	default:
		return "unknown"
	}
}

// Topologies lists every pattern in UI order.
var Topologies = []Topology{Pratt, Warren, Howe, Bowstring}

// MarshalJSON encodes the topology as its display name so the frontend
// form can bind it directly.
func (t Topology) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts a display name or bare key.
func (t *Topology) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTopology(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTopology resolves a display name ("Pratt Truss") or bare key
// ("pratt") to a Topology.
func ParseTopology(s string) (Topology, error) {
	switch key(s) {
	case "pratt":
		return Pratt, nil
	case "warren":
		return Warren, nil
	case "howe":
		return Howe, nil
	case "bowstring":
		return Bowstring, nil
	}
	return 0, fmt.Errorf("unknown truss topology %q", s)
}

// key lowercases the first word of a topology name.
func key(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			break
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// Role classifies a member by the generation phase that created it.
// Every member has exactly one role.
type Role int

const (
	RoleBottomChord Role = iota
	RoleTopChord
	RoleVertical
	RoleDiagonal
)

func (r Role) String() string {
	switch r {
	case RoleBottomChord:
		return "bottom-chord"
	case RoleTopChord:
		return "top-chord"
	case RoleVertical:
		return "vertical"
	case RoleDiagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// Roles lists every member role in generation order.
var Roles = []Role{RoleBottomChord, RoleTopChord, RoleVertical, RoleDiagonal}

// Node is a truss joint. IDs are dense and contiguous from 1; Z is always
// zero (planar truss).
type Node struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// Member is a straight connection between two nodes. IDs are dense and
// contiguous from 1, numbered independently of node IDs.
type Member struct {
	ID    int `json:"id"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Params are the geometric inputs to one generation call.
type Params struct {
	Span     float64  `json:"span"`   // total span, length units
	Height   float64  `json:"height"` // truss height, length units
	Panels   int      `json:"panels"` // number of bottom-chord panels
	Topology Topology `json:"topology"`
}

// PanelWidth returns Span / Panels.
func (p Params) PanelWidth() float64 {
	return p.Span / float64(p.Panels)
}

// Geometry is the generator output: node set, member set and the member
// role partition. Bottom and Top preserve left-to-right node ordering.
type Geometry struct {
	Params  Params
	Nodes   []Node
	Members []Member
	Bottom  []int // bottom-chord node ids, left to right
	Top     []int // top-chord node ids, left to right
	Roles   map[Role][]int
}

// NodeByID returns the node with the given id, or nil.
// Ids are dense from 1, so this is an index lookup.
func (g *Geometry) NodeByID(id int) *Node {
	if id < 1 || id > len(g.Nodes) {
		return nil
	}
	return &g.Nodes[id-1]
}

// MemberByID returns the member with the given id, or nil.
func (g *Geometry) MemberByID(id int) *Member {
	if id < 1 || id > len(g.Members) {
		return nil
	}
	return &g.Members[id-1]
}

// LeftSupport returns the first bottom-chord node id.
func (g *Geometry) LeftSupport() int { return g.Bottom[0] }

// RightSupport returns the last bottom-chord node id.
func (g *Geometry) RightSupport() int { return g.Bottom[len(g.Bottom)-1] }

// InteriorBottom returns the bottom-chord node ids excluding the two
// support nodes.
func (g *Geometry) InteriorBottom() []int {
	if len(g.Bottom) <= 2 {
		return nil
	}
	out := make([]int, len(g.Bottom)-2)
	copy(out, g.Bottom[1:len(g.Bottom)-1])
	return out
}

// Stats summarizes a geometry for the UI stat bar.
type Stats struct {
	Nodes        int `json:"nodes"`
	Members      int `json:"members"`
	BottomChords int `json:"bottomChords"`
	TopChords    int `json:"topChords"`
	Verticals    int `json:"verticals"`
	Diagonals    int `json:"diagonals"`
}

// Stats computes member counts per role.
func (g *Geometry) Stats() Stats {
	return Stats{
		Nodes:        len(g.Nodes),
		Members:      len(g.Members),
		BottomChords: len(g.Roles[RoleBottomChord]),
		TopChords:    len(g.Roles[RoleTopChord]),
		Verticals:    len(g.Roles[RoleVertical]),
		Diagonals:    len(g.Roles[RoleDiagonal]),
	}
}
