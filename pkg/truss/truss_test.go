package truss

import "testing"

func TestParseTopology(t *testing.T) {
	cases := []struct {
		in   string
		want Topology
	}{
		{"Pratt Truss", Pratt},
		{"pratt", Pratt},
		{"Warren Truss", Warren},
		{"warren", Warren},
		{"Howe Truss", Howe},
		{"Bowstring Arch", Bowstring},
		{"BOWSTRING", Bowstring},
	}
	for _, c := range cases {
		got, err := ParseTopology(c.in)
		if err != nil {
			t.Errorf("ParseTopology(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTopology(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseTopology("suspension"); err == nil {
		t.Error("ParseTopology should reject unknown names")
	}
}

func TestTopologyRoundTrip(t *testing.T) {
	for _, topo := range Topologies {
		got, err := ParseTopology(topo.String())
		if err != nil {
			t.Errorf("ParseTopology(%q): %v", topo.String(), err)
			continue
		}
		if got != topo {
			t.Errorf("round trip %v -> %q -> %v", topo, topo.String(), got)
		}
	}
}

func TestRoleStrings(t *testing.T) {
	want := map[Role]string{
		RoleBottomChord: "bottom-chord",
		RoleTopChord:    "top-chord",
		RoleVertical:    "vertical",
		RoleDiagonal:    "diagonal",
	}
	for role, s := range want {
		if role.String() != s {
			t.Errorf("%d.String() = %q, want %q", int(role), role.String(), s)
		}
	}
}

func TestValidateMessages(t *testing.T) {
	p := Params{Span: -10, Height: 0, Panels: 0, Topology: Pratt}
	verr := p.Validate()
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	if len(verr.Problems) != 3 {
		t.Errorf("problems = %d, want 3: %v", len(verr.Problems), verr.Problems)
	}
	if verr.Error() == "" {
		t.Error("Error() should describe the problems")
	}
}

func TestStats(t *testing.T) {
	g, err := Generate(Params{Span: 120, Height: 20, Panels: 8, Topology: Bowstring})
	if err != nil {
		t.Fatal(err)
	}
	s := g.Stats()
	want := Stats{Nodes: 18, Members: 33, BottomChords: 8, TopChords: 8, Verticals: 9, Diagonals: 8}
	if s != want {
		t.Errorf("Stats() = %+v, want %+v", s, want)
	}
}
