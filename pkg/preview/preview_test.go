package preview

import (
	"strings"
	"testing"

	"bridgewright/pkg/truss"
)

func buildScene(t *testing.T, p truss.Params) *Scene {
	t.Helper()
	g, err := truss.Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	return Build(g)
}

func TestBuildSceneCoversAllMembersAndNodes(t *testing.T) {
	p := truss.Params{Span: 120, Height: 20, Panels: 8, Topology: truss.Pratt}
	g, _ := truss.Generate(p)
	s := Build(g)

	if len(s.Lines) != len(g.Members) {
		t.Errorf("scene has %d lines, want one per member (%d)", len(s.Lines), len(g.Members))
	}
	if len(s.Nodes) != len(g.Nodes) {
		t.Errorf("scene has %d node markers, want %d", len(s.Nodes), len(g.Nodes))
	}
}

func TestBuildSceneRoleColors(t *testing.T) {
	s := buildScene(t, truss.Params{Span: 120, Height: 20, Panels: 8, Topology: truss.Pratt})

	counts := map[string]int{}
	for _, l := range s.Lines {
		counts[l.Style.Color]++
	}
	// 8 bottom + 8 top chords share the chord color.
	if counts["#f59e0b"] != 16 {
		t.Errorf("chord-colored lines = %d, want 16", counts["#f59e0b"])
	}
	if counts["#60a5fa"] != 8 {
		t.Errorf("diagonal-colored lines = %d, want 8", counts["#60a5fa"])
	}
	if counts["#94a3b8"] != 9 {
		t.Errorf("vertical-colored lines = %d, want 9", counts["#94a3b8"])
	}
}

func TestBuildSceneSupportsAndBounds(t *testing.T) {
	s := buildScene(t, truss.Params{Span: 120, Height: 20, Panels: 8, Topology: truss.Warren})

	if s.Left.X != 0 || s.Left.Y != 0 {
		t.Errorf("left support at (%g, %g), want (0, 0)", s.Left.X, s.Left.Y)
	}
	if s.Right.X != 120 || s.Right.Y != 0 {
		t.Errorf("right support at (%g, %g), want (120, 0)", s.Right.X, s.Right.Y)
	}

	if s.MinX != -6 || s.MaxX != 126 {
		t.Errorf("x bounds = [%g, %g], want [-6, 126]", s.MinX, s.MaxX)
	}
	if s.MinY != -5 || s.MaxY != 26 {
		t.Errorf("y bounds = [%g, %g], want [-5, 26]", s.MinY, s.MaxY)
	}
}

func TestBuildSceneIsPure(t *testing.T) {
	p := truss.Params{Span: 200, Height: 30, Panels: 10, Topology: truss.Bowstring}
	g, _ := truss.Generate(p)
	a := Build(g)
	b := Build(g)
	if len(a.Lines) != len(b.Lines) || a.Title != b.Title {
		t.Error("two builds from one geometry differ")
	}
}

func TestRenderSVG(t *testing.T) {
	s := buildScene(t, truss.Params{Span: 120, Height: 20, Panels: 8, Topology: truss.Howe})
	out := RenderSVG(s)

	if !strings.HasPrefix(out, "<?xml") {
		t.Error("output is not a standalone SVG document")
	}
	for _, want := range []string{"<svg", "</svg>", "<line", "<circle", "<polygon", "Howe Truss"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	// One <line> per member plus the ground line.
	if n := strings.Count(out, "<line"); n != 33+1 {
		t.Errorf("SVG has %d lines, want 34", n)
	}
	// Legend covers the three role labels.
	for _, label := range []string{"Chord", "Diagonal", "Vertical"} {
		if !strings.Contains(out, label) {
			t.Errorf("legend missing %q", label)
		}
	}
}

func TestStyleForUnknownRole(t *testing.T) {
	s := StyleFor(truss.Role(42))
	if s.Color == "" || s.Width <= 0 {
		t.Error("unknown role should still get a drawable style")
	}
}
