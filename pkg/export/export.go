// Package export translates a generated truss geometry plus model
// configuration into the ordered call sequence the external modeling
// service expects. It performs no geometry computation of its own, only
// grouping and sequencing.
package export

import (
	"context"
	"fmt"

	"bridgewright/pkg/staad"
	"bridgewright/pkg/truss"
)

// Level tags one progress line for the shell's log console.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns the level name used by frontend log consoles.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

// Logger receives human-readable progress lines during an export.
type Logger func(level Level, format string, args ...any)

// discard is used when the caller passes a nil Logger.
func discard(Level, string, ...any) {}

// Combination constants for the factored design combination, matching
// the original model template.
const (
	caseDeadLive  = 1
	caseWind      = 2
	comboNo       = 3
	comboTitle    = "75 PERCENT DL LL WL"
	comboFactor   = 0.75
	materialSteel = "STEEL"
)

// Exporter builds bridge models in the external service. Dial is invoked
// once per Run; connection failure is reported as the distinct
// service-unavailable condition before any model state is created.
type Exporter struct {
	Dial func(ctx context.Context) (staad.Client, error)
}

// Run validates the configuration, generates the geometry and issues the
// full modeling sequence. The first failing call aborts the rest; state
// already applied in the service is left as-is (the service owns any
// transactional semantics). All progress is reported through logf.
func (e *Exporter) Run(ctx context.Context, cfg Config, logf Logger) error {
	if logf == nil {
		logf = discard
	}

	// Reject malformed configuration before any external call.
	if err := cfg.Validate(); err != nil {
		return err
	}

	units, err := staad.UnitSystemByName(cfg.Units)
	if err != nil {
		return err
	}

	g, err := truss.Generate(cfg.Truss)
	if err != nil {
		return err
	}

	logf(LevelInfo, "Connecting to STAAD.Pro ...")
	client, err := e.Dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := e.build(client, cfg, units, g, logf); err != nil {
		return err
	}

	logf(LevelSuccess, "DONE  -  %s  |  Span %g  |  Height %g  |  %d panels",
		cfg.Truss.Topology, cfg.Truss.Span, cfg.Truss.Height, cfg.Truss.Panels)
	logf(LevelSuccess, "Nodes: %d   Members: %d", len(g.Nodes), len(g.Members))
	return nil
}

// build issues steps 2-10 of the sequence against a connected client.
func (e *Exporter) build(client staad.Client, cfg Config, units staad.UnitSystem, g *truss.Geometry, logf Logger) error {
	geo := client.Geometry()
	prop := client.Property()
	sup := client.Support()
	load := client.Load()

	logf(LevelInfo, "Setting units: %s (length=%d, force=%d)", units.Name, units.Length, units.Force)
	if err := client.SetInputUnits(units.Length, units.Force); err != nil {
		return fmt.Errorf("set units: %w", err)
	}
	if err := client.SaveModel(true); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	// Nodes first, then members, so members may reference any node id.
	logf(LevelInfo, "Creating %d nodes ...", len(g.Nodes))
	for _, n := range g.Nodes {
		if err := geo.CreateNode(n.ID, n.X, n.Y, n.Z); err != nil {
			return fmt.Errorf("create node %d: %w", n.ID, err)
		}
	}

	logf(LevelInfo, "Creating %d members ...", len(g.Members))
	for _, m := range g.Members {
		if err := geo.CreateBeam(m.ID, m.Start, m.End); err != nil {
			return fmt.Errorf("create member %d: %w", m.ID, err)
		}
	}

	if err := e.assignSections(prop, cfg, g, logf); err != nil {
		return err
	}
	if err := e.assignReleases(prop, g, logf); err != nil {
		return err
	}
	if err := e.assignSupports(sup, cfg, g, logf); err != nil {
		return err
	}
	if err := e.applyLoads(load, cfg, g, logf); err != nil {
		return err
	}

	logf(LevelInfo, "Saving model ...")
	if err := client.SaveModel(true); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	logf(LevelInfo, "Running analysis ...")
	if err := client.RunAnalysis(); err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}
	return nil
}

// assignSections creates one chord property and one diagonal property and
// assigns them by member group, then assigns steel to every member.
func (e *Exporter) assignSections(prop staad.PropertyAPI, cfg Config, g *truss.Geometry, logf Logger) error {
	logf(LevelInfo, "Assigning sections ...")

	chordProp, err := prop.CreateBeamPropertyFromTable(staad.AISC, cfg.ChordSection)
	if err != nil {
		return fmt.Errorf("chord property %s: %w", cfg.ChordSection, err)
	}
	diagProp, err := prop.CreateAnglePropertyFromTable(staad.AISC, cfg.DiagonalSection)
	if err != nil {
		return fmt.Errorf("diagonal property %s: %w", cfg.DiagonalSection, err)
	}

	groups := []struct {
		ids  []int
		prop int
	}{
		{g.Roles[truss.RoleBottomChord], chordProp},
		{g.Roles[truss.RoleTopChord], chordProp},
		{g.Roles[truss.RoleVertical], diagProp},
		{g.Roles[truss.RoleDiagonal], diagProp},
	}
	for _, grp := range groups {
		if len(grp.ids) == 0 {
			continue
		}
		if err := prop.AssignBeamProperty(grp.ids, grp.prop); err != nil {
			return fmt.Errorf("assign property: %w", err)
		}
	}

	all := make([]int, len(g.Members))
	for i := range g.Members {
		all[i] = g.Members[i].ID
	}
	if err := prop.AssignMaterial(materialSteel, all); err != nil {
		return fmt.Errorf("assign material: %w", err)
	}
	return nil
}

// assignReleases applies the idealized pin-ended diagonal: ~99% of the
// moment stiffness about two axes released at both ends, axial and shear
// left near-rigid so the model stays non-singular. One release spec per
// end is assigned to the whole diagonal group, never per member.
func (e *Exporter) assignReleases(prop staad.PropertyAPI, g *truss.Geometry, logf Logger) error {
	diags := g.Roles[truss.RoleDiagonal]
	if len(diags) == 0 {
		return nil
	}
	logf(LevelInfo, "Applying member releases ...")

	flags := [3]int{0, 1, 1}
	factors := [3]float64{0.0, 0.99, 0.99}

	start, err := prop.CreatePartialMomentRelease(staad.ReleaseAtStart, flags, factors)
	if err != nil {
		return fmt.Errorf("start release spec: %w", err)
	}
	end, err := prop.CreatePartialMomentRelease(staad.ReleaseAtEnd, flags, factors)
	if err != nil {
		return fmt.Errorf("end release spec: %w", err)
	}
	if err := prop.AssignMemberSpec(diags, start); err != nil {
		return fmt.Errorf("assign start release: %w", err)
	}
	if err := prop.AssignMemberSpec(diags, end); err != nil {
		return fmt.Errorf("assign end release: %w", err)
	}
	return nil
}

// assignSupports gives each end its configured condition. Left and right
// are independent; a bridge must not rely on both ends sharing one
// condition.
func (e *Exporter) assignSupports(sup staad.SupportAPI, cfg Config, g *truss.Geometry, logf Logger) error {
	logf(LevelInfo, "Assigning supports ...")

	leftRef, err := cfg.SupportLeft.Create(sup)
	if err != nil {
		return fmt.Errorf("left support: %w", err)
	}
	if err := sup.AssignToNodes([]int{g.LeftSupport()}, leftRef); err != nil {
		return fmt.Errorf("assign left support: %w", err)
	}

	rightRef, err := cfg.SupportRight.Create(sup)
	if err != nil {
		return fmt.Errorf("right support: %w", err)
	}
	if err := sup.AssignToNodes([]int{g.RightSupport()}, rightRef); err != nil {
		return fmt.Errorf("assign right support: %w", err)
	}
	return nil
}

// applyLoads creates the two primary cases and the factored combination.
func (e *Exporter) applyLoads(load staad.LoadAPI, cfg Config, g *truss.Geometry, logf Logger) error {
	logf(LevelInfo, "Creating load cases ...")

	// Case 1: dead + live.
	c1, err := load.CreatePrimaryCase("DEAD AND LIVE LOAD", 0, caseDeadLive)
	if err != nil {
		return fmt.Errorf("create case %d: %w", caseDeadLive, err)
	}
	if err := load.SetActiveCase(c1); err != nil {
		return fmt.Errorf("activate case %d: %w", caseDeadLive, err)
	}
	if cfg.SelfWeight {
		if err := load.AddSelfWeight(staad.DirGlobalY, -1.0); err != nil {
			return fmt.Errorf("self weight: %w", err)
		}
	}
	if interior := g.InteriorBottom(); cfg.LiveLoad > 0 && len(interior) > 0 {
		for _, n := range interior {
			if err := load.AddNodalLoad([]int{n}, 0, -cfg.LiveLoad, 0, 0, 0, 0); err != nil {
				return fmt.Errorf("live load on node %d: %w", n, err)
			}
		}
	}
	if cfg.DeadLoad > 0 {
		if err := load.AddUniformMemberLoad(g.Roles[truss.RoleBottomChord], staad.DirGlobalY, -cfg.DeadLoad); err != nil {
			return fmt.Errorf("dead load: %w", err)
		}
	}

	// Case 2: wind. Verticals carry it; bottom chords are the deliberate
	// fallback for topologies without verticals (Warren).
	c2, err := load.CreatePrimaryCase("WIND FROM LEFT", 3, caseWind)
	if err != nil {
		return fmt.Errorf("create case %d: %w", caseWind, err)
	}
	if err := load.SetActiveCase(c2); err != nil {
		return fmt.Errorf("activate case %d: %w", caseWind, err)
	}
	if cfg.WindLoad > 0 {
		windMembers := g.Roles[truss.RoleVertical]
		if len(windMembers) == 0 {
			windMembers = g.Roles[truss.RoleBottomChord]
		}
		if err := load.AddUniformMemberLoad(windMembers, staad.DirLateral, cfg.WindLoad); err != nil {
			return fmt.Errorf("wind load: %w", err)
		}
	}

	// Combination 3 at a fixed partial factor of both primary cases.
	if err := load.CreateCombination(comboTitle, comboNo); err != nil {
		return fmt.Errorf("create combination: %w", err)
	}
	if err := load.AddToCombination(comboNo, caseDeadLive, comboFactor); err != nil {
		return fmt.Errorf("combine case %d: %w", caseDeadLive, err)
	}
	if err := load.AddToCombination(comboNo, caseWind, comboFactor); err != nil {
		return fmt.Errorf("combine case %d: %w", caseWind, err)
	}
	return nil
}
