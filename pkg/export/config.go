package export

import (
	"fmt"
	"strings"

	"bridgewright/pkg/staad"
	"bridgewright/pkg/truss"
)

// Config is the full model configuration for one export: truss geometry
// parameters plus units, supports, sections and loads. It is immutable
// input to one export call and is never patched mid-run.
type Config struct {
	Truss truss.Params `json:"truss"`

	Units        string            `json:"units"`        // one of staad.UnitSystems names
	SupportLeft  staad.SupportKind `json:"supportLeft"`  // left end condition
	SupportRight staad.SupportKind `json:"supportRight"` // right end condition

	ChordSection    string `json:"chordSection"`    // AISC wide-flange for chords
	DiagonalSection string `json:"diagonalSection"` // AISC angle for diagonals/verticals

	DeadLoad   float64 `json:"deadLoad"`   // uniform on bottom chords, force/length
	LiveLoad   float64 `json:"liveLoad"`   // per interior bottom node, force
	WindLoad   float64 `json:"windLoad"`   // uniform lateral, force/length
	SelfWeight bool    `json:"selfWeight"` // include self weight in case 1
}

// Default returns the configuration the form starts with.
func Default() Config {
	return Config{
		Truss:           truss.Params{Span: 120, Height: 20, Panels: 8, Topology: truss.Pratt},
		Units:           "Feet / Kip",
		SupportLeft:     staad.SupportFixed,
		SupportRight:    staad.SupportPinned,
		ChordSection:    "W21X50",
		DiagonalSection: "L40404",
		DeadLoad:        1.2,
		LiveLoad:        20.0,
		WindLoad:        0.6,
		SelfWeight:      true,
	}
}

// InvalidConfigError reports configuration problems found before any
// external call is attempted.
type InvalidConfigError struct {
	Problems []string
}

func (e *InvalidConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the full configuration. Geometry problems are folded
// in so an export never reaches the service with bad inputs.
func (c Config) Validate() error {
	var problems []string

	if verr := c.Truss.Validate(); verr != nil {
		problems = append(problems, verr.Problems...)
	}
	if _, err := staad.UnitSystemByName(c.Units); err != nil {
		problems = append(problems, err.Error())
	}
	if !c.SupportLeft.Valid() {
		problems = append(problems, fmt.Sprintf("unknown left support %q", string(c.SupportLeft)))
	}
	if !c.SupportRight.Valid() {
		problems = append(problems, fmt.Sprintf("unknown right support %q", string(c.SupportRight)))
	}
	if !staad.ValidChordSection(c.ChordSection) {
		problems = append(problems, fmt.Sprintf("chord section %q is not in the AISC table", c.ChordSection))
	}
	if !staad.ValidDiagonalSection(c.DiagonalSection) {
		problems = append(problems, fmt.Sprintf("diagonal section %q is not in the AISC table", c.DiagonalSection))
	}

	if len(problems) == 0 {
		return nil
	}
	return &InvalidConfigError{Problems: problems}
}
