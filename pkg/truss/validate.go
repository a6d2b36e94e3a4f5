package truss

import (
	"fmt"
	"strings"
)

// MinPanels is the smallest panel count the generator accepts. Warren
// needs at least one panel for its single apex node; the form restricts
// the slider to 4–16 but the generator only enforces the hard floor.
const MinPanels = 1

// InvalidGeometryError reports malformed generation parameters. It is
// returned before any geometry is produced and before any external call
// is attempted.
type InvalidGeometryError struct {
	Problems []string
}

func (e *InvalidGeometryError) Error() string {
	return "invalid geometry: " + strings.Join(e.Problems, "; ")
}

// Validate checks the parameters and returns nil if they are usable.
func (p Params) Validate() *InvalidGeometryError {
	var problems []string
	if p.Span <= 0 {
		problems = append(problems, fmt.Sprintf("span is %.4f, must be positive", p.Span))
	}
	if p.Height <= 0 {
		problems = append(problems, fmt.Sprintf("height is %.4f, must be positive", p.Height))
	}
	if p.Panels < MinPanels {
		problems = append(problems, fmt.Sprintf("panel count is %d, must be at least %d", p.Panels, MinPanels))
	}
	if p.Topology < Pratt || p.Topology > Bowstring {
		problems = append(problems, fmt.Sprintf("unknown topology %d", int(p.Topology)))
	}
	if len(problems) == 0 {
		return nil
	}
	return &InvalidGeometryError{Problems: problems}
}
