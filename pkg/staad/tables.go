package staad

import "fmt"

// ChordSections are the AISC wide-flange shapes offered for top and
// bottom chords.
var ChordSections = []string{"W21X50", "W18X35", "W16X31", "W14X26", "W24X55", "W18X46"}

// DiagonalSections are the AISC angle shapes offered for diagonals and
// verticals.
var DiagonalSections = []string{"L40404", "L50505", "L60606", "L30303", "L35353", "L45454"}

// UnitSystem is a named length/force unit pair with the service's input
// unit codes.
type UnitSystem struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	Force  int    `json:"force"`
}

// UnitSystems lists the selectable unit pairs in UI order.
var UnitSystems = []UnitSystem{
	{Name: "Feet / Kip", Length: 1, Force: 0},
	{Name: "Meter / kN", Length: 5, Force: 4},
	{Name: "Inches / Kip", Length: 0, Force: 0},
}

// UnitSystemByName resolves a unit system by its display name.
func UnitSystemByName(name string) (UnitSystem, error) {
	for _, u := range UnitSystems {
		if u.Name == name {
			return u, nil
		}
	}
	return UnitSystem{}, fmt.Errorf("unknown unit system %q", name)
}

// SupportKind enumerates the support conditions assignable to an end
// node. Left and right ends are configured independently.
type SupportKind string

const (
	SupportFixed  SupportKind = "Fixed"
	SupportPinned SupportKind = "Pinned"
	SupportRoller SupportKind = "Roller"
)

// SupportKinds lists the selectable support conditions.
var SupportKinds = []SupportKind{SupportFixed, SupportPinned, SupportRoller}

// Valid reports whether k is a known support kind.
func (k SupportKind) Valid() bool {
	switch k {
	case SupportFixed, SupportPinned, SupportRoller:
		return true
	}
	return false
}

// Create creates the matching support definition through the service and
// returns its reference.
func (k SupportKind) Create(sup SupportAPI) (int, error) {
	switch k {
	case SupportFixed:
		return sup.CreateFixed()
	case SupportPinned:
		return sup.CreatePinned()
	case SupportRoller:
		return sup.CreateRoller()
	}
	return 0, fmt.Errorf("unknown support kind %q", string(k))
}

// contains reports whether list has the given entry.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ValidChordSection reports whether s is in the chord section table.
func ValidChordSection(s string) bool { return contains(ChordSections, s) }

// ValidDiagonalSection reports whether s is in the angle section table.
func ValidDiagonalSection(s string) bool { return contains(DiagonalSections, s) }
