// Package staad defines the abstract operation set of the external
// structural-modeling service (STAAD.Pro through its automation bridge).
// Implementations provide transport behind these interfaces; the exporter
// depends only on this operation set being available once connected.
package staad

// ReleaseEnd selects which end of a member a release spec applies to.
type ReleaseEnd int

const (
	ReleaseAtStart ReleaseEnd = 0
	ReleaseAtEnd   ReleaseEnd = 1
)

// Direction codes for load application, matching the service's global
// direction numbering.
type Direction int

const (
	DirGlobalY Direction = 2 // gravity direction for uniform/self-weight loads
	DirLateral Direction = 4 // lateral (wind) direction
)

// AISC is the section table country code used for both chord and angle
// property lookups.
const AISC = 1

// Client is a connected modeling service session. Handles are grouped the
// way the service groups them; all calls are synchronous and issued one
// at a time.
type Client interface {
	SetInputUnits(length, force int) error
	SaveModel(background bool) error
	RunAnalysis() error
	Close() error

	Geometry() GeometryAPI
	Property() PropertyAPI
	Support() SupportAPI
	Load() LoadAPI
}

// GeometryAPI creates nodes and members by explicit id.
type GeometryAPI interface {
	CreateNode(id int, x, y, z float64) error
	CreateBeam(id, nodeA, nodeB int) error
}

// PropertyAPI creates section properties from named table entries and
// assigns properties, materials and member specs to member-id groups.
type PropertyAPI interface {
	CreateBeamPropertyFromTable(country int, section string) (int, error)
	CreateAnglePropertyFromTable(country int, section string) (int, error)
	AssignBeamProperty(beams []int, propRef int) error
	AssignMaterial(name string, beams []int) error

	// CreatePartialMomentRelease creates a member release spec for one
	// end. flags selects the rotational DOFs to soften and factors gives
	// the released fraction per DOF.
	CreatePartialMomentRelease(end ReleaseEnd, flags [3]int, factors [3]float64) (int, error)
	AssignMemberSpec(beams []int, specRef int) error
}

// SupportAPI creates support definitions and assigns them by node id.
type SupportAPI interface {
	CreateFixed() (int, error)
	CreatePinned() (int, error)
	CreateRoller() (int, error)
	AssignToNodes(nodes []int, supportRef int) error
}

// LoadAPI creates and populates primary load cases and combinations.
type LoadAPI interface {
	CreatePrimaryCase(title string, loadType, caseNo int) (int, error)
	SetActiveCase(caseRef int) error
	AddSelfWeight(dir Direction, factor float64) error
	AddNodalLoad(nodes []int, fx, fy, fz, mx, my, mz float64) error
	AddUniformMemberLoad(beams []int, dir Direction, w float64) error
	CreateCombination(title string, comboNo int) error
	AddToCombination(comboNo, caseNo int, factor float64) error
}
