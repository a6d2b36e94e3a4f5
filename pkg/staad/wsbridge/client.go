// Package wsbridge implements the staad.Client operation set over a
// WebSocket JSON protocol. The peer is a small automation bridge running
// next to STAAD.Pro that forwards each call to the OpenSTAAD API.
//
// Calls are strictly request/response and issued one at a time. No
// timeouts are applied: a hung service call blocks the caller until the
// connection drops.
package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"bridgewright/pkg/staad"
)

// Compile-time interface check.
var _ staad.Client = (*Client)(nil)

// request is one bridge call. Seq ties the response to its request.
type request struct {
	Seq    int    `json:"seq"`
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// response is the bridge's reply. A non-empty Error aborts the call.
type response struct {
	Seq    int             `json:"seq"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Client is a connected bridge session.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	seq  int
}

// Dial connects to the automation bridge. A failed dial is the distinct
// service-unavailable condition: it wraps staad.ErrUnavailable and no
// model state has been touched.
func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, &staad.UnavailableError{Addr: addr, Err: err}
	}
	return &Client{conn: conn}, nil
}

// Close shuts the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs one round trip. result, when non-nil, receives the
// decoded result payload.
func (c *Client) call(method string, result any, params ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	req := request{Seq: c.seq, Method: method, Params: params}
	if err := c.conn.WriteJSON(req); err != nil {
		return &staad.OpError{Op: method, Err: err}
	}

	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return &staad.OpError{Op: method, Err: err}
	}
	if resp.Seq != req.Seq {
		return &staad.OpError{Op: method, Err: fmt.Errorf("response seq %d for request %d", resp.Seq, req.Seq)}
	}
	if resp.Error != "" {
		return &staad.OpError{Op: method, Err: errors.New(resp.Error)}
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return &staad.OpError{Op: method, Err: fmt.Errorf("decode result: %w", err)}
		}
	}
	return nil
}

// callRef is call for methods whose result is a single integer reference.
func (c *Client) callRef(method string, params ...any) (int, error) {
	var ref int
	if err := c.call(method, &ref, params...); err != nil {
		return 0, err
	}
	return ref, nil
}

func (c *Client) SetInputUnits(length, force int) error {
	return c.call("SetInputUnits", nil, length, force)
}

func (c *Client) SaveModel(background bool) error {
	return c.call("SaveModel", nil, background)
}

func (c *Client) RunAnalysis() error {
	return c.call("Command.PerformAnalysis", nil, 0)
}

func (c *Client) Geometry() staad.GeometryAPI { return geometryAPI{c} }
func (c *Client) Property() staad.PropertyAPI { return propertyAPI{c} }
func (c *Client) Support() staad.SupportAPI   { return supportAPI{c} }
func (c *Client) Load() staad.LoadAPI         { return loadAPI{c} }

type geometryAPI struct{ c *Client }

func (g geometryAPI) CreateNode(id int, x, y, z float64) error {
	return g.c.call("Geometry.CreateNode", nil, id, x, y, z)
}

func (g geometryAPI) CreateBeam(id, nodeA, nodeB int) error {
	return g.c.call("Geometry.CreateBeam", nil, id, nodeA, nodeB)
}

type propertyAPI struct{ c *Client }

func (p propertyAPI) CreateBeamPropertyFromTable(country int, section string) (int, error) {
	return p.c.callRef("Property.CreateBeamPropertyFromTable", country, section, 0, 0.0, 0.0)
}

func (p propertyAPI) CreateAnglePropertyFromTable(country int, section string) (int, error) {
	return p.c.callRef("Property.CreateAnglePropertyFromTable", country, section, 0, 0.0)
}

func (p propertyAPI) AssignBeamProperty(beams []int, propRef int) error {
	return p.c.call("Property.AssignBeamProperty", nil, beams, propRef)
}

func (p propertyAPI) AssignMaterial(name string, beams []int) error {
	return p.c.call("Property.AssignMaterialToMember", nil, name, beams)
}

func (p propertyAPI) CreatePartialMomentRelease(end staad.ReleaseEnd, flags [3]int, factors [3]float64) (int, error) {
	return p.c.callRef("Property.CreateMemberPartialReleaseSpec", int(end), flags, factors)
}

func (p propertyAPI) AssignMemberSpec(beams []int, specRef int) error {
	return p.c.call("Property.AssignMemberSpecToBeam", nil, beams, specRef)
}

type supportAPI struct{ c *Client }

func (s supportAPI) CreateFixed() (int, error) {
	return s.c.callRef("Support.CreateSupportFixed")
}

func (s supportAPI) CreatePinned() (int, error) {
	return s.c.callRef("Support.CreateSupportPinned")
}

func (s supportAPI) CreateRoller() (int, error) {
	return s.c.callRef("Support.CreateSupportRoller")
}

func (s supportAPI) AssignToNodes(nodes []int, supportRef int) error {
	return s.c.call("Support.AssignSupportToNode", nil, nodes, supportRef)
}

type loadAPI struct{ c *Client }

func (l loadAPI) CreatePrimaryCase(title string, loadType, caseNo int) (int, error) {
	return l.c.callRef("Load.CreateNewPrimaryLoadEx2", title, loadType, caseNo)
}

func (l loadAPI) SetActiveCase(caseRef int) error {
	return l.c.call("Load.SetLoadActive", nil, caseRef)
}

func (l loadAPI) AddSelfWeight(dir staad.Direction, factor float64) error {
	return l.c.call("Load.AddSelfWeightInXYZ", nil, int(dir), factor)
}

func (l loadAPI) AddNodalLoad(nodes []int, fx, fy, fz, mx, my, mz float64) error {
	return l.c.call("Load.AddNodalLoad", nil, nodes, fx, fy, fz, mx, my, mz)
}

func (l loadAPI) AddUniformMemberLoad(beams []int, dir staad.Direction, w float64) error {
	return l.c.call("Load.AddMemberUniformForce", nil, beams, int(dir), w, 0.0, 0.0, 0.0)
}

func (l loadAPI) CreateCombination(title string, comboNo int) error {
	return l.c.call("Load.CreateNewLoadCombination", nil, title, comboNo)
}

func (l loadAPI) AddToCombination(comboNo, caseNo int, factor float64) error {
	return l.c.call("Load.AddLoadAndFactorToCombination", nil, comboNo, caseNo, factor)
}
