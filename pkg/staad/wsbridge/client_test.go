package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"bridgewright/pkg/staad"
)

// bridgeStub is an in-process stand-in for the STAAD automation bridge.
// It records every method it receives and answers from a canned table.
type bridgeStub struct {
	t        *testing.T
	received []request
	results  map[string]any // method -> result payload
	failOn   string         // method that should answer with an error
}

func (b *bridgeStub) handler() http.HandlerFunc {
	upgrader := websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			var req request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			b.received = append(b.received, req)

			resp := response{Seq: req.Seq}
			if req.Method == b.failOn {
				resp.Error = "table entry not found"
			} else if res, ok := b.results[req.Method]; ok {
				raw, _ := json.Marshal(res)
				resp.Result = raw
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}
}

func startStub(t *testing.T, stub *bridgeStub) (*Client, func()) {
	t.Helper()
	stub.t = t
	srv := httptest.NewServer(stub.handler())
	addr := "ws" + strings.TrimPrefix(srv.URL, "http")

	c, err := Dial(context.Background(), addr)
	if err != nil {
		srv.Close()
		t.Fatalf("Dial(%s): %v", addr, err)
	}
	return c, func() {
		c.Close()
		srv.Close()
	}
}

func TestDialFailureIsUnavailable(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/")
	if err == nil {
		t.Fatal("expected dial failure")
	}
	if !errors.Is(err, staad.ErrUnavailable) {
		t.Errorf("dial error should wrap ErrUnavailable, got %v", err)
	}
	var ue *staad.UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T, want *staad.UnavailableError", err)
	}
	if ue.Addr == "" {
		t.Error("UnavailableError should carry the address")
	}
}

func TestRoundTrip(t *testing.T) {
	stub := &bridgeStub{results: map[string]any{
		"Property.CreateBeamPropertyFromTable": 7,
	}}
	c, done := startStub(t, stub)
	defer done()

	if err := c.Geometry().CreateNode(1, 0, 0, 0); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if err := c.Geometry().CreateBeam(1, 1, 2); err != nil {
		t.Fatalf("CreateBeam: %v", err)
	}
	ref, err := c.Property().CreateBeamPropertyFromTable(staad.AISC, "W21X50")
	if err != nil {
		t.Fatalf("CreateBeamPropertyFromTable: %v", err)
	}
	if ref != 7 {
		t.Errorf("property ref = %d, want 7", ref)
	}

	wantMethods := []string{
		"Geometry.CreateNode",
		"Geometry.CreateBeam",
		"Property.CreateBeamPropertyFromTable",
	}
	if len(stub.received) != len(wantMethods) {
		t.Fatalf("bridge saw %d calls, want %d", len(stub.received), len(wantMethods))
	}
	for i, want := range wantMethods {
		if stub.received[i].Method != want {
			t.Errorf("call %d = %q, want %q", i, stub.received[i].Method, want)
		}
	}

	// Sequence numbers are strictly increasing.
	for i := 1; i < len(stub.received); i++ {
		if stub.received[i].Seq <= stub.received[i-1].Seq {
			t.Errorf("seq not increasing: %d after %d", stub.received[i].Seq, stub.received[i-1].Seq)
		}
	}
}

func TestBridgeErrorBecomesOpError(t *testing.T) {
	stub := &bridgeStub{failOn: "Property.CreateAnglePropertyFromTable"}
	c, done := startStub(t, stub)
	defer done()

	_, err := c.Property().CreateAnglePropertyFromTable(staad.AISC, "L99999")
	if err == nil {
		t.Fatal("expected failure")
	}
	var oe *staad.OpError
	if !errors.As(err, &oe) {
		t.Fatalf("error type = %T, want *staad.OpError", err)
	}
	if oe.Op != "Property.CreateAnglePropertyFromTable" {
		t.Errorf("OpError.Op = %q", oe.Op)
	}
	if !strings.Contains(oe.Error(), "table entry not found") {
		t.Errorf("OpError should carry the bridge message, got %q", oe.Error())
	}
	if errors.Is(err, staad.ErrUnavailable) {
		t.Error("an operation failure is not the unavailable condition")
	}
}
