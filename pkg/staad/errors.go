package staad

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks connection-level failures: the modeling service
// cannot be reached at all. It is distinct from a failure raised by an
// individual modeling call, which the exporter reports as the call that
// failed.
var ErrUnavailable = errors.New("modeling service unavailable")

// UnavailableError wraps ErrUnavailable with the address that was tried.
type UnavailableError struct {
	Addr string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("modeling service unavailable at %s: %v", e.Addr, e.Err)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// OpError reports a failure raised by one modeling call. Prior calls have
// already been applied in the service; there is no rollback.
type OpError struct {
	Op  string // service method name, e.g. "Geometry.CreateBeam"
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
