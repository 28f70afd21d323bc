// pkg/engine/errors.go
package engine

import (
	"errors"
	"fmt"

	"github.com/Aminion/ksp2d/pkg/entity"
)

var (
	// ErrNoCelestialBody is returned by the tracker when the system has no
	// star or planet to track. It is recoverable: landing is skipped for the tick.
	ErrNoCelestialBody = errors.New("no celestial body to track")
	// ErrHalted is returned by Step once a numerical failure has stopped the simulation
	ErrHalted = errors.New("simulation halted")
	// ErrInvalidTimeStep is returned for negative or non-finite time steps
	ErrInvalidTimeStep = errors.New("invalid time step")
)

// NumericalError reports a failure of the gravity integrator. It is fatal for the run.
type NumericalError struct {
	Tick    uint64
	BodyID  entity.ID
	OtherID entity.ID // zero when the failure involves a single body
	Reason  string
	Err     error
}

func (e *NumericalError) Error() string {
	if e.OtherID != 0 {
		return fmt.Sprintf("tick %d: body %d and body %d: %s: %v", e.Tick, e.BodyID, e.OtherID, e.Reason, e.Err)
	}
	return fmt.Sprintf("tick %d: body %d: %s: %v", e.Tick, e.BodyID, e.Reason, e.Err)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}
