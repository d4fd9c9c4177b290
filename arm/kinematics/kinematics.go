package kinematics

import (
	"errors"

	"penarm/arm"
)

// Solver maps drawing-surface positions to joint angles and back
type Solver interface {
	// Solve returns joint angles placing the pen at target.
	// Failures wrap ErrUnreachable.
	Solve(target arm.Vec) (arm.JointAngles, error)

	// Forward returns the pen position for the given joint angles
	Forward(angles arm.JointAngles) arm.Vec
}

// ErrUnreachable reports a target the solver could not place the pen on
var ErrUnreachable = errors.New("target unreachable")

// FailReason classifies a failed solve
type FailReason uint8

const (
	OutsideWorkspace FailReason = iota // outside the reachable annulus
	SingularJacobian                   // arm stretched or folded flat
	Diverged                           // iteration produced NaN or Inf
	NoConvergence                      // iteration bound hit or no step shrinks the residual
)

func (r FailReason) String() string {
	switch r {
	case OutsideWorkspace:
		return "outside workspace"
	case SingularJacobian:
		return "singular jacobian"
	case Diverged:
		return "diverged"
	case NoConvergence:
		return "no convergence"
	default:
		return "unknown"
	}
}

// SolveError describes why a target could not be solved
type SolveError struct {
	Target     arm.Vec
	Reason     FailReason
	Iterations int
}

func (e *SolveError) Error() string {
	return "kinematics: " + ErrUnreachable.Error() + ": " + e.Reason.String()
}

// Unwrap lets errors.Is match ErrUnreachable
func (e *SolveError) Unwrap() error {
	return ErrUnreachable
}
