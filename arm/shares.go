package arm

import "penarm/core"

// SerialQueueSize is the capacity of the streamed plot file buffer
const SerialQueueSize = 512

// Shares holds every cell and queue the plotter tasks communicate through.
// It is built once at startup and handed to each task; each cell has exactly
// one writer.
type Shares struct {
	Start  *core.SharedCell[bool]       // written by the button task
	Pen    *core.SharedCell[PenCommand] // written by the interpreter
	Theta1 *core.SharedCell[float64]    // written by the interpreter
	Theta2 *core.SharedCell[float64]    // written by the interpreter

	// Serial carries a streamed plot file from the UART reader
	Serial *core.BoundedQueue[byte]
}

// NewShares allocates the plotter's shared state
func NewShares() *Shares {
	return &Shares{
		Start:  core.NewSharedCell[bool]("start"),
		Pen:    core.NewSharedCell[PenCommand]("pen"),
		Theta1: core.NewSharedCell[float64]("theta1"),
		Theta2: core.NewSharedCell[float64]("theta2"),
		Serial: core.NewProtectedQueue[byte]("serial", SerialQueueSize, core.RejectOnFull),
	}
}

// Angles returns the latest published joint angles
func (s *Shares) Angles() JointAngles {
	return JointAngles{Theta1: s.Theta1.Get(), Theta2: s.Theta2.Get()}
}
