package arm

// Point is a position in raw HPGL plotter units
type Point struct {
	X int64
	Y int64
}

// Vec is a position on the drawing surface in inches, relative to the
// shoulder joint
type Vec struct {
	X float64
	Y float64
}

// JointAngles are the two joint rotations in radians.
// Theta2 is measured with the forearm pointing back along the upper arm at
// zero, i.e. the forearm direction is Theta2+π.
type JointAngles struct {
	Theta1 float64
	Theta2 float64
}

// PenCommand is the requested pen-lift position
type PenCommand uint8

const (
	PenUp PenCommand = iota
	PenDown
)

func (p PenCommand) String() string {
	if p == PenDown {
		return "down"
	}
	return "up"
}

// PlotterState is the interpreter's position in a plot session
type PlotterState uint8

const (
	StateIdle          PlotterState = iota // waiting for a start signal
	StateReading                           // assembling the next instruction
	StateInitializing                      // IN received
	StatePenTransition                     // waiting for the pen to settle
	StatePointStream                       // publishing interpolated points
)

func (s PlotterState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateInitializing:
		return "initializing"
	case StatePenTransition:
		return "pen-transition"
	case StatePointStream:
		return "point-stream"
	default:
		return "unknown"
	}
}

// LinkConfig holds the arm geometry in inches
type LinkConfig struct {
	L1 float64 `json:"l1" yaml:"l1"` // shoulder to elbow
	L3 float64 `json:"l3" yaml:"l3"` // elbow to pen
}

// SolverConfig tunes the inverse-kinematics iteration
type SolverConfig struct {
	Epsilon         float64    `json:"epsilon" yaml:"epsilon"`                   // residual norm accepted as converged
	MaxIterations   int        `json:"max_iterations" yaml:"max_iterations"`     // iteration bound
	SingularEpsilon float64    `json:"singular_epsilon" yaml:"singular_epsilon"` // smallest usable |det J|
	InitialGuess    [2]float64 `json:"initial_guess" yaml:"initial_guess"`       // selects the elbow branch
}

// DrawingConfig maps raw HPGL units onto the drawing surface
type DrawingConfig struct {
	Width    float64 `json:"width" yaml:"width"`         // inches covered by MaxHPGL in X
	Height   float64 `json:"height" yaml:"height"`       // inches covered by MaxHPGL in Y
	OriginX  float64 `json:"origin_x" yaml:"origin_x"`   // drawing origin relative to the shoulder
	OriginY  float64 `json:"origin_y" yaml:"origin_y"`
	MaxHPGL  float64 `json:"max_hpgl" yaml:"max_hpgl"`   // largest coordinate in a plot file
	StepSize int64   `json:"step_size" yaml:"step_size"` // interpolation spacing in HPGL units
}

// JointConfig converts a joint angle to a stepper target
type JointConfig struct {
	FullRotation float64 `json:"full_rotation" yaml:"full_rotation"` // motor steps per joint revolution
	Offset       float64 `json:"offset" yaml:"offset"`               // steps added before the ratio
	Ratio        float64 `json:"ratio" yaml:"ratio"`                 // gear ratio, sign sets direction
}

// PenConfig times the open-loop pen lift
type PenConfig struct {
	Duty     int    `json:"duty" yaml:"duty"`           // percent, applied negative for up
	DriveMs  uint32 `json:"drive_ms" yaml:"drive_ms"`   // actuator on-time per transition
	SettleMs uint32 `json:"settle_ms" yaml:"settle_ms"` // interpreter wait after a pen command
}

// TaskConfig sets scheduling of the plotter tasks
type TaskConfig struct {
	InterpreterPriority uint8  `json:"interpreter_priority" yaml:"interpreter_priority"`
	InterpreterPeriod   uint32 `json:"interpreter_period" yaml:"interpreter_period"`
	MotorPriority       uint8  `json:"motor_priority" yaml:"motor_priority"`
	MotorPeriod         uint32 `json:"motor_period" yaml:"motor_period"`
	PointsPerResume     int    `json:"points_per_resume" yaml:"points_per_resume"`
}

// StepperConfig holds motion controller ramp settings
type StepperConfig struct {
	VMin       uint32  `json:"v_min" yaml:"v_min"`
	VMax       uint32  `json:"v_max" yaml:"v_max"`
	AMax       uint32  `json:"a_max" yaml:"a_max"`
	StepLength float64 `json:"step_length" yaml:"step_length"` // step pulse length in µs
}

// PinConfig names the board pins used by the firmware
type PinConfig struct {
	Button      uint32 `json:"button" yaml:"button"`
	ButtonLow   bool   `json:"button_active_low" yaml:"button_active_low"`
	StatusLED   uint32 `json:"status_led" yaml:"status_led"`
	Audio       uint32 `json:"audio" yaml:"audio"`
	PenA        uint32 `json:"pen_a" yaml:"pen_a"`
	PenB        uint32 `json:"pen_b" yaml:"pen_b"`
	ChipSelect1 uint32 `json:"cs1" yaml:"cs1"`
	ChipSelect2 uint32 `json:"cs2" yaml:"cs2"`
	MotorClock  uint32 `json:"motor_clock" yaml:"motor_clock"`
}

// PlotterConfig is the complete plotter configuration
type PlotterConfig struct {
	Links    LinkConfig       `json:"links" yaml:"links"`
	Solver   SolverConfig     `json:"solver" yaml:"solver"`
	Drawing  DrawingConfig    `json:"drawing" yaml:"drawing"`
	Joints   [2]JointConfig   `json:"joints" yaml:"joints"`
	Pen      PenConfig        `json:"pen" yaml:"pen"`
	Tasks    TaskConfig       `json:"tasks" yaml:"tasks"`
	Steppers [2]StepperConfig `json:"steppers" yaml:"steppers"`
	Pins     PinConfig        `json:"pins" yaml:"pins"`
}
