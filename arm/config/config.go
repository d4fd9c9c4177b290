package config

import (
	"encoding/json"
	"errors"
	"math"

	"penarm/arm"
)

var (
	ErrBadLinks    = errors.New("config: link lengths must be positive")
	ErrBadSolver   = errors.New("config: solver epsilon and iteration bound must be positive")
	ErrBadDrawing  = errors.New("config: drawing size, max_hpgl and step_size must be positive")
	ErrBadJoint    = errors.New("config: joint full_rotation and ratio must be non-zero")
	ErrBadPen      = errors.New("config: pen duty must be within 1..100")
	ErrOutOfReach  = errors.New("config: drawing area extends beyond the arm's reach")
	ErrBadSchedule = errors.New("config: motor period must be shorter than the pen drive time")
)

// LoadConfig parses a JSON configuration. Fields missing from the document
// keep their default values.
func LoadConfig(jsonData []byte) (*arm.PlotterConfig, error) {
	config := DefaultPlotterConfig()

	err := json.Unmarshal(jsonData, config)
	if err != nil {
		return nil, err
	}

	applyDefaults(config)

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults replaces values that are unusable at zero
func applyDefaults(config *arm.PlotterConfig) {
	def := DefaultPlotterConfig()

	if config.Solver.MaxIterations == 0 {
		config.Solver.MaxIterations = def.Solver.MaxIterations
	}
	if config.Solver.Epsilon == 0 {
		config.Solver.Epsilon = def.Solver.Epsilon
	}
	if config.Solver.SingularEpsilon == 0 {
		config.Solver.SingularEpsilon = def.Solver.SingularEpsilon
	}
	if config.Drawing.StepSize == 0 {
		config.Drawing.StepSize = def.Drawing.StepSize
	}
	if config.Drawing.MaxHPGL == 0 {
		config.Drawing.MaxHPGL = def.Drawing.MaxHPGL
	}
	if config.Tasks.PointsPerResume == 0 {
		config.Tasks.PointsPerResume = 1
	}

	for i := range config.Joints {
		if config.Joints[i].FullRotation == 0 {
			config.Joints[i].FullRotation = def.Joints[i].FullRotation
		}
		if config.Joints[i].Ratio == 0 {
			config.Joints[i].Ratio = def.Joints[i].Ratio
		}
	}
}

// Validate checks that the configuration describes a workable plotter
func Validate(config *arm.PlotterConfig) error {
	if config.Links.L1 <= 0 || config.Links.L3 <= 0 {
		return ErrBadLinks
	}
	if config.Solver.Epsilon <= 0 || config.Solver.MaxIterations <= 0 {
		return ErrBadSolver
	}

	d := config.Drawing
	if d.Width <= 0 || d.Height <= 0 || d.MaxHPGL <= 0 || d.StepSize <= 0 {
		return ErrBadDrawing
	}

	for _, j := range config.Joints {
		if j.FullRotation == 0 || j.Ratio == 0 {
			return ErrBadJoint
		}
	}

	if config.Pen.Duty < 1 || config.Pen.Duty > 100 {
		return ErrBadPen
	}
	if config.Tasks.MotorPeriod >= config.Pen.DriveMs {
		return ErrBadSchedule
	}

	// every corner of the drawing area must lie inside the reachable annulus
	outer := config.Links.L1 + config.Links.L3
	inner := math.Abs(config.Links.L1 - config.Links.L3)
	for _, corner := range [4][2]float64{
		{d.OriginX, d.OriginY},
		{d.OriginX + d.Width, d.OriginY},
		{d.OriginX, d.OriginY + d.Height},
		{d.OriginX + d.Width, d.OriginY + d.Height},
	} {
		r := math.Hypot(corner[0], corner[1])
		if r > outer || r < inner {
			return ErrOutOfReach
		}
	}
	return nil
}

// DefaultPlotterConfig returns the configuration of the reference arm:
// 4in and 6in links over an 82×80 mm drawing area
func DefaultPlotterConfig() *arm.PlotterConfig {
	return &arm.PlotterConfig{
		Links: arm.LinkConfig{L1: 4, L3: 6},
		Solver: arm.SolverConfig{
			Epsilon:         1e-3,
			MaxIterations:   50,
			SingularEpsilon: 1e-9,
			InitialGuess:    [2]float64{math.Pi / 2, 0},
		},
		Drawing: arm.DrawingConfig{
			Width:    82 / 25.4,
			Height:   80 / 25.4,
			OriginX:  -6,
			OriginY:  4,
			MaxHPGL:  2039,
			StepSize: 10,
		},
		Joints: [2]arm.JointConfig{
			{FullRotation: 390, Offset: 52.5, Ratio: 1.5},
			{FullRotation: 390, Offset: 0, Ratio: -1.5},
		},
		Pen: arm.PenConfig{
			Duty:     80,
			DriveMs:  1000,
			SettleMs: 1500,
		},
		Tasks: arm.TaskConfig{
			InterpreterPriority: 0,
			InterpreterPeriod:   100,
			MotorPriority:       1,
			MotorPeriod:         5,
			PointsPerResume:     1,
		},
		Steppers: [2]arm.StepperConfig{
			{VMin: 50, VMax: 300, AMax: 1000, StepLength: 1.6},
			{VMin: 50, VMax: 300, AMax: 1000, StepLength: 1.6},
		},
		Pins: arm.PinConfig{
			Button:      14,
			ButtonLow:   true,
			StatusLED:   25,
			Audio:       22,
			PenA:        6,
			PenB:        7,
			ChipSelect1: 17,
			ChipSelect2: 13,
			MotorClock:  21,
		},
	}
}
