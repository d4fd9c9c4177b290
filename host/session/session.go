// Package session runs a plot against simulated hardware on a virtual
// clock, so plot files and configurations can be checked off the board.
package session

import (
	"errors"
	"math"

	"penarm/arm"
	"penarm/arm/controller"
	"penarm/arm/hpgl"
	"penarm/core"
	"penarm/host/sim"
)

// ErrTimeout is returned when the plot has not finished in Options.TimeoutMs
var ErrTimeout = errors.New("session: plot did not finish in time")

// Options controls a simulated plot
type Options struct {
	PressMs   uint32 // how long the start button is held
	TimeoutMs uint32 // simulated time limit
}

// DefaultOptions holds the button for 10 ms and allows ten minutes
func DefaultOptions() Options {
	return Options{PressMs: 10, TimeoutMs: 10 * 60 * 1000}
}

// Sample is one published joint angle pair and where it puts the pen
type Sample struct {
	At     uint32          `yaml:"at" json:"at"`
	Down   bool            `yaml:"down" json:"down"`
	Angles arm.JointAngles `yaml:"angles" json:"angles"`
	Pos    arm.Vec         `yaml:"pos" json:"pos"`
}

// Result summarizes a simulated plot
type Result struct {
	ElapsedMs uint32           `yaml:"elapsed_ms" json:"elapsed_ms"`
	Finished  bool             `yaml:"finished" json:"finished"`
	Stats     hpgl.Stats       `yaml:"stats" json:"stats"`
	Joint1    []int32          `yaml:"joint1" json:"joint1"` // distinct stepper targets in order
	Joint2    []int32          `yaml:"joint2" json:"joint2"`
	Pen       []sim.DutyChange `yaml:"pen" json:"pen"`
	Path      []Sample         `yaml:"path" json:"path"`
	Report    []string         `yaml:"report" json:"report"`
}

// Simulate presses start once and runs one scheduler pass per simulated
// millisecond until the plot ends or the time limit passes
func Simulate(cfg *arm.PlotterConfig, plot []byte, opts Options) (*Result, error) {
	if opts.PressMs == 0 {
		opts.PressMs = DefaultOptions().PressMs
	}
	if opts.TimeoutMs == 0 {
		opts.TimeoutMs = DefaultOptions().TimeoutMs
	}

	clock := sim.NewVirtualClock(0)
	joint1 := &sim.RecordingStepper{Name: "joint1"}
	joint2 := &sim.RecordingStepper{Name: "joint2"}
	pen := sim.NewRecordingActuator(clock)
	button := &sim.LatchInput{}

	mgr, err := controller.NewManagerWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	err = mgr.Initialize(controller.Hardware{
		Joint1: joint1,
		Joint2: joint2,
		Pen:    pen,
		Button: button,
		Status: &sim.Indicator{},
		Audio:  &sim.Indicator{},
	}, core.NewBytesSource(plot), clock)
	if err != nil {
		return nil, err
	}

	shares := mgr.Shares()
	solver := mgr.Solver()
	it := mgr.Interpreter()
	res := &Result{}
	seen := shares.Theta2.Version()

	button.Set(true)
	for elapsed := uint32(0); elapsed < opts.TimeoutMs; elapsed++ {
		if elapsed == opts.PressMs {
			button.Set(false)
		}

		mgr.RunOnce()
		if v := shares.Theta2.Version(); v != seen {
			seen = v
			angles := shares.Angles()
			res.Path = append(res.Path, Sample{
				At:     clock.NowMs(),
				Down:   shares.Pen.Get() == arm.PenDown,
				Angles: angles,
				Pos:    solver.Forward(angles),
			})
		}
		clock.Advance(1)

		if it.Stats().Plots > 0 && it.State() == arm.StateIdle {
			res.Finished = true
			break
		}
	}

	res.ElapsedMs = clock.NowMs()
	res.Stats = it.Stats()
	res.Joint1 = joint1.Distinct()
	res.Joint2 = joint2.Distinct()
	res.Pen = pen.Changes()
	res.Report = mgr.Report()

	if !res.Finished {
		return res, ErrTimeout
	}
	return res, nil
}

// Bounds returns the extent of the pen-down path
func (r *Result) Bounds() (lo, hi arm.Vec, ok bool) {
	for _, s := range r.Path {
		if !s.Down {
			continue
		}
		if !ok {
			lo, hi, ok = s.Pos, s.Pos, true
			continue
		}
		lo.X = math.Min(lo.X, s.Pos.X)
		lo.Y = math.Min(lo.Y, s.Pos.Y)
		hi.X = math.Max(hi.X, s.Pos.X)
		hi.Y = math.Max(hi.Y, s.Pos.Y)
	}
	return lo, hi, ok
}
