// Package sim provides virtual plotter hardware for running the control loop
// off target.
package sim

import "penarm/core"

// VirtualClock is a manually advanced millisecond clock
type VirtualClock struct {
	ms uint32
}

// NewVirtualClock creates a clock starting at start
func NewVirtualClock(start uint32) *VirtualClock {
	return &VirtualClock{ms: start}
}

// NowMs implements core.MonotonicClock
func (c *VirtualClock) NowMs() uint32 {
	return c.ms
}

// Advance moves time forward by ms, wrapping like hardware
func (c *VirtualClock) Advance(ms uint32) {
	c.ms += ms
}

// Set jumps to ms
func (c *VirtualClock) Set(ms uint32) {
	c.ms = ms
}

// RecordingStepper remembers every target it is given
type RecordingStepper struct {
	Name    string
	targets []int32
}

// SetTargetPosition implements core.StepperDriver
func (s *RecordingStepper) SetTargetPosition(steps int32) {
	s.targets = append(s.targets, steps)
}

// Targets returns all targets in call order
func (s *RecordingStepper) Targets() []int32 {
	return s.targets
}

// Last returns the latest target, or false if none was set
func (s *RecordingStepper) Last() (int32, bool) {
	if len(s.targets) == 0 {
		return 0, false
	}
	return s.targets[len(s.targets)-1], true
}

// Distinct returns targets with consecutive repeats removed
func (s *RecordingStepper) Distinct() []int32 {
	var out []int32
	for i, t := range s.targets {
		if i == 0 || t != s.targets[i-1] {
			out = append(out, t)
		}
	}
	return out
}

// DutyChange is one SetDuty call
type DutyChange struct {
	At   uint32
	Duty int8
}

// RecordingActuator remembers duty changes with their time
type RecordingActuator struct {
	clock   core.MonotonicClock
	duty    int8
	changes []DutyChange
}

// NewRecordingActuator creates an actuator stamping changes with clock
func NewRecordingActuator(clock core.MonotonicClock) *RecordingActuator {
	return &RecordingActuator{clock: clock}
}

// SetDuty implements core.DcActuator
func (a *RecordingActuator) SetDuty(percent int8) {
	a.duty = percent
	a.changes = append(a.changes, DutyChange{At: a.clock.NowMs(), Duty: percent})
}

// Duty returns the current duty
func (a *RecordingActuator) Duty() int8 {
	return a.duty
}

// Changes returns every SetDuty call in order
func (a *RecordingActuator) Changes() []DutyChange {
	return a.changes
}

// LatchInput is a digital input set by the test or shell
type LatchInput struct {
	level bool
}

// Read implements core.DigitalInput
func (in *LatchInput) Read() bool {
	return in.level
}

// Set drives the input level
func (in *LatchInput) Set(level bool) {
	in.level = level
}

// Indicator is a digital output that counts its transitions
type Indicator struct {
	level bool
	rises int
}

// Write implements core.DigitalOutput
func (o *Indicator) Write(level bool) {
	if level && !o.level {
		o.rises++
	}
	o.level = level
}

// On reports the current level
func (o *Indicator) On() bool {
	return o.level
}

// Rises returns how many times the output switched on
func (o *Indicator) Rises() int {
	return o.rises
}
