package core

// Capability interfaces the plotter tasks drive.
// Implementations live at the driver boundary (drivers/, host/sim) and are
// injected at startup; nothing in the control loop touches hardware directly.

// StepperDriver positions a stepper motor controller that runs its own ramp
type StepperDriver interface {
	// SetTargetPosition sets the absolute target in microsteps
	SetTargetPosition(steps int32)
}

// DcActuator drives a DC motor open-loop
type DcActuator interface {
	// SetDuty sets signed duty in percent, clamped to -100..100.
	// The sign selects direction, 0 stops the motor.
	SetDuty(percent int8)
}

// ClampDuty limits a signed duty to -100..100
func ClampDuty(percent int) int8 {
	if percent > 100 {
		return 100
	}
	if percent < -100 {
		return -100
	}
	return int8(percent)
}
