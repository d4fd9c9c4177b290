// Package hbridge drives a brushed DC motor through a two-input H-bridge
// (DRV8847 style). One input carries PWM while the other is held, the
// choice of input setting direction.
package hbridge

import "penarm/core"

// DefaultFrequency is the PWM frequency used by the pen lift
const DefaultFrequency = 20000

// Motor is one H-bridge channel
type Motor struct {
	pwm    core.PWMDriver
	a, b   core.PWMPin
	invert bool // outputs are active low, giving slow decay
	duty   int8
	err    error
}

// New creates a motor on pins a and b. Call Configure before use.
func New(pwm core.PWMDriver, a, b core.PWMPin, invert bool) *Motor {
	return &Motor{pwm: pwm, a: a, b: b, invert: invert}
}

// Configure sets up both pins for PWM at freqHz and stops the motor
func (m *Motor) Configure(freqHz uint32) error {
	if freqHz == 0 {
		freqHz = DefaultFrequency
	}
	period := uint32(1000000000 / freqHz)
	if _, err := m.pwm.ConfigureHardwarePWM(m.a, period); err != nil {
		return err
	}
	if _, err := m.pwm.ConfigureHardwarePWM(m.b, period); err != nil {
		return err
	}
	m.SetDuty(0)
	return m.err
}

// SetDuty implements core.DcActuator. Positive duty drives B, negative
// drives A.
func (m *Motor) SetDuty(percent int8) {
	duty := core.ClampDuty(int(percent))
	m.duty = duty

	var a, b int
	if duty > 0 {
		b = int(duty)
	} else {
		a = -int(duty)
	}
	m.err = nil
	m.write(m.a, a)
	m.write(m.b, b)
}

func (m *Motor) write(pin core.PWMPin, percent int) {
	top := m.pwm.GetMaxValue()
	value := uint32(uint64(top) * uint64(percent) / 100)
	if m.invert {
		value = top - value
	}
	if err := m.pwm.SetDutyCycle(pin, core.PWMValue(value)); err != nil && m.err == nil {
		m.err = err
	}
}

// Duty returns the last duty set
func (m *Motor) Duty() int8 {
	return m.duty
}

// Err returns the first error from the last SetDuty
func (m *Motor) Err() error {
	return m.err
}

// Disable stops PWM on both pins
func (m *Motor) Disable() error {
	m.duty = 0
	if err := m.pwm.DisablePWM(m.a); err != nil {
		return err
	}
	return m.pwm.DisablePWM(m.b)
}
