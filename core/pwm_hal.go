package core

// PWMPin identifies a hardware pin capable of PWM output
type PWMPin uint32

// PWMValue is the duty cycle value (0 to GetMaxValue)
type PWMValue uint32

// PWMDriver is the platform PWM backend used by the H-bridge adapter
type PWMDriver interface {
	// ConfigureHardwarePWM configures a pin for hardware PWM output.
	// periodNs is the PWM period; the actual period may be rounded by the
	// hardware and is returned.
	ConfigureHardwarePWM(pin PWMPin, periodNs uint32) (uint32, error)

	// SetDutyCycle sets the duty for a pin, 0 (off) to GetMaxValue (on)
	SetDutyCycle(pin PWMPin, value PWMValue) error

	// GetMaxValue returns the counter top
	GetMaxValue() uint32

	// DisablePWM returns the pin to a low output
	DisablePWM(pin PWMPin) error
}

// Global singleton used by target startup code.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
