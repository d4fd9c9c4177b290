package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the platform GPIO backend.
// Targets register theirs with SetGPIODriver during startup.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as an input with pull-up
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as an input with pull-down
	ConfigureInputPullDown(pin GPIOPin) error

	SetPin(pin GPIOPin, value bool) error
	ReadPin(pin GPIOPin) bool
}

// Global singleton used by target startup code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}

// DigitalInput reads one logic level, e.g. the start button
type DigitalInput interface {
	Read() bool
}

// DigitalOutput drives one logic level, e.g. a status LED
type DigitalOutput interface {
	Write(level bool)
}

// GPIOInput adapts a driver pin to DigitalInput
type GPIOInput struct {
	driver    GPIODriver
	pin       GPIOPin
	activeLow bool
}

// NewGPIOInput configures pin as an input. Active-low inputs get a pull-up
// and read true when the pin is grounded.
func NewGPIOInput(d GPIODriver, pin GPIOPin, activeLow bool) (*GPIOInput, error) {
	var err error
	if activeLow {
		err = d.ConfigureInputPullUp(pin)
	} else {
		err = d.ConfigureInputPullDown(pin)
	}
	if err != nil {
		return nil, err
	}
	return &GPIOInput{driver: d, pin: pin, activeLow: activeLow}, nil
}

// Read implements DigitalInput
func (in *GPIOInput) Read() bool {
	return in.driver.ReadPin(in.pin) != in.activeLow
}

// GPIOOutput adapts a driver pin to DigitalOutput
type GPIOOutput struct {
	driver GPIODriver
	pin    GPIOPin
	invert bool
}

// NewGPIOOutput configures pin as an output driven to its inactive level
func NewGPIOOutput(d GPIODriver, pin GPIOPin, invert bool) (*GPIOOutput, error) {
	if err := d.ConfigureOutput(pin); err != nil {
		return nil, err
	}
	out := &GPIOOutput{driver: d, pin: pin, invert: invert}
	out.Write(false)
	return out, nil
}

// Write implements DigitalOutput
func (out *GPIOOutput) Write(level bool) {
	out.driver.SetPin(out.pin, level != out.invert)
}
