//go:build rp2040

package main

import (
	"errors"
	"machine"

	"penarm/core"
)

// PWM_MAX is the duty resolution exposed to drivers
const PWM_MAX = 1000

var errPWMNotConfigured = errors.New("pwm: pin not configured")

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// RP2040PWMDriver implements core.PWMDriver on the 8 PWM slices.
// Both channels of a slice share one period.
type RP2040PWMDriver struct {
	slices   map[uint8]uint64 // slice -> period ns
	channels map[uint32]uint8 // pin -> channel
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		slices:   make(map[uint8]uint64),
		channels: make(map[uint32]uint8),
	}
}

// GetMaxValue returns PWM_MAX
func (d *RP2040PWMDriver) GetMaxValue() uint32 {
	return PWM_MAX
}

// ConfigureHardwarePWM configures a pin for hardware PWM output
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, periodNs uint32) (uint32, error) {
	pinNum := uint32(pin)
	// even pins are channel A, odd pins channel B
	sliceNum := sliceOf(pinNum)
	pwm := pwmSlices[sliceNum]

	// The second channel of a configured slice keeps the slice period
	period, configured := d.slices[sliceNum]
	if !configured {
		period = uint64(periodNs)
		if err := pwm.Configure(machine.PWMConfig{Period: period}); err != nil {
			return 0, err
		}
		d.slices[sliceNum] = period
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return 0, err
	}
	d.channels[pinNum] = channel
	return uint32(period), nil
}

// SetDutyCycle sets the duty for a pin, 0 to PWM_MAX
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	pinNum := uint32(pin)
	channel, exists := d.channels[pinNum]
	if !exists {
		return errPWMNotConfigured
	}
	pwm := pwmSlices[sliceOf(pinNum)]

	if value > PWM_MAX {
		value = PWM_MAX
	}
	top := pwm.Top()
	pwm.Set(channel, uint32(uint64(value)*uint64(top)/PWM_MAX))
	return nil
}

// DisablePWM drives the pin low and forgets it.
// TinyGo has no way to return a PWM pin to GPIO mode.
func (d *RP2040PWMDriver) DisablePWM(pin core.PWMPin) error {
	pinNum := uint32(pin)
	if channel, exists := d.channels[pinNum]; exists {
		pwmSlices[sliceOf(pinNum)].Set(channel, 0)
	}
	delete(d.channels, pinNum)
	return nil
}

// pwmSlices indexes TinyGo's PWM groups by slice number
var pwmSlices = [8]pwmPeripheral{
	machine.PWM0, machine.PWM1, machine.PWM2, machine.PWM3,
	machine.PWM4, machine.PWM5, machine.PWM6, machine.PWM7,
}

func sliceOf(pin uint32) uint8 {
	return uint8((pin >> 1) & 0x7)
}
