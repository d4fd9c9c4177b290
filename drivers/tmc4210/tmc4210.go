// Package tmc4210 drives the Trinamic TMC4210 motion controller over SPI.
// The controller runs its own ramp generator; the host only writes target
// positions after configuration.
package tmc4210

import (
	"errors"
	"math"

	"tinygo.org/x/drivers"

	"penarm/core"
)

var ErrNoPulseMultiplier = errors.New("tmc4210: acceleration out of range for pulse multiplier")

// Config holds the ramp parameters
type Config struct {
	ClockHz    uint32  // controller clock, 20 MHz on the reference board
	VMin       uint32  // 11-bit
	VMax       uint32  // 11-bit
	AMax       uint32  // 11-bit
	StepLength float64 // step pulse length in clock-derived units
}

// Device is one TMC4210 on a shared SPI bus
type Device struct {
	bus drivers.SPI
	cs  core.DigitalOutput // raw pin level, low selects

	tx [4]byte
	rx [4]byte

	pDiv, rDiv float64
	lastErr    error
	failures   uint32
}

// New creates a device selected by cs. cs is driven high (idle).
func New(bus drivers.SPI, cs core.DigitalOutput) *Device {
	d := &Device{bus: bus, cs: cs}
	cs.Write(true)
	return d
}

// WriteRegister writes a 24-bit value
func (d *Device) WriteRegister(reg Register, value uint32) error {
	d.tx = [4]byte{byte(reg), byte(value >> 16), byte(value >> 8), byte(value)}
	return d.transfer()
}

// ReadRegister reads a 24-bit value
func (d *Device) ReadRegister(reg Register) (uint32, error) {
	d.tx = [4]byte{reg.readAddr(), 0, 0, 0}
	if err := d.transfer(); err != nil {
		return 0, err
	}
	return uint32(d.rx[1])<<16 | uint32(d.rx[2])<<8 | uint32(d.rx[3]), nil
}

func (d *Device) transfer() error {
	d.cs.Write(false)
	err := d.bus.Tx(d.tx[:], d.rx[:])
	d.cs.Write(true)
	return err
}

// Configure programs step timing, ramp dividers, ramp mode and velocity
// and acceleration limits
func (d *Device) Configure(cfg Config) error {
	if err := d.setStepDuration(cfg.StepLength); err != nil {
		return err
	}
	if err := d.setPulseRampDiv(cfg); err != nil {
		return err
	}
	if err := d.setRampMode(); err != nil {
		return err
	}
	return d.setMovementParams(cfg)
}

func (d *Device) setStepDuration(stepLength float64) error {
	if err := d.WriteRegister(IF_CONF, IF_CONF_EN_SD); err != nil {
		return err
	}

	duration := int(stepLength) - 1
	if duration < 0 {
		duration = 0
	}
	global, err := d.ReadRegister(GLOBAL_PARAMETERS)
	if err != nil {
		return err
	}
	global |= uint32(duration&0x0F) << 8
	return d.WriteRegister(GLOBAL_PARAMETERS, global)
}

// setPulseRampDiv picks the clock dividers so VMax and AMax are
// representable
func (d *Device) setPulseRampDiv(cfg Config) error {
	clk := float64(cfg.ClockHz)
	d.pDiv = math.Log2(clk / (float64(cfg.VMax) * 32))
	d.rDiv = math.Log2(clk * clk * 2047 / (float64(cfg.AMax) * math.Pow(2, d.pDiv+29)))

	value := (uint32(d.pDiv)&0x0F)<<4 | uint32(d.rDiv)&0x0F
	return d.WriteRegister(PDIV_RDIV, value<<8)
}

func (d *Device) setRampMode() error {
	refconf, err := d.ReadRegister(REFCONF_RM)
	if err != nil {
		return err
	}
	return d.WriteRegister(REFCONF_RM, refconf&^RAMP_MODE_MASK)
}

func (d *Device) setMovementParams(cfg Config) error {
	if err := d.WriteRegister(V_MIN, cfg.VMin&0x7FF); err != nil {
		return err
	}
	if err := d.WriteRegister(A_MAX, cfg.AMax&0x7FF); err != nil {
		return err
	}
	if err := d.WriteRegister(V_MAX, cfg.VMax&0x7FF); err != nil {
		return err
	}

	pmul, pdiv, err := PulseMultiplier(cfg.AMax, d.rDiv, d.pDiv)
	if err != nil {
		return err
	}
	return d.WriteRegister(PMUL_PDIV, uint32(pmul|PMUL_ALWAYS_SET)<<8|uint32(pdiv&0x0F))
}

// PulseMultiplier finds the PMUL/PDIV pair for aMax, choosing the largest
// divider that keeps PMUL within 128..255. PMUL is returned without bit 7.
func PulseMultiplier(aMax uint32, rDiv, pDiv float64) (uint8, uint8, error) {
	p := float64(aMax) / (128 * math.Pow(2, rDiv-pDiv)) * 0.99

	found := false
	var pm, pd uint8
	for div := 0; div < 14; div++ {
		mul := p*8*math.Pow(2, float64(div)) - 128
		if mul >= 0 && mul <= 127 {
			pm = uint8(mul) & 0x7F
			pd = uint8(div)
			found = true
		}
	}
	if !found {
		return 0, 0, ErrNoPulseMultiplier
	}
	return pm, pd, nil
}

// SetTargetPosition implements core.StepperDriver. Bus errors are kept
// for Err since the control loop has no way to act on them.
func (d *Device) SetTargetPosition(steps int32) {
	if err := d.WriteRegister(X_TARGET, uint32(steps)&DATA_MASK); err != nil {
		d.lastErr = err
		d.failures++
	}
}

// SetCurrentPosition redefines the current position, e.g. after homing
func (d *Device) SetCurrentPosition(steps int32) error {
	return d.WriteRegister(X_ACTUAL, uint32(steps)&DATA_MASK)
}

// CurrentPosition returns the actual position
func (d *Device) CurrentPosition() (int32, error) {
	v, err := d.ReadRegister(X_ACTUAL)
	if err != nil {
		return 0, err
	}
	return signExtend24(v), nil
}

// Version returns the TYPE_VERSION register
func (d *Device) Version() (uint32, error) {
	return d.ReadRegister(TYPE_VERSION)
}

// Stop sets the velocity limit to zero
func (d *Device) Stop() error {
	return d.WriteRegister(V_MAX, 0)
}

// Err returns how many SetTargetPosition writes failed and the last error
func (d *Device) Err() (uint32, error) {
	return d.failures, d.lastErr
}

// Dividers returns the pulse and ramp dividers chosen by Configure
func (d *Device) Dividers() (pDiv, rDiv uint8) {
	return uint8(d.pDiv), uint8(d.rDiv)
}

func signExtend24(v uint32) int32 {
	return int32(v<<8) >> 8
}
