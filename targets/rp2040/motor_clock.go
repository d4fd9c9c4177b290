//go:build rp2040

package main

// The TMC4210s have no oscillator of their own; a PIO state machine
// generates their clock as a square wave so no PWM slice is consumed.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

const (
	motorClockSM     = 0
	motorClockOrigin = 0
)

// buildClockProgram toggles the set pin every cycle: one period per two
// instructions
func buildClockProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 0: set pins, 1
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 1: set pins, 0
		// .wrap
	}
}

// StartMotorClock outputs freqHz on pin from PIO0.
// The fractional divider gives the average frequency exactly, with one
// system-clock cycle of jitter.
func StartMotorClock(pin machine.Pin, freqHz uint32) error {
	pio := rp2pio.PIO0
	sm := pio.StateMachine(motorClockSM)
	sm.TryClaim()

	program := buildClockProgram()
	offset, err := pio.AddProgram(program, motorClockOrigin)
	if err != nil {
		return err
	}

	pin.Configure(machine.PinConfig{Mode: pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(pin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// 2 PIO cycles per output period, divider in 8.8 fixed point
	div := uint64(machine.CPUFrequency()) * 256 / (2 * uint64(freqHz))
	cfg.SetClkDivIntFrac(uint16(div>>8), uint8(div))

	sm.Init(offset, cfg)
	sm.SetPindirsConsecutive(pin, 1, true)
	sm.SetEnabled(true)
	return nil
}
