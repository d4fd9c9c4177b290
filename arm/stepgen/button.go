package stepgen

import "penarm/core"

// ButtonTask turns button presses into start signals.
// Every press edge writes true to the start cell, so the cell's version
// counts presses.
type ButtonTask struct {
	input   core.DigitalInput
	start   *core.SharedCell[bool]
	pressed bool
}

// NewButtonTask creates the button task body
func NewButtonTask(input core.DigitalInput, start *core.SharedCell[bool]) *ButtonTask {
	return &ButtonTask{input: input, start: start}
}

// Resume implements core.TaskBody
func (b *ButtonTask) Resume(now uint32) uint8 {
	level := b.input.Read()
	if level && !b.pressed {
		b.start.Put(true)
		core.DebugPrintln("[BTN] start pressed")
	}
	b.pressed = level
	return core.SF_RESCHEDULE
}
