package stepgen

import (
	"penarm/arm"
	"penarm/core"
)

// PenLiftTask drives the pen actuator open-loop.
// A changed command runs the motor at a fixed duty until the drive time
// has elapsed, then stops it. Commands arriving while the motor runs are
// picked up once it has stopped.
type PenLiftTask struct {
	config   arm.PenConfig
	command  *core.SharedCell[arm.PenCommand]
	actuator core.DcActuator

	prev     arm.PenCommand
	driving  bool
	deadline uint32
	moves    uint32
}

// NewPenLiftTask creates the pen task body. The pen is assumed up at startup.
func NewPenLiftTask(config arm.PenConfig, command *core.SharedCell[arm.PenCommand], actuator core.DcActuator) *PenLiftTask {
	return &PenLiftTask{
		config:   config,
		command:  command,
		actuator: actuator,
		prev:     arm.PenUp,
	}
}

// Resume implements core.TaskBody
func (p *PenLiftTask) Resume(now uint32) uint8 {
	if p.driving {
		if !core.Reached(now, p.deadline) {
			return core.SF_RESCHEDULE
		}
		p.actuator.SetDuty(0)
		p.driving = false
	}

	cmd := p.command.Get()
	if cmd == p.prev {
		return core.SF_RESCHEDULE
	}
	p.prev = cmd

	duty := core.ClampDuty(p.config.Duty)
	if cmd == arm.PenUp {
		// lifting the pen lowers the scissor lift
		duty = -duty
	}
	p.actuator.SetDuty(duty)
	p.deadline = core.TicksAdd(now, p.config.DriveMs)
	p.driving = true
	p.moves++

	core.DebugPrintln("[PEN] driving " + cmd.String() + " duty=" + core.Itoa(int(duty)))
	return core.SF_RESCHEDULE
}

// Driving reports whether the actuator is running
func (p *PenLiftTask) Driving() bool {
	return p.driving
}

// Moves returns how many transitions have been started
func (p *PenLiftTask) Moves() uint32 {
	return p.moves
}
