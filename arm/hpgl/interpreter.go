package hpgl

import (
	"errors"

	"penarm/arm"
	"penarm/arm/kinematics"
	"penarm/arm/planner"
	"penarm/core"
)

// ReadBudget bounds the characters consumed by one resumption
const ReadBudget = 2 * MaxInstruction

// Stats counts interpreter activity across plot sessions
type Stats struct {
	Plots        uint32 // completed plot sessions
	Instructions uint32 // instructions executed
	Skipped      uint32 // instructions dropped as malformed
	Unreachable  uint32 // points the solver could not place
	Points       uint32 // joint angle pairs published
}

// Outputs are the optional indicator lines driven during a plot
type Outputs struct {
	Status core.DigitalOutput // on while a plot runs
	Audio  core.DigitalOutput // pulsed while the pen lowers
}

// Interpreter is the task body that executes a plot file.
//
// Each resumption advances one step: poll for a start signal, read one
// instruction, wait on a pen settle deadline, or publish the next batch of
// interpolated points. Joint angles for a point are published theta1 then
// theta2 within the same resumption, after any pen command that precedes
// them.
type Interpreter struct {
	cfg    *arm.PlotterConfig
	src    core.FileSource
	parser *Parser
	solver kinematics.Solver
	scaler planner.Scaler
	shares *arm.Shares
	out    Outputs

	state     arm.PlotterState
	now       uint32
	seenStart uint32
	deadline  uint32
	pen       arm.PenCommand

	cmd        Command
	next       int // index into cmd.Points
	seg        planner.Segment
	segActive  bool
	current    arm.Point
	hasCurrent bool

	stats Stats
}

// NewInterpreter creates an interpreter reading src and publishing to shares
func NewInterpreter(cfg *arm.PlotterConfig, src core.FileSource, solver kinematics.Solver, shares *arm.Shares, out Outputs) *Interpreter {
	return &Interpreter{
		cfg:       cfg,
		src:       src,
		parser:    NewParser(src),
		solver:    solver,
		scaler:    planner.NewScaler(cfg.Drawing),
		shares:    shares,
		out:       out,
		state:     arm.StateIdle,
		seenStart: shares.Start.Version(),
	}
}

// Resume implements core.TaskBody
func (it *Interpreter) Resume(now uint32) uint8 {
	it.now = now
	switch it.state {
	case arm.StateIdle:
		it.poll(now)
	case arm.StateInitializing:
		it.state = arm.StateReading
	case arm.StateReading:
		it.read(now)
	case arm.StatePenTransition:
		it.settle(now)
	case arm.StatePointStream:
		it.stream()
	}
	return core.SF_RESCHEDULE
}

// poll starts a session on a start press not seen before
func (it *Interpreter) poll(now uint32) {
	version := it.shares.Start.Version()
	if version == it.seenStart {
		return
	}
	it.seenStart = version
	if !it.shares.Start.Get() {
		return
	}

	if err := it.src.Rewind(); err != nil {
		core.DebugPrintln("[HPGL] rewind failed: " + err.Error())
		return
	}
	it.parser.Reset()
	it.hasCurrent = false
	it.segActive = false
	it.state = arm.StateReading
	setOutput(it.out.Status, true)

	core.DebugPrintln("[HPGL] plot started")
	core.RecordTiming(core.EvtPlotStart, 0, now, it.stats.Plots, 0)
}

// read consumes one instruction
func (it *Interpreter) read(now uint32) {
	cmd, err := it.parser.Next(ReadBudget)
	switch {
	case err == nil:
	case errors.Is(err, ErrInstructionPending):
		return
	case errors.Is(err, ErrEndOfStream):
		it.finish(now)
		return
	case errors.Is(err, ErrParseSkip):
		it.stats.Skipped++
		core.DebugPrintln("[HPGL] " + err.Error())
		core.RecordTiming(core.EvtParseSkip, 0, now, uint32(it.parser.Index()), 0)
		return
	default:
		core.DebugPrintln("[HPGL] read: " + err.Error())
		return
	}

	it.stats.Instructions++
	it.cmd = cmd
	it.next = 0

	switch cmd.Op {
	case OpInitialize:
		setOutput(it.out.Status, true)
		it.state = arm.StateInitializing
		core.DebugPrintln("[HPGL] initializing")
	case OpPenUp:
		it.penTransition(now, arm.PenUp)
	case OpPenDown:
		it.penTransition(now, arm.PenDown)
	case OpMoveTo:
		it.state = arm.StatePointStream
	}
}

// penTransition publishes a pen command and starts its settle wait
func (it *Interpreter) penTransition(now uint32, dir arm.PenCommand) {
	it.pen = dir
	it.shares.Pen.Put(dir)
	it.deadline = core.TicksAdd(now, it.cfg.Pen.SettleMs)
	it.state = arm.StatePenTransition
	if dir == arm.PenDown {
		setOutput(it.out.Audio, true)
	}

	core.DebugPrintln("[PEN] " + dir.String())
	core.RecordTiming(core.EvtPenCommand, 0, now, uint32(dir), 0)
}

// settle waits out the pen deadline, then streams the instruction's points
func (it *Interpreter) settle(now uint32) {
	if !core.Reached(now, it.deadline) {
		return
	}
	setOutput(it.out.Audio, false)
	if len(it.cmd.Points) == 0 {
		it.state = arm.StateReading
		return
	}
	it.state = arm.StatePointStream
}

// stream publishes up to PointsPerResume points of the current instruction
func (it *Interpreter) stream() {
	budget := it.cfg.Tasks.PointsPerResume
	if budget < 1 {
		budget = 1
	}

	for published := 0; published < budget; {
		if it.segActive {
			if p, ok := it.seg.Next(); ok {
				it.publish(p)
				published++
				continue
			}
			it.segActive = false
		}

		if it.next >= len(it.cmd.Points) {
			it.state = arm.StateReading
			return
		}
		target := it.cmd.Points[it.next]
		it.next++

		// The first point of a session is moved to directly; later points
		// continue from the last published position.
		if it.hasCurrent {
			it.seg = planner.NewSegment(it.current, target, it.cfg.Drawing.StepSize, false)
		} else {
			it.seg = planner.NewSegment(target, target, it.cfg.Drawing.StepSize, true)
		}
		it.segActive = true
		it.current = target
		it.hasCurrent = true
	}
}

// publish solves one point and writes its angles
func (it *Interpreter) publish(p arm.Point) {
	now := it.now
	angles, err := it.solver.Solve(it.scaler.Scale(p))
	if err != nil {
		it.stats.Unreachable++
		core.DebugPrintln("[IK] " + core.Itoa(int(p.X)) + "," + core.Itoa(int(p.Y)) + ": " + err.Error())
		core.RecordTiming(core.EvtUnreachable, 0, now, uint32(p.X), uint32(p.Y))
		return
	}

	it.shares.Theta1.Put(angles.Theta1)
	it.shares.Theta2.Put(angles.Theta2)
	it.stats.Points++
	core.RecordTiming(core.EvtPointSolved, 0, now, uint32(p.X), uint32(p.Y))
}

// finish ends the session at end of stream
func (it *Interpreter) finish(now uint32) {
	it.state = arm.StateIdle
	it.segActive = false
	it.hasCurrent = false
	it.cmd = Command{}
	setOutput(it.out.Status, false)
	setOutput(it.out.Audio, false)

	// presses made during the plot do not start another one
	it.seenStart = it.shares.Start.Version()
	it.stats.Plots++

	core.DebugPrintln("[HPGL] plot finished, " + core.Utoa(it.stats.Points) + " points")
	core.RecordTiming(core.EvtPlotEnd, 0, now, it.stats.Instructions, it.stats.Points)
}

// State returns the plot state
func (it *Interpreter) State() arm.PlotterState {
	return it.state
}

// Stats returns activity counters
func (it *Interpreter) Stats() Stats {
	return it.stats
}

// Pen returns the last pen command issued
func (it *Interpreter) Pen() arm.PenCommand {
	return it.pen
}

// Current returns the last target position and whether one exists
func (it *Interpreter) Current() (arm.Point, bool) {
	return it.current, it.hasCurrent
}

func setOutput(out core.DigitalOutput, level bool) {
	if out != nil {
		out.Write(level)
	}
}
