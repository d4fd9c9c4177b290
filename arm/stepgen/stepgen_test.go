package stepgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penarm/arm"
	"penarm/core"
	"penarm/host/sim"
)

var (
	joint1 = arm.JointConfig{FullRotation: 390, Offset: 52.5, Ratio: 1.5}
	joint2 = arm.JointConfig{FullRotation: 390, Offset: 0, Ratio: -1.5}
)

func TestStepsFor(t *testing.T) {
	assert.Equal(t, int32(99), StepsFor(joint1, math.Pi/2))
	assert.Equal(t, int32(35), StepsFor(joint1, 0))
	assert.Equal(t, int32(76), StepsFor(joint1, 1.0))
	assert.Equal(t, int32(-6), StepsFor(joint1, -1.0), "truncates toward zero")

	assert.Equal(t, int32(0), StepsFor(joint2, 0))
	assert.Equal(t, int32(41), StepsFor(joint2, -1.0))
	assert.Equal(t, int32(-41), StepsFor(joint2, 1.0))
}

func TestJointTaskIssuesTargetEveryCycle(t *testing.T) {
	cell := core.NewSharedCell[float64]("theta1")
	stepper := &sim.RecordingStepper{Name: "joint1"}
	task := NewJointTask("joint1", joint1, cell, stepper)

	task.Resume(0)
	task.Resume(5)
	cell.Put(1.0)
	task.Resume(10)

	assert.Equal(t, []int32{35, 35, 76}, stepper.Targets())
	assert.Equal(t, int32(76), task.Target())
}

func TestPenLiftTimedDrive(t *testing.T) {
	clock := sim.NewVirtualClock(0)
	cmd := core.NewSharedCell[arm.PenCommand]("pen")
	act := sim.NewRecordingActuator(clock)
	task := NewPenLiftTask(arm.PenConfig{Duty: 80, DriveMs: 1000}, cmd, act)

	// unchanged command is a no-op
	task.Resume(clock.NowMs())
	assert.Empty(t, act.Changes())

	cmd.Put(arm.PenDown)
	for clock.NowMs() <= 1200 {
		task.Resume(clock.NowMs())
		clock.Advance(5)
	}

	require.Equal(t, []sim.DutyChange{{At: 0, Duty: 80}, {At: 1000, Duty: 0}}, act.Changes())
	assert.False(t, task.Driving())

	cmd.Put(arm.PenUp)
	task.Resume(clock.NowMs())
	assert.Equal(t, int8(-80), act.Duty())
	assert.Equal(t, uint32(2), task.Moves())
}

func TestPenLiftDeadlineAcrossWrap(t *testing.T) {
	clock := sim.NewVirtualClock(0xFFFFFF00)
	cmd := core.NewSharedCell[arm.PenCommand]("pen")
	act := sim.NewRecordingActuator(clock)
	task := NewPenLiftTask(arm.PenConfig{Duty: 80, DriveMs: 1000}, cmd, act)

	cmd.Put(arm.PenDown)
	task.Resume(clock.NowMs())
	require.True(t, task.Driving())

	clock.Advance(999)
	task.Resume(clock.NowMs())
	assert.True(t, task.Driving())

	clock.Advance(1)
	task.Resume(clock.NowMs())
	assert.False(t, task.Driving())
	assert.Equal(t, int8(0), act.Duty())
}

func TestPenLiftCommandDuringDrive(t *testing.T) {
	clock := sim.NewVirtualClock(0)
	cmd := core.NewSharedCell[arm.PenCommand]("pen")
	act := sim.NewRecordingActuator(clock)
	task := NewPenLiftTask(arm.PenConfig{Duty: 80, DriveMs: 100}, cmd, act)

	cmd.Put(arm.PenDown)
	task.Resume(0)
	cmd.Put(arm.PenUp)
	task.Resume(50)
	assert.Equal(t, int8(80), act.Duty(), "running drive is not interrupted")

	task.Resume(100)
	assert.Equal(t, int8(-80), act.Duty())
}

func TestButtonPublishesPressEdges(t *testing.T) {
	in := &sim.LatchInput{}
	start := core.NewSharedCell[bool]("start")
	task := NewButtonTask(in, start)

	task.Resume(0)
	assert.Equal(t, uint32(0), start.Version())

	in.Set(true)
	task.Resume(5)
	task.Resume(10)
	assert.Equal(t, uint32(1), start.Version(), "held button counts once")
	assert.True(t, start.Get())

	in.Set(false)
	task.Resume(15)
	in.Set(true)
	task.Resume(20)
	assert.Equal(t, uint32(2), start.Version())
}
