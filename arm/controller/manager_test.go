package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penarm/arm"
	"penarm/arm/config"
	"penarm/arm/stepgen"
	"penarm/core"
	"penarm/host/sim"
)

type rig struct {
	clock  *sim.VirtualClock
	joint1 *sim.RecordingStepper
	joint2 *sim.RecordingStepper
	pen    *sim.RecordingActuator
	button *sim.LatchInput
	led    *sim.Indicator
	mgr    *Manager
}

func newRig(t *testing.T, src core.FileSource) *rig {
	clock := sim.NewVirtualClock(0)
	r := &rig{
		clock:  clock,
		joint1: &sim.RecordingStepper{Name: "joint1"},
		joint2: &sim.RecordingStepper{Name: "joint2"},
		pen:    sim.NewRecordingActuator(clock),
		button: &sim.LatchInput{},
		led:    &sim.Indicator{},
	}

	mgr, err := NewManagerWithConfig(config.DefaultPlotterConfig())
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize(Hardware{
		Joint1: r.joint1,
		Joint2: r.joint2,
		Pen:    r.pen,
		Button: r.button,
		Status: r.led,
	}, src, clock))
	r.mgr = mgr
	return r
}

// run performs passes one millisecond apart
func (r *rig) run(ms int) {
	for i := 0; i < ms; i++ {
		r.mgr.RunOnce()
		r.clock.Advance(1)
	}
}

// press holds the button briefly, then runs until the interpreter has had
// a chance to see it
func (r *rig) press() {
	r.button.Set(true)
	r.run(10)
	r.button.Set(false)
	r.run(int(r.mgr.Config().Tasks.InterpreterPeriod))
}

func TestTaskOrder(t *testing.T) {
	r := newRig(t, core.NewBytesSource(nil))

	var names []string
	for _, task := range r.mgr.Scheduler().Tasks() {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"joint1", "joint2", "pen", "button", "interpreter"}, names)
}

func TestPlotEndToEnd(t *testing.T) {
	r := newRig(t, core.NewBytesSource([]byte("IN;PU3000,3000;PD3500,3500;")))
	it := r.mgr.Interpreter()

	r.run(50)
	assert.Equal(t, arm.StateIdle, it.State())

	r.press()
	require.NotEqual(t, arm.StateIdle, it.State())
	assert.True(t, r.led.On())

	for i := 0; i < 200 && it.State() != arm.StateIdle; i++ {
		r.run(100)
	}
	require.Equal(t, arm.StateIdle, it.State())
	assert.False(t, r.led.On())

	stats := it.Stats()
	assert.Equal(t, uint32(52), stats.Points)
	assert.Zero(t, stats.Unreachable)

	// pen starts up, so only the lowering drives the motor
	changes := r.pen.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, int8(80), changes[0].Duty)
	assert.Equal(t, int8(0), changes[1].Duty)
	assert.Equal(t, uint32(1000), changes[1].At-changes[0].At)

	// joints follow the last published angles
	cfg := r.mgr.Config()
	final := r.mgr.Shares().Angles()
	r.run(10)
	last1, _ := r.joint1.Last()
	last2, _ := r.joint2.Last()
	assert.Equal(t, stepgen.StepsFor(cfg.Joints[0], final.Theta1), last1)
	assert.Equal(t, stepgen.StepsFor(cfg.Joints[1], final.Theta2), last2)

	// joint 1 starts at zero angle, jumps to the direct move, then follows
	// the segment
	distinct := r.joint1.Distinct()
	require.NotEmpty(t, distinct)
	assert.Equal(t, int32(35), distinct[0])
	assert.Contains(t, distinct, int32(79))
	assert.Equal(t, int32(84), distinct[len(distinct)-1])

	lines := r.mgr.Report()
	require.Len(t, lines, 6)
	assert.Contains(t, lines[5], "points=52")
}

func TestSerialStreaming(t *testing.T) {
	r := newRig(t, nil)
	r.press()

	for _, b := range []byte("PU100,100;PD200,100;") {
		require.NoError(t, r.mgr.ProcessByte(b))
	}
	require.NoError(t, r.mgr.ProcessByte(core.EOT))

	it := r.mgr.Interpreter()
	for i := 0; i < 200 && it.State() != arm.StateIdle; i++ {
		r.run(100)
	}
	require.Equal(t, arm.StateIdle, it.State())
	assert.Equal(t, uint32(12), it.Stats().Points)
}

func TestSerialBackpressure(t *testing.T) {
	r := newRig(t, nil)
	for i := 0; i < arm.SerialQueueSize; i++ {
		require.NoError(t, r.mgr.ProcessByte('0'))
	}
	assert.ErrorIs(t, r.mgr.ProcessByte('0'), core.ErrQueueFull)
}

func TestInitializeErrors(t *testing.T) {
	mgr, err := NewManagerWithConfig(config.DefaultPlotterConfig())
	require.NoError(t, err)
	assert.Error(t, mgr.Initialize(Hardware{}, nil, sim.NewVirtualClock(0)))

	_, err = NewManager([]byte(`{"links": {"l1": 0}}`))
	assert.ErrorIs(t, err, config.ErrBadLinks)

	r := newRig(t, nil)
	assert.Error(t, r.mgr.Initialize(Hardware{}, nil, r.clock))
}
