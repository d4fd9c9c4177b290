package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	ms uint32
}

func (c *fakeClock) NowMs() uint32 {
	return c.ms
}

func recorder(log *[]string, name string) TaskBody {
	return TaskFunc(func(now uint32) uint8 {
		*log = append(*log, name)
		return SF_RESCHEDULE
	})
}

func TestSchedulerPriorityOrderEveryPass(t *testing.T) {
	clock := &fakeClock{}
	s := NewScheduler(clock)

	var log []string
	require.NoError(t, s.Register(&Task{Name: "low", Priority: 0, Body: recorder(&log, "low")}))
	require.NoError(t, s.Register(&Task{Name: "high", Priority: 2, Body: recorder(&log, "high")}))
	require.NoError(t, s.Register(&Task{Name: "mid", Priority: 1, Body: recorder(&log, "mid")}))
	require.NoError(t, s.Register(&Task{Name: "high2", Priority: 2, Body: recorder(&log, "high2")}))

	for pass := 0; pass < 10; pass++ {
		log = log[:0]
		s.RunOnce()
		clock.ms++
		assert.Equal(t, []string{"high", "high2", "mid", "low"}, log, "pass %d", pass)
	}
	assert.Equal(t, uint32(10), s.Passes())
}

func TestSchedulerHonorsPeriod(t *testing.T) {
	clock := &fakeClock{}
	s := NewScheduler(clock)

	slow := &Task{Name: "slow", Period: 5, Body: TaskFunc(func(uint32) uint8 { return SF_RESCHEDULE })}
	fast := &Task{Name: "fast", Body: TaskFunc(func(uint32) uint8 { return SF_RESCHEDULE })}
	require.NoError(t, s.Register(slow))
	require.NoError(t, s.Register(fast))

	for i := 0; i < 10; i++ {
		s.RunOnce()
		clock.ms++
	}

	// first pass, then at 5 ms
	assert.Equal(t, uint32(2), slow.Runs())
	assert.Equal(t, uint32(5), slow.LastRun())
	assert.Equal(t, uint32(10), fast.Runs())
}

func TestSchedulerPeriodAcrossWrap(t *testing.T) {
	clock := &fakeClock{ms: 0xFFFFFFFE}
	s := NewScheduler(clock)

	task := &Task{Name: "wrap", Period: 4, Body: TaskFunc(func(uint32) uint8 { return SF_RESCHEDULE })}
	require.NoError(t, s.Register(task))

	s.RunOnce()
	require.Equal(t, uint32(1), task.Runs())

	clock.ms = 1 // 3 ms later
	s.RunOnce()
	assert.Equal(t, uint32(1), task.Runs())

	clock.ms = 2
	s.RunOnce()
	assert.Equal(t, uint32(2), task.Runs())
}

func TestSchedulerFinishedTaskNotResumed(t *testing.T) {
	s := NewScheduler(&fakeClock{})

	calls := 0
	task := &Task{Name: "once", Body: TaskFunc(func(uint32) uint8 {
		calls++
		return SF_DONE
	})}
	require.NoError(t, s.Register(task))

	s.RunOnce()
	s.RunOnce()
	assert.Equal(t, 1, calls)
	assert.Equal(t, TaskFinished, task.State())
}

func TestSchedulerRegisterErrors(t *testing.T) {
	s := NewScheduler(&fakeClock{})

	assert.ErrorIs(t, s.Register(nil), ErrInvalidTask)
	assert.ErrorIs(t, s.Register(&Task{Name: "empty"}), ErrInvalidTask)

	for i := 0; i < MaxTasks; i++ {
		require.NoError(t, s.Register(&Task{Name: "t", Body: TaskFunc(func(uint32) uint8 { return SF_RESCHEDULE })}))
	}
	assert.ErrorIs(t, s.Register(&Task{Name: "extra", Body: TaskFunc(func(uint32) uint8 { return SF_RESCHEDULE })}), ErrTooManyTasks)

	s2 := NewScheduler(&fakeClock{})
	s2.RunOnce()
	assert.ErrorIs(t, s2.Register(&Task{Name: "late", Body: TaskFunc(func(uint32) uint8 { return SF_RESCHEDULE })}), ErrSchedulerRunning)
}

func TestSchedulerProfilesRunTime(t *testing.T) {
	clock := &fakeClock{}
	s := NewScheduler(clock)

	task := &Task{Name: "busy", Body: TaskFunc(func(uint32) uint8 {
		clock.ms += 3
		return SF_RESCHEDULE
	})}
	require.NoError(t, s.Register(task))

	s.RunOnce()
	assert.Equal(t, uint32(3), task.LastRunTicks())
	assert.Equal(t, uint32(3), task.MaxRunTicks())
	assert.Equal(t, TaskSuspended, task.State())
}

func TestSchedulerPanicStopsLoop(t *testing.T) {
	s := NewScheduler(&fakeClock{})
	require.NoError(t, s.Register(&Task{Name: "bad", Body: TaskFunc(func(uint32) uint8 {
		panic("fault")
	})}))

	assert.Panics(t, s.RunOnce)
}

func TestSchedulerOnPassRunsFirst(t *testing.T) {
	clock := &fakeClock{}
	s := NewScheduler(clock)
	s.OnPass(func() { clock.ms += 10 })

	var seen uint32
	require.NoError(t, s.Register(&Task{Name: "t", Body: TaskFunc(func(now uint32) uint8 {
		seen = now
		return SF_RESCHEDULE
	})}))

	s.RunOnce()
	assert.Equal(t, uint32(10), seen)
}
