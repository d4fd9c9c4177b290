package core

// Cooperative task scheduler.
// Tasks are resumed in priority order on every pass; a task runs again only
// once its period has elapsed. There is no preemption: a resumption always
// runs to the body's next yield point.

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// MaxTasks bounds the task list so the scheduler never allocates after startup
const MaxTasks = 16

// TaskBody is the resumable work of a Task.
//
// Resume continues from the body's stored step and returns SF_RESCHEDULE at
// its next yield point, or SF_DONE once it has nothing left to do. A body
// must return after a bounded amount of work. The scheduler cannot interrupt
// it, so a body that never returns starves every other task.
type TaskBody interface {
	Resume(now uint32) uint8
}

// TaskFunc adapts a plain function to TaskBody
type TaskFunc func(now uint32) uint8

// Resume implements TaskBody
func (f TaskFunc) Resume(now uint32) uint8 {
	return f(now)
}

// TaskState is the scheduling state of a Task
type TaskState uint8

const (
	TaskReady     TaskState = iota // never resumed yet
	TaskSuspended                  // parked at a yield point
	TaskFinished                   // body returned SF_DONE
)

func (s TaskState) String() string {
	switch s {
	case TaskReady:
		return "ready"
	case TaskSuspended:
		return "suspended"
	case TaskFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Task is a cooperatively scheduled unit of work
type Task struct {
	Name     string
	Priority uint8  // higher value runs first within a pass
	Period   uint32 // minimum milliseconds between runs, 0 = every pass
	Body     TaskBody

	id        uint8
	state     TaskState
	lastRun   uint32
	runs      uint32
	lastTicks uint32
	maxTicks  uint32
}

// State returns the task's scheduling state
func (t *Task) State() TaskState {
	return t.state
}

// Runs returns how many times the task has been resumed
func (t *Task) Runs() uint32 {
	return t.runs
}

// LastRun returns the clock value at the start of the latest resumption
func (t *Task) LastRun() uint32 {
	return t.lastRun
}

// LastRunTicks returns the duration of the latest resumption in milliseconds
func (t *Task) LastRunTicks() uint32 {
	return t.lastTicks
}

// MaxRunTicks returns the longest resumption seen so far in milliseconds
func (t *Task) MaxRunTicks() uint32 {
	return t.maxTicks
}

// ID returns the registration index of the task
func (t *Task) ID() uint8 {
	return t.id
}

// due reports whether the task's period has elapsed at now
func (t *Task) due(now uint32) bool {
	if t.state == TaskFinished {
		return false
	}
	if t.state == TaskReady {
		return true
	}
	return TicksDiff(now, t.lastRun) >= int32(t.Period)
}

// Scheduler orders and runs registered tasks
type Scheduler struct {
	clock   MonotonicClock
	tasks   [MaxTasks]*Task
	count   int
	running bool
	passes  uint32
	onPass  func()
}

// NewScheduler creates a scheduler that reads time from clock
func NewScheduler(clock MonotonicClock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Register adds a task to the schedule.
// Tasks must be registered before the first pass; the list is kept sorted by
// descending priority, equal priorities keep registration order.
func (s *Scheduler) Register(t *Task) error {
	if s.running {
		return ErrSchedulerRunning
	}
	if t == nil || t.Body == nil {
		return ErrInvalidTask
	}
	if s.count >= MaxTasks {
		return ErrTooManyTasks
	}

	t.id = uint8(s.count)
	t.state = TaskReady

	// Insert in sorted order, same walk as a sorted timer list
	pos := s.count
	for pos > 0 && s.tasks[pos-1].Priority < t.Priority {
		s.tasks[pos] = s.tasks[pos-1]
		pos--
	}
	s.tasks[pos] = t
	s.count++

	DebugPrintln("[SCHED] registered " + t.Name + " pri=" + Itoa(int(t.Priority)) + " period=" + Utoa(t.Period))
	return nil
}

// OnPass installs a hook called at the start of every pass.
// Targets use it to latch the hardware timer into the core clock.
func (s *Scheduler) OnPass(fn func()) {
	s.onPass = fn
}

// RunOnce performs exactly one scheduling pass
func (s *Scheduler) RunOnce() {
	s.running = true
	s.passes++

	if s.onPass != nil {
		s.onPass()
	}

	for i := 0; i < s.count; i++ {
		t := s.tasks[i]
		now := s.clock.NowMs()
		if !t.due(now) {
			continue
		}
		s.resume(t, now)
	}
}

// RunForever runs scheduling passes until the process ends
func (s *Scheduler) RunForever() {
	for {
		s.RunOnce()
	}
}

// resume runs one resumption of t and records its profile.
// A panic inside the body is not recovered: the control loop stops.
func (s *Scheduler) resume(t *Task, now uint32) {
	t.lastRun = now
	t.state = TaskSuspended

	result := t.Body.Resume(now)

	elapsed := uint32(TicksDiff(s.clock.NowMs(), now))
	t.runs++
	t.lastTicks = elapsed
	if elapsed > t.maxTicks {
		t.maxTicks = elapsed
	}
	if result == SF_DONE {
		t.state = TaskFinished
	}

	RecordTiming(EvtTaskResume, t.id, now, t.runs, elapsed)
}

// Tasks returns the registered tasks in scheduling order
func (s *Scheduler) Tasks() []*Task {
	return s.tasks[:s.count]
}

// Passes returns how many scheduling passes have run
func (s *Scheduler) Passes() uint32 {
	return s.passes
}

// Running reports whether the first pass has started
func (s *Scheduler) Running() bool {
	return s.running
}
