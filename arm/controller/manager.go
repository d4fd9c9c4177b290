package controller

import (
	"errors"

	"penarm/arm"
	"penarm/arm/config"
	"penarm/arm/hpgl"
	"penarm/arm/kinematics"
	"penarm/arm/stepgen"
	"penarm/core"
)

// Hardware bundles the device capabilities the plotter tasks drive
type Hardware struct {
	Joint1 core.StepperDriver
	Joint2 core.StepperDriver
	Pen    core.DcActuator
	Button core.DigitalInput
	Status core.DigitalOutput // optional
	Audio  core.DigitalOutput // optional
}

// Manager builds the plotter's tasks and owns their scheduler
type Manager struct {
	config *arm.PlotterConfig
	shares *arm.Shares
	solver *kinematics.TwoLink
	sched  *core.Scheduler

	interpreter *hpgl.Interpreter
	joints      [2]*stepgen.JointTask
	pen         *stepgen.PenLiftTask
	button      *stepgen.ButtonTask

	initialized bool
}

// NewManager creates a manager from JSON configuration
func NewManager(configData []byte) (*Manager, error) {
	cfg, err := config.LoadConfig(configData)
	if err != nil {
		return nil, err
	}

	return NewManagerWithConfig(cfg)
}

// NewManagerWithConfig creates a manager with an existing config
func NewManagerWithConfig(cfg *arm.PlotterConfig) (*Manager, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return &Manager{
		config: cfg,
		shares: arm.NewShares(),
		solver: kinematics.NewTwoLink(cfg.Links, cfg.Solver),
	}, nil
}

// Initialize creates every task and registers it with a scheduler reading
// clock. src supplies the plot file; nil streams it from the serial queue.
func (m *Manager) Initialize(hw Hardware, src core.FileSource, clock core.MonotonicClock) error {
	if m.initialized {
		return errors.New("already initialized")
	}
	if hw.Joint1 == nil || hw.Joint2 == nil || hw.Pen == nil || hw.Button == nil {
		return errors.New("hardware incomplete")
	}
	if src == nil {
		src = core.NewQueueSource(m.shares.Serial)
	}

	m.interpreter = hpgl.NewInterpreter(m.config, src, m.solver, m.shares,
		hpgl.Outputs{Status: hw.Status, Audio: hw.Audio})
	m.joints[0] = stepgen.NewJointTask("joint1", m.config.Joints[0], m.shares.Theta1, hw.Joint1)
	m.joints[1] = stepgen.NewJointTask("joint2", m.config.Joints[1], m.shares.Theta2, hw.Joint2)
	m.pen = stepgen.NewPenLiftTask(m.config.Pen, m.shares.Pen, hw.Pen)
	m.button = stepgen.NewButtonTask(hw.Button, m.shares.Start)

	t := m.config.Tasks
	tasks := []*core.Task{
		{Name: "interpreter", Priority: t.InterpreterPriority, Period: t.InterpreterPeriod, Body: m.interpreter},
		{Name: "joint1", Priority: t.MotorPriority, Period: t.MotorPeriod, Body: m.joints[0]},
		{Name: "joint2", Priority: t.MotorPriority, Period: t.MotorPeriod, Body: m.joints[1]},
		{Name: "pen", Priority: t.MotorPriority, Period: t.MotorPeriod, Body: m.pen},
		{Name: "button", Priority: t.MotorPriority, Period: t.MotorPeriod, Body: m.button},
	}

	m.sched = core.NewScheduler(clock)
	for _, task := range tasks {
		if err := m.sched.Register(task); err != nil {
			return err
		}
	}

	m.initialized = true
	core.DebugPrintln("[ARM] initialized " + core.Itoa(len(tasks)) + " tasks")
	return nil
}

// ProcessByte queues one byte of a streamed plot file
func (m *Manager) ProcessByte(b byte) error {
	return m.shares.Serial.TryPush(b)
}

// RunOnce performs one scheduling pass
func (m *Manager) RunOnce() {
	m.sched.RunOnce()
}

// Run schedules the plotter tasks forever
func (m *Manager) Run() {
	m.sched.RunForever()
}

// Scheduler returns the task scheduler, nil before Initialize
func (m *Manager) Scheduler() *core.Scheduler {
	return m.sched
}

// Shares returns the shared plotter state
func (m *Manager) Shares() *arm.Shares {
	return m.shares
}

// Solver returns the inverse kinematics solver
func (m *Manager) Solver() *kinematics.TwoLink {
	return m.solver
}

// Interpreter returns the plot interpreter task body
func (m *Manager) Interpreter() *hpgl.Interpreter {
	return m.interpreter
}

// Joint returns the task body of joint 0 or 1
func (m *Manager) Joint(i int) *stepgen.JointTask {
	return m.joints[i]
}

// PenTask returns the pen lift task body
func (m *Manager) PenTask() *stepgen.PenLiftTask {
	return m.pen
}

// Config returns the active configuration
func (m *Manager) Config() *arm.PlotterConfig {
	return m.config
}
