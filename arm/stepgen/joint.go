package stepgen

import (
	"math"

	"penarm/arm"
	"penarm/core"
)

// JointTask follows one joint angle cell with a stepper
type JointTask struct {
	name    string
	config  arm.JointConfig
	angle   *core.SharedCell[float64]
	stepper core.StepperDriver

	target int32 // last target issued
}

// NewJointTask creates the task body driving stepper from angle
func NewJointTask(name string, config arm.JointConfig, angle *core.SharedCell[float64], stepper core.StepperDriver) *JointTask {
	return &JointTask{
		name:    name,
		config:  config,
		angle:   angle,
		stepper: stepper,
	}
}

// StepsFor converts a joint angle in radians to a stepper target.
// Both stages truncate toward zero.
func StepsFor(config arm.JointConfig, theta float64) int32 {
	motorSteps := math.Trunc(theta * config.FullRotation / (2 * math.Pi))
	return int32((motorSteps + config.Offset) / config.Ratio)
}

// Resume implements core.TaskBody. The target is reissued every cycle.
func (j *JointTask) Resume(now uint32) uint8 {
	j.target = StepsFor(j.config, j.angle.Get())
	j.stepper.SetTargetPosition(j.target)
	return core.SF_RESCHEDULE
}

// Target returns the last issued stepper target
func (j *JointTask) Target() int32 {
	return j.target
}

// Name returns the joint name
func (j *JointTask) Name() string {
	return j.name
}
