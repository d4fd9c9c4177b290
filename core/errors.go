package core

import "errors"

var (
	ErrQueueFull        = errors.New("queue full")
	ErrSchedulerRunning = errors.New("scheduler already running")
	ErrInvalidTask      = errors.New("task has no body")
	ErrTooManyTasks     = errors.New("task list full")
)
