//go:build !tinygo

package core

// irqState stands in for the saved interrupt mask on host builds
type irqState uintptr

// disableInterrupts has nothing to mask on a host build
func disableInterrupts() irqState {
	return 0
}

func restoreInterrupts(irqState) {}
