//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts around protected cell and queue access
// and returns the mask to restore
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
