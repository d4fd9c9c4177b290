package core

import "sync/atomic"

// MonotonicClock supplies wrapping millisecond time
type MonotonicClock interface {
	NowMs() uint32
}

var systemMillis uint32

// GetTime returns the core millisecond clock
func GetTime() uint32 {
	return atomic.LoadUint32(&systemMillis)
}

// SetTime sets the core millisecond clock.
// Targets call it from their timer read before every scheduling pass.
func SetTime(ms uint32) {
	atomic.StoreUint32(&systemMillis, ms)
}

// SystemClock reads the core clock maintained by SetTime
type SystemClock struct{}

// NowMs implements MonotonicClock
func (SystemClock) NowMs() uint32 {
	return GetTime()
}

// TicksDiff returns a-b, correct across uint32 wraparound as long as the
// two values are less than 2^31 apart
func TicksDiff(a, b uint32) int32 {
	return int32(a - b)
}

// TicksAdd returns t+delta with wraparound
func TicksAdd(t, delta uint32) uint32 {
	return t + delta
}

// Reached reports whether now is at or past deadline
func Reached(now, deadline uint32) bool {
	return TicksDiff(now, deadline) >= 0
}
