package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a control-loop event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	OID       uint8  // Task ID or other object ID
	Clock     uint32 // Milliseconds at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtTaskResume  = 1 // task resumed: v1=run count, v2=ms spent
	EvtPlotStart   = 2 // interpreter left Idle
	EvtPlotEnd     = 3 // end of stream: v1=instructions, v2=points
	EvtPenCommand  = 4 // pen command published: v1=direction
	EvtPointSolved = 5 // angles published: v1=x, v2=y (raw units)
	EvtUnreachable = 6 // point dropped: v1=x, v2=y
	EvtParseSkip   = 7 // instruction dropped: v1=instruction index
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether DebugPrintln writes anything.
	// Disabled by default so logging never stretches a control cycle.
	debugEnabled bool = false

	timingRing    = NewBoundedQueue[TimingEvent]("timing", TimingRingSize, OverwriteOnFull)
	timingEnabled = true
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// SetTimingEnabled turns event capture on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// RecordTiming captures an event in the ring buffer, overwriting the oldest
func RecordTiming(eventType, oid uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	timingRing.Push(TimingEvent{
		EventType: eventType,
		OID:       oid,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	})
}

// TimingEvents returns the captured events from oldest to newest
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, timingRing.Len())
	timingRing.Each(func(evt TimingEvent) {
		events = append(events, evt)
	})
	return events
}

// EventName returns the dump label for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtTaskResume:
		return "TASK_RESUME"
	case EvtPlotStart:
		return "PLOT_START"
	case EvtPlotEnd:
		return "PLOT_END"
	case EvtPenCommand:
		return "PEN"
	case EvtPointSolved:
		return "POINT"
	case EvtUnreachable:
		return "UNREACHABLE!"
	case EvtParseSkip:
		return "PARSE_SKIP!"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing outputs the ring buffer (call on shutdown/error).
// It writes even when debug output is disabled.
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	timingRing.Each(func(evt TimingEvent) {
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" oid=" + Itoa(int(evt.OID)) +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	})
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	timingRing.Reset()
}
