package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGPIODriver is a test implementation of GPIODriver
type mockGPIODriver struct {
	pins    map[GPIOPin]bool
	pullUps map[GPIOPin]bool
}

func newMockGPIODriver() *mockGPIODriver {
	return &mockGPIODriver{
		pins:    make(map[GPIOPin]bool),
		pullUps: make(map[GPIOPin]bool),
	}
}

func (m *mockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.pins[pin] = false
	return nil
}

func (m *mockGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	m.pullUps[pin] = true
	m.pins[pin] = true
	return nil
}

func (m *mockGPIODriver) ConfigureInputPullDown(pin GPIOPin) error {
	m.pins[pin] = false
	return nil
}

func (m *mockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	m.pins[pin] = value
	return nil
}

func (m *mockGPIODriver) ReadPin(pin GPIOPin) bool {
	return m.pins[pin]
}

func TestGPIOInputActiveLow(t *testing.T) {
	d := newMockGPIODriver()
	SetGPIODriver(d)

	btn, err := NewGPIOInput(MustGPIO(), 0, true)
	require.NoError(t, err)
	assert.True(t, d.pullUps[0])

	assert.False(t, btn.Read(), "released button idles high")
	d.pins[0] = false
	assert.True(t, btn.Read())
}

func TestGPIOOutputInvert(t *testing.T) {
	d := newMockGPIODriver()

	led, err := NewGPIOOutput(d, 25, false)
	require.NoError(t, err)
	led.Write(true)
	assert.True(t, d.pins[25])

	inv, err := NewGPIOOutput(d, 4, true)
	require.NoError(t, err)
	assert.True(t, d.pins[4], "inverted output starts inactive")
	inv.Write(true)
	assert.False(t, d.pins[4])
}

func TestTimingRingDump(t *testing.T) {
	ClearTimingRing()
	defer ClearTimingRing()

	for i := 0; i < TimingRingSize+5; i++ {
		RecordTiming(EvtPointSolved, 0, uint32(i), uint32(i), 0)
	}
	events := TimingEvents()
	require.Len(t, events, TimingRingSize)
	assert.Equal(t, uint32(5), events[0].Clock, "oldest events are overwritten")

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	DumpTimingRing()
	require.Len(t, lines, TimingRingSize+2)
	assert.True(t, strings.HasPrefix(lines[1], "[TIMING] POINT"))
}

func TestDebugPrintlnGated(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")
	SetDebugEnabled(false)

	assert.Equal(t, []string{"shown"}, lines)
}
