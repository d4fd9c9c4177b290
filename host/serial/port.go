// Package serial talks to the plotter over its USB CDC serial port.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the link to the plotter. Tests substitute an in-memory port.
type Port interface {
	io.ReadWriteCloser

	// Flush pushes out buffered writes
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	Device      string // e.g. /dev/ttyACM0 or COM3
	Baud        int    // ignored by USB CDC, kept for UART adapters
	ReadTimeout time.Duration
}

// DefaultConfig returns the plotter's USB serial settings
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// NativePort is a Port on a host serial device
type NativePort struct {
	*serial.Port
	device string
}

// Open opens the device named by cfg
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil || cfg.Device == "" {
		return nil, errors.New("serial: no device configured")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return &NativePort{Port: port, device: cfg.Device}, nil
}

// Flush is a no-op. tarm/serial writes go straight to the device and its
// own Flush discards unsent data rather than draining it.
func (p *NativePort) Flush() error {
	return nil
}

func (p *NativePort) String() string {
	return p.device
}
