package serial

import (
	"fmt"
	"io"
	"time"
)

// EOT ends a streamed plot file
const EOT = 0x04

// StreamConfig paces a plot upload
type StreamConfig struct {
	// ChunkSize is the number of bytes written at a time
	ChunkSize int

	// Pause is slept between chunks so the device queue can drain.
	// USB flow control also stalls writes once the queue is full.
	Pause time.Duration
}

// DefaultStreamConfig keeps chunks well under the device's 512-byte queue
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{ChunkSize: 64, Pause: 20 * time.Millisecond}
}

// SendPlot copies a plot file to w in chunks and terminates it with EOT.
// EOT bytes inside the file are dropped so they cannot end it early.
// Returns the number of file bytes sent, excluding the terminator.
func SendPlot(w io.Writer, r io.Reader, cfg StreamConfig) (int, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultStreamConfig().ChunkSize
	}

	buf := make([]byte, cfg.ChunkSize)
	sent := 0
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := stripEOT(buf[:n])
			if _, werr := w.Write(chunk); werr != nil {
				return sent, fmt.Errorf("write after %d bytes: %w", sent, werr)
			}
			sent += len(chunk)
			if cfg.Pause > 0 {
				time.Sleep(cfg.Pause)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return sent, fmt.Errorf("read plot: %w", err)
		}
	}

	if _, err := w.Write([]byte{EOT}); err != nil {
		return sent, fmt.Errorf("write terminator: %w", err)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		return sent, f.Flush()
	}
	return sent, nil
}

func stripEOT(b []byte) []byte {
	out := b[:0]
	for _, c := range b {
		if c != EOT {
			out = append(out, c)
		}
	}
	return out
}
