package serial

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushBuffer struct {
	bytes.Buffer
	flushed int
	fail    error
}

func (b *flushBuffer) Write(p []byte) (int, error) {
	if b.fail != nil {
		return 0, b.fail
	}
	return b.Buffer.Write(p)
}

func (b *flushBuffer) Flush() error {
	b.flushed++
	return nil
}

func TestSendPlotTerminates(t *testing.T) {
	var out flushBuffer
	plot := "IN;PU100,100;PD200,200;"

	n, err := SendPlot(&out, strings.NewReader(plot), StreamConfig{ChunkSize: 5})
	require.NoError(t, err)
	assert.Equal(t, len(plot), n)
	assert.Equal(t, plot+"\x04", out.String())
	assert.Equal(t, 1, out.flushed)
}

func TestSendPlotStripsEmbeddedEOT(t *testing.T) {
	var out bytes.Buffer
	n, err := SendPlot(&out, strings.NewReader("PU;\x04PD;"), StreamConfig{})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "PU;PD;\x04", out.String())
}

func TestSendPlotOneByteReads(t *testing.T) {
	var out bytes.Buffer
	_, err := SendPlot(&out, iotest.OneByteReader(strings.NewReader("PA1,2;")), DefaultStreamConfig())
	require.NoError(t, err)
	assert.Equal(t, "PA1,2;\x04", out.String())
}

func TestSendPlotErrors(t *testing.T) {
	out := &flushBuffer{fail: errors.New("port closed")}
	_, err := SendPlot(out, strings.NewReader("PU;"), StreamConfig{})
	assert.ErrorContains(t, err, "port closed")

	var ok bytes.Buffer
	_, err = SendPlot(&ok, iotest.ErrReader(errors.New("disk")), StreamConfig{})
	assert.ErrorContains(t, err, "read plot")
}
