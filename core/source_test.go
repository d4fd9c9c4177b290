package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(src FileSource) string {
	var out []byte
	for {
		b, ok := src.ReadChar()
		if !ok {
			return string(out)
		}
		out = append(out, b)
	}
}

func TestBytesSourceRewind(t *testing.T) {
	src := NewBytesSource([]byte("IN;PU;"))
	assert.Equal(t, "IN;PU;", drain(src))
	assert.Equal(t, 6, src.Offset())

	require.NoError(t, src.Rewind())
	assert.Equal(t, "IN;PU;", drain(src))
}

func TestQueueSourceEndsOnEOT(t *testing.T) {
	q := NewBoundedQueue[byte]("uart", 16, RejectOnFull)
	src := NewQueueSource(q)

	assert.True(t, src.Pending())

	for _, b := range []byte("IN;") {
		q.Push(b)
	}
	assert.False(t, src.Pending())

	q.Push(EOT)
	q.Push('P')
	assert.Equal(t, "IN;", drain(src))
	assert.False(t, src.Pending(), "ended stream is not pending")

	// next file starts after rewind
	require.NoError(t, src.Rewind())
	b, ok := src.ReadChar()
	require.True(t, ok)
	assert.Equal(t, byte('P'), b)
	assert.True(t, src.Pending())
}

func TestQueueSourceRewindKeepsUnread(t *testing.T) {
	q := NewBoundedQueue[byte]("uart", 16, RejectOnFull)
	src := NewQueueSource(q)
	for _, b := range []byte("PA1;") {
		q.Push(b)
	}

	b, ok := src.ReadChar()
	require.True(t, ok)
	assert.Equal(t, byte('P'), b)

	// mid-stream rewind succeeds without replaying 'P'
	require.NoError(t, src.Rewind())
	assert.Equal(t, "A1;", drain(src))
	assert.True(t, src.Pending())
}
