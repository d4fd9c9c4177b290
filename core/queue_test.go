package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOverwriteKeepsNewest(t *testing.T) {
	q := NewBoundedQueue[int]("q", 3, OverwriteOnFull)
	for i := 1; i <= 5; i++ {
		require.True(t, q.Push(i))
	}

	assert.True(t, q.IsFull())
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, uint32(2), q.Dropped())

	var got []int
	for !q.IsEmpty() {
		v, ok := q.Pop()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 5}, got)
}

func TestQueueRejectKeepsOldest(t *testing.T) {
	q := NewBoundedQueue[int]("q", 3, RejectOnFull)
	for i := 1; i <= 3; i++ {
		require.True(t, q.Push(i))
	}
	assert.False(t, q.Push(4))
	assert.ErrorIs(t, q.TryPush(5), ErrQueueFull)

	var got []int
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestQueueCountInvariants(t *testing.T) {
	q := NewProtectedQueue[byte]("bytes", 4, RejectOnFull)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 4, q.Cap())

	// exercise wraparound of the indices
	for round := 0; round < 10; round++ {
		require.NoError(t, q.TryPush(byte(round)))
		require.NoError(t, q.TryPush(byte(round+1)))
		assert.Equal(t, 2, q.Len())

		v, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, byte(round), v)

		q.Pop()
		q.Pop()
		assert.True(t, q.IsEmpty())
		assert.False(t, q.IsFull())
	}

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestQueueReset(t *testing.T) {
	q := NewBoundedQueue[string]("q", 2, OverwriteOnFull)
	q.Push("a")
	q.Push("b")
	q.Reset()

	assert.Equal(t, 0, q.Len())
	_, ok := q.Peek()
	assert.False(t, ok)

	q.Push("c")
	v, _ := q.Pop()
	assert.Equal(t, "c", v)
}
