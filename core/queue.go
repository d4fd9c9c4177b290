package core

// QueuePolicy selects what Push does when the queue is full
type QueuePolicy uint8

const (
	RejectOnFull    QueuePolicy = iota // Push fails, contents unchanged
	OverwriteOnFull                    // Push drops the oldest item
)

// BoundedQueue is a fixed-capacity FIFO ring for one producer and one consumer.
// Storage is allocated once by NewBoundedQueue; Push and Pop never allocate.
type BoundedQueue[T any] struct {
	name      string
	buf       []T
	read      int
	write     int
	count     int
	policy    QueuePolicy
	protected bool
	dropped   uint32
}

// NewBoundedQueue creates a queue holding up to capacity items
func NewBoundedQueue[T any](name string, capacity int, policy QueuePolicy) *BoundedQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedQueue[T]{
		name:   name,
		buf:    make([]T, capacity),
		policy: policy,
	}
}

// NewProtectedQueue creates a queue whose operations mask interrupts,
// for a producer running in interrupt context
func NewProtectedQueue[T any](name string, capacity int, policy QueuePolicy) *BoundedQueue[T] {
	q := NewBoundedQueue[T](name, capacity, policy)
	q.protected = true
	return q
}

// Push appends v. With RejectOnFull it returns false when the queue is
// full; with OverwriteOnFull it always succeeds, discarding the oldest item.
func (q *BoundedQueue[T]) Push(v T) bool {
	if q.protected {
		state := disableInterrupts()
		defer restoreInterrupts(state)
	}

	if q.count == len(q.buf) {
		if q.policy == RejectOnFull {
			q.dropped++
			return false
		}
		// Drop oldest
		q.read = (q.read + 1) % len(q.buf)
		q.count--
		q.dropped++
	}

	q.buf[q.write] = v
	q.write = (q.write + 1) % len(q.buf)
	q.count++
	return true
}

// TryPush is Push reporting a rejected item as ErrQueueFull
func (q *BoundedQueue[T]) TryPush(v T) error {
	if !q.Push(v) {
		return ErrQueueFull
	}
	return nil
}

// Pop removes and returns the oldest item
func (q *BoundedQueue[T]) Pop() (T, bool) {
	if q.protected {
		state := disableInterrupts()
		defer restoreInterrupts(state)
	}

	var zero T
	if q.count == 0 {
		return zero, false
	}
	v := q.buf[q.read]
	q.buf[q.read] = zero
	q.read = (q.read + 1) % len(q.buf)
	q.count--
	return v, true
}

// Peek returns the oldest item without removing it
func (q *BoundedQueue[T]) Peek() (T, bool) {
	if q.protected {
		state := disableInterrupts()
		defer restoreInterrupts(state)
	}

	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.read], true
}

// Len returns the number of queued items
func (q *BoundedQueue[T]) Len() int {
	return q.count
}

// Cap returns the fixed capacity
func (q *BoundedQueue[T]) Cap() int {
	return len(q.buf)
}

// IsFull returns true if Len == Cap
func (q *BoundedQueue[T]) IsFull() bool {
	return q.count == len(q.buf)
}

// IsEmpty returns true if the queue holds nothing
func (q *BoundedQueue[T]) IsEmpty() bool {
	return q.count == 0
}

// Dropped returns how many items were rejected or overwritten
func (q *BoundedQueue[T]) Dropped() uint32 {
	return q.dropped
}

// Name returns the diagnostic name
func (q *BoundedQueue[T]) Name() string {
	return q.name
}

// Each calls fn for every queued item from oldest to newest
func (q *BoundedQueue[T]) Each(fn func(T)) {
	for i := 0; i < q.count; i++ {
		fn(q.buf[(q.read+i)%len(q.buf)])
	}
}

// Reset empties the queue
func (q *BoundedQueue[T]) Reset() {
	if q.protected {
		state := disableInterrupts()
		defer restoreInterrupts(state)
	}

	var zero T
	for i := range q.buf {
		q.buf[i] = zero
	}
	q.read = 0
	q.write = 0
	q.count = 0
}
