package core

// SharedCell holds the latest value published by one producer task.
// Readers always see the most recent complete value; Version counts writes
// so a reader can tell fresh data from a value it already consumed.
//
// Values larger than a machine word are only safe across interrupt context
// when the cell is protected. Between tasks no locking is needed since tasks
// never run at the same time.
type SharedCell[T any] struct {
	name      string
	value     T
	version   uint32
	protected bool
}

// NewSharedCell creates a zero-initialized cell
func NewSharedCell[T any](name string) *SharedCell[T] {
	return &SharedCell[T]{name: name}
}

// NewProtectedCell creates a cell whose accesses mask interrupts
func NewProtectedCell[T any](name string) *SharedCell[T] {
	return &SharedCell[T]{name: name, protected: true}
}

// Put overwrites the stored value
func (c *SharedCell[T]) Put(v T) {
	if c.protected {
		state := disableInterrupts()
		c.value = v
		c.version++
		restoreInterrupts(state)
		return
	}
	c.value = v
	c.version++
}

// Get returns the stored value
func (c *SharedCell[T]) Get() T {
	if c.protected {
		state := disableInterrupts()
		v := c.value
		restoreInterrupts(state)
		return v
	}
	return c.value
}

// Version returns the number of Puts so far
func (c *SharedCell[T]) Version() uint32 {
	return c.version
}

// Name returns the diagnostic name
func (c *SharedCell[T]) Name() string {
	return c.name
}
