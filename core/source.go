package core

// EOT ends a streamed plot file
const EOT = 0x04

// FileSource yields the command stream one character at a time
type FileSource interface {
	// ReadChar returns the next character, or false at end of stream
	ReadChar() (byte, bool)

	// Rewind restarts the stream from its beginning
	Rewind() error
}

// PendingSource is implemented by sources fed asynchronously.
// Pending reports that no character is available yet although the stream
// has not ended; readers should yield and try again later.
type PendingSource interface {
	Pending() bool
}

// BytesSource reads from a fixed buffer, typically an embedded file
type BytesSource struct {
	data []byte
	pos  int
}

// NewBytesSource creates a source over data
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

// ReadChar implements FileSource
func (s *BytesSource) ReadChar() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// Rewind implements FileSource
func (s *BytesSource) Rewind() error {
	s.pos = 0
	return nil
}

// Offset returns the number of characters consumed
func (s *BytesSource) Offset() int {
	return s.pos
}

// QueueSource reads characters pushed into a queue by a serial reader.
// An EOT byte marks the end of one file; the next Rewind starts a new one.
type QueueSource struct {
	queue *BoundedQueue[byte]
	ended bool
}

// NewQueueSource creates a source draining q
func NewQueueSource(q *BoundedQueue[byte]) *QueueSource {
	return &QueueSource{queue: q}
}

// ReadChar implements FileSource
func (s *QueueSource) ReadChar() (byte, bool) {
	if s.ended {
		return 0, false
	}
	b, ok := s.queue.Pop()
	if !ok {
		return 0, false
	}
	if b == EOT {
		s.ended = true
		return 0, false
	}
	return b, true
}

// Pending implements PendingSource
func (s *QueueSource) Pending() bool {
	return !s.ended && s.queue.IsEmpty()
}

// Rewind arms the source for the next streamed file and never fails.
// Characters already consumed are not replayed; unread ones stay queued.
func (s *QueueSource) Rewind() error {
	s.ended = false
	return nil
}
