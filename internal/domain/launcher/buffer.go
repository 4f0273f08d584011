package launcher

import "sync"

// Buffer is a thread-safe circular buffer for program output.
// When full, the oldest bytes are overwritten.
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	full bool
	mu   sync.Mutex
}

// NewBuffer creates a new circular buffer holding at most size bytes
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 1
	}
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the buffer. It never fails.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size

		if b.full {
			b.head = b.tail
		} else if b.tail == b.head {
			b.full = true
		}
	}

	return len(p), nil
}

// Len returns the number of unread bytes
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.full:
		return b.size
	case b.tail >= b.head:
		return b.tail - b.head
	default:
		return b.size - b.head + b.tail
	}
}

// ReadAll drains all unread data from the buffer
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head == b.tail && !b.full {
		return []byte{}
	}

	var result []byte
	if b.tail > b.head {
		result = make([]byte, b.tail-b.head)
		copy(result, b.data[b.head:b.tail])
	} else {
		// Wrapped around
		firstPart := b.data[b.head:]
		secondPart := b.data[:b.tail]
		result = make([]byte, len(firstPart)+len(secondPart))
		copy(result, firstPart)
		copy(result[len(firstPart):], secondPart)
	}

	b.head = b.tail
	b.full = false

	return result
}
