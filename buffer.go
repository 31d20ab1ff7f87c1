package mqttv3

// DefaultBufferSize is the default capacity of the shared packet
// buffer. Every outbound and inbound packet must fit in it.
const DefaultBufferSize = 500

// FixedBuffer is a fixed-capacity scratch buffer shared by all encode
// and decode operations of a session. Reusing one allocation for every
// packet keeps the steady-state loop allocation free, at the cost of
// the caller consuming each packet before starting the next operation.
//
// A FixedBuffer is not safe for concurrent use.
type FixedBuffer struct {
	data   []byte
	length int
}

// NewFixedBuffer returns a buffer with the given capacity. Capacities
// below 1 fall back to DefaultBufferSize.
func NewFixedBuffer(capacity int) *FixedBuffer {
	if capacity < 1 {
		capacity = DefaultBufferSize
	}

	return &FixedBuffer{data: make([]byte, capacity)}
}

// Cap returns the buffer capacity.
func (b *FixedBuffer) Cap() int {
	return len(b.data)
}

// Len returns the number of currently valid bytes.
func (b *FixedBuffer) Len() int {
	return b.length
}

// Bytes returns the currently valid region of the buffer. The slice
// aliases the buffer and is invalidated by the next take or Reset.
func (b *FixedBuffer) Bytes() []byte {
	return b.data[:b.length]
}

// Reset marks the buffer empty.
func (b *FixedBuffer) Reset() {
	b.length = 0
}

// take marks n bytes valid and returns them for the caller to fill.
// It fails with ErrBufferTooSmall when n exceeds the capacity.
func (b *FixedBuffer) take(n int) ([]byte, error) {
	if n > len(b.data) {
		return nil, ErrBufferTooSmall
	}

	b.length = n
	return b.data[:n], nil
}
