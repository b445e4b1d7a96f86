package serial

// DefaultLineCapacity is the read buffer size used when none is configured
const DefaultLineCapacity = 512

// LineBuffer is a fixed-capacity byte buffer for staging a single inbound
// line. Writes past capacity fail instead of growing the buffer.
type LineBuffer struct {
	buf []byte
	n   int
}

// NewLineBuffer returns a buffer holding at most capacity bytes. A
// non-positive capacity selects DefaultLineCapacity.
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity <= 0 {
		capacity = DefaultLineCapacity
	}
	return &LineBuffer{buf: make([]byte, capacity)}
}

// WriteByte appends c, returning ErrBufferFull when no room is left
func (b *LineBuffer) WriteByte(c byte) error {
	if b.n >= len(b.buf) {
		return ErrBufferFull
	}
	b.buf[b.n] = c
	b.n++
	return nil
}

// Bytes returns the bytes written since the last Reset. The slice aliases
// the buffer and is only valid until the next write or Reset.
func (b *LineBuffer) Bytes() []byte {
	return b.buf[:b.n]
}

// Len returns the number of bytes written since the last Reset
func (b *LineBuffer) Len() int {
	return b.n
}

// Cap returns the fixed capacity
func (b *LineBuffer) Cap() int {
	return len(b.buf)
}

// Full reports whether another WriteByte would fail
func (b *LineBuffer) Full() bool {
	return b.n >= len(b.buf)
}

// Reset empties the buffer, keeping its capacity
func (b *LineBuffer) Reset() {
	b.n = 0
}
