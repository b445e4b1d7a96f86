package session

import (
	"errors"
	"sync"

	serial "github.com/allbin/go-serialping"
)

// fakeRead scripts one ReadLine result. data is written into the caller's
// buffer; n and err are returned as-is.
type fakeRead struct {
	data string
	n    int
	err  error
}

// queued is how many bytes the read consumes from the input queue
func (r fakeRead) queued() int {
	if len(r.data) == 0 {
		return 1
	}
	return len(r.data)
}

func reply(data string) fakeRead {
	return fakeRead{data: data, n: len(data)}
}

// fakeConn answers each written line with the reads scripted for it
type fakeConn struct {
	mu sync.Mutex

	responses map[string][]fakeRead
	idlePolls int // Available calls reporting 0 before a reply shows up

	written      []string
	pending      []fakeRead
	polls        int
	availCalls   int
	closed       int
	writeErr     error
	availableErr error
}

func newFakeConn(responses map[string][]fakeRead) *fakeConn {
	return &fakeConn{responses: responses}
}

func (c *fakeConn) WriteString(s string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.written = append(c.written, s)
	c.pending = append(c.pending, c.responses[s]...)
	c.polls = c.idlePolls
	return len(s), nil
}

func (c *fakeConn) Available() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.availCalls++
	if c.availableErr != nil {
		return 0, c.availableErr
	}
	if c.polls > 0 {
		c.polls--
		return 0, nil
	}
	total := 0
	for _, r := range c.pending {
		total += r.queued()
	}
	return total, nil
}

func (c *fakeConn) ReadLine(buf *serial.LineBuffer, delim byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return 0, serial.ErrReadTimeout
	}
	r := c.pending[0]
	c.pending = c.pending[1:]

	buf.Reset()
	for i := 0; i < len(r.data); i++ {
		if err := buf.WriteByte(r.data[i]); err != nil {
			return buf.Len(), serial.ErrLineTooLong
		}
	}
	return r.n, r.err
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed++
	if c.closed > 1 {
		return errors.New("closed twice")
	}
	return nil
}

func (c *fakeConn) writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

// blockingConn has one byte queued that never completes a line. ReadLine
// blocks until Interrupt or Close, like a port with no read timeout.
type blockingConn struct {
	mu         sync.Mutex
	wake       chan struct{}
	once       sync.Once
	reading    chan struct{}
	interrupts int
	closed     int
}

func newBlockingConn() *blockingConn {
	return &blockingConn{
		wake:    make(chan struct{}),
		reading: make(chan struct{}, 1),
	}
}

func (c *blockingConn) WriteString(s string) (int, error) { return len(s), nil }

func (c *blockingConn) Available() (int, error) { return 1, nil }

func (c *blockingConn) ReadLine(buf *serial.LineBuffer, delim byte) (int, error) {
	select {
	case c.reading <- struct{}{}:
	default:
	}
	<-c.wake
	return 0, serial.ErrReadInterrupted
}

func (c *blockingConn) Interrupt() error {
	c.mu.Lock()
	c.interrupts++
	c.mu.Unlock()
	c.once.Do(func() { close(c.wake) })
	return nil
}

func (c *blockingConn) Close() error {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	c.once.Do(func() { close(c.wake) })
	return nil
}

func (c *blockingConn) counts() (interrupts, closed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interrupts, c.closed
}
