package serial

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// Port represents a serial port connection interface
type Port interface {
	Close() error
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	WriteString(s string) (int, error)

	// Available returns the number of received bytes waiting to be read
	Available() (int, error)

	// ReadLine reads into buf until delim or until buf is full. The whole
	// call is bounded by Config.ReadTimeout.
	ReadLine(buf *LineBuffer, delim byte) (int, error)

	// Interrupt wakes a ReadLine blocked in another goroutine. Close does
	// the same before releasing the port.
	Interrupt() error

	Drain() error
	FlushInput() error
	Path() string
	Config() Config
}

// port is the concrete implementation of the Port interface
type port struct {
	mu     sync.RWMutex
	fd     int
	path   string
	config Config
	closed bool

	// Self-pipe polled next to fd so blocked reads can be woken
	wakeR   int
	wakeW   int
	closing atomic.Bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	switch rate {
	case 50:
		return unix.B50, nil
	case 75:
		return unix.B75, nil
	case 110:
		return unix.B110, nil
	case 134:
		return unix.B134, nil
	case 150:
		return unix.B150, nil
	case 200:
		return unix.B200, nil
	case 300:
		return unix.B300, nil
	case 600:
		return unix.B600, nil
	case 1200:
		return unix.B1200, nil
	case 1800:
		return unix.B1800, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 500000:
		return unix.B500000, nil
	case 576000:
		return unix.B576000, nil
	case 921600:
		return unix.B921600, nil
	case 1000000:
		return unix.B1000000, nil
	case 1152000:
		return unix.B1152000, nil
	case 1500000:
		return unix.B1500000, nil
	case 2000000:
		return unix.B2000000, nil
	case 2500000:
		return unix.B2500000, nil
	case 3000000:
		return unix.B3000000, nil
	case 3500000:
		return unix.B3500000, nil
	case 4000000:
		return unix.B4000000, nil
	default:
		return 0, ErrInvalidBaudRate
	}
}

// Open opens a serial port with the given device path and options
func Open(device string, opts ...Option) (Port, error) {
	config, err := DefaultConfig().Apply(opts...)
	if err != nil {
		return nil, err
	}

	flags := unix.O_RDWR | unix.O_NOCTTY | unix.O_CLOEXEC
	if config.WriteMode == WriteModeSynced {
		flags |= unix.O_SYNC
	}

	fd, err := unix.Open(device, flags, 0)
	if err != nil {
		return nil, openError(device, err)
	}

	// Refuse to share the device with another process
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrDeviceInUse, device)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", device, err)
	}

	if err := configurePort(fd, config); err != nil {
		unix.Close(fd)
		return nil, err
	}

	p, err := newPort(fd, device, config)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return p, nil
}

func newPort(fd int, path string, config Config) (*port, error) {
	var wake [2]int
	if err := unix.Pipe2(wake[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, fmt.Errorf("failed to create wake pipe: %w", err)
	}
	return &port{
		fd:     fd,
		path:   path,
		config: config,
		wakeR:  wake[0],
		wakeW:  wake[1],
	}, nil
}

// openError maps errno values from open(2) to the package sentinels
func openError(device string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, device)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, device)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %s", ErrDeviceInUse, device)
	default:
		return fmt.Errorf("failed to open %s: %w", device, err)
	}
}

// configurePort puts the line in raw mode and applies config
func configurePort(fd int, config Config) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	baudRate, err := getBaudRate(config.BaudRate)
	if err != nil {
		return err
	}

	termios.Cflag = unix.CREAD | unix.CLOCAL | baudRate
	termios.Iflag = 0 // No input processing
	termios.Oflag = 0 // No output processing
	termios.Lflag = 0 // No line processing (raw mode)
	termios.Ispeed = baudRate
	termios.Ospeed = baudRate

	switch config.DataBits {
	case 5:
		termios.Cflag |= unix.CS5
	case 6:
		termios.Cflag |= unix.CS6
	case 7:
		termios.Cflag |= unix.CS7
	default:
		termios.Cflag |= unix.CS8
	}

	if config.StopBits == 2 {
		termios.Cflag |= unix.CSTOPB
	}

	switch config.Parity {
	case ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		termios.Cflag |= unix.PARENB
	}

	// Plain Read returns after VTIME; ReadLine waits with poll instead
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = uint8(config.ReadTimeout / (100 * time.Millisecond))

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}
	return nil
}

// Close closes the serial port. A ReadLine in progress is woken first so
// Close never waits for the read timeout.
func (p *port) Close() error {
	if !p.closing.Swap(true) {
		p.wake()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}

	err := unix.Close(p.fd)
	unix.Close(p.wakeR)
	unix.Close(p.wakeW)
	p.closed = true
	return err
}

// Interrupt makes a pending ReadLine return ErrReadInterrupted. When no read
// is pending the next ReadLine is interrupted instead.
func (p *port) Interrupt() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}
	p.wake()
	return nil
}

// wake writes one byte to the self-pipe. A full pipe already holds a
// pending wake-up, so EAGAIN is ignored.
func (p *port) wake() {
	_, _ = unix.Write(p.wakeW, []byte{0})
}

// Read reads data from the serial port
func (p *port) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	return unix.Read(p.fd, buf)
}

// Write writes all of data to the serial port
func (p *port) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	written := 0
	for written < len(data) {
		n, err := unix.Write(p.fd, data[written:])
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			continue
		}
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// WriteString writes the bytes of s, without any terminator
func (p *port) WriteString(s string) (int, error) {
	return p.Write([]byte(s))
}

// Available returns the number of bytes in the input queue (TIOCINQ)
func (p *port) Available() (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	return unix.IoctlGetInt(p.fd, unix.TIOCINQ)
}

func (p *port) ReadLine(buf *LineBuffer, delim byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	var deadline time.Time
	if p.config.ReadTimeout > 0 {
		deadline = time.Now().Add(p.config.ReadTimeout)
	}
	return readLine(buf, delim, func() (byte, error) {
		return readByte(p.fd, p.wakeR, deadline)
	})
}

// readByte waits for and reads a single byte from fd, giving up when wakeFd
// becomes readable. A zero deadline waits indefinitely.
func readByte(fd, wakeFd int, deadline time.Time) (byte, error) {
	var one [1]byte
	for {
		timeout := -1
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return 0, ErrReadTimeout
			}
			timeout = int((remaining + time.Millisecond - 1) / time.Millisecond)
		}

		fds := []unix.PollFd{
			{Fd: int32(fd), Events: unix.POLLIN},
			{Fd: int32(wakeFd), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, timeout)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrTimeoutConfig, err)
		}
		if n == 0 {
			return 0, ErrReadTimeout
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			drainWake(wakeFd)
			return 0, fmt.Errorf("%w: %w", ErrReadFailed, ErrReadInterrupted)
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			return 0, fmt.Errorf("%w: poll events %#x", ErrReadFailed, fds[0].Revents)
		}

		m, err := unix.Read(fd, one[:])
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrReadFailed, err)
		}
		if m == 0 {
			if fds[0].Revents&unix.POLLHUP != 0 {
				return 0, fmt.Errorf("%w: hang up", ErrReadFailed)
			}
			continue
		}
		return one[0], nil
	}
}

// drainWake empties the self-pipe so one wake-up ends one read
func drainWake(fd int) {
	var b [16]byte
	for {
		n, err := unix.Read(fd, b[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Drain waits until all output written to the port has been transmitted
func (p *port) Drain() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

// FlushInput discards any unread input data
func (p *port) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

func (p *port) Path() string {
	return p.path
}

func (p *port) Config() Config {
	return p.config
}
