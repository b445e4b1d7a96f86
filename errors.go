package serial

import "errors"

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPortClosed       = errors.New("serial port is closed")

	// Line read errors, one per non-positive Outcome
	ErrReadTimeout   = errors.New("timeout is reached")
	ErrTimeoutConfig = errors.New("error while setting the timeout")
	ErrReadFailed    = errors.New("error while reading the character")
	ErrLineTooLong   = errors.New("maximum of bytes is reached")

	// ErrReadInterrupted is wrapped together with ErrReadFailed when a
	// pending ReadLine is woken by Interrupt or Close
	ErrReadInterrupted = errors.New("read interrupted")

	ErrBufferFull = errors.New("line buffer is full")

	ErrUSBInfoNotAvailable = errors.New("USB device information not available")
)
