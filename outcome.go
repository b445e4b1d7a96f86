package serial

import (
	"errors"
	"fmt"
)

// Outcome classifies a line read. Positive values are the number of bytes
// received; zero and negative values identify why nothing was received.
type Outcome int

const (
	OutcomeTimeout       Outcome = 0  // Deadline passed before the delimiter or limit
	OutcomeTimeoutConfig Outcome = -1 // Could not arm the read deadline
	OutcomeReadFailed    Outcome = -2 // Reading a byte from the device failed
	OutcomeLimitReached  Outcome = -3 // Buffer filled before the delimiter arrived
	OutcomeUnknown       Outcome = -4
)

// ClassifyRead maps the result of ReadLine to an Outcome
func ClassifyRead(n int, err error) Outcome {
	switch {
	case err == nil:
		return Outcome(n)
	case errors.Is(err, ErrReadTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrTimeoutConfig):
		return OutcomeTimeoutConfig
	case errors.Is(err, ErrReadFailed):
		return OutcomeReadFailed
	case errors.Is(err, ErrLineTooLong):
		return OutcomeLimitReached
	default:
		return OutcomeUnknown
	}
}

// Received reports whether the read produced any bytes
func (o Outcome) Received() bool {
	return o > 0
}

// Err returns the sentinel error for a non-positive outcome, or nil
func (o Outcome) Err() error {
	switch {
	case o > 0:
		return nil
	case o == OutcomeTimeout:
		return ErrReadTimeout
	case o == OutcomeTimeoutConfig:
		return ErrTimeoutConfig
	case o == OutcomeReadFailed:
		return ErrReadFailed
	case o == OutcomeLimitReached:
		return ErrLineTooLong
	default:
		return errors.New("unknown error")
	}
}

// Diagnostic renders the operator-facing message for a non-positive outcome
func (o Outcome) Diagnostic() string {
	if o.Received() {
		return fmt.Sprintf("received %d bytes", int(o))
	}
	return fmt.Sprintf("Error code: %d %v", int(o), o.Err())
}

func (o Outcome) String() string {
	switch {
	case o > 0:
		return "received"
	case o == OutcomeTimeout:
		return "timeout"
	case o == OutcomeTimeoutConfig:
		return "timeout_config"
	case o == OutcomeReadFailed:
		return "read_failed"
	case o == OutcomeLimitReached:
		return "limit_reached"
	default:
		return "unknown"
	}
}
