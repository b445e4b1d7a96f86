package session

import (
	"fmt"
	"time"

	serial "github.com/allbin/go-serialping"
)

const (
	DefaultPrompt       = "SEND DATA (EXIT to quit): "
	DefaultExitKeyword  = "EXIT"
	DefaultPollInterval = 100 * time.Millisecond

	// Delimiter ends every inbound line
	Delimiter = '\n'
)

// Settings tunes the exchange cycle
type Settings struct {
	PollInterval time.Duration
	BufferSize   int
	LineEnding   string // Appended to every transmitted line, empty by default
	FlushOnOpen  bool   // Discard stale input before the first prompt
}

// DefaultSettings returns the reference behavior: 100ms polling, a 512 byte
// buffer and lines sent verbatim
func DefaultSettings() Settings {
	return Settings{
		PollInterval: DefaultPollInterval,
		BufferSize:   serial.DefaultLineCapacity,
	}
}

func (s Settings) Validate() error {
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be > 0 (got %v)", s.PollInterval)
	}
	if s.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be > 0 (got %d)", s.BufferSize)
	}
	return nil
}
