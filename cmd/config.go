package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/metrics"
	"github.com/allbin/go-serialping/internal/session"
	"github.com/spf13/viper"
)

// sessionSettings builds the exchange settings from flags, env and config
func sessionSettings() (session.Settings, error) {
	s := session.DefaultSettings()
	s.PollInterval = viper.GetDuration("poll-interval")
	s.BufferSize = viper.GetInt("buffer")
	s.FlushOnOpen = viper.GetBool("flush")

	ending, err := parseLineEnding(viper.GetString("newline"))
	if err != nil {
		return s, err
	}
	s.LineEnding = ending

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func parseLineEnding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return "", nil
	case "lf":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	default:
		return "", fmt.Errorf("invalid newline %q (valid: none, lf, cr, crlf)", name)
	}
}

// portOpener opens real devices with the configured line read timeout
func portOpener(readTimeout time.Duration) session.Opener {
	return func(path string, baud int) (session.Conn, error) {
		port, err := serial.Open(path,
			serial.WithBaudRate(baud),
			serial.WithReadTimeout(readTimeout),
		)
		if err != nil {
			return nil, err
		}
		return port, nil
	}
}

func startMetrics(ctx context.Context) {
	if addr := viper.GetString("metrics-addr"); addr != "" {
		metrics.StartHTTP(ctx, addr)
	}
}
