// Package session implements the interactive request/response driver: it
// opens a port, transmits operator lines and prints every reply line in hex
// and text form.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/logging"
	"github.com/allbin/go-serialping/internal/metrics"
	"github.com/charmbracelet/lipgloss"
)

// Exit statuses returned by App.Run
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Opener opens the named port at the given baud rate
type Opener func(path string, baud int) (Conn, error)

// Enumerator lists the ports that could be opened
type Enumerator func() ([]serial.PortInfo, error)

// flusher is implemented by connections that can discard queued input
type flusher interface {
	FlushInput() error
}

// App is the command-line entry point around Driver
type App struct {
	Program   string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Open      Opener
	Enumerate Enumerator
	Settings  Settings
}

// Run executes the session for positional args (port, baud rate) and
// returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	log := logging.L()

	if len(args) < 2 {
		a.usage()
		return ExitFailure
	}

	outStyle := lipgloss.NewRenderer(a.Stdout).NewStyle().Bold(true)
	errStyle := lipgloss.NewRenderer(a.Stderr).NewStyle().Bold(true)

	portPath := args[0]
	baud, err := strconv.Atoi(args[1])
	if err != nil {
		log.Error().Err(err).Str("baud", args[1]).Msg("invalid_baud_rate")
		fmt.Fprintln(a.Stderr, errStyle.Foreground(lipgloss.Color("196")).Render("NOT CONNECTED"))
		return ExitFailure
	}

	conn, err := a.Open(portPath, baud)
	if err != nil {
		log.Error().Err(err).Str("port", portPath).Int("baud", baud).Msg("open_failed")
		fmt.Fprintln(a.Stderr, errStyle.Foreground(lipgloss.Color("196")).Render("NOT CONNECTED"))
		return ExitFailure
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Str("port", portPath).Msg("close_failed")
		}
		snap := metrics.Snap()
		log.Info().
			Uint64("exchanges", snap.Exchanges).
			Uint64("tx_bytes", snap.TxBytes).
			Uint64("rx_bytes", snap.RxBytes).
			Uint64("read_failures", snap.ReadFails).
			Msg("port_closed")
		fmt.Fprintln(a.Stdout, outStyle.Foreground(lipgloss.Color("244")).Render("CLOSED"))
	}()

	log.Info().Str("port", portPath).Int("baud", baud).Msg("port_opened")
	fmt.Fprintln(a.Stdout, outStyle.Foreground(lipgloss.Color("40")).Render("CONNECTED"))
	fmt.Fprintln(a.Stdout)

	if f, ok := conn.(flusher); ok && a.Settings.FlushOnOpen {
		if err := f.FlushInput(); err != nil {
			log.Warn().Err(err).Msg("flush_failed")
		}
	}

	driver := NewDriver(a.Stdin, a.Stdout, a.Stderr, NewExchanger(conn, a.Settings))
	if err := driver.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("interrupted")
		} else {
			log.Error().Err(err).Msg("session_failed")
		}
		return ExitFailure
	}
	return ExitSuccess
}

func (a *App) usage() {
	program := a.Program
	if program == "" {
		program = "serialping"
	}
	fmt.Fprintf(a.Stdout, "Usage: %s <port> <baudrate>\n\n", program)
	fmt.Fprintln(a.Stdout, "List of serial ports detected:")

	if a.Enumerate == nil {
		return
	}
	ports, err := a.Enumerate()
	if err != nil {
		logging.L().Warn().Err(err).Msg("list_ports_failed")
		return
	}
	for _, p := range ports {
		fmt.Fprintf(a.Stdout, "\t- %s\n", p.Path)
	}
}
