package session

import (
	"bytes"
	"context"
	"fmt"
	"time"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/logging"
	"github.com/allbin/go-serialping/internal/metrics"
)

// Conn is the part of serial.Port the session needs
type Conn interface {
	WriteString(s string) (int, error)
	Available() (int, error)
	ReadLine(buf *serial.LineBuffer, delim byte) (int, error)
	Close() error
}

// drainer is implemented by connections that can wait for transmission
type drainer interface {
	Drain() error
}

// interrupter is implemented by connections whose pending ReadLine can be woken
type interrupter interface {
	Interrupt() error
}

// Reply is one read from the drain phase. Data holds exactly the bytes
// the read reported and is nil for non-positive outcomes.
type Reply struct {
	Outcome serial.Outcome
	Data    []byte
}

// Exchanger runs the send, poll and drain cycle on a connection
type Exchanger struct {
	conn     Conn
	buf      *serial.LineBuffer
	settings Settings
}

func NewExchanger(conn Conn, settings Settings) *Exchanger {
	return &Exchanger{
		conn:     conn,
		buf:      serial.NewLineBuffer(settings.BufferSize),
		settings: settings,
	}
}

// Exchange transmits line, waits until the device has something to say and
// passes every read to onReply until the input queue is empty. Read
// failures are delivered as replies; only write, queue-query and context
// errors are returned.
func (e *Exchanger) Exchange(ctx context.Context, line string, onReply func(Reply)) error {
	log := logging.L()

	n, err := e.conn.WriteString(line + e.settings.LineEnding)
	if err != nil {
		metrics.IncError(metrics.ErrWrite)
		return fmt.Errorf("write failed: %w", err)
	}
	metrics.ObserveWrite(n)
	log.Debug().Int("bytes", n).Str("data", line).Msg("tx")

	if d, ok := e.conn.(drainer); ok {
		if err := d.Drain(); err != nil {
			log.Warn().Err(err).Msg("drain_failed")
		}
	}

	start := time.Now()
	if err := e.waitReadable(ctx); err != nil {
		return err
	}
	waited := time.Since(start)
	metrics.ObservePoll(waited)
	log.Debug().Dur("waited", waited).Msg("reply_pending")

	return e.drain(ctx, onReply)
}

// waitReadable sleeps in PollInterval steps until a byte is queued
func (e *Exchanger) waitReadable(ctx context.Context) error {
	ticker := time.NewTicker(e.settings.PollInterval)
	defer ticker.Stop()

	for {
		n, err := e.available()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Exchanger) drain(ctx context.Context, onReply func(Reply)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := e.available()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		got, err := e.readLine(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		outcome := serial.ClassifyRead(got, err)
		metrics.ObserveRead(outcome)

		reply := Reply{Outcome: outcome}
		if outcome.Received() {
			data := e.buf.Bytes()
			if got < len(data) {
				data = data[:got]
			}
			reply.Data = bytes.Clone(data)
			logging.L().Debug().Int("bytes", got).Msg("rx")
		} else {
			logging.L().Debug().Err(err).Int("code", int(outcome)).Msg("rx_failed")
		}
		onReply(reply)
	}
}

// readLine reads one reply line and wakes the read when ctx is cancelled
func (e *Exchanger) readLine(ctx context.Context) (int, error) {
	if in, ok := e.conn.(interrupter); ok {
		stop := context.AfterFunc(ctx, func() { _ = in.Interrupt() })
		defer stop()
	}
	return e.conn.ReadLine(e.buf, Delimiter)
}

func (e *Exchanger) available() (int, error) {
	n, err := e.conn.Available()
	if err != nil {
		metrics.IncError(metrics.ErrAvailable)
		return 0, fmt.Errorf("checking input queue: %w", err)
	}
	return n, nil
}
