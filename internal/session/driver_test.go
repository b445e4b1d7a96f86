package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	serial "github.com/allbin/go-serialping"
)

func runDriver(t *testing.T, conn *fakeConn, input string) (stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	d := NewDriver(strings.NewReader(input), &out, &errOut, NewExchanger(conn, testSettings()))
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String(), errOut.String()
}

// The scripted reply has no delimiter so the count is 4. A real port
// counts the newline it stops on: PONG\n is 5 bytes ending in 0A, as in
// TestDriverEndOfInput.
func TestDriverPingPong(t *testing.T) {
	conn := newFakeConn(map[string][]fakeRead{"PING": {reply("PONG")}})

	out, _ := runDriver(t, conn, "PING\nEXIT\n")

	if !strings.Contains(out, "RECEIVED 4 BYTES\n") {
		t.Errorf("output missing byte count:\n%s", out)
	}
	if !strings.Contains(out, "50 4F 4E 47 -> PONG\n") {
		t.Errorf("output missing hex/text line:\n%s", out)
	}
	if got := strings.Count(out, DefaultPrompt); got != 2 {
		t.Errorf("prompt printed %d times, want 2", got)
	}
}

func TestDriverEmptyLineSendsNothing(t *testing.T) {
	conn := newFakeConn(nil)

	out, _ := runDriver(t, conn, "\n\nEXIT\n")

	if got := conn.writes(); len(got) != 0 {
		t.Errorf("writes = %q, want none", got)
	}
	if got := strings.Count(out, DefaultPrompt); got != 3 {
		t.Errorf("prompt printed %d times, want 3", got)
	}
}

func TestDriverExitIsCaseSensitive(t *testing.T) {
	conn := newFakeConn(map[string][]fakeRead{
		"exit":  {reply("?\n")},
		"Exit ": {reply("?\n")},
		" EXIT": {reply("?\n")},
	})

	runDriver(t, conn, "exit\nExit \n EXIT\nEXIT\n")

	want := []string{"exit", "Exit ", " EXIT"}
	got := conn.writes()
	if len(got) != len(want) {
		t.Fatalf("writes = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDriverEndOfInput(t *testing.T) {
	conn := newFakeConn(map[string][]fakeRead{"PING": {reply("PONG\n")}})

	out, _ := runDriver(t, conn, "PING")

	if !strings.Contains(out, "50 4F 4E 47 0A -> PONG\n") {
		t.Errorf("output missing reply:\n%s", out)
	}
	if len(conn.writes()) != 1 {
		t.Errorf("writes = %q, want [PING]", conn.writes())
	}
}

func TestDriverDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		read  fakeRead
		count string
		diag  string
	}{
		{"timeout", fakeRead{err: serial.ErrReadTimeout}, "RECEIVED 0 BYTES", "Error code: 0 timeout is reached"},
		{"timeout config", fakeRead{err: serial.ErrTimeoutConfig}, "RECEIVED -1 BYTES", "Error code: -1 error while setting the timeout"},
		{"read failed", fakeRead{err: serial.ErrReadFailed}, "RECEIVED -2 BYTES", "Error code: -2 error while reading the character"},
		{"limit", fakeRead{err: serial.ErrLineTooLong}, "RECEIVED -3 BYTES", "Error code: -3 maximum of bytes is reached"},
		{"unknown", fakeRead{err: errors.New("strange")}, "RECEIVED -4 BYTES", "Error code: -4 unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn(map[string][]fakeRead{"X": {tt.read}})

			out, errOut := runDriver(t, conn, "X\nEXIT\n")

			if !strings.Contains(out, tt.count+"\n") {
				t.Errorf("stdout missing %q:\n%s", tt.count, out)
			}
			if !strings.Contains(errOut, tt.diag+"\n") {
				t.Errorf("stderr = %q, want %q", errOut, tt.diag)
			}
			if strings.Contains(out, "->") {
				t.Errorf("failed read rendered bytes:\n%s", out)
			}
		})
	}
}

func TestDriverReadErrorKeepsLooping(t *testing.T) {
	conn := newFakeConn(map[string][]fakeRead{
		"A": {{err: serial.ErrReadTimeout}},
		"B": {reply("OK\n")},
	})

	out, _ := runDriver(t, conn, "A\nB\nEXIT\n")

	if got := conn.writes(); len(got) != 2 {
		t.Errorf("writes = %q, want [A B]", got)
	}
	if !strings.Contains(out, "4F 4B 0A -> OK\n") {
		t.Errorf("second exchange not rendered:\n%s", out)
	}
}

func TestDriverWriteErrorKeepsLooping(t *testing.T) {
	conn := newFakeConn(nil)
	conn.writeErr = errors.New("device gone")

	_, errOut := runDriver(t, conn, "PING\nEXIT\n")

	if !strings.Contains(errOut, "Error: write failed: device gone\n") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestDriverCancelledWhileWaitingForInput(t *testing.T) {
	conn := newFakeConn(nil)
	in, _ := io.Pipe()
	var out bytes.Buffer
	d := NewDriver(in, &out, io.Discard, NewExchanger(conn, testSettings()))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestDriverLongInputLine(t *testing.T) {
	long := strings.Repeat("A", 70000)
	conn := newFakeConn(map[string][]fakeRead{long: {reply("OK")}})

	out, _ := runDriver(t, conn, long+"\nEXIT\n")

	got := conn.writes()
	if len(got) != 1 || got[0] != long {
		t.Fatalf("sent %d lines, want the %d byte line intact", len(got), len(long))
	}
	if !strings.Contains(out, "RECEIVED 2 BYTES\n") {
		t.Errorf("output missing reply:\n%s", out)
	}
}

func TestDriverKeepsCarriageReturn(t *testing.T) {
	conn := newFakeConn(map[string][]fakeRead{"PING\r": {reply("PONG")}})

	runDriver(t, conn, "PING\r\nEXIT\n")

	if got := conn.writes(); len(got) != 1 || got[0] != "PING\r" {
		t.Errorf("writes = %q, want [\"PING\\r\"]", got)
	}
}
