package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-serialping/internal/session"
	"github.com/allbin/go-serialping/internal/tui/styles"
)

// EntryKind tells the formatter how to render a transcript entry
type EntryKind int

const (
	EntrySent EntryKind = iota
	EntryReply
	EntryNotice
)

// Entry is one transcript line: a transmitted request, a drained reply or
// a local notice
type Entry struct {
	Time  time.Time
	Kind  EntryKind
	Text  string        // Sent line or notice text
	Reply session.Reply // Set for EntryReply
}

type DisplayMode struct {
	ShowHex  bool
	ShowText bool
}

type Formatter struct {
	mode DisplayMode
}

func NewFormatter(showHex, showText bool) *Formatter {
	return &Formatter{mode: DisplayMode{ShowHex: showHex, ShowText: showText}}
}

func (f *Formatter) DisplayMode() DisplayMode {
	return f.mode
}

func (f *Formatter) ToggleHex() {
	f.mode.ShowHex = !f.mode.ShowHex
}

func (f *Formatter) ToggleText() {
	f.mode.ShowText = !f.mode.ShowText
}

func (f *Formatter) Format(e Entry) string {
	ts := styles.TimestampStyle.Render(fmt.Sprintf("[%s]", e.Time.Format("15:04:05.000")))

	switch e.Kind {
	case EntrySent:
		return fmt.Sprintf("%s %s %s", ts, styles.SentStyle.Render("↗ TX"), e.Text)
	case EntryNotice:
		return fmt.Sprintf("%s %s", ts, styles.NoticeStyle.Render(e.Text))
	}

	r := e.Reply
	if !r.Outcome.Received() {
		label := styles.FailureStyle.Render(fmt.Sprintf("✗ RX %d", int(r.Outcome)))
		return fmt.Sprintf("%s %s %s", ts, label, r.Outcome.Diagnostic())
	}

	label := styles.ReplyStyle.Render(fmt.Sprintf("↙ RX %d", int(r.Outcome)))
	return fmt.Sprintf("%s %s %s", ts, label, f.body(r.Data))
}

// body renders reply bytes in the same "HEX -> text" form as the line
// driver, dropping whichever half is toggled off
func (f *Formatter) body(data []byte) string {
	var parts []string
	if f.mode.ShowHex {
		parts = append(parts, session.HexBytes(data))
	}
	if f.mode.ShowText {
		parts = append(parts, session.DisplayString(data))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d bytes", len(data))
	}
	return strings.Join(parts, " -> ")
}

func (f *Formatter) FormatAll(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = f.Format(e)
	}
	return out
}
