package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Transcript is a scrolling view of every exchange in the session
type Transcript struct {
	viewport  viewport.Model
	formatter *Formatter
	entries   []Entry
}

func NewTranscript(width, height int) *Transcript {
	return &Transcript{
		viewport:  viewport.New(width, height),
		formatter: NewFormatter(true, true),
	}
}

func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Transcript) Width() int {
	return t.viewport.Width
}

func (t *Transcript) Add(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
}

func (t *Transcript) Entries() []Entry {
	return t.entries
}

func (t *Transcript) Clear() {
	t.entries = nil
	t.viewport.SetContent("")
}

func (t *Transcript) ToggleHex() {
	t.formatter.ToggleHex()
	t.refresh()
}

func (t *Transcript) ToggleText() {
	t.formatter.ToggleText()
	t.refresh()
}

func (t *Transcript) DisplayMode() DisplayMode {
	return t.formatter.DisplayMode()
}

func (t *Transcript) GotoTop() {
	t.viewport.GotoTop()
}

func (t *Transcript) GotoBottom() {
	t.viewport.GotoBottom()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(strings.Join(t.formatter.FormatAll(t.entries), "\n"))
	t.viewport.GotoBottom()
}

// Update forwards only resize messages so the viewport never eats key bindings
func (t *Transcript) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.WindowSizeMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Transcript) View() string {
	return t.viewport.View()
}
