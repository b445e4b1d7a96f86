package styles

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette, limited to the shades the connect view uses
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	// Transcript
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	TimestampStyle = lipgloss.NewStyle().Foreground(Subtext0)
	SentStyle      = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	ReplyStyle     = lipgloss.NewStyle().Foreground(Sky).Bold(true)
	FailureStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	NoticeStyle    = lipgloss.NewStyle().Foreground(Overlay0)

	// Input box
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(0, 1)

	// Status bar sections
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0)

	PortStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true).
			Padding(0, 1)

	DetailStyle = lipgloss.NewStyle().
			Foreground(Subtext0).
			Padding(0, 1)

	ClockStyle = lipgloss.NewStyle().
			Foreground(Subtext1).
			Padding(0, 1)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Surface2).
			Padding(0, 1)
)

// ModeStyle renders the vim-like mode badge
func ModeStyle(insert bool) lipgloss.Style {
	bg := Blue
	if insert {
		bg = Green
	}
	return lipgloss.NewStyle().
		Foreground(Base).
		Background(bg).
		Bold(true).
		Padding(0, 1)
}

type StatusType int

const (
	StatusConnecting StatusType = iota
	StatusIdle
	StatusAwaiting
	StatusFailed
	StatusClosed
)

func (s StatusType) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusIdle:
		return "idle"
	case StatusAwaiting:
		return "awaiting reply"
	case StatusFailed:
		return "not connected"
	default:
		return "closed"
	}
}

// Indicator returns the single-character glyph and its style for s
func Indicator(s StatusType) (string, lipgloss.Style) {
	switch s {
	case StatusIdle:
		return "●", lipgloss.NewStyle().Foreground(Green)
	case StatusAwaiting:
		return "◐", lipgloss.NewStyle().Foreground(Yellow)
	case StatusConnecting:
		return "○", lipgloss.NewStyle().Foreground(Yellow)
	case StatusFailed:
		return "✗", lipgloss.NewStyle().Foreground(Red)
	default:
		return "○", lipgloss.NewStyle().Foreground(Red)
	}
}
