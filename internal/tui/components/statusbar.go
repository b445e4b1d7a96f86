package components

import (
	"fmt"

	"github.com/allbin/go-serialping/internal/metrics"
	"github.com/allbin/go-serialping/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar is the bottom line of the connect view
type StatusBar struct {
	portPath string
	baudRate int
	frame    string
	status   styles.StatusType
	err      error
	width    int
}

func NewStatusBar(portPath string, baudRate int, frame string) *StatusBar {
	return &StatusBar{
		portPath: portPath,
		baudRate: baudRate,
		frame:    frame,
		status:   styles.StatusConnecting,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) Status() styles.StatusType {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

func (sb *StatusBar) SetStatus(status styles.StatusType) {
	sb.status = status
	sb.err = nil
}

func (sb *StatusBar) SetFailed(err error) {
	sb.status = styles.StatusFailed
	sb.err = err
}

// View renders the bar: mode badge, port and state on the left; line
// settings, counters and clock on the right
func (sb *StatusBar) View(insert bool, sendingMode SendingMode, snap metrics.Snapshot, clock string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeText := "NORMAL"
	if insert {
		modeText = "INSERT"
	}
	mode := styles.ModeStyle(insert).Render(modeText)
	port := styles.PortStyle.Render(sb.portPath)
	glyph, glyphStyle := styles.Indicator(sb.status)
	divider := styles.DividerStyle.Render("│")

	state := sb.status.String()
	if sb.err != nil {
		state = sb.err.Error()
	}
	left := []string{mode, port, glyphStyle.Render(glyph), styles.DetailStyle.Render(state)}
	if insert {
		left = append(left, lipgloss.NewStyle().Foreground(styles.Peach).Bold(true).Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode)))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	details := styles.DetailStyle.Render(fmt.Sprintf("⚡ %d baud %s  tx %d  rx %d  fail %d",
		sb.baudRate, sb.frame, snap.TxBytes, snap.RxBytes, snap.ReadFails))
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, styles.ClockStyle.Render(clock))

	spacer := lipgloss.NewStyle().
		Width(max(width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)).
		Render("")

	return styles.StatusBarStyle.Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
