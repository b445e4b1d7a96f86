package session

import (
	"fmt"
	"strings"
)

// HexBytes renders every byte as two uppercase hex digits, space separated
func HexBytes(data []byte) string {
	return fmt.Sprintf("% X", data)
}

// DisplayString returns data as text with every newline removed
func DisplayString(data []byte) string {
	return strings.ReplaceAll(string(data), "\n", "")
}

// formatReceived is the transcript line for a successful read
func formatReceived(data []byte) string {
	return fmt.Sprintf("%s -> %s", HexBytes(data), DisplayString(data))
}
