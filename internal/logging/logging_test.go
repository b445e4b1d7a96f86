package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", DefaultLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", DefaultLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigureJSON(t *testing.T) {
	prev := *L()
	t.Cleanup(func() { Set(prev) })

	var buf bytes.Buffer
	if _, err := Configure("json", "info", &buf); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	L().Debug().Msg("hidden")
	L().Info().Str("port", "/dev/ttyUSB0").Msg("port_opened")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "port_opened" || entry["port"] != "/dev/ttyUSB0" || entry["app"] != "serialping" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestConfigureRejectsBadInput(t *testing.T) {
	prev := *L()
	t.Cleanup(func() { Set(prev) })

	if _, err := Configure("xml", "info", nil); err == nil {
		t.Error("Expected error for unknown format")
	}
	if _, err := Configure("console", "chatty", nil); err == nil {
		t.Error("Expected error for unknown level")
	}
}
