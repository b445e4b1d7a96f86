package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	serial "github.com/allbin/go-serialping"
	"github.com/spf13/viper"
)

func testPorts() []serial.PortInfo {
	return []serial.PortInfo{
		{Name: "ttyACM0", Path: "/dev/ttyACM0", VendorID: "2341", ProductID: "0043", Product: "Uno"},
		{Name: "ttyAMA0", Path: "/dev/ttyAMA0"},
		{Name: "ttyS0", Path: "/dev/ttyS0"},
		{Name: "ttySAC1", Path: "/dev/ttySAC1"},
		{Name: "ttyUSB0", Path: "/dev/ttyUSB0"},
	}
}

func TestFilterPorts(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"ttyACM0", "ttyAMA0", "ttyS0", "ttySAC1", "ttyUSB0"}},
		{"all", []string{"ttyACM0", "ttyAMA0", "ttyS0", "ttySAC1", "ttyUSB0"}},
		{"usb", []string{"ttyACM0", "ttyUSB0"}},
		{"USB", []string{"ttyACM0", "ttyUSB0"}},
		{"standard", []string{"ttyS0"}},
		{"arm", []string{"ttyAMA0"}},
	}

	for _, tt := range tests {
		got, err := filterPorts(testPorts(), tt.filter)
		if err != nil {
			t.Errorf("filterPorts(%q) error = %v", tt.filter, err)
			continue
		}
		var names []string
		for _, p := range got {
			names = append(names, p.Name)
		}
		if strings.Join(names, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filterPorts(%q) = %v, want %v", tt.filter, names, tt.want)
		}
	}

	if _, err := filterPorts(testPorts(), "bluetooth"); err == nil {
		t.Error("filterPorts accepted an unknown filter")
	}
}

func TestGetPortType(t *testing.T) {
	tests := map[string]string{
		"ttyUSB0": "USB Serial",
		"ttyACM3": "USB CDC/ACM",
		"ttyS1":   "Standard Serial",
		"ttySAC0": "Samsung Serial",
		"ttyTHS2": "Tegra Serial",
		"ttyO1":   "OMAP Serial",
		"foo":     "Serial Port",
	}
	for name, want := range tests {
		if got := getPortType(name); got != want {
			t.Errorf("getPortType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(testPorts())
	for _, want := range []string{"Port", "/dev/ttyACM0", "USB CDC/ACM", "2341:0043 Uno", "/dev/ttyS0"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTable missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSimple(t *testing.T) {
	var buf bytes.Buffer
	renderSimple(&buf, testPorts()[:2])
	if got, want := buf.String(), "/dev/ttyACM0\n/dev/ttyAMA0\n"; got != want {
		t.Errorf("renderSimple = %q, want %q", got, want)
	}
}

func TestPrintPortInfo(t *testing.T) {
	var buf bytes.Buffer
	info := testPorts()[0]
	printPortInfo(&buf, &info)

	out := buf.String()
	for _, want := range []string{"Port Information: /dev/ttyACM0", "Vendor ID:    2341", "Product:      Uno"} {
		if !strings.Contains(out, want) {
			t.Errorf("printPortInfo missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Serial:") {
		t.Errorf("printPortInfo printed an empty field:\n%s", out)
	}
}

func TestParseLineEnding(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"none", "", false},
		{"LF", "\n", false},
		{"cr", "\r", false},
		{"crlf", "\r\n", false},
		{"nl", "", true},
	}
	for _, tt := range tests {
		got, err := parseLineEnding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLineEnding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLineEnding(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionSettingsFromViper(t *testing.T) {
	viper.Set("poll-interval", 50*time.Millisecond)
	viper.Set("buffer", 64)
	viper.Set("newline", "crlf")
	viper.Set("flush", true)
	t.Cleanup(viper.Reset)

	s, err := sessionSettings()
	if err != nil {
		t.Fatalf("sessionSettings() error = %v", err)
	}
	if s.PollInterval != 50*time.Millisecond || s.BufferSize != 64 || s.LineEnding != "\r\n" || !s.FlushOnOpen {
		t.Errorf("sessionSettings() = %+v", s)
	}

	viper.Set("buffer", 0)
	if _, err := sessionSettings(); err == nil {
		t.Error("sessionSettings() accepted a zero buffer")
	}
}

func TestSessionSettingsFromEnv(t *testing.T) {
	t.Setenv("SERIALPING_POLL_INTERVAL", "250ms")
	t.Setenv("SERIALPING_NEWLINE", "lf")
	t.Setenv("SERIALPING_BUFFER", "128")
	viper.Reset()
	viper.SetEnvPrefix("SERIALPING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	t.Cleanup(viper.Reset)

	s, err := sessionSettings()
	if err != nil {
		t.Fatalf("sessionSettings() error = %v", err)
	}
	if s.PollInterval != 250*time.Millisecond || s.LineEnding != "\n" || s.BufferSize != 128 {
		t.Errorf("sessionSettings() = %+v", s)
	}
}
