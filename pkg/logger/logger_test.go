package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)
	log.WithField("component", "service").
		WithFields(map[string]interface{}{"regions": 2}).
		WithError(errors.New("boom")).
		Debug("Interest by region reshaped")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "debug" || entry["message"] != "Interest by region reshaped" {
		t.Errorf("Unexpected entry %v", entry)
	}
	if entry["component"] != "service" || entry["regions"] != float64(2) || entry["error"] != "boom" {
		t.Errorf("Missing fields in %v", entry)
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn"}, &buf)
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn, got %q", buf.String())
	}
	log.Warn("shown")
	if buf.Len() == 0 {
		t.Error("Expected warn to be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, test := range tests {
		if got := parseLevel(test.input); got != test.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func TestSetLogger(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	var buf bytes.Buffer
	SetLogger(NewWithWriter(Config{Level: "info"}, &buf))
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	WithField("component", "test").Info("hello")
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"test"`)) {
		t.Errorf("Expected global logger to be replaced, got %q", buf.String())
	}
}
