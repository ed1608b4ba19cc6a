package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_WritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf}).WithComponent("Fetcher")

	log.Info().Int("status", 200).Msg("provider responded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "Fetcher" {
		t.Errorf("expected component Fetcher, got %v", entry["component"])
	}
	if entry["message"] != "provider responded" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("expected status 200, got %v", entry["status"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
	}{
		{"debug level", "debug", true},
		{"info level", "info", false},
		{"invalid falls back to info", "chatty", false},
		{"empty falls back to info", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: tt.level, Output: &buf})

			log.Debug().Msg("raw body")

			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug emitted = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestWithTool(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).WithTool("get_public_ip_info").Warn().Msg("refused")

	if !bytes.Contains(buf.Bytes(), []byte(`"tool":"get_public_ip_info"`)) {
		t.Errorf("expected tool field in %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	// Must not panic and must not write anywhere
	Nop().Error().Msg("discarded")
}
