package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, zerolog.InfoLevel, "json")
	log.Info().Str("component", "store").Msg("opened")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %q", buf.String())
	}
	if line["message"] != "opened" || line["component"] != "store" || line["time"] == nil {
		t.Errorf("unexpected fields: %v", line)
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, zerolog.WarnLevel, "json")
	log.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info leaked at warn level: %q", buf.String())
	}
	log.Warn().Msg("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("warn missing: %q", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, zerolog.InfoLevel, "console")
	log.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("unexpected console output: %q", buf.String())
	}
}
