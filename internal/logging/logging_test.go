package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]struct {
		want zerolog.Level
		ok   bool
	}{
		"":         {zerolog.InfoLevel, false},
		"TRACE":    {zerolog.TraceLevel, true},
		" debug ":  {zerolog.DebugLevel, true},
		"warning":  {zerolog.WarnLevel, true},
		"error":    {zerolog.ErrorLevel, true},
		"off":      {zerolog.Disabled, true},
		"verbose?": {zerolog.InfoLevel, false},
	}
	for raw, tc := range cases {
		got, ok := ParseLevel(raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewWritesAppFieldAndHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", true)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "app="+App) {
		t.Fatalf("expected warn line with app field, got %q", out)
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty", true)

	log.Debug().Msg("debug line")
	log.Info().Msg("info line")

	out := buf.String()
	if strings.Contains(out, "debug line") || !strings.Contains(out, "info line") {
		t.Fatalf("expected info level fallback, got %q", out)
	}
}
