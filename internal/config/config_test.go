package config

import (
	"errors"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHost, EnvPort, EnvUsername, EnvUsernameAlt, EnvLogLevel, EnvLogNoColor} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if got := cfg.Addr(); got != "localhost:25565" {
		t.Fatalf("expected localhost:25565, got %q", got)
	}
	if cfg.Username != "AFK_Bot" {
		t.Fatalf("expected AFK_Bot, got %q", cfg.Username)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHost, "mc.example.com")
	t.Setenv(EnvPort, "19132")
	t.Setenv(EnvUsername, "Steve")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{Host: "mc.example.com", Port: 19132, Username: "Steve"}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadUsernameAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvUsernameAlt, "Alex")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Username != "Alex" {
		t.Fatalf("expected alias username Alex, got %q", cfg.Username)
	}

	t.Setenv(EnvUsername, "Steve")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Username != "Steve" {
		t.Fatalf("expected %s to win over alias, got %q", EnvUsername, cfg.Username)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		invalid bool
	}{
		{name: "zero", raw: "0", invalid: true},
		{name: "too large", raw: "70000", invalid: true},
		{name: "negative", raw: "-1", invalid: true},
		{name: "not a number", raw: "minecraft"},
		{name: "hex", raw: "0x63DD"},
		{name: "binary prefix", raw: "0b1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvPort, tc.raw)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for port %q", tc.raw)
			}
			if tc.invalid && !errors.Is(err, ErrInvalidPort) {
				t.Fatalf("expected ErrInvalidPort, got %v", err)
			}
		})
	}
}

func TestLoadLog(t *testing.T) {
	clearEnv(t)
	if got := LoadLog(); got.Level != "info" || got.NoColor {
		t.Fatalf("unexpected log defaults: %+v", got)
	}

	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogNoColor, "true")
	got := LoadLog()
	if got.Level != "debug" || !got.NoColor {
		t.Fatalf("unexpected log overrides: %+v", got)
	}

	t.Setenv(EnvLogNoColor, "maybe")
	if LoadLog().NoColor {
		t.Fatalf("expected unparsable nocolor to fall back to false")
	}
}

func TestLoadPortIsDecimal(t *testing.T) {
	for raw, want := range map[string]int{"025565": 25565, " 19132 ": 19132, "0080": 80} {
		clearEnv(t)
		t.Setenv(EnvPort, raw)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("port %q: %v", raw, err)
		}
		if cfg.Port != want {
			t.Fatalf("port %q: expected %d, got %d", raw, want, cfg.Port)
		}
	}
}
