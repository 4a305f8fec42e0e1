// Package config reads the bot's connection settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Environment variables consulted by Load.
const (
	EnvHost        = "MC_SERVER_HOST"
	EnvPort        = "MC_SERVER_PORT"
	EnvUsername    = "MC_USERNAME"
	EnvUsernameAlt = "MC_BOT_USERNAME"

	EnvLogLevel   = "AFKBOT_LOG_LEVEL"
	EnvLogNoColor = "AFKBOT_LOG_NOCOLOR"
)

// Defaults used when the environment is silent.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 25565
	DefaultUsername = "AFK_Bot"
)

var ErrInvalidPort = errors.New("port must be in range 1-65535")

// Config is the connection triple the supervisor dials with. It is read
// once at startup and never mutated.
type Config struct {
	Host     string
	Port     int
	Username string
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LogConfig holds the ambient logger settings.
type LogConfig struct {
	Level   string
	NoColor bool
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Username: DefaultUsername,
	}
}

// newViper builds a private viper instance bound to the bot's env vars.
func newViper() *viper.Viper {
	v := viper.New()
	defaults := Default()
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("username", defaults.Username)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.nocolor", false)

	_ = v.BindEnv("host", EnvHost)
	_ = v.BindEnv("port", EnvPort)
	_ = v.BindEnv("username", EnvUsername, EnvUsernameAlt)
	_ = v.BindEnv("log.level", EnvLogLevel)
	_ = v.BindEnv("log.nocolor", EnvLogNoColor)
	return v
}

// Load reads the connection triple from the environment, falling back to
// defaults for anything unset or empty.
func Load() (Config, error) {
	return load(newViper())
}

func load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:     strings.TrimSpace(v.GetString("host")),
		Username: strings.TrimSpace(v.GetString("username")),
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}

	// base 10 only: "025565" is 25565, not octal
	port, err := strconv.ParseInt(strings.TrimSpace(cast.ToString(v.Get("port"))), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", EnvPort, err)
	}
	if port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("%s=%d: %w", EnvPort, port, ErrInvalidPort)
	}
	cfg.Port = int(port)
	return cfg, nil
}

// LoadLog reads logger settings. Unparsable values fall back to defaults.
func LoadLog() LogConfig {
	v := newViper()
	nocolor, err := cast.ToBoolE(v.Get("log.nocolor"))
	if err != nil {
		nocolor = false
	}
	return LogConfig{
		Level:   v.GetString("log.level"),
		NoColor: nocolor,
	}
}
