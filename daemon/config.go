// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package daemon implements the daemon runtime (C10): the event pump,
// hot-reload, shutdown, the shared observation broker, and the small
// set of ambient concerns (config, logging, single-instance guard) a
// long-running process needs around the core engine.
package daemon

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is keyrx's own small ambient settings file (SPEC_FULL.md
// DOMAIN STACK: "daemon's own small ambient YAML file"), distinct
// from the DSL ruleset the compiler produces. Grounded on
// gazed-vu's load/shd.go yaml.v3 unmarshal pattern.
type Config struct {
	// LogLevel is one of zerolog's level names ("debug", "info",
	// "warn", "error"); defaults to "info".
	LogLevel string `yaml:"log_level"`

	// ConfigDir is where the PID file and, by default, the compiled
	// ruleset artifact live.
	ConfigDir string `yaml:"config_dir"`

	// SocketAddr is the address the (external, out-of-core) control
	// surface binds to (spec §6 Environment). keyrx's core only loads
	// it; it is not passed to the broker or used elsewhere in the daemon.
	SocketAddr string `yaml:"socket_addr"`

	// TickInterval bounds idle time between tap-hold deadline sweeps
	// (spec §5: "at most every 10 ms of idle time").
	TickInterval time.Duration `yaml:"tick_interval"`

	// DeviceAllowlist is a list of DeviceInfo.Name patterns (see
	// config.MatchPattern). It is parsed but not applied: device
	// selection does not consult it, so the daemon opens every device
	// the ruleset selects whatever this list holds.
	DeviceAllowlist []string `yaml:"device_allowlist"`
}

// Environment variable names documented in spec §6. All are optional.
const (
	EnvSocketAddr = "KEYRX_SOCKET_ADDR"
	EnvLogLevel   = "KEYRX_LOG_LEVEL"
	EnvConfigDir  = "KEYRX_CONFIG_DIR"
)

// DefaultConfig returns keyrx's documented defaults (spec §6:
// "all are optional and have documented defaults").
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		ConfigDir:    defaultConfigDir(),
		SocketAddr:   "127.0.0.1:7890",
		TickInterval: 10 * time.Millisecond,
	}
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/keyrx"
	}
	return "/etc/keyrx"
}

// LoadConfig reads a YAML ambient config file at path, falling back to
// DefaultConfig for any field the file omits, then applies environment
// overrides (tcell's own "read $TERM/$LINES/$COLUMNS with os.Getenv"
// direct-env-read idiom, see SPEC_FULL.md).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnv(cfg), nil
			}
			return Config{}, fmt.Errorf("daemon: reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("daemon: parsing config %s: %w", path, err)
		}
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvSocketAddr); v != "" {
		cfg.SocketAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		cfg.ConfigDir = v
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 10 * time.Millisecond
	}
	return cfg
}
