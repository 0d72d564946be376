// Package config loads keypad settings from a YAML file and KEYPAD_* environment
// variables. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/keypad/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the full application configuration.
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Server   ServerConfig `mapstructure:"server"`
	Store    StoreConfig  `mapstructure:"store"`
	MCP      MCPConfig    `mapstructure:"mcp"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StoreConfig struct {
	Kind  string        `mapstructure:"kind"`
	TTL   time.Duration `mapstructure:"ttl"`
	Dir   string        `mapstructure:"dir"`
	Redis RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server:   ServerConfig{Port: 8080},
		Store: StoreConfig{
			Kind: StoreMemory,
			Dir:  ".keypad/sessions",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "keypad:",
			},
		},
		MCP: MCPConfig{Transport: TransportStdio, Port: 8081},
	}
}

// envKeys maps environment variables to their dotted config path.
var envKeys = map[string]string{
	"KEYPAD_LOG_LEVEL":      "log_level",
	"KEYPAD_SERVER_PORT":    "server.port",
	"KEYPAD_STORE_KIND":     "store.kind",
	"KEYPAD_STORE_TTL":      "store.ttl",
	"KEYPAD_STORE_DIR":      "store.dir",
	"KEYPAD_REDIS_ADDR":     "store.redis.addr",
	"KEYPAD_REDIS_PASSWORD": "store.redis.password",
	"KEYPAD_REDIS_DB":       "store.redis.db",
	"KEYPAD_REDIS_PREFIX":   "store.redis.prefix",
	"KEYPAD_MCP_TRANSPORT":  "mcp.transport",
	"KEYPAD_MCP_PORT":       "mcp.port",
}

// Load reads path (optional; "" skips the file) and the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for env, key := range envKeys {
		if val, ok := lookup(env); ok && val != "" {
			setPath(raw, strings.Split(key, "."), val)
		}
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreRedis:
	case StoreFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store dir is required for the file store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q (want %s, %s or %s)", c.Store.Kind, StoreMemory, StoreRedis, StoreFile))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, fmt.Errorf("store ttl must not be negative, got %s", c.Store.TTL))
	}
	if c.MCP.Transport != TransportStdio && c.MCP.Transport != TransportSSE {
		errs = append(errs, fmt.Errorf("unknown mcp transport %q (want %s or %s)", c.MCP.Transport, TransportStdio, TransportSSE))
	}
	for name, port := range map[string]int{"server.port": c.Server.Port, "mcp.port": c.MCP.Port} {
		if port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s out of range: %d", name, port))
		}
	}
	return errors.Join(errs...)
}

func setPath(m map[string]any, path []string, val string) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = val
}
