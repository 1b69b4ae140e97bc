// Package config loads settings for the marquee server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "MARQUEE_"

// Config is the server configuration.
type Config struct {
	Addr        string        `mapstructure:"addr"`
	SiteDir     string        `mapstructure:"site_dir"`
	Maintenance bool          `mapstructure:"maintenance"`
	LogLevel    string        `mapstructure:"log_level"`
	ReplayDelay time.Duration `mapstructure:"replay_delay"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	Redis       RedisConfig   `mapstructure:"redis"`
}

// RedisConfig enables the redis snapshot store when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:        ":8080",
		SiteDir:     ".",
		LogLevel:    "info",
		ReplayDelay: 500 * time.Millisecond,
		SessionTTL:  time.Hour,
		Redis: RedisConfig{
			Prefix: "marquee:hero:",
		},
	}
}

// Load reads path (YAML or JSON, optional) over the defaults, then applies
// MARQUEE_* variables from environ. Nested keys use a double underscore:
// MARQUEE_REDIS__ADDR sets redis.addr.
func Load(path string, environ []string) (Config, error) {
	raw := map[string]interface{}{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := json.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	overlayEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func overlayEnv(raw map[string]interface{}, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__")

		node := raw
		for _, part := range path[:len(path)-1] {
			child, ok := node[part].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[part] = child
			}
			node = child
		}
		node[path[len(path)-1]] = value
	}
}
