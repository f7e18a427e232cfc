package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type keyKind int

const (
	kString keyKind = iota
	kInt
	kDuration
)

// keySpec binds one dotted config key to its env var and Config field.
type keySpec struct {
	key     string
	kind    keyKind
	env     string
	secret  bool
	check   func(v any) error
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", kind: kInt, env: "CULTURELENS_SERVER_PORT",
		check:   portInRange,
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "storage.data_dir", kind: kString, env: "CULTURELENS_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", kind: kString, env: "CULTURELENS_LOG_LEVEL",
		check:   knownLogLevel,
		apply:   func(cfg *Config, v any) { cfg.Log.Level = strings.ToLower(v.(string)) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "catalog.cache_ttl", kind: kDuration, env: "CULTURELENS_CATALOG_CACHE_TTL",
		apply:   func(cfg *Config, v any) { cfg.Catalog.CacheTTL = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Catalog.CacheTTL },
	},
	{
		key: "import.poll_interval", kind: kDuration, env: "CULTURELENS_IMPORT_POLL_INTERVAL",
		check:   positiveDuration,
		apply:   func(cfg *Config, v any) { cfg.Import.PollInterval = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Import.PollInterval },
	},
	{
		key: "api.token", kind: kString, env: "CULTURELENS_API_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.API.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.API.Token },
	},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// parse converts a raw value from YAML or the environment to the key's
// Go type and runs its check.
func (s keySpec) parse(raw any) (any, error) {
	var v any
	switch s.kind {
	case kString:
		v = fmt.Sprint(raw)
	case kInt:
		i, err := toInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.key, err)
		}
		v = i
	case kDuration:
		d, err := time.ParseDuration(fmt.Sprint(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.key, err)
		}
		v = d
	}
	if s.check != nil {
		if err := s.check(v); err != nil {
			return nil, fmt.Errorf("%s: %w", s.key, err)
		}
	}
	return v, nil
}

// stored is the form a parsed value takes in the config file.
func (s keySpec) stored(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}

func toInt(raw any) (int, error) {
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	}
	return 0, fmt.Errorf("unexpected %T value", raw)
}

func portInRange(v any) error {
	if p := v.(int); p < 1 || p > 65535 {
		return fmt.Errorf("port %d out of range", p)
	}
	return nil
}

func knownLogLevel(v any) error {
	switch strings.ToLower(v.(string)) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %q", v)
}

func positiveDuration(v any) error {
	if d := v.(time.Duration); d <= 0 {
		return fmt.Errorf("must be positive, got %v", d)
	}
	return nil
}

// applyBackend copies valid file values into cfg. Invalid values are logged
// and the default is kept.
func applyBackend(cfg *Config, b Backend) {
	for _, s := range specs {
		if s.secret {
			continue
		}
		raw, ok := b.Get(s.key)
		if !ok {
			continue
		}
		v, err := s.parse(raw)
		if err != nil {
			slog.Warn("ignoring config file value", "error", err)
			continue
		}
		s.apply(cfg, v)
	}
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		v, err := s.parse(raw)
		if err != nil {
			slog.Warn("ignoring environment override", "env", s.env, "error", err)
			continue
		}
		s.apply(cfg, v)
	}
}
