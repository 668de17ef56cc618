// Package config loads the ipx server's YAML configuration file and
// applies IPX_*-prefixed environment overrides, following the teacher's
// load-then-override-then-validate pipeline.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/ipx/internal/ipx"
	"github.com/r9s-ai/ipx/pkg/literal"
)

const (
	defaultMaxAge                    = 300
	defaultAccessLogRotateMaxSizeMB  = 100
	defaultAccessLogRotateMaxBackups = 14
	defaultAccessLogRotateMaxAgeDays = 14
)

// AliasEntry is one YAML-configured prefix rewrite.
type AliasEntry struct {
	Base        string `yaml:"base"`
	Replacement string `yaml:"to"`
}

// CacheConfig selects and configures the optional external cache (§6.1).
type CacheConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Type       string   `yaml:"type"` // memory, redis, memcached, disk, tiered
	RedisHost  string   `yaml:"redis_host"`
	RedisDB    int      `yaml:"redis_db"`
	MemcacheHosts []string `yaml:"memcache_hosts"`
	DiskDir    string   `yaml:"disk_dir"`
	Tiers      []string `yaml:"tiers"`
}

// AccessLogRotateConfig configures size/age-based rotation of the access
// log file.
type AccessLogRotateConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// LoggingConfig configures application and access logging (§4.9).
type LoggingConfig struct {
	Level                 string                 `yaml:"level"`
	AccessLog             bool                   `yaml:"access_log"`
	AccessLogPath         string                 `yaml:"access_log_path"`
	AccessLogFormat       string                 `yaml:"access_log_format"`
	AccessLogFormatPreset string                 `yaml:"access_log_format_preset"`
	AccessLogRotate       AccessLogRotateConfig  `yaml:"access_log_rotate"`
}

// Config is the full resolved server configuration (spec §6 table plus
// the ambient server/logging sections).
type Config struct {
	Server struct {
		Listen          string `yaml:"listen"`
		ReadTimeoutMs   int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs  int    `yaml:"write_timeout_ms"`
		RequestIDHeader string `yaml:"request_id_header"`
		AdminListen     string `yaml:"admin_listen"`
	} `yaml:"server"`

	Dir          string                 `yaml:"dir"`
	Domains      []string               `yaml:"domains"`
	Alias        []AliasEntry           `yaml:"alias"`
	FetchOptions map[string]interface{} `yaml:"fetch_options"`
	MaxAge       int                    `yaml:"max_age"`
	Sharp        map[string]interface{} `yaml:"sharp"`

	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load reads path, applies defaults, applies IPX_* environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		// #nosec G304 -- path comes from a trusted flag/env.
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":3000"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 30000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 30000
	}
	if strings.TrimSpace(cfg.Server.AdminListen) == "" {
		cfg.Server.AdminListen = "127.0.0.1:3001"
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "."
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultMaxAge
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.AccessLogRotate.MaxSizeMB <= 0 {
		cfg.Logging.AccessLogRotate.MaxSizeMB = defaultAccessLogRotateMaxSizeMB
	}
	if cfg.Logging.AccessLogRotate.MaxBackups <= 0 {
		cfg.Logging.AccessLogRotate.MaxBackups = defaultAccessLogRotateMaxBackups
	}
	if cfg.Logging.AccessLogRotate.MaxAgeDays == 0 {
		cfg.Logging.AccessLogRotate.MaxAgeDays = defaultAccessLogRotateMaxAgeDays
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "memory"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("IPX_DIR")); v != "" {
		cfg.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("IPX_DOMAINS")); v != "" {
		cfg.Domains = splitCommaList(v)
	}
	if v := strings.TrimSpace(os.Getenv("IPX_ALIAS")); v != "" {
		if parsed := literal.Parse(v); parsed != nil {
			if m, ok := parsed.(map[string]interface{}); ok {
				cfg.Alias = nil
				for base, repl := range m {
					cfg.Alias = append(cfg.Alias, AliasEntry{Base: base, Replacement: literal.String(repl)})
				}
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("IPX_FETCH_OPTIONS")); v != "" {
		if parsed := literal.Parse(v); parsed != nil {
			if m, ok := parsed.(map[string]interface{}); ok {
				cfg.FetchOptions = m
			}
		}
	}
	if n, ok := envInt("IPX_MAX_AGE"); ok {
		cfg.MaxAge = n
	}
	cfg.Cache.Enabled = envBool("IPX_CACHE_ENABLED", cfg.Cache.Enabled)
	if v := strings.TrimSpace(os.Getenv("IPX_CACHE_REDIS_HOST")); v != "" {
		cfg.Cache.RedisHost = v
		if cfg.Cache.Type == "" || cfg.Cache.Type == "memory" {
			cfg.Cache.Type = "redis"
		}
	}
	if v := strings.TrimSpace(os.Getenv("IPX_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return literal.Bool(literal.Parse(v))
}

func validate(cfg *Config) error {
	if cfg.Logging.AccessLogRotate.Enabled {
		if !cfg.Logging.AccessLog {
			return errors.New("logging.access_log must be true when logging.access_log_rotate.enabled=true")
		}
		if strings.TrimSpace(cfg.Logging.AccessLogPath) == "" {
			return errors.New("logging.access_log_path is required when logging.access_log_rotate.enabled=true")
		}
	}
	switch cfg.Cache.Type {
	case "", "memory", "redis", "memcached", "disk", "tiered":
	default:
		return errors.New("cache.type must be one of memory, redis, memcached, disk, tiered")
	}
	return nil
}

// Aliases converts the configured alias entries into normalized
// ipx.Alias values.
func (c *Config) Aliases() []ipx.Alias {
	out := make([]ipx.Alias, len(c.Alias))
	for i, a := range c.Alias {
		out[i] = ipx.Alias{Base: a.Base, Replacement: a.Replacement}
	}
	return ipx.NormalizeAliases(out)
}
