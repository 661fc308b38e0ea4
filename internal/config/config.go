// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the viewer's configuration from flags, the
// environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, so the
// "cache.dsn" key is read from BENCHVIEWER_CACHE_DSN.
const EnvPrefix = "BENCHVIEWER"

// Config is the complete viewer configuration.
type Config struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Demo      bool   `mapstructure:"demo"`
	File      string `mapstructure:"file"`
	StaticDir string `mapstructure:"static_dir"`
	Metrics   bool   `mapstructure:"metrics"`
	MaxConns  int    `mapstructure:"max_conns"` // zero means unlimited

	GCS   GCS   `mapstructure:"gcs"`
	Cache Cache `mapstructure:"cache"`
	Log   Log   `mapstructure:"log"`
}

// GCS locates a log stored in Google Cloud Storage.
type GCS struct {
	Bucket      string `mapstructure:"bucket"`
	Object      string `mapstructure:"object"`
	Credentials string `mapstructure:"credentials"`
	Token       string `mapstructure:"token"`
}

// Cache selects where parsed runs are cached.
type Cache struct {
	Driver string        `mapstructure:"driver"` // none, memory, sqlite3, mysql or redis
	DSN    string        `mapstructure:"dsn"`    // database DSN or redis:// URL
	Size   int           `mapstructure:"size"`   // memory cache entries
	TTL    time.Duration `mapstructure:"ttl"`    // redis entry lifetime; zero keeps entries forever
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults installs the default value of every key in v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 3000)
	v.SetDefault("demo", false)
	v.SetDefault("file", "")
	v.SetDefault("static_dir", "web_root")
	v.SetDefault("metrics", true)
	v.SetDefault("max_conns", 0)
	v.SetDefault("gcs.bucket", "")
	v.SetDefault("gcs.object", "")
	v.SetDefault("gcs.credentials", "")
	v.SetDefault("gcs.token", "")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.dsn", "")
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads the configuration into v and returns it. Flags should
// already be bound to v. If cfgFile is empty, config.yaml in the
// current directory is used when present.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that c describes exactly one log source and a
// usable cache.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("config: max_conns %d is negative", c.MaxConns)
	}
	gcs := c.GCS.Bucket != "" || c.GCS.Object != ""
	n := 0
	for _, set := range []bool{c.Demo, c.File != "", gcs} {
		if set {
			n++
		}
	}
	switch {
	case c.Demo && c.File != "":
		return errors.New("config: --demo cannot be used with --file")
	case n == 0:
		return errors.New("config: one of --file, --demo or --gcs-bucket/--gcs-object is required")
	case n > 1:
		return errors.New("config: only one log source may be configured")
	case gcs && (c.GCS.Bucket == "" || c.GCS.Object == ""):
		return errors.New("config: GCS source needs both a bucket and an object")
	}
	switch c.Cache.Driver {
	case "none", "memory":
	case "sqlite3", "mysql", "redis":
		if c.Cache.DSN == "" {
			return fmt.Errorf("config: cache driver %s needs a DSN", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("config: unknown cache driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache TTL %v is negative", c.Cache.TTL)
	}
	if c.Cache.Driver == "memory" && c.Cache.Size < 1 {
		return fmt.Errorf("config: cache size %d must be positive", c.Cache.Size)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
