package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/blogd/internal/model"
)

// DefaultPath is the config file read when neither --config nor BLOG_CONFIG is set.
const DefaultPath = "blogd.toml"

// Config is loaded once at startup and never mutated afterwards.
type Config struct {
	Name     string         `toml:"name"`      // BLOG_NAME
	Age      uint8          `toml:"age"`       // BLOG_AGE
	HTTPAddr string         `toml:"http_addr"` // BLOG_HTTP_ADDR (default ":8000")
	NATSURL  string         `toml:"nats_url"`  // BLOG_NATS_URL (optional, empty = no events)
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
}

type DatabaseConfig struct {
	Driver          string        `toml:"driver"` // BLOG_DATABASE_DRIVER ("postgres" or "sqlite")
	URL             string        `toml:"url"`    // BLOG_DATABASE_URL (required)
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type ExportConfig struct {
	Interval   time.Duration `toml:"interval"`    // BLOG_EXPORT_INTERVAL (default 0 = disabled)
	S3Bucket   string        `toml:"s3_bucket"`   // BLOG_EXPORT_S3_BUCKET (enables S3 when set)
	S3Endpoint string        `toml:"s3_endpoint"` // BLOG_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string        `toml:"s3_region"`   // BLOG_EXPORT_S3_REGION (default "us-east-1")
	S3Key      string        `toml:"s3_key"`      // BLOG_EXPORT_S3_KEY (default "blog/posts.jsonl")
	File       string        `toml:"file"`        // BLOG_EXPORT_FILE (local JSONL copy, optional)
}

func defaults() *Config {
	return &Config{
		HTTPAddr: ":8000",
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Export: ExportConfig{
			S3Region: "us-east-1",
			S3Key:    "blog/posts.jsonl",
		},
	}
}

// Load reads the TOML file at path and applies BLOG_* environment overrides.
// An empty path falls back to BLOG_CONFIG and then DefaultPath; only an
// explicitly named file has to exist.
func Load(path string) (*Config, error) {
	c := defaults()

	explicit := path != ""
	if !explicit {
		path = envOrDefault("BLOG_CONFIG", DefaultPath)
		explicit = os.Getenv("BLOG_CONFIG") != ""
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if c.Database.URL == "" {
		return nil, fmt.Errorf("BLOG_DATABASE_URL is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q (must be postgres or sqlite)", c.Database.Driver)
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	c.Name = envOrDefault("BLOG_NAME", c.Name)
	c.HTTPAddr = envOrDefault("BLOG_HTTP_ADDR", c.HTTPAddr)
	c.NATSURL = envOrDefault("BLOG_NATS_URL", c.NATSURL)
	c.Database.Driver = envOrDefault("BLOG_DATABASE_DRIVER", c.Database.Driver)
	c.Database.URL = envOrDefault("BLOG_DATABASE_URL", c.Database.URL)
	c.Export.S3Bucket = envOrDefault("BLOG_EXPORT_S3_BUCKET", c.Export.S3Bucket)
	c.Export.S3Endpoint = envOrDefault("BLOG_EXPORT_S3_ENDPOINT", c.Export.S3Endpoint)
	c.Export.S3Region = envOrDefault("BLOG_EXPORT_S3_REGION", c.Export.S3Region)
	c.Export.S3Key = envOrDefault("BLOG_EXPORT_S3_KEY", c.Export.S3Key)
	c.Export.File = envOrDefault("BLOG_EXPORT_FILE", c.Export.File)

	if v := os.Getenv("BLOG_AGE"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("BLOG_AGE: %w", err)
		}
		c.Age = uint8(n)
	}

	if v := os.Getenv("BLOG_EXPORT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BLOG_EXPORT_INTERVAL: %w", err)
		}
		c.Export.Interval = d
	}

	return nil
}

// Greeting returns the name/age pair served by GET /config.
func (c *Config) Greeting() model.Greeting {
	return model.Greeting{Name: c.Name, Age: c.Age}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
