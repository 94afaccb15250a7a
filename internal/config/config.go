package config

import (
	"errors"
	"fmt"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"time"
)

const (
	DefaultAddr = "0.0.0.0:5000"

	// EnvDatabaseURL provides or overrides the PostgreSQL connection string
	EnvDatabaseURL = "DATABASE_URL"
)

type Config struct {
	Addr            string    `yaml:"addr"`
	LogLevel        string    `yaml:"log-level"`
	BodyLimit       string    `yaml:"body-limit"`
	SerializeWrites bool      `yaml:"serialize-writes"`
	Postgres        *Postgres `yaml:"postgres"`
	Bolt            *Bolt     `yaml:"bolt"`
	S3              *S3       `yaml:"s3"`
}

type Postgres struct {
	URL              string        `yaml:"url"`
	MaxConns         int32         `yaml:"max-conns"`
	ConnectTimeout   time.Duration `yaml:"connect-timeout"`
	OperationTimeout time.Duration `yaml:"operation-timeout"`
	CreateTable      bool          `yaml:"create-table"`
}

type Bolt struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

type S3 struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
}

func Parse(r io.Reader) (*Config, error) {
	var config Config

	if err := yaml.NewDecoder(r).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &config, nil
}

// ApplyEnvironment fills in the defaults and the values
// that can be provided through the environment variables.
func (config *Config) ApplyEnvironment() {
	config.Addr, _ = lo.Coalesce(config.Addr, DefaultAddr)

	if databaseURL, ok := os.LookupEnv(EnvDatabaseURL); ok && databaseURL != "" {
		if config.Postgres == nil {
			config.Postgres = &Postgres{}
		}

		config.Postgres.URL = databaseURL
	}
}

func (config *Config) Validate() error {
	configured := lo.Count([]bool{config.Postgres != nil, config.Bolt != nil, config.S3 != nil}, true)

	switch {
	case configured == 0:
		return fmt.Errorf("no store is configured, please specify either \"postgres\", \"bolt\" or \"s3\" "+
			"in the configuration file or set the %s environment variable", EnvDatabaseURL)
	case configured > 1:
		return fmt.Errorf("only one store can be configured at a time, got %d", configured)
	}

	if config.LogLevel != "" {
		if _, err := zapcore.ParseLevel(config.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
		}
	}

	if config.Postgres != nil && config.Postgres.URL == "" {
		return fmt.Errorf("PostgreSQL store requires a connection string")
	}

	if config.Bolt != nil && config.Bolt.Path == "" {
		return fmt.Errorf("bolt store requires a path")
	}

	if config.S3 != nil && config.S3.Bucket == "" {
		return fmt.Errorf("S3 store requires a bucket")
	}

	return nil
}
