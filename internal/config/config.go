package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the loader's environment settings.
type Config struct {
	Environment    string `envconfig:"ENVIRONMENT_NAME" required:"true"`
	Bucket         string `envconfig:"BUCKET_CSV_FILES" required:"true"`
	SSMPrefix      string `envconfig:"SSM_PREFIX" default:"/event-loader"`
	DBPort         int    `envconfig:"DB_PORT" default:"5432"`
	DBUser         string `envconfig:"DB_USER" default:"admin"`
	DBName         string `envconfig:"DB_NAME"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"require"`
	SourceEncoding string `envconfig:"SOURCE_ENCODING" default:"utf-16"`
	SkipHeader     bool   `envconfig:"SKIP_HEADER" default:"true"`
	Debug          bool   `envconfig:"DEBUG"`
	SAMLocal       bool   `envconfig:"AWS_SAM_LOCAL"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.DBName == "" {
		cfg.DBName = fmt.Sprintf("event-loader-%s", cfg.Environment)
	}
	return &cfg, nil
}

// DebugLogging reports whether debug lines should be logged.
func (c *Config) DebugLogging() bool {
	return c.Debug || c.SAMLocal
}

// PasswordParameter is the SSM parameter holding the database password.
func (c *Config) PasswordParameter() string {
	return fmt.Sprintf("%s/%s/master-password", c.SSMPrefix, c.Environment)
}

// EndpointParameter is the SSM parameter holding the database host.
func (c *Config) EndpointParameter() string {
	return fmt.Sprintf("%s/%s/cluster-endpoint", c.SSMPrefix, c.Environment)
}

// DSN builds the postgres connection string for the given host and password.
func (c *Config) DSN(host, password string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, c.DBPort, c.DBUser, password, c.DBName, c.DBSSLMode)
}
