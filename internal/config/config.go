package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Seed  uint64   `mapstructure:"seed" yaml:"seed"`
	Count int      `mapstructure:"count" yaml:"count"`
	Sinks []string `mapstructure:"sinks" yaml:"sinks"`

	OutDir  string `mapstructure:"out_dir" yaml:"out_dir"`
	RunsDir string `mapstructure:"runs_dir" yaml:"runs_dir"`

	// Relational sinks
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
	TablePrefix string `mapstructure:"table_prefix" yaml:"table_prefix"`

	// Object storage (S3 or MinIO)
	S3Bucket    string `mapstructure:"s3_bucket" yaml:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region" yaml:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint" yaml:"s3_endpoint"`
	S3Prefix    string `mapstructure:"s3_prefix" yaml:"s3_prefix"`
	S3PathStyle bool   `mapstructure:"s3_path_style" yaml:"s3_path_style"`
	// Static credentials; when empty the default AWS credential chain applies
	S3AccessKeyID     string `mapstructure:"s3_access_key_id" yaml:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key" yaml:"s3_secret_access_key"`

	// Prometheus textfile output; empty disables it
	MetricsTextfile string `mapstructure:"metrics_textfile" yaml:"metrics_textfile"`
}

// DefaultPath returns ~/.tuplegen/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tuplegen", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tuplegen/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	c, err := read(cfgFile, true)
	if err != nil {
		return nil, err
	}
	// Resolve runs_dir default: ~/.tuplegen/runs
	if c.RunsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.RunsDir = filepath.Join(home, ".tuplegen", "runs")
	}
	return c, nil
}

// LoadFile loads only the config file over defaults. Env overrides and
// derived values are left out, so the result is safe to pass to Save.
func LoadFile(cfgFile string) (*Global, error) {
	return read(cfgFile, false)
}

func read(cfgFile string, withEnv bool) (*Global, error) {
	v := viper.New()
	if withEnv {
		v.SetEnvPrefix("TUPLEGEN")
		v.AutomaticEnv()
	}

	// Defaults
	v.SetDefault("seed", 42)
	v.SetDefault("count", 50)
	v.SetDefault("sinks", []string{"stdout"})
	v.SetDefault("out_dir", ".")
	v.SetDefault("runs_dir", "")
	v.SetDefault("sqlite_path", "tuplegen.db")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("table_prefix", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_prefix", "tuplegen")
	v.SetDefault("s3_path_style", false)
	v.SetDefault("s3_access_key_id", "")
	v.SetDefault("s3_secret_access_key", "")
	v.SetDefault("metrics_textfile", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".tuplegen"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
