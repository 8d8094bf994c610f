// Package config loads application configuration from bureau.yaml and
// BUREAU_-prefixed environment variables, and initializes the global zap
// logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/bureau-etl/internal/source"
)

// Config holds the full application configuration.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Job    JobConfig    `yaml:"job" mapstructure:"job"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SourceConfig points at the report database and describes the query shape.
type SourceConfig struct {
	DatabaseURL string       `yaml:"database_url" mapstructure:"database_url"`
	Name        string       `yaml:"name" mapstructure:"name"`
	Query       source.Query `yaml:"query" mapstructure:"query"`
}

// JobConfig holds per-job processing parameters.
type JobConfig struct {
	PageSize       int    `yaml:"page_size" mapstructure:"page_size"`
	UseRemoteFetch bool   `yaml:"use_remote_fetch" mapstructure:"use_remote_fetch"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	DedupMode      string `yaml:"dedup_mode" mapstructure:"dedup_mode"`
	DataDir        string `yaml:"data_dir" mapstructure:"data_dir"`
	OutputDir      string `yaml:"output_dir" mapstructure:"output_dir"`
	CheckpointPath string `yaml:"checkpoint_path" mapstructure:"checkpoint_path"`
	PresetPath     string `yaml:"preset_path" mapstructure:"preset_path"`
}

// FetchConfig tunes the remote payload fetcher.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig configures the job API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from bureau.yaml (working directory or
// ~/.bureau-etl) plus the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("bureau")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.bureau-etl")

	v.SetEnvPrefix("BUREAU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("job.page_size", 1000)
	v.SetDefault("job.dedup_mode", "pan_mobile")
	v.SetDefault("job.data_dir", "data")
	v.SetDefault("job.output_dir", "output")
	v.SetDefault("job.checkpoint_path", ".bureau-checkpoints.db")
	v.SetDefault("job.preset_path", "presets.db")
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.rate_limit", 50)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
