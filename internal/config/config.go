// Package config loads application configuration from file and
// environment and owns the global logger setup.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Egidiu/cadastral-cli/pkg/ancpi"
)

// Config holds the full application configuration.
type Config struct {
	ANCPI     ANCPIConfig     `yaml:"ancpi" mapstructure:"ancpi"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ANCPIConfig configures the upstream feature service and batch pacing.
type ANCPIConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DelaySecs   int    `yaml:"delay_secs" mapstructure:"delay_secs"`
}

// Timeout returns the per-request timeout.
func (c ANCPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Delay returns the fixed inter-request delay.
func (c ANCPIConfig) Delay() time.Duration {
	return time.Duration(c.DelaySecs) * time.Second
}

// ReferenceConfig locates the county / UAT id workbook.
type ReferenceConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the lookup queue backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExportConfig configures output file locations.
type ExportConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Basename string `yaml:"basename" mapstructure:"basename"`
}

// ServerConfig configures the map viewer server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CADASTRAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ancpi.base_url", ancpi.DefaultBaseURL)
	v.SetDefault("ancpi.user_agent", "cadastral-cli/1.0")
	v.SetDefault("ancpi.timeout_secs", 30)
	v.SetDefault("ancpi.delay_secs", 2)
	v.SetDefault("reference.path", "localitati_IDs.xlsx")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "cadastral.db")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.basename", "Coordonates")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
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
