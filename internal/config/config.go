package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Index    IndexConfig    `yaml:"index" mapstructure:"index"`
	Observe  ObserveConfig  `yaml:"observe" mapstructure:"observe"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RegistryConfig points at the provider catalog file. An empty path
// selects the embedded default catalog.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// IndexConfig holds the weighting and validation parameters of the
// index calculation.
type IndexConfig struct {
	HyperscalerWeight  float64 `yaml:"hyperscaler_weight" mapstructure:"hyperscaler_weight"`
	NeocloudWeight     float64 `yaml:"neocloud_weight" mapstructure:"neocloud_weight"`
	DeviationThreshold float64 `yaml:"deviation_threshold" mapstructure:"deviation_threshold"`
	PriceFloorUSD      float64 `yaml:"price_floor_usd" mapstructure:"price_floor_usd"`
	PriceCeilingUSD    float64 `yaml:"price_ceiling_usd" mapstructure:"price_ceiling_usd"`
	HistoryDepth       int     `yaml:"history_depth" mapstructure:"history_depth"`
}

// ObserveConfig configures live price collection.
type ObserveConfig struct {
	ProviderTimeoutSecs int    `yaml:"provider_timeout_secs" mapstructure:"provider_timeout_secs"`
	MaxRetries          int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent           string `yaml:"user_agent" mapstructure:"user_agent"`
	DisableLive         bool   `yaml:"disable_live" mapstructure:"disable_live"`
}

// ServerConfig configures the read-only HTTP API.
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
	v.SetEnvPrefix("H200")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("index.hyperscaler_weight", 0.8)
	v.SetDefault("index.neocloud_weight", 0.2)
	v.SetDefault("index.deviation_threshold", 0.25)
	v.SetDefault("index.price_floor_usd", 0.50)
	v.SetDefault("index.price_ceiling_usd", 50.0)
	v.SetDefault("index.history_depth", 2)
	v.SetDefault("observe.provider_timeout_secs", 30)
	v.SetDefault("observe.max_retries", 3)
	v.SetDefault("observe.user_agent", "h200-index/1.0")
	v.SetDefault("observe.disable_live", false)

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
