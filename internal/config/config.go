package config

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Parse   ParseConfig   `yaml:"parse" mapstructure:"parse"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ParseConfig configures the export parser.
type ParseConfig struct {
	// Verify enables the strict cross-field checks.
	Verify bool `yaml:"verify" mapstructure:"verify"`
	// Encoding is a WHATWG label such as "utf-8" or "big5".
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
	// Concurrency is the number of files parsed at once.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ExportConfig configures the case writers.
type ExportConfig struct {
	Format     string `yaml:"format" mapstructure:"format"`
	Dir        string `yaml:"dir" mapstructure:"dir"`
	MaxParties int    `yaml:"max_parties" mapstructure:"max_parties"`
}

// StoreConfig configures the database backend. An empty driver disables it.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// FetchConfig configures downloads of the published exports.
type FetchConfig struct {
	UserAgent   string   `yaml:"user_agent" mapstructure:"user_agent"`
	TempDir     string   `yaml:"temp_dir" mapstructure:"temp_dir"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int      `yaml:"max_retries" mapstructure:"max_retries"`
	Sources     []Source `yaml:"sources" mapstructure:"sources"`
}

// Source is one downloadable export.
type Source struct {
	Name string `yaml:"name" mapstructure:"name"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// MetricsConfig configures the Pushgateway. An empty push_url disables it.
type MetricsConfig struct {
	PushURL string `yaml:"push_url" mapstructure:"push_url"`
	Job     string `yaml:"job" mapstructure:"job"`
}

// Supported values.
var (
	ExportFormats = []string{"csv", "json"}
	StoreDrivers  = []string{"", "sqlite", "postgres"}
)

// Load reads configuration from config.yaml (optional) and ACCIDENT_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ACCIDENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("parse.verify", false)
	v.SetDefault("parse.encoding", "utf-8")
	v.SetDefault("parse.concurrency", 4)
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.dir", "out")
	v.SetDefault("export.max_parties", 5)
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "accident.db")
	v.SetDefault("fetch.user_agent", "accident-cli")
	v.SetDefault("fetch.temp_dir", "/tmp/accident-cli")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("metrics.push_url", "")
	v.SetDefault("metrics.job", "accident-cli")

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

// Validate rejects settings the commands cannot run with.
func (c *Config) Validate() error {
	if !slices.Contains(ExportFormats, c.Export.Format) {
		return eris.Errorf("config: unknown export format %q", c.Export.Format)
	}
	if !slices.Contains(StoreDrivers, c.Store.Driver) {
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Parse.Concurrency <= 0 {
		return eris.Errorf("config: parse.concurrency must be positive, got %d", c.Parse.Concurrency)
	}
	if c.Export.MaxParties <= 0 {
		return eris.Errorf("config: export.max_parties must be positive, got %d", c.Export.MaxParties)
	}
	for _, s := range c.Fetch.Sources {
		if s.Name == "" || s.URL == "" {
			return eris.Errorf("config: fetch source needs a name and url, got %+v", s)
		}
	}
	return nil
}

// InitLogger initializes the global zap logger based on config.
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
