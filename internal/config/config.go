// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is constructed once at
// process start and passed by reference into every adapter; nothing reads
// ambient globals.
type Config struct {
	Brain    BrainConfig    `yaml:"brain" mapstructure:"brain"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Probe    ProbeConfig    `yaml:"probe" mapstructure:"probe"`
	Crawl    CrawlConfig    `yaml:"crawl" mapstructure:"crawl"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// BrainConfig selects and configures the reasoning backend.
type BrainConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "deepseek" or "anthropic"
	DeepSeekKey    string `yaml:"deepseek_key" mapstructure:"deepseek_key"`
	DeepSeekURL    string `yaml:"deepseek_base_url" mapstructure:"deepseek_base_url"`
	DeepSeekModel  string `yaml:"deepseek_model" mapstructure:"deepseek_model"`
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	MaxTokens      int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig configures the SerpAPI search provider.
type SearchConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	NumResults   int    `yaml:"num_results" mapstructure:"num_results"`
	Country      string `yaml:"country" mapstructure:"country"`
	Language     string `yaml:"language" mapstructure:"language"`
	QueryDelayMS int    `yaml:"query_delay_ms" mapstructure:"query_delay_ms"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ProbeConfig configures the identity prober.
type ProbeConfig struct {
	Width       int `yaml:"width" mapstructure:"width"`
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CrawlConfig configures the content extraction engine.
type CrawlConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyKB   int `yaml:"max_body_kb" mapstructure:"max_body_kb"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// PipelineConfig configures run-level behavior.
type PipelineConfig struct {
	// TimeoutSecs bounds a whole run; 0 disables the global timeout.
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ReportsDir  string `yaml:"reports_dir" mapstructure:"reports_dir"`
}

// RegistryConfig configures the optional local CNPJ registry store.
type RegistryConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// IngestConfig configures the Receita Federal open-data ingestion.
type IngestConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	DownloadDir string `yaml:"download_dir" mapstructure:"download_dir"`
	ChunkSize   int    `yaml:"chunk_size" mapstructure:"chunk_size"`
}

// ServerConfig configures the HTTP panel API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and MASHA_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MASHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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

func setDefaults(v *viper.Viper) {
	v.SetDefault("brain.provider", "deepseek")
	v.SetDefault("brain.deepseek_base_url", "https://api.deepseek.com")
	v.SetDefault("brain.deepseek_model", "deepseek-reasoner")
	v.SetDefault("brain.anthropic_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("brain.max_tokens", 4096)
	v.SetDefault("search.base_url", "https://serpapi.com")
	v.SetDefault("search.num_results", 5)
	v.SetDefault("search.country", "us")
	v.SetDefault("search.language", "en")
	v.SetDefault("search.query_delay_ms", 1000)
	v.SetDefault("search.timeout_secs", 20)
	v.SetDefault("probe.width", 10)
	v.SetDefault("probe.timeout_secs", 7)
	v.SetDefault("crawl.timeout_secs", 15)
	v.SetDefault("crawl.max_body_kb", 2048)
	v.SetDefault("crawl.max_retries", 1)
	v.SetDefault("pipeline.timeout_secs", 0)
	v.SetDefault("pipeline.reports_dir", "reports")
	v.SetDefault("registry.driver", "sqlite")
	v.SetDefault("registry.path", "data/cnpj.db")
	v.SetDefault("ingest.base_url", "https://arquivos.receitafederal.gov.br/CNPJ/")
	v.SetDefault("ingest.download_dir", "downloads")
	v.SetDefault("ingest.chunk_size", 5000)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
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
