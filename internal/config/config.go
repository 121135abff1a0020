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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	BLS     BLSConfig     `yaml:"bls" mapstructure:"bls"`
	OCR     OCRConfig     `yaml:"ocr" mapstructure:"ocr"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Lexicon LexiconConfig `yaml:"lexicon" mapstructure:"lexicon"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BLSConfig holds BLS public API settings.
type BLSConfig struct {
	Key         string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"` // optional series catalog override
	YearsBack   int    `yaml:"years_back" mapstructure:"years_back"`     // default sync window
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // "local" or "mistral"
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralKey    string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
}

// ExtractConfig configures the PDF report extraction pipeline.
type ExtractConfig struct {
	Table11APage int  `yaml:"table_11a_page" mapstructure:"table_11a_page"`
	Table11BPage int  `yaml:"table_11b_page" mapstructure:"table_11b_page"`
	Strict       bool `yaml:"strict" mapstructure:"strict"`
}

// LexiconConfig configures the activity coding lexicon download.
type LexiconConfig struct {
	URL string `yaml:"url" mapstructure:"url"` // https:// or ftp:// mirror
}

// ReportConfig configures report rendering defaults.
type ReportConfig struct {
	Unit string `yaml:"unit" mapstructure:"unit"` // "minutes" or "hours"
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
	v.SetEnvPrefix("TIMEUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about. Secrets
	// and optional overrides carry no default, so bind them explicitly.
	for _, key := range []string{
		"store.database_url",
		"bls.api_key",
		"bls.catalog_path",
		"ocr.mistral_api_key",
		"extract.strict",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrap(err, "config: bind env")
		}
	}

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "timeuse.db")
	v.SetDefault("bls.base_url", "https://api.bls.gov/publicAPI/v2")
	v.SetDefault("bls.years_back", 3)
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("extract.table_11a_page", 23)
	v.SetDefault("extract.table_11b_page", 24)
	v.SetDefault("lexicon.url", "https://www.bls.gov/tus/lexicons/lexiconwex2024.xlsx")
	v.SetDefault("report.unit", "minutes")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
