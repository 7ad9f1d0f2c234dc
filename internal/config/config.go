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
	Tolerances TolerancesConfig `yaml:"tolerances" mapstructure:"tolerances"`
	Materials  MaterialsConfig  `yaml:"materials" mapstructure:"materials"`
	Confidence ConfidenceConfig `yaml:"confidence" mapstructure:"confidence"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
	Extract    ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// TolerancesConfig holds validation and consolidation tolerances.
type TolerancesConfig struct {
	AreaMismatch    float64 `yaml:"area_mismatch" mapstructure:"area_mismatch"`
	RoomDedup       float64 `yaml:"room_dedup" mapstructure:"room_dedup"`
	MaxPageDistance int     `yaml:"max_page_distance" mapstructure:"max_page_distance"`
	UnitHint        string  `yaml:"unit_hint" mapstructure:"unit_hint"`
}

// MaterialsConfig holds the material estimation factors.
type MaterialsConfig struct {
	WasteFactor       float64  `yaml:"waste_factor" mapstructure:"waste_factor"`
	WallHeightFt      float64  `yaml:"wall_height_ft" mapstructure:"wall_height_ft"`
	OpeningDeduction  float64  `yaml:"opening_deduction" mapstructure:"opening_deduction"`
	PanelSqFt         float64  `yaml:"panel_sqft" mapstructure:"panel_sqft"`
	PaintCoverageSqFt float64  `yaml:"paint_coverage_sqft" mapstructure:"paint_coverage_sqft"`
	PaintCoats        int      `yaml:"paint_coats" mapstructure:"paint_coats"`
	CeilingPaintCoats int      `yaml:"ceiling_paint_coats" mapstructure:"ceiling_paint_coats"`
	CrownWasteFactor  float64  `yaml:"crown_waste_factor" mapstructure:"crown_waste_factor"`
	NonFlooredLabels  []string `yaml:"non_floored_labels" mapstructure:"non_floored_labels"`
}

// ConfidenceConfig holds per-label aggregation weights.
type ConfidenceConfig struct {
	Weights map[string]float64 `yaml:"weights" mapstructure:"weights"`
}

// TierPricing holds low/mid/high unit prices and the per-unit labor rate for
// one category.
type TierPricing struct {
	Low   float64 `yaml:"low" mapstructure:"low"`
	Mid   float64 `yaml:"mid" mapstructure:"mid"`
	High  float64 `yaml:"high" mapstructure:"high"`
	Labor float64 `yaml:"labor" mapstructure:"labor"`
}

// PricingConfig selects the pricing table: an external YAML file when Path is
// set, inline categories otherwise, or the built-in default table. IncludeLabor
// and Contingency add labor and contingency lines to every estimate.
type PricingConfig struct {
	Path               string                 `yaml:"path" mapstructure:"path"`
	Version            string                 `yaml:"version" mapstructure:"version"`
	RegionalMultiplier float64                `yaml:"regional_multiplier" mapstructure:"regional_multiplier"`
	Categories         map[string]TierPricing `yaml:"categories" mapstructure:"categories"`
	IncludeLabor       bool                   `yaml:"include_labor" mapstructure:"include_labor"`
	Contingency        float64                `yaml:"contingency" mapstructure:"contingency"`
}

// ExtractConfig holds the vision extraction collaborator settings.
type ExtractConfig struct {
	Provider      string  `yaml:"provider" mapstructure:"provider"`
	Key           string  `yaml:"key" mapstructure:"key"`
	Model         string  `yaml:"model" mapstructure:"model"`
	MaxTokens     int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the takeoff webhook server.
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
	v.SetEnvPrefix("BLUEPRINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("tolerances.area_mismatch", 0.10)
	v.SetDefault("tolerances.room_dedup", 0.15)
	v.SetDefault("tolerances.max_page_distance", 1)
	v.SetDefault("materials.waste_factor", 0.10)
	v.SetDefault("materials.wall_height_ft", 8.0)
	v.SetDefault("materials.opening_deduction", 0.15)
	v.SetDefault("materials.panel_sqft", 32.0)
	v.SetDefault("materials.paint_coverage_sqft", 350.0)
	v.SetDefault("materials.paint_coats", 2)
	v.SetDefault("materials.ceiling_paint_coats", 1)
	v.SetDefault("materials.crown_waste_factor", 0.15)
	v.SetDefault("materials.non_floored_labels", []string{})
	v.SetDefault("pricing.regional_multiplier", 1.0)
	v.SetDefault("pricing.include_labor", true)
	v.SetDefault("pricing.contingency", 0.10)
	v.SetDefault("extract.provider", "anthropic")
	v.SetDefault("extract.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("extract.max_tokens", 2048)
	v.SetDefault("extract.rate_per_second", 1.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "takeoff.db")
	v.SetDefault("batch.max_concurrent_documents", 4)
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
