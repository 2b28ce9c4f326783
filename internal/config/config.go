package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jengzang/places-backend-go/internal/decision"
	"github.com/jengzang/places-backend-go/internal/detection"
	"github.com/jengzang/places-backend-go/internal/learning"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/pipeline"
	"github.com/jengzang/places-backend-go/internal/validation"
)

// Config 应用配置
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Learning   LearningConfig   `mapstructure:"learning"`
	Decision   DecisionConfig   `mapstructure:"decision"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // "debug" | "release" | "test"
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// DetectionConfig holds quality-filter, clustering, and candidate tunables.
// Valid ranges are enforced by Validate.
type DetectionConfig struct {
	EpsMeters            float64 `mapstructure:"eps_meters"`             // 10-200
	MinPoints            int     `mapstructure:"min_points"`             // 2-20
	AccuracyCeilingM     float64 `mapstructure:"accuracy_ceiling_m"`     // 10-500
	SpeedCeilingMps      float64 `mapstructure:"speed_ceiling_mps"`      // 1-300
	VehicleConfidenceMin float64 `mapstructure:"vehicle_confidence_min"` // 0-1
	RadiusPercentile     float64 `mapstructure:"radius_percentile"`      // 50-100
	MinRadiusMeters      float64 `mapstructure:"min_radius_meters"`      // 1-100
	MatchRadiusMeters    float64 `mapstructure:"match_radius_meters"`    // 10-500
	LookbackHours        int     `mapstructure:"lookback_hours"`         // 1-8760
}

// ScoringConfig holds category scoring tunables
type ScoringConfig struct {
	AcceptanceThreshold float64 `mapstructure:"acceptance_threshold"` // 0-1
	HintBonusWeight     float64 `mapstructure:"hint_bonus_weight"`    // 0-1
}

// LearningConfig holds preference learning tunables
type LearningConfig struct {
	Delta            float64 `mapstructure:"delta"`             // 0.01-0.5
	BonusRange       float64 `mapstructure:"bonus_range"`       // 0-0.5
	DisableThreshold float64 `mapstructure:"disable_threshold"` // -1-0
}

// DecisionConfig holds auto-accept tunables
type DecisionConfig struct {
	Strategy            string   `mapstructure:"strategy"`
	ConfidenceThreshold float64  `mapstructure:"confidence_threshold"` // 0-1
	MinVisits           int      `mapstructure:"min_visits"`           // 1-100
	RejectThreshold     float64  `mapstructure:"reject_threshold"`     // 0-0.5
	EnrichmentBonus     float64  `mapstructure:"enrichment_bonus"`     // 0-0.5
	AlwaysReview        []string `mapstructure:"always_review"`
}

// EnrichmentConfig holds the optional reverse-geocoding collaborator settings
type EnrichmentConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"` // 100-30000
}

// Load 加载配置: defaults, then an optional yaml file, then PLACES_* env vars.
// The result is validated before being returned.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PLACES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "./data/places/places.db")
	v.SetDefault("auth.jwt_secret", "your-secret-key-change-in-production")

	v.SetDefault("detection.eps_meters", 50.0)
	v.SetDefault("detection.min_points", 3)
	v.SetDefault("detection.accuracy_ceiling_m", 100.0)
	v.SetDefault("detection.speed_ceiling_mps", 42.0)
	v.SetDefault("detection.vehicle_confidence_min", 0.75)
	v.SetDefault("detection.radius_percentile", 90.0)
	v.SetDefault("detection.min_radius_meters", 15.0)
	v.SetDefault("detection.match_radius_meters", 75.0)
	v.SetDefault("detection.lookback_hours", 72)

	v.SetDefault("scoring.acceptance_threshold", 0.5)
	v.SetDefault("scoring.hint_bonus_weight", 0.3)

	v.SetDefault("learning.delta", 0.1)
	v.SetDefault("learning.bonus_range", 0.2)
	v.SetDefault("learning.disable_threshold", -0.8)

	v.SetDefault("decision.strategy", string(decision.StrategyHighConfidenceOnly))
	v.SetDefault("decision.confidence_threshold", 0.75)
	v.SetDefault("decision.min_visits", 3)
	v.SetDefault("decision.reject_threshold", 0.15)
	v.SetDefault("decision.enrichment_bonus", 0.1)

	v.SetDefault("enrichment.enabled", false)
	v.SetDefault("enrichment.base_url", "http://localhost:8090")
	v.SetDefault("enrichment.timeout_ms", 3000)
}

// Validate rejects out-of-range tunables at load time instead of clamping
func (c *Config) Validate() error {
	validator := validation.NewDefaultValidator()

	checks := []validation.BoundCheck{
		{Name: "detection.eps_meters", Value: c.Detection.EpsMeters, Min: 10, Max: 200},
		{Name: "detection.min_points", Value: float64(c.Detection.MinPoints), Min: 2, Max: 20},
		{Name: "detection.accuracy_ceiling_m", Value: c.Detection.AccuracyCeilingM, Min: 10, Max: 500},
		{Name: "detection.speed_ceiling_mps", Value: c.Detection.SpeedCeilingMps, Min: 1, Max: 300},
		{Name: "detection.vehicle_confidence_min", Value: c.Detection.VehicleConfidenceMin, Min: 0, Max: 1},
		{Name: "detection.radius_percentile", Value: c.Detection.RadiusPercentile, Min: 50, Max: 100},
		{Name: "detection.min_radius_meters", Value: c.Detection.MinRadiusMeters, Min: 1, Max: 100},
		{Name: "detection.match_radius_meters", Value: c.Detection.MatchRadiusMeters, Min: 10, Max: 500},
		{Name: "detection.lookback_hours", Value: float64(c.Detection.LookbackHours), Min: 1, Max: 8760},
		{Name: "scoring.acceptance_threshold", Value: c.Scoring.AcceptanceThreshold, Min: 0, Max: 1},
		{Name: "scoring.hint_bonus_weight", Value: c.Scoring.HintBonusWeight, Min: 0, Max: 1},
		{Name: "learning.delta", Value: c.Learning.Delta, Min: 0.01, Max: 0.5},
		{Name: "learning.bonus_range", Value: c.Learning.BonusRange, Min: 0, Max: 0.5},
		{Name: "learning.disable_threshold", Value: c.Learning.DisableThreshold, Min: -1, Max: 0},
		{Name: "decision.confidence_threshold", Value: c.Decision.ConfidenceThreshold, Min: 0, Max: 1},
		{Name: "decision.min_visits", Value: float64(c.Decision.MinVisits), Min: 1, Max: 100},
		{Name: "decision.reject_threshold", Value: c.Decision.RejectThreshold, Min: 0, Max: 0.5},
		{Name: "decision.enrichment_bonus", Value: c.Decision.EnrichmentBonus, Min: 0, Max: 0.5},
		{Name: "enrichment.timeout_ms", Value: float64(c.Enrichment.TimeoutMS), Min: 100, Max: 30000},
	}

	result := validator.ValidateConfigBounds(checks)
	if errs := result.Errors(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, f := range errs {
			msgs[i] = f.Message
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	if !decision.Strategy(c.Decision.Strategy).IsValid() {
		return fmt.Errorf("invalid configuration: decision.strategy %q is not one of never, high_confidence_only, after_n_visits, always", c.Decision.Strategy)
	}
	for _, category := range c.Decision.AlwaysReview {
		if !models.Category(category).IsValid() {
			return fmt.Errorf("invalid configuration: decision.always_review contains unknown category %q", category)
		}
	}

	return nil
}

// QualityThresholds returns the quality filter thresholds
func (c *Config) QualityThresholds() detection.QualityThresholds {
	return detection.QualityThresholds{
		MaxAccuracyM:         c.Detection.AccuracyCeilingM,
		MaxSpeedMPS:          c.Detection.SpeedCeilingMps,
		VehicleConfidenceMin: c.Detection.VehicleConfidenceMin,
	}
}

// ClusterParams returns the DBSCAN parameters
func (c *Config) ClusterParams() detection.ClusterParams {
	return detection.ClusterParams{
		EpsMeters: c.Detection.EpsMeters,
		MinPoints: c.Detection.MinPoints,
	}
}

// CandidateParams returns the candidate builder parameters
func (c *Config) CandidateParams() detection.CandidateParams {
	return detection.CandidateParams{
		RadiusPercentile: c.Detection.RadiusPercentile,
		MinRadiusMeters:  c.Detection.MinRadiusMeters,
	}
}

// LearningParams returns the learning engine parameters
func (c *Config) LearningParams() learning.Params {
	return learning.Params{
		Delta:            c.Learning.Delta,
		BonusRange:       c.Learning.BonusRange,
		DisableThreshold: c.Learning.DisableThreshold,
	}
}

// DecisionParams returns the decision engine parameters
func (c *Config) DecisionParams() decision.Params {
	alwaysReview := make([]models.Category, 0, len(c.Decision.AlwaysReview))
	for _, category := range c.Decision.AlwaysReview {
		alwaysReview = append(alwaysReview, models.Category(category))
	}

	return decision.Params{
		Strategy:            decision.Strategy(c.Decision.Strategy),
		ConfidenceThreshold: c.Decision.ConfidenceThreshold,
		MinVisits:           c.Decision.MinVisits,
		RejectThreshold:     c.Decision.RejectThreshold,
		EnrichmentBonus:     c.Decision.EnrichmentBonus,
		AlwaysReview:        alwaysReview,
	}
}

// RunnerParams returns the pipeline orchestrator parameters
func (c *Config) RunnerParams() pipeline.RunnerParams {
	return pipeline.RunnerParams{
		HintBonusWeight: c.Scoring.HintBonusWeight,
		MatchRadiusM:    c.Detection.MatchRadiusMeters,
	}
}

// Lookback returns the detection lookback window as a duration
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Detection.LookbackHours) * time.Hour
}

// EnrichmentTimeout returns the enrichment client timeout as a duration
func (c *Config) EnrichmentTimeout() time.Duration {
	return time.Duration(c.Enrichment.TimeoutMS) * time.Millisecond
}
