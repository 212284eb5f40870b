package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/JonnyWalker81/neuralpath/backend/internal/analysis"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Supabase SupabaseConfig      `mapstructure:"supabase"`
	Logging  LoggingConfig       `mapstructure:"logging"`
	Metrics  MetricsConfig       `mapstructure:"metrics"`
	Analysis analysis.Thresholds `mapstructure:"analysis"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// DefaultWindowDays is how many days of records an analysis request loads
	// when the client does not say
	DefaultWindowDays int `mapstructure:"default_window_days"`
	MaxWindowDays     int `mapstructure:"max_window_days"`
	// CORSAllowedOrigins accepts exact origins and single-label wildcards
	// such as https://*.example.com; empty allows every origin
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	// Per-user request budgets per minute
	RateLimitPerMinute         int `mapstructure:"rate_limit_per_minute"`
	AnalysisRateLimitPerMinute int `mapstructure:"analysis_rate_limit_per_minute"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// LoggingConfig selects the log backend, level and format
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Backend   string `mapstructure:"backend"`
	AddSource bool   `mapstructure:"add_source"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from environment variables and config files.
// It does not require Supabase settings; commands that talk to storage call
// Validate.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.default_window_days", 90)
	v.SetDefault("server.max_window_days", 365)
	v.SetDefault("server.cors_allowed_origins", []string{})
	v.SetDefault("server.rate_limit_per_minute", 300)
	v.SetDefault("server.analysis_rate_limit_per_minute", 60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.backend", "slog")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	setStructDefaults(v, "analysis", analysis.DefaultThresholds())

	v.SetEnvPrefix("NEURALPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Non-prefixed variables used by the hosting platform
	_ = v.BindEnv("server.port", "NEURALPATH_SERVER_PORT", "PORT")
	_ = v.BindEnv("supabase.url", "NEURALPATH_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", "NEURALPATH_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("server.cors_allowed_origins", "NEURALPATH_SERVER_CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("logging.level", "NEURALPATH_LOGGING_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "NEURALPATH_LOGGING_FORMAT", "LOG_FORMAT")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validateAnalysis(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that everything the API server needs is present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.Server.DefaultWindowDays <= 0 || c.Server.DefaultWindowDays > c.Server.MaxWindowDays {
		return fmt.Errorf("server.default_window_days must be between 1 and server.max_window_days (%d)", c.Server.MaxWindowDays)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	t := c.Analysis
	switch {
	case t.MinTrendRecords < 2:
		return fmt.Errorf("analysis.min_trend_records must be at least 2")
	case t.MinGroupRecords < 1 || t.MinFactorRecords < 1:
		return fmt.Errorf("analysis.min_group_records and analysis.min_factor_records must be positive")
	case t.SampleSizeDays <= 0 || t.ImpactDivisor <= 0 || t.SubstanceConfidenceDays <= 0 || t.BucketConfidenceRecords <= 0:
		return fmt.Errorf("analysis divisors (sample_size_days, impact_divisor, substance_confidence_days, bucket_confidence_records) must be positive")
	case t.LowSleepHours > t.HighSleepHours || t.LowExerciseMinutes > t.HighExerciseMinutes || t.LowDaylightMinutes > t.HighDaylightMinutes:
		return fmt.Errorf("analysis low bucket cutoffs must not exceed high cutoffs")
	}
	return nil
}

// setStructDefaults registers every mapstructure-tagged field of defaults
// under prefix, so env overrides such as NEURALPATH_ANALYSIS_GOOD_LEVEL are
// picked up by Unmarshal
func setStructDefaults(v *viper.Viper, prefix string, defaults any) {
	rv := reflect.ValueOf(defaults)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		v.SetDefault(prefix+"."+tag, rv.Field(i).Interface())
	}
}
