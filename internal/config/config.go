package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"statlab/internal"
	"statlab/internal/display"
	"statlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Display    display.Preferences
	LogLevel   internal.LogLevel
}

// SimulationConfig holds the defaults for trial count, seeding and verdicts
type SimulationConfig struct {
	Trials    int
	MaxTrials int
	Seed      int64
	Alpha     float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	simConfig, err := loadSimulationConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load simulation configuration")
	}
	config.Simulation = *simConfig

	displayConfig, err := loadDisplayConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load display configuration")
	}
	config.Display = *displayConfig

	config.LogLevel = internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Logger builds a logger at the configured level
func (c *Config) Logger() *internal.Logger {
	return internal.NewLogger(c.LogLevel)
}

func loadSimulationConfig() (*SimulationConfig, error) {
	trials, err := getEnvInt("STATLAB_TRIALS", 1000)
	if err != nil {
		return nil, err
	}
	maxTrials, err := getEnvInt("STATLAB_MAX_TRIALS", 100000)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvInt64("STATLAB_SEED", 0)
	if err != nil {
		return nil, err
	}
	alpha, err := getEnvFloat("STATLAB_ALPHA", 0.05)
	if err != nil {
		return nil, err
	}

	return &SimulationConfig{
		Trials:    trials,
		MaxTrials: maxTrials,
		Seed:      seed,
		Alpha:     alpha,
	}, nil
}

func loadDisplayConfig() (*display.Preferences, error) {
	digits, err := getEnvInt("STATLAB_DIGITS", 4)
	if err != nil {
		return nil, err
	}
	rounding, err := display.ParseRoundingMode(getEnvOrDefault("STATLAB_ROUNDING", "fixed"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	proportions, err := display.ParseProportionDisplay(getEnvOrDefault("STATLAB_PROPORTION_DISPLAY", "proportion"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	return &display.Preferences{
		Rounding:    rounding,
		Digits:      digits,
		Proportions: proportions,
	}, nil
}

func validateConfig(config *Config) error {
	sim := config.Simulation
	if sim.MaxTrials < 1 {
		return errors.ConfigInvalid("STATLAB_MAX_TRIALS must be positive")
	}
	if sim.Trials < 1 || sim.Trials > sim.MaxTrials {
		return errors.ConfigInvalid(fmt.Sprintf("STATLAB_TRIALS must be in [1, %d], got %d", sim.MaxTrials, sim.Trials))
	}
	if !(sim.Alpha > 0 && sim.Alpha < 1) {
		return errors.ConfigInvalid(fmt.Sprintf("STATLAB_ALPHA must be in (0, 1), got %v", sim.Alpha))
	}
	if config.Display.Digits < 1 || config.Display.Digits > 15 {
		return errors.ConfigInvalid(fmt.Sprintf("STATLAB_DIGITS must be in [1, 15], got %d", config.Display.Digits))
	}
	return nil
}

// Helper functions for environment variable parsing. Unlike the *OrDefault
// helpers, a set but malformed number is an error rather than silently ignored.
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}
