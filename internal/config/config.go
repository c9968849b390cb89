package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the environment-tunable defaults. Everything has a sensible
// fallback; a .env file is optional.
type Config struct {
	OutputDir       string
	ChartWidthPt    float64 // width of one subplot in points
	ChartHeightPt   float64
	EfficiencyRange string // "low,high" default filter specs
	FillFactorRange string
	LogLevel        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		OutputDir:       getEnv("SUSI_OUTPUT_DIR", "."),
		ChartWidthPt:    getEnvFloat("SUSI_CHART_WIDTH_PT", 420),
		ChartHeightPt:   getEnvFloat("SUSI_CHART_HEIGHT_PT", 260),
		EfficiencyRange: getEnv("SUSI_EFFICIENCY_RANGE", "0,100"),
		FillFactorRange: getEnv("SUSI_FILL_FACTOR_RANGE", "0,100"),
		LogLevel:        getEnv("SUSI_LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
