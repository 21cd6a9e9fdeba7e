// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the jobscout API.
type Config struct {
	Port         string
	DatabaseURL  string
	ExaAPIKey    string
	OpenAIAPIKey string
	OpenAIModel  string

	// Pipeline tuning. The validator threshold and enrichment batch size
	// are policy knobs, not contracts (different deployments tighten or
	// loosen them).
	ValidatorMinSignals int // signals required to accept a page as a job posting
	EnrichBatchSize     int // candidates enriched concurrently per batch
	LLMRequestsPerSec   float64
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	exaKey := os.Getenv("EXA_API_KEY")
	if exaKey == "" {
		return nil, fmt.Errorf("EXA_API_KEY is required")
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	minSignals := 3
	if s := os.Getenv("VALIDATOR_MIN_SIGNALS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 6 {
			return nil, fmt.Errorf("VALIDATOR_MIN_SIGNALS must be an integer in [1,6], got %q", s)
		}
		minSignals = v
	}

	batchSize := 5
	if s := os.Getenv("ENRICH_BATCH_SIZE"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("ENRICH_BATCH_SIZE must be a positive integer, got %q", s)
		}
		batchSize = v
	}

	rps := 8.0
	if s := os.Getenv("LLM_REQUESTS_PER_SEC"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("LLM_REQUESTS_PER_SEC must be a positive number, got %q", s)
		}
		rps = v
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		ExaAPIKey:           exaKey,
		OpenAIAPIKey:        openaiKey,
		OpenAIModel:         model,
		ValidatorMinSignals: minSignals,
		EnrichBatchSize:     batchSize,
		LLMRequestsPerSec:   rps,
	}, nil
}
