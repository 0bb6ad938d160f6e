package runtimeconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by FromEnv.
const (
	EnvGenerationEndpoint       = "AUTHORING_GENERATION_ENDPOINT"
	EnvGenerationAPIKey         = "AUTHORING_GENERATION_API_KEY"
	EnvGenerationInstruction    = "AUTHORING_GENERATION_INSTRUCTION"
	EnvGenerationStyleReference = "AUTHORING_GENERATION_STYLE_REFERENCE"
	EnvGenerationTimeout        = "AUTHORING_GENERATION_TIMEOUT"
	EnvGraphQLEndpoint          = "AUTHORING_GRAPHQL_ENDPOINT"
	EnvGraphQLToken             = "AUTHORING_GRAPHQL_TOKEN"
	EnvDefaultParentID          = "AUTHORING_DEFAULT_PARENT_ID"
	EnvLogLevel                 = "AUTHORING_LOG_LEVEL"
	EnvJournalDSN               = "AUTHORING_JOURNAL_DSN"
	EnvResolutionConcurrency    = "AUTHORING_RESOLUTION_CONCURRENCY"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv overlays environment values on cfg. Unset and blank variables
// leave the existing value in place.
func FromEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return cfg, nil
	}
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	if v, ok := get(EnvGenerationEndpoint); ok {
		cfg.Generation.Endpoint = v
	}
	if v, ok := get(EnvGenerationAPIKey); ok {
		cfg.Generation.APIKey = v
	}
	if v, ok := get(EnvGenerationInstruction); ok {
		cfg.Generation.DefaultInstruction = v
	}
	if v, ok := get(EnvGenerationStyleReference); ok {
		cfg.Generation.DefaultStyleReference = v
	}
	if v, ok := get(EnvGenerationTimeout); ok {
		timeout, err := parseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvGenerationTimeout, err)
		}
		cfg.Generation.Timeout = timeout
	}
	if v, ok := get(EnvGraphQLEndpoint); ok {
		cfg.Authoring.Endpoint = v
	}
	if v, ok := get(EnvGraphQLToken); ok {
		cfg.Authoring.Token = v
	}
	if v, ok := get(EnvDefaultParentID); ok {
		cfg.Items.DefaultParentID = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get(EnvJournalDSN); ok {
		cfg.Journal.DSN = v
	}
	if v, ok := get(EnvResolutionConcurrency); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvResolutionConcurrency, err)
		}
		cfg.Resolution.Concurrency = n
	}
	return cfg, nil
}

// parseDuration accepts Go durations and bare seconds.
func parseDuration(value string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}
