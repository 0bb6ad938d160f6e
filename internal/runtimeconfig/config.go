package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrGenerationEndpointRequired = errors.New("authoring config: generation endpoint is required")
	ErrGenerationTimeoutInvalid   = errors.New("authoring config: generation timeout must be between 1s and 10m")
	ErrSourceBudgetInvalid        = errors.New("authoring config: source character budget must be positive")
	ErrTextFieldTypesRequired     = errors.New("authoring config: at least one text field type is required")
	ErrAuthoringEndpointRequired  = errors.New("authoring config: authoring endpoint is required")
	ErrLayoutFieldRequired        = errors.New("authoring config: layout field name is required")
	ErrResolutionConcurrency      = errors.New("authoring config: resolution concurrency must be positive")
	ErrFieldCacheSizeInvalid      = errors.New("authoring config: template field cache size must be zero or positive")
	ErrRichTextFormatInvalid      = errors.New("authoring config: rich text format is invalid")
	ErrJournalFeatureRequired     = errors.New("authoring config: journal feature must be enabled to configure the journal")
	ErrJournalDialectInvalid      = errors.New("authoring config: journal dialect is invalid")
	ErrLoggingProviderRequired    = errors.New("authoring config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("authoring config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("authoring config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("authoring config: logging format is invalid")
)

const (
	minGenerationTimeout = time.Second
	maxGenerationTimeout = 10 * time.Minute
)

// Config aggregates endpoint settings, pipeline tuning and feature flags for
// the authoring module.
type Config struct {
	Generation GenerationConfig
	Authoring  AuthoringConfig
	Layout     LayoutConfig
	Resolution ResolutionConfig
	Templates  TemplatesConfig
	Items      ItemsConfig
	Journal    JournalConfig
	Cache      CacheConfig
	Features   Features
	Logging    LoggingConfig
}

// GenerationConfig configures the content generation service.
type GenerationConfig struct {
	Endpoint              string
	APIKey                string
	DefaultInstruction    string
	DefaultStyleReference string
	Timeout               time.Duration
	SourceCharBudget      int
	TextFieldTypes        []string
	MaxResponseBytes      int64
	SendAPIKeyHeader      bool
}

// AuthoringConfig configures the CMS authoring GraphQL endpoint.
type AuthoringConfig struct {
	Endpoint string
	Token    string
	Database string
	Language string
	Timeout  time.Duration
}

// LayoutConfig names the item field holding the layout document.
type LayoutConfig struct {
	FieldName string
}

// ResolutionConfig bounds concurrent component resolution.
type ResolutionConfig struct {
	Concurrency int
}

// TemplatesConfig configures template lookups and page field merging.
type TemplatesConfig struct {
	FieldCacheSize    int
	PageBaseTemplates []string
	BaseBucket        string
	PageNameField     string
	CatalogRoot       string
}

// ItemsConfig configures content item creation.
type ItemsConfig struct {
	DefaultParentID string
	RichTextFormat  string
	SanitizeHTML    bool
}

// JournalConfig configures the optional authoring journal.
type JournalConfig struct {
	Enabled bool
	Dialect string
	DSN     string
}

// CacheConfig captures journal repository caching.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles optional functionality.
type Features struct {
	Logger  bool
	Journal bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults suitable for a single authoring user.
func DefaultConfig() Config {
	return Config{
		Generation: GenerationConfig{
			DefaultInstruction: "Rewrite in a more engaging style, but maintain all important details.",
			Timeout:            90 * time.Second,
			SourceCharBudget:   30000,
			TextFieldTypes:     []string{"Single-Line Text", "Rich Text", "Multi-Line Text"},
			MaxResponseBytes:   4 << 20,
		},
		Authoring: AuthoringConfig{
			Database: "master",
			Language: "en",
			Timeout:  30 * time.Second,
		},
		Layout: LayoutConfig{
			FieldName: "__Final Renderings",
		},
		Resolution: ResolutionConfig{
			Concurrency: 4,
		},
		Templates: TemplatesConfig{
			FieldCacheSize:    128,
			PageBaseTemplates: []string{"Page", "_SEO Metadata"},
			BaseBucket:        "BaseTemplate",
			PageNameField:     "Title",
			CatalogRoot:       "/sitecore/templates/Project",
		},
		Items: ItemsConfig{
			RichTextFormat: "markdown",
			SanitizeHTML:   true,
		},
		Journal: JournalConfig{
			Dialect: "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks. Endpoints are only required by
// ValidateEndpoints so offline tooling can run with partial settings.
func (cfg Config) Validate() error {
	if t := cfg.Generation.Timeout; t < minGenerationTimeout || t > maxGenerationTimeout {
		return fmt.Errorf("%w: %s", ErrGenerationTimeoutInvalid, t)
	}
	if cfg.Generation.SourceCharBudget <= 0 {
		return ErrSourceBudgetInvalid
	}
	if len(cfg.Generation.TextFieldTypes) == 0 {
		return ErrTextFieldTypesRequired
	}
	if strings.TrimSpace(cfg.Layout.FieldName) == "" {
		return ErrLayoutFieldRequired
	}
	if cfg.Resolution.Concurrency <= 0 {
		return ErrResolutionConcurrency
	}
	if cfg.Templates.FieldCacheSize < 0 {
		return ErrFieldCacheSizeInvalid
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Items.RichTextFormat)) {
	case "", "markdown", "html", "plain":
	default:
		return fmt.Errorf("%w: %s", ErrRichTextFormatInvalid, cfg.Items.RichTextFormat)
	}
	if cfg.Journal.Enabled {
		if !cfg.Features.Journal {
			return ErrJournalFeatureRequired
		}
		switch strings.ToLower(strings.TrimSpace(cfg.Journal.Dialect)) {
		case "sqlite", "postgres", "memory":
		default:
			return fmt.Errorf("%w: %s", ErrJournalDialectInvalid, cfg.Journal.Dialect)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// ValidateEndpoints checks the settings needed to reach both remote services.
func (cfg Config) ValidateEndpoints() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Generation.Endpoint) == "" {
		return ErrGenerationEndpointRequired
	}
	if strings.TrimSpace(cfg.Authoring.Endpoint) == "" {
		return ErrAuthoringEndpointRequired
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
