package authoring

import "github.com/goliatone/go-cms-authoring/internal/runtimeconfig"

var (
	ErrGenerationEndpointRequired = runtimeconfig.ErrGenerationEndpointRequired
	ErrGenerationTimeoutInvalid   = runtimeconfig.ErrGenerationTimeoutInvalid
	ErrAuthoringEndpointRequired  = runtimeconfig.ErrAuthoringEndpointRequired
	ErrJournalFeatureRequired     = runtimeconfig.ErrJournalFeatureRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	GenerationConfig = runtimeconfig.GenerationConfig
	AuthoringConfig  = runtimeconfig.AuthoringConfig
	LayoutConfig     = runtimeconfig.LayoutConfig
	ResolutionConfig = runtimeconfig.ResolutionConfig
	TemplatesConfig  = runtimeconfig.TemplatesConfig
	ItemsConfig      = runtimeconfig.ItemsConfig
	JournalConfig    = runtimeconfig.JournalConfig
	CacheConfig      = runtimeconfig.CacheConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv overlays AUTHORING_* environment values on the defaults.
func ConfigFromEnv(lookup runtimeconfig.LookupFunc) (Config, error) {
	return runtimeconfig.FromEnv(runtimeconfig.DefaultConfig(), lookup)
}
