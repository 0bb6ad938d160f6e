package di

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/bindings"
	commands "github.com/goliatone/go-cms-authoring/internal/commands/authoring"
	"github.com/goliatone/go-cms-authoring/internal/components"
	"github.com/goliatone/go-cms-authoring/internal/generation"
	"github.com/goliatone/go-cms-authoring/internal/graphql"
	"github.com/goliatone/go-cms-authoring/internal/items"
	"github.com/goliatone/go-cms-authoring/internal/journal"
	"github.com/goliatone/go-cms-authoring/internal/layout"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/internal/logging/console"
	"github.com/goliatone/go-cms-authoring/internal/logging/gologger"
	"github.com/goliatone/go-cms-authoring/internal/reconcile"
	"github.com/goliatone/go-cms-authoring/internal/richtext"
	"github.com/goliatone/go-cms-authoring/internal/runtimeconfig"
	"github.com/goliatone/go-cms-authoring/internal/session"
	"github.com/goliatone/go-cms-authoring/internal/templates"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

var ErrAuthoringClientRequired = errors.New("di: authoring endpoint or client required")

// Container wires the authoring services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	client         interfaces.AuthoringClient
	gateway        generation.Gateway
	extractor      interfaces.TextExtractor

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	journalRepo   journal.Repository

	templateSvc templates.Service
	resolver    components.Resolver
	itemSvc     items.Service
	reconciler  *reconcile.Reconciler
	recorder    *journal.Recorder
	sessions    *session.Registry
	handlers    commands.Handlers
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
// Without one, and with the logger feature off, every module logs nowhere.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient sets the HTTP client shared by both remote services.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithAuthoringClient replaces the GraphQL client.
func WithAuthoringClient(client interfaces.AuthoringClient) Option {
	return func(c *Container) {
		c.client = client
	}
}

// WithGateway replaces the HTTP generation gateway.
func WithGateway(gateway generation.Gateway) Option {
	return func(c *Container) {
		c.gateway = gateway
	}
}

// WithTextExtractor sets the source document text extractor.
func WithTextExtractor(extractor interfaces.TextExtractor) Option {
	return func(c *Container) {
		c.extractor = extractor
	}
}

// WithBunDB stores the journal in db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the journal repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithJournalRepository replaces the journal repository.
func WithJournalRepository(repo journal.Repository) Option {
	return func(c *Container) {
		c.journalRepo = repo
	}
}

// NewContainer validates cfg and wires every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		sessions: session.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureClients(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureJournal()

	c.handlers = commands.NewHandlers(c.sessions, c.loggerProvider)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

func (c *Container) configureClients() error {
	if c.client == nil {
		endpoint := strings.TrimSpace(c.Config.Authoring.Endpoint)
		if endpoint == "" {
			return ErrAuthoringClientRequired
		}
		clientOpts := []graphql.Option{
			graphql.WithToken(c.Config.Authoring.Token),
			graphql.WithTimeout(c.Config.Authoring.Timeout),
			graphql.WithLogger(c.logger(logging.RootModule + ".graphql")),
		}
		if c.httpClient != nil {
			clientOpts = append(clientOpts, graphql.WithHTTPClient(c.httpClient))
		}
		c.client = graphql.NewClient(endpoint, clientOpts...)
	}

	if c.gateway == nil {
		gen := c.Config.Generation
		gatewayOpts := []generation.GatewayOption{
			generation.WithLogger(c.logger(logging.GenerationModule)),
		}
		if c.httpClient != nil {
			gatewayOpts = append(gatewayOpts, generation.WithHTTPClient(c.httpClient))
		}
		gateway, err := generation.NewGateway(generation.Config{
			Endpoint:              gen.Endpoint,
			APIKey:                gen.APIKey,
			Timeout:               gen.Timeout,
			SendAPIKeyHeader:      gen.SendAPIKeyHeader,
			MaxResponseBytes:      gen.MaxResponseBytes,
			DefaultInstruction:    gen.DefaultInstruction,
			DefaultStyleReference: gen.DefaultStyleReference,
		}, gatewayOpts...)
		if err != nil {
			return err
		}
		c.gateway = gateway
	}
	return nil
}

func (c *Container) configureServices() error {
	language := c.Config.Authoring.Language

	c.templateSvc = templates.NewService(c.client,
		templates.WithLogger(c.logger(logging.TemplatesModule)),
		templates.WithLanguage(language),
		templates.WithDatabase(c.Config.Authoring.Database),
		templates.WithLayoutField(c.Config.Layout.FieldName),
		templates.WithFieldCache(c.Config.Templates.FieldCacheSize),
	)
	c.resolver = components.NewResolver(c.client,
		components.WithLogger(c.logger(logging.ComponentsModule)),
		components.WithLanguage(language),
	)

	format, err := richtext.ParseFormat(c.Config.Items.RichTextFormat)
	if err != nil {
		return fmt.Errorf("%w: %v", runtimeconfig.ErrRichTextFormatInvalid, err)
	}
	c.itemSvc = items.NewService(c.client,
		items.WithLogger(c.logger(logging.ItemsModule)),
		items.WithLanguage(language),
		items.WithLayoutField(c.Config.Layout.FieldName),
		items.WithDefaultParent(c.Config.Items.DefaultParentID),
		items.WithRichText(richtext.NewConverter(format, richtext.Options{Sanitize: c.Config.Items.SanitizeHTML})),
	)
	c.reconciler = reconcile.New(reconcile.WithLogger(c.logger(logging.ReconcileModule)))
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureJournal() {
	if !c.Config.Features.Journal || !c.Config.Journal.Enabled {
		return
	}
	if c.journalRepo == nil {
		switch {
		case c.bunDB != nil && c.cacheService != nil:
			c.journalRepo = journal.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		case c.bunDB != nil:
			c.journalRepo = journal.NewBunRepository(c.bunDB)
		default:
			c.journalRepo = journal.NewMemoryRepository()
		}
	}
	logger := c.logger(logging.JournalModule)
	c.recorder = journal.NewRecorder(c.journalRepo, journal.WithLogger(logger))
	logger.Info("journal.configured", "backend", fmt.Sprintf("%T", c.journalRepo))
}

// NewSession opens a session for pageItemID and registers it.
func (c *Container) NewSession(pageItemID string, opts ...session.Option) (*session.Session, error) {
	base := []session.Option{
		session.WithPageItem(pageItemID),
		session.WithLogger(c.logger(logging.SessionModule)),
		session.WithSettings(session.Settings{
			Concurrency:       c.Config.Resolution.Concurrency,
			TextFieldTypes:    c.Config.Generation.TextFieldTypes,
			PageBaseTemplates: c.Config.Templates.PageBaseTemplates,
			BaseBucket:        c.Config.Templates.BaseBucket,
			PageNameField:     c.Config.Templates.PageNameField,
			SourceCharBudget:  c.Config.Generation.SourceCharBudget,
		}),
	}
	s, err := session.New(session.Dependencies{
		Templates:  c.templateSvc,
		Resolver:   c.resolver,
		Gateway:    c.gateway,
		Items:      c.itemSvc,
		Reconciler: c.reconciler,
		Journal:    c.recorder,
		Extractor:  c.extractor,
	}, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	c.sessions.Add(s)
	return s, nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// LayoutCodec returns a layout codec logging under the layout module.
func (c *Container) LayoutCodec() *layout.Codec {
	return layout.NewCodec(layout.WithLogger(c.logger(logging.LayoutModule)))
}

// NewPlanner returns an empty binding planner logging under the bindings module.
func (c *Container) NewPlanner() *bindings.Planner {
	return bindings.NewPlanner(bindings.WithLogger(c.logger(logging.BindingsModule)))
}

func (c *Container) AuthoringClient() interfaces.AuthoringClient { return c.client }

func (c *Container) Gateway() generation.Gateway { return c.gateway }

func (c *Container) TemplateService() templates.Service { return c.templateSvc }

func (c *Container) ComponentResolver() components.Resolver { return c.resolver }

func (c *Container) ItemService() items.Service { return c.itemSvc }

func (c *Container) Reconciler() *reconcile.Reconciler { return c.reconciler }

// Journal returns nil unless the journal feature is enabled.
func (c *Container) Journal() *journal.Recorder { return c.recorder }

func (c *Container) Sessions() *session.Registry { return c.sessions }

func (c *Container) Commands() commands.Handlers { return c.handlers }
