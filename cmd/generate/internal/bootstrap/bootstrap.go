package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	authoring "github.com/goliatone/go-cms-authoring"
	"github.com/goliatone/go-cms-authoring/internal/di"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/internal/logging/console"
	"github.com/goliatone/go-cms-authoring/internal/runtimeconfig"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrJournalDSNRequired is returned when a SQL journal is requested without a DSN.
var ErrJournalDSNRequired = errors.New("bootstrap: journal dsn required")

// Options captures runtime configuration for the generate command.
type Options struct {
	Config          runtimeconfig.Config
	JournalDialect  string
	JournalDSN      string
	LoggerProvider  interfaces.LoggerProvider
	ExtraDIOptions  []di.Option
	SkipJournalInit bool
}

// Module wraps the authoring module and the journal database it opened.
type Module struct {
	authoring *authoring.Module
	db        *bun.DB
	logger    interfaces.Logger
}

// Authoring returns the authoring module.
func (m *Module) Authoring() *authoring.Module {
	return m.authoring
}

// Logger returns the command logger.
func (m *Module) Logger() interfaces.Logger {
	return m.logger
}

// Close releases the journal database, if any.
func (m *Module) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// BuildModule constructs an authoring module with the journal backend selected
// by opts.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg := opts.Config
	if opts.JournalDialect != "" {
		cfg.Journal.Dialect = strings.ToLower(strings.TrimSpace(opts.JournalDialect))
	}
	if opts.JournalDSN != "" {
		cfg.Journal.DSN = opts.JournalDSN
	}

	provider := opts.LoggerProvider
	if provider == nil {
		level := console.ParseLevel(cfg.Logging.Level)
		provider = console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level})
	}

	diOpts := []di.Option{di.WithLoggerProvider(provider)}

	var db *bun.DB
	if cfg.Features.Journal && cfg.Journal.Enabled && !opts.SkipJournalInit {
		opened, err := OpenJournalDB(cfg.Journal.Dialect, cfg.Journal.DSN)
		if err != nil {
			return nil, err
		}
		if opened != nil {
			if err := authoring.MigrateJournal(ctx, opened); err != nil {
				_ = opened.Close()
				return nil, fmt.Errorf("migrate journal: %w", err)
			}
			db = opened
			diOpts = append(diOpts, di.WithBunDB(db))
		}
	}
	diOpts = append(diOpts, opts.ExtraDIOptions...)

	module, err := authoring.New(cfg, diOpts...)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("initialise authoring module: %w", err)
	}

	return &Module{
		authoring: module,
		db:        db,
		logger:    logging.ModuleLogger(provider, logging.RootModule+".cmd.generate"),
	}, nil
}

// OpenJournalDB opens the bun database for dialect. The memory dialect needs
// no database and returns nil.
func OpenJournalDB(dialect, dsn string) (*bun.DB, error) {
	switch dialect {
	case "", "memory":
		return nil, nil
	case "sqlite":
		if strings.TrimSpace(dsn) == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		if strings.TrimSpace(dsn) == "" {
			return nil, ErrJournalDSNRequired
		}
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", runtimeconfig.ErrJournalDialectInvalid, dialect)
	}
}
