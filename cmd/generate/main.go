package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	authoring "github.com/goliatone/go-cms-authoring"
	"github.com/goliatone/go-cms-authoring/cmd/generate/internal/bootstrap"
	"github.com/joho/godotenv"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.LookupEnv, os.Stdout); err != nil {
		log.Fatalf("generate: %v", err)
	}
}

type report struct {
	SessionID  string                        `json:"session_id"`
	PageName   string                        `json:"page_name,omitempty"`
	PageFields []authoring.FieldDescriptor   `json:"page_fields,omitempty"`
	PageError  string                        `json:"page_error,omitempty"`
	Components []componentReport             `json:"components"`
	Failures   []string                      `json:"failures,omitempty"`
	Bindings   []authoring.DatasourceBinding `json:"bindings,omitempty"`
	Persisted  bool                          `json:"persisted"`
}

type componentReport struct {
	InstanceID string                      `json:"instance_id"`
	Component  string                      `json:"component"`
	Fields     []authoring.FieldDescriptor `json:"fields,omitempty"`
	Matched    int                         `json:"matched"`
	Unmatched  int                         `json:"unmatched"`
	ItemID     string                      `json:"item_id,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func run(ctx context.Context, args []string, lookup func(string) (string, bool), stdout io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	pageItem := fs.String("page", "", "Page item id whose layout is authored")
	layoutFile := fs.String("layout", "", "Read the layout from this file instead of the page item")
	component := fs.String("component", "", "Only generate for this component or rendering instance id")
	sourceRef := fs.String("source", "", "Source document reference")
	sourceFile := fs.String("source-file", "", "Read the source text from this file")
	instruction := fs.String("instruction", "", "Generation instruction")
	matchSections := fs.Bool("by-section", false, "Match generated values by section and field name")
	page := fs.Bool("page-fields", false, "Generate the page base template fields first, recording the page name")
	pageTemplate := fs.String("page-template", "", "Template id of the page item, required by -page-fields")
	save := fs.Bool("save", false, "Create datasource items for generated components")
	persist := fs.Bool("persist", false, "Write recorded bindings into the page layout")
	journalDialect := fs.String("journal", "", "Journal backend: memory, sqlite, or postgres")
	journalDSN := fs.String("journal-dsn", "", "Journal database DSN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*pageItem) == "" {
		return errors.New("-page is required")
	}
	if *persist && !*save {
		return errors.New("-persist requires -save")
	}
	if *page && strings.TrimSpace(*pageTemplate) == "" {
		return errors.New("-page-fields requires -page-template")
	}

	cfg, err := authoring.ConfigFromEnv(lookup)
	if err != nil {
		return err
	}
	if *journalDialect != "" {
		cfg.Features.Journal = true
		cfg.Journal.Enabled = true
	}
	if err := cfg.ValidateEndpoints(); err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{
		Config:         cfg,
		JournalDialect: *journalDialect,
		JournalDSN:     *journalDSN,
	})
	if err != nil {
		return err
	}
	defer module.Close()
	app := module.Authoring()
	logger := module.Logger()

	sess, err := app.NewSession(*pageItem)
	if err != nil {
		return err
	}

	layoutXML, err := loadLayout(ctx, app, *pageItem, *layoutFile)
	if err != nil {
		return err
	}
	discovery, err := sess.Discover(ctx, layoutXML)
	if err != nil {
		return err
	}

	src := authoring.Source{
		DocumentRef: *sourceRef,
		Instruction: *instruction,
	}
	if *sourceFile != "" {
		data, err := os.ReadFile(*sourceFile)
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		src.Text = string(data)
		if src.DocumentRef == "" {
			src.DocumentRef = *sourceFile
		}
	}
	opts := authoring.GenerateOptions{}
	if *matchSections {
		opts.Reconcile.Strategy = authoring.MatchBySectionName
	}

	out := report{SessionID: sess.ID().String()}
	for _, failure := range discovery.Failures {
		out.Failures = append(out.Failures, failure.Ref)
	}

	if *page {
		generated, err := sess.GeneratePageFields(ctx, *pageTemplate, src, opts)
		if err != nil {
			logger.Warn("generate.page_failed", "page_template_id", *pageTemplate, "error", err)
			out.PageError = describe(err)
		} else {
			out.PageFields = generated.Fields
		}
	}

	for _, placement := range discovery.Resolved() {
		instance := placement.Assignment.InstanceID
		if *component != "" && !matchesRef(*component, placement.Assignment) {
			continue
		}
		if placement.Component.DataShapeRef == "" {
			continue
		}
		entry := componentReport{InstanceID: instance, Component: placement.Component.Name}
		generated, err := sess.GenerateComponentFields(ctx, instance, src, opts)
		if err != nil {
			entry.Error = describe(err)
			out.Components = append(out.Components, entry)
			continue
		}
		entry.Fields = generated.Fields
		entry.Matched = generated.Matched
		entry.Unmatched = generated.Unmatched
		if *save {
			saved, err := sess.SaveDatasource(ctx, authoring.SaveRequest{
				InstanceID:  instance,
				ComponentID: placement.Assignment.ComponentID,
				Fields:      generated.Fields,
			})
			if err != nil {
				entry.Error = describe(err)
			} else {
				entry.ItemID = saved.Item.ItemID
			}
		}
		out.Components = append(out.Components, entry)
	}

	if *persist {
		persisted, err := sess.PersistLayout(ctx)
		if err != nil {
			return err
		}
		out.Persisted = persisted.Written
	}
	out.PageName = sess.PageName()
	out.Bindings = sess.Bindings()

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadLayout(ctx context.Context, app *authoring.Module, pageItem, path string) (string, error) {
	if path == "" {
		return app.Items().GetLayout(ctx, pageItem)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read layout: %w", err)
	}
	return string(data), nil
}

func matchesRef(ref string, assignment authoring.RenderingAssignment) bool {
	return strings.EqualFold(ref, assignment.InstanceID) || strings.EqualFold(ref, assignment.ComponentID)
}

func describe(err error) string {
	if errors.Is(err, authoring.ErrServiceUnavailable) {
		return authoring.UserMessage
	}
	return err.Error()
}
