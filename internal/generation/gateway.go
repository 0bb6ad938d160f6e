package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

const (
	DefaultTimeout          = 90 * time.Second
	DefaultMaxResponseBytes = 4 << 20
	maxErrorPreview         = 2048
)

// Config holds the endpoint settings of the HTTP gateway.
type Config struct {
	Endpoint              string
	APIKey                string
	Timeout               time.Duration
	SendAPIKeyHeader      bool
	MaxResponseBytes      int64
	DefaultInstruction    string
	DefaultStyleReference string
}

type GatewayOption func(*httpGateway)

// WithHTTPClient overrides the HTTP client. Its timeout is left as is.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *httpGateway) {
		if client != nil {
			g.http = client
		}
	}
}

// WithLogger sets the gateway logger.
func WithLogger(logger interfaces.Logger) GatewayOption {
	return func(g *httpGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

type httpGateway struct {
	cfg    Config
	http   *http.Client
	logger interfaces.Logger
}

// NewGateway returns an HTTP Gateway. The endpoint is required.
func NewGateway(cfg Config, opts ...GatewayOption) (Gateway, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if strings.TrimSpace(cfg.DefaultInstruction) == "" {
		cfg.DefaultInstruction = DefaultInstruction
	}
	g := &httpGateway{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

type payload struct {
	BlobURL         string `json:"blob_url"`
	UserPrompt      string `json:"user_prompt"`
	BrandWebsiteURL string `json:"brand_website_url"`
	ContentType     string `json:"content_type"`
	DocumentText    string `json:"document_text,omitempty"`
}

func (g *httpGateway) Generate(ctx context.Context, req Request) ([]domain.GenerationItem, error) {
	if len(req.Manifest) == 0 {
		return nil, ErrManifestEmpty
	}
	manifest, err := json.MarshalIndent(req.Manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generation: encode manifest: %w", err)
	}
	body, err := json.Marshal(payload{
		BlobURL:         req.SourceDocumentRef,
		UserPrompt:      trimmed(req.Instruction, g.cfg.DefaultInstruction),
		BrandWebsiteURL: trimmed(req.StyleReference, g.cfg.DefaultStyleReference),
		ContentType:     string(manifest),
		DocumentText:    req.DocumentText,
	})
	if err != nil {
		return nil, fmt.Errorf("generation: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
		if g.cfg.SendAPIKeyHeader {
			httpReq.Header.Set("api_key", g.cfg.APIKey)
		}
	}

	started := time.Now()
	resp, err := g.http.Do(httpReq)
	if err != nil {
		g.logger.Error("generation.request.failed", "error", err, "timeout", isTimeout(err))
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPreview))
		g.logger.Error("generation.request.status", "status", resp.StatusCode, "body", strings.TrimSpace(string(preview)))
		return nil, fmt.Errorf("%w: unexpected status %s", ErrServiceUnavailable, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, g.cfg.MaxResponseBytes+1))
	if err != nil {
		g.logger.Error("generation.response.read_failed", "error", err, "timeout", isTimeout(err))
		return nil, fmt.Errorf("%w: read body: %v", ErrServiceUnavailable, err)
	}
	if int64(len(raw)) > g.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrServiceUnavailable, g.cfg.MaxResponseBytes)
	}

	rawItems, err := Normalize(raw)
	if err != nil {
		g.logger.Error("generation.response.invalid", "error", err)
		return nil, err
	}
	items := make([]domain.GenerationItem, 0, len(rawItems))
	for i, rawItem := range rawItems {
		if err := validateItem(rawItem); err != nil {
			g.logger.Warn("generation.response.item_skipped", "index", i, "error", err)
			continue
		}
		items = append(items, toItem(rawItem.(map[string]any)))
	}
	g.logger.Info("generation.request.completed",
		"fields", len(req.Manifest),
		"items", len(items),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return items, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
