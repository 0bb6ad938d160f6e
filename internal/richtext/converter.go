package richtext

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Format names how generated Rich Text values are written.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPlain    Format = "plain"
)

// ParseFormat maps a config value to a Format, defaulting to markdown.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatPlain:
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("richtext: unknown format %q", value)
	}
}

// Options configures a Converter. Extensions names goldmark extensions; an
// empty list enables GFM, linkify and task lists.
type Options struct {
	Extensions []string
	HardWraps  bool
	Sanitize   bool
}

// Converter turns generated text into Rich Text field HTML. It is stateless
// after construction and safe for concurrent use.
type Converter struct {
	format Format
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// NewConverter returns a converter for format.
func NewConverter(format Format, opts Options) *Converter {
	c := &Converter{format: format, engine: newEngine(opts)}
	if opts.Sanitize {
		c.policy = bluemonday.UGCPolicy()
	}
	return c
}

// Convert renders value according to the converter format.
func (c *Converter) Convert(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	var out string
	switch c.format {
	case FormatHTML:
		out = value
	case FormatPlain:
		out = paragraphs(value)
	default:
		var buf bytes.Buffer
		if err := c.engine.Convert([]byte(value), &buf); err != nil {
			return "", fmt.Errorf("richtext: render markdown: %w", err)
		}
		out = buf.String()
	}
	if c.policy != nil {
		out = c.policy.Sanitize(out)
	}
	return strings.TrimSpace(out), nil
}

func paragraphs(value string) string {
	blocks := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br>"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

func newEngine(opts Options) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}
	// Raw HTML passes through only when a sanitizer scrubs the output.
	if opts.Sanitize {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			continue
		}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
			seen[key] = struct{}{}
		}
	}
	return extenders
}
