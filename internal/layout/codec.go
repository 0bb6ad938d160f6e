package layout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

// Codec reads rendering assignments from layout documents and writes
// datasource bindings back into them.
type Codec struct {
	logger interfaces.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for skipped bindings.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCodec returns a Codec with a no-op logger unless one is supplied.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Parse returns the rendering assignments of text in document order.
// Elements missing a component or instance id are skipped. Empty input yields
// an empty list. When the document is not well-formed the renderings are
// recovered with a tag scan; ErrMalformedDocument is returned only when that
// scan finds no rendering element either.
func (c *Codec) Parse(text string) ([]RenderingAssignment, error) {
	if strings.TrimSpace(text) == "" {
		return []RenderingAssignment{}, nil
	}

	tags, err := scanDocument(text)
	if err != nil {
		var found bool
		tags, found = scanLenient(text)
		if !found {
			return nil, err
		}
		c.logger.Debug("layout.parse.lenient", "error", err, "renderings", len(tags))
	}

	out := make([]RenderingAssignment, 0, len(tags))
	for _, tag := range tags {
		component, _ := tag.attr(ComponentAttribute)
		instance, _ := tag.attr(InstanceAttribute)
		if strings.TrimSpace(component.value) == "" || strings.TrimSpace(instance.value) == "" {
			continue
		}
		placeholder, _ := tag.attr(PlaceholderAttr)
		datasource, _ := tag.attr(DatasourceAttribute)
		out = append(out, RenderingAssignment{
			ComponentID: identity.Normalize(component.value),
			Placeholder: placeholder.value,
			InstanceID:  identity.Normalize(instance.value),
			Datasource:  datasource.value,
		})
	}
	return out, nil
}

// ApplyBindings sets the datasource attribute of every rendering whose
// instance id matches a binding. Bindings are applied in order, so a later
// binding for the same instance wins. Bindings with an invalid content item
// or instance id are skipped, reported in the result, and logged as warnings.
// Bytes outside the rewritten attribute values are preserved.
func (c *Codec) ApplyBindings(text string, bindings []DatasourceBinding) (ApplyResult, error) {
	result := ApplyResult{Text: text}
	if text == "" || len(bindings) == 0 {
		return result, nil
	}

	targets := make(map[string]string, len(bindings))
	for _, binding := range bindings {
		canonical, err := identity.CanonicalGUID(binding.ContentItemID)
		if err == nil && identity.HexKey(binding.RenderingInstanceID) == "" {
			err = fmt.Errorf("%w: empty rendering instance id", identity.ErrInvalidIdentifier)
		}
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedBinding{Binding: binding, Err: err})
			c.logger.Warn("layout.binding.invalid_identifier",
				"rendering_instance_id", binding.RenderingInstanceID,
				"content_item_id", binding.ContentItemID,
				"error", err,
			)
			continue
		}
		targets[identity.HexKey(binding.RenderingInstanceID)] = canonical
	}
	if len(targets) == 0 {
		return result, nil
	}

	tags, err := scanDocument(text)
	if err != nil {
		return result, err
	}

	var b strings.Builder
	b.Grow(len(text) + len(targets)*48)
	cursor := 0
	for _, tag := range tags {
		instance, ok := tag.attr(InstanceAttribute)
		if !ok {
			continue
		}
		value, ok := targets[identity.HexKey(instance.value)]
		if !ok {
			continue
		}
		if current, has := tag.attr(DatasourceAttribute); has {
			if current.value == value {
				continue
			}
			b.WriteString(text[cursor : tag.start+current.valueStart])
			b.WriteString(value)
			cursor = tag.start + current.valueEnd
		} else {
			insertAt := tag.start + tag.lastAttrEnd()
			b.WriteString(text[cursor:insertAt])
			b.WriteString(" " + DatasourceAttribute + `="` + value + `"`)
			cursor = insertAt
		}
		result.Updated++
	}
	if result.Updated == 0 {
		return result, nil
	}
	b.WriteString(text[cursor:])
	result.Text = b.String()
	return result, nil
}

// scanDocument tokenizes text with encoding/xml and returns the rendering
// start tags with their byte spans.
func scanDocument(text string) ([]tagSpan, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true

	var (
		tags  []tagSpan
		stack []string
		seen  bool
	)
	for {
		start := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		end := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			seen = true
			name := qualified(t.Name)
			stack = append(stack, name)
			if name != RenderingElement {
				continue
			}
			span, ok := startTagAt(text, start, end)
			if !ok {
				return nil, fmt.Errorf("%w: unreadable rendering tag at offset %d", ErrMalformedDocument, start)
			}
			tags = append(tags, span)
		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return nil, fmt.Errorf("%w: unexpected closing tag </%s> at offset %d", ErrMalformedDocument, name, start)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if !seen {
		return nil, fmt.Errorf("%w: no elements", ErrMalformedDocument)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformedDocument, stack[len(stack)-1])
	}
	return tags, nil
}

// startTagAt lexes the start tag occupying text[start:end]. A self-closing
// tag and an open tag both end at the first unquoted '>'.
func startTagAt(text string, start, end int) (tagSpan, bool) {
	for start < end && text[start] != '<' {
		start++
	}
	if start >= end {
		return tagSpan{}, false
	}
	name, attrs, ok := lexStartTag(text[start:end])
	if !ok {
		return tagSpan{}, false
	}
	return tagSpan{start: start, end: end, name: name, attrs: attrs}, true
}

// scanLenient finds rendering start tags without requiring a well-formed
// document. found is false when no rendering tag exists at all.
func scanLenient(text string) ([]tagSpan, bool) {
	var tags []tagSpan
	found := false
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], "<"+RenderingElement)
		if idx < 0 {
			break
		}
		start := i + idx
		next := start + 1 + len(RenderingElement)
		if next < len(text) && !isSpace(text[next]) && text[next] != '/' && text[next] != '>' {
			i = next
			continue
		}
		end := tagEnd(text, start)
		if end < 0 {
			break
		}
		found = true
		if name, attrs, ok := lexStartTag(text[start:end]); ok && name == RenderingElement {
			tags = append(tags, tagSpan{start: start, end: end, name: name, attrs: attrs})
		}
		i = end
	}
	return tags, found
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

var defaultCodec = NewCodec()

// Parse reads text with a default Codec.
func Parse(text string) ([]RenderingAssignment, error) {
	return defaultCodec.Parse(text)
}

// ApplyBindings writes bindings with a default Codec.
func ApplyBindings(text string, bindings []DatasourceBinding) (ApplyResult, error) {
	return defaultCodec.ApplyBindings(text, bindings)
}
