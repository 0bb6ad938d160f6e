package layout

import "strings"

// attrSpan locates one attribute inside the raw bytes of a start tag.
type attrSpan struct {
	name       string
	value      string
	valueStart int
	valueEnd   int
}

// tagSpan is the raw text of a start tag within the document.
type tagSpan struct {
	start int
	end   int
	name  string
	attrs []attrSpan
}

func (t tagSpan) attr(name string) (attrSpan, bool) {
	for _, a := range t.attrs {
		if a.name == name {
			return a, true
		}
	}
	return attrSpan{}, false
}

// lastAttrEnd is the offset, relative to the tag, just past the final
// attribute value quote, or past the element name when there are none.
func (t tagSpan) lastAttrEnd() int {
	if len(t.attrs) == 0 {
		return 1 + len(t.name)
	}
	return t.attrs[len(t.attrs)-1].valueEnd + 1
}

// lexStartTag reads the element name and attributes of raw, which must start
// with '<'. Offsets in the result are relative to raw. ok is false when raw is
// not a start tag.
func lexStartTag(raw string) (name string, attrs []attrSpan, ok bool) {
	if len(raw) < 2 || raw[0] != '<' {
		return "", nil, false
	}
	i := 1
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}
	name = raw[1:i]
	if name == "" || strings.ContainsAny(name[:1], "!?/") {
		return "", nil, false
	}

	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] == '>' || raw[i] == '/' {
			break
		}
		nameStart := i
		for i < len(raw) && raw[i] != '=' && !isSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
			i++
		}
		attrName := raw[nameStart:i]
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] != '=' {
			// Valueless attribute; tolerated by the lenient scanner only.
			continue
		}
		i++
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || (raw[i] != '"' && raw[i] != '\'') {
			return name, attrs, false
		}
		quote := raw[i]
		i++
		valueStart := i
		for i < len(raw) && raw[i] != quote {
			i++
		}
		if i >= len(raw) {
			return name, attrs, false
		}
		attrs = append(attrs, attrSpan{
			name:       attrName,
			value:      unescapeAttr(raw[valueStart:i]),
			valueStart: valueStart,
			valueEnd:   i,
		})
		i++
	}
	return name, attrs, true
}

// tagEnd returns the index just past the '>' closing the tag starting at
// from, honouring quoted attribute values, or -1.
func tagEnd(text string, from int) int {
	var quote byte
	for i := from; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + 1
		}
	}
	return -1
}

var attrUnescaper = strings.NewReplacer("&quot;", `"`, "&apos;", "'", "&lt;", "<", "&gt;", ">", "&amp;", "&")

func unescapeAttr(value string) string {
	if !strings.Contains(value, "&") {
		return value
	}
	return attrUnescaper.Replace(value)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
