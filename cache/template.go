package cache

import (
	"fmt"
	"strings"
)

// Template is a parsed cache-key pattern with named placeholders, such as
// "user:{id}" or "comments:{owner_id}:{post_id}". Parsing happens once;
// rendering binds call arguments by name.
type Template struct {
	raw      string
	segments []segment
}

type segment struct {
	text        string
	placeholder bool
}

// ParseTemplate parses a key pattern. Placeholders are "{name}"; braces must
// balance and names must be non-empty.
func ParseTemplate(pattern string) (*Template, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadTemplate)
	}

	t := &Template{raw: pattern}
	rest := pattern
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("%w: unmatched '}' in %q", ErrBadTemplate, pattern)
			}
			t.segments = append(t.segments, segment{text: rest})
			break
		}
		if open > 0 {
			if strings.IndexByte(rest[:open], '}') >= 0 {
				return nil, fmt.Errorf("%w: unmatched '}' in %q", ErrBadTemplate, pattern)
			}
			t.segments = append(t.segments, segment{text: rest[:open]})
		}
		rest = rest[open+1:]

		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			return nil, fmt.Errorf("%w: unmatched '{' in %q", ErrBadTemplate, pattern)
		}
		name := rest[:closing]
		if name == "" || strings.ContainsAny(name, "{} ") {
			return nil, fmt.Errorf("%w: bad placeholder %q in %q", ErrBadTemplate, name, pattern)
		}
		t.segments = append(t.segments, segment{text: name, placeholder: true})
		rest = rest[closing+1:]
	}

	return t, nil
}

// MustTemplate parses a pattern and panics on error. For package-level
// template variables.
func MustTemplate(pattern string) *Template {
	t, err := ParseTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// Render produces a concrete key by binding arguments to placeholders.
// Every placeholder must have a bound argument; the rendered key must pass
// ValidateKey.
func (t *Template) Render(args map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(t.raw))

	for _, seg := range t.segments {
		if !seg.placeholder {
			b.WriteString(seg.text)
			continue
		}
		v, ok := args[seg.text]
		if !ok {
			return "", fmt.Errorf("%w: %q in %q", ErrUnboundArg, seg.text, t.raw)
		}
		fmt.Fprintf(&b, "%v", v)
	}

	key := b.String()
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// Params returns the placeholder names in order of appearance.
func (t *Template) Params() []string {
	var names []string
	for _, seg := range t.segments {
		if seg.placeholder {
			names = append(names, seg.text)
		}
	}
	return names
}

// String returns the original pattern.
func (t *Template) String() string {
	return t.raw
}
