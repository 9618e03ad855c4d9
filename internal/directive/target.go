package directive

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTarget is returned by ParseTarget for unusable directive arguments.
var ErrMalformedTarget = errors.New("malformed include directive")

// Target is a directive to insert or move, built once from command input.
type Target struct {
	// Name is the header name without brackets or quotes.
	Name string
	// Style is the bracket style.
	Style Style
	// Text is the full directive, e.g. `#include <vector>`.
	Text string
	// Explanation is an optional note printed when the directive is inserted.
	Explanation string
}

// ParseTarget turns `<name>`, `"name"` or `name` into a Target.
// Surrounding whitespace is ignored; a bare name gets quotes.
func ParseTarget(arg string) (Target, error) {
	s := strings.TrimSpace(arg)
	if len(s) < 2 {
		return Target{}, fmt.Errorf("%w: %q is too short", ErrMalformedTarget, arg)
	}

	switch s[0] {
	case '<':
		if s[len(s)-1] != '>' {
			return Target{}, fmt.Errorf("%w: missing '>' in %q", ErrMalformedTarget, s)
		}
		return newTarget(s[1:len(s)-1], StyleAngle)
	case '"':
		if s[len(s)-1] != '"' {
			return Target{}, fmt.Errorf("%w: missing closing '\"' in %q", ErrMalformedTarget, s)
		}
		return newTarget(s[1:len(s)-1], StyleQuoted)
	}
	if last := s[len(s)-1]; last == '"' || last == '>' {
		return Target{}, fmt.Errorf("%w: missing opening bracket in %q", ErrMalformedTarget, s)
	}
	return newTarget(s, StyleQuoted)
}

// QuotedTarget builds `#include "name"` without parsing.
func QuotedTarget(name string) Target {
	return Target{Name: name, Style: StyleQuoted, Text: QuotedMarker + name + "\""}
}

// AngleTarget builds `#include <name>` without parsing.
func AngleTarget(name string) Target {
	return Target{Name: name, Style: StyleAngle, Text: AngleMarker + name + ">"}
}

func newTarget(name string, style Style) (Target, error) {
	if strings.TrimSpace(name) == "" {
		return Target{}, fmt.Errorf("%w: empty header name", ErrMalformedTarget)
	}
	if strings.ContainsAny(name, "\n\r") {
		return Target{}, fmt.Errorf("%w: header name spans lines", ErrMalformedTarget)
	}
	if style == StyleAngle {
		return AngleTarget(name), nil
	}
	return QuotedTarget(name), nil
}

// WithExplanation returns a copy carrying the given explanation.
func (t Target) WithExplanation(text string) Target {
	t.Explanation = text
	return t
}

func (t Target) String() string {
	return t.Text
}
