// Package pattern implements the message-pattern language used by label
// alternatives: positional placeholders {index}, {index,type} and
// {index,type,style} with type one of number, date, time and choice.
//
// Patterns are parsed once into an immutable Compiled form that is safe to
// share across concurrent renders. Argument substitution must go exclusively
// through placeholders; host-language string interpolation before rendering
// defeats key derivation and is a caller contract violation this package
// cannot detect.
package pattern

import (
	"time"

	"golang.org/x/text/language"
)

// ArgType is the closed set of placeholder types.
type ArgType int

const (
	// TypeNone is a bare {index} placeholder rendered with default formatting.
	TypeNone ArgType = iota
	TypeNumber
	TypeDate
	TypeTime
	TypeChoice
)

func (t ArgType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeNumber:
		return "number"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeChoice:
		return "choice"
	}
	return "unknown"
}

// node is one segment of a compiled pattern.
type node interface {
	render(w *renderer) error
}

// textNode is a literal text segment.
type textNode string

// placeholderNode is a single {index[,type[,style]]} placeholder.
type placeholderNode struct {
	index int
	typ   ArgType
	style string

	// choice rules, ascending by bound; only set for TypeChoice.
	rules []choiceRule
}

// choiceRule maps a lower bound to a subpattern. When inclusive the rule
// matches values >= bound, otherwise values strictly greater than bound.
type choiceRule struct {
	bound     float64
	inclusive bool
	sub       *Compiled
}

// Compiled is the parsed, immutable form of a pattern string.
type Compiled struct {
	source string
	nodes  []node
}

// Source returns the pattern text this Compiled was parsed from.
func (c *Compiled) Source() string { return c.source }

// ArgFormatter renders an argument value, overriding the placeholder's own
// style. It is attached per call site via Formatted, which keeps the stored
// pattern generic while callers vary presentation.
type ArgFormatter interface {
	FormatArg(value any, tag language.Tag) (string, error)
}

// Formatted pairs an argument value with an ArgFormatter.
type Formatted struct {
	Value     any
	Formatter ArgFormatter
}

// DateLayout is a stock ArgFormatter formatting time.Time values with a Go
// layout string.
type DateLayout string

// FormatArg implements ArgFormatter.
func (l DateLayout) FormatArg(value any, _ language.Tag) (string, error) {
	t, ok := toTime(value)
	if !ok {
		return "", &FormatError{Reason: "date layout applied to non-time value"}
	}
	return t.Format(string(l)), nil
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}
