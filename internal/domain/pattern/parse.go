package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports malformed placeholder or choice syntax. A pattern that
// fails to parse is never cached.
type ParseError struct {
	Pattern string
	Pos     int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pattern parse: %s at offset %d in %q", e.Reason, e.Pos, e.Pattern)
}

// Parse compiles a pattern string. The result is immutable and safe for
// concurrent use; parsing is pure.
func Parse(text string) (*Compiled, error) {
	return parseSub(text, 0, text)
}

// parseSub parses text, reporting error offsets relative to full (the
// top-level pattern) so nested choice subpatterns point at the right place.
func parseSub(text string, base int, full string) (*Compiled, error) {
	var nodes []node
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			nodes = append(nodes, textNode(lit.String()))
			lit.Reset()
		}
	}

	i, n := 0, len(text)
	for i < n {
		switch text[i] {
		case '}':
			return nil, &ParseError{Pattern: full, Pos: base + i, Reason: "unmatched '}'"}
		case '{':
			flush()
			depth, j := 1, i+1
			for j < n && depth > 0 {
				switch text[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				return nil, &ParseError{Pattern: full, Pos: base + i, Reason: "unclosed '{'"}
			}
			ph, err := parsePlaceholder(text[i+1:j-1], base+i+1, full)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, ph)
			i = j
		default:
			lit.WriteByte(text[i])
			i++
		}
	}
	flush()

	return &Compiled{source: text, nodes: nodes}, nil
}

// parsePlaceholder parses the body of one {index[,type[,style]]} placeholder.
func parsePlaceholder(body string, pos int, full string) (*placeholderNode, error) {
	idxPart := body
	rest := ""
	if cut := strings.IndexByte(body, ','); cut >= 0 {
		idxPart, rest = body[:cut], body[cut+1:]
	}

	index, err := strconv.Atoi(strings.TrimSpace(idxPart))
	if err != nil || index < 0 {
		return nil, &ParseError{Pattern: full, Pos: pos, Reason: fmt.Sprintf("invalid argument index %q", idxPart)}
	}

	ph := &placeholderNode{index: index, typ: TypeNone}
	if idxPart == body {
		return ph, nil
	}

	typeName := rest
	if cut := strings.IndexByte(rest, ','); cut >= 0 {
		typeName, ph.style = rest[:cut], rest[cut+1:]
	}

	switch strings.TrimSpace(typeName) {
	case "number":
		ph.typ = TypeNumber
		if err := validateNumberStyle(ph.style); err != nil {
			return nil, &ParseError{Pattern: full, Pos: pos, Reason: err.Error()}
		}
	case "date":
		ph.typ = TypeDate
	case "time":
		ph.typ = TypeTime
	case "choice":
		ph.typ = TypeChoice
		rules, err := parseChoice(ph.style, pos+len(body)-len(ph.style), full)
		if err != nil {
			return nil, err
		}
		ph.rules = rules
	default:
		return nil, &ParseError{Pattern: full, Pos: pos, Reason: fmt.Sprintf("unknown placeholder type %q", typeName)}
	}
	return ph, nil
}

func validateNumberStyle(style string) error {
	switch style {
	case "", "integer", "percent":
		return nil
	}
	if n, err := strconv.Atoi(style); err != nil || n < 0 {
		return fmt.Errorf("invalid number style %q", style)
	}
	return nil
}

// parseChoice parses a choice style: '|'-separated rules "bound#sub" (match
// when value >= bound) or "bound<sub" (match when value > bound), bounds
// strictly ascending. Subpatterns may nest placeholders. pos is the offset
// of style within the top-level pattern, so errors point into the rule that
// carries them.
func parseChoice(style string, pos int, full string) ([]choiceRule, error) {
	if style == "" {
		return nil, &ParseError{Pattern: full, Pos: pos, Reason: "choice requires at least one rule"}
	}

	var rules []choiceRule
	off := 0
	for _, raw := range splitTopLevel(style, '|') {
		rulePos := pos + off
		off += len(raw) + 1

		sep := indexTopLevel(raw, '#', '<')
		if sep < 0 {
			return nil, &ParseError{Pattern: full, Pos: rulePos, Reason: fmt.Sprintf("choice rule %q has no '#' or '<'", raw)}
		}
		bound, err := strconv.ParseFloat(strings.TrimSpace(raw[:sep]), 64)
		if err != nil {
			return nil, &ParseError{Pattern: full, Pos: rulePos, Reason: fmt.Sprintf("invalid choice bound %q", raw[:sep])}
		}
		if len(rules) > 0 && bound <= rules[len(rules)-1].bound {
			return nil, &ParseError{Pattern: full, Pos: rulePos, Reason: "choice bounds must be ascending"}
		}
		sub, err := parseSub(raw[sep+1:], rulePos+sep+1, full)
		if err != nil {
			return nil, err
		}
		rules = append(rules, choiceRule{
			bound:     bound,
			inclusive: raw[sep] == '#',
			sub:       sub,
		})
	}
	return rules, nil
}

// splitTopLevel splits s on sep, ignoring separators inside braces.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// indexTopLevel returns the first brace-depth-zero occurrence of a or b.
func indexTopLevel(s string, a, b byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case a, b:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
