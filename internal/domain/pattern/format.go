package pattern

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatError reports an argument mismatch during rendering: missing index,
// wrong value type, or a choice value below the lowest bound.
type FormatError struct {
	Index  int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("pattern format: argument %d: %s", e.Index, e.Reason)
}

// Render formats the compiled pattern against args for the given locale.
// Either the complete string is returned or an error; there is no partial
// output and no silent empty-string substitution.
func (c *Compiled) Render(args []any, tag language.Tag) (string, error) {
	r := &renderer{args: args, tag: tag, printer: message.NewPrinter(tag)}
	if err := c.renderInto(r); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

func (c *Compiled) renderInto(r *renderer) error {
	for _, n := range c.nodes {
		if err := n.render(r); err != nil {
			return err
		}
	}
	return nil
}

type renderer struct {
	out     strings.Builder
	args    []any
	tag     language.Tag
	printer *message.Printer
}

func (t textNode) render(r *renderer) error {
	r.out.WriteString(string(t))
	return nil
}

func (p *placeholderNode) render(r *renderer) error {
	if p.index >= len(r.args) {
		return &FormatError{Index: p.index, Reason: "missing argument"}
	}

	value := r.args[p.index]
	var custom ArgFormatter
	if f, ok := value.(Formatted); ok {
		value, custom = f.Value, f.Formatter
	}

	if p.typ == TypeChoice {
		v, ok := toFloat(value)
		if !ok {
			return &FormatError{Index: p.index, Reason: fmt.Sprintf("choice requires a numeric argument, got %T", value)}
		}
		sub := matchChoice(p.rules, v)
		if sub == nil {
			return &FormatError{Index: p.index, Reason: fmt.Sprintf("no choice rule matches %v", value)}
		}
		// Nested placeholders see the full argument list, wrappers included.
		return sub.renderInto(r)
	}

	// A caller-attached formatter overrides the placeholder's own style.
	if custom != nil {
		s, err := custom.FormatArg(value, r.tag)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Index = p.index
			}
			return err
		}
		r.out.WriteString(s)
		return nil
	}

	switch p.typ {
	case TypeNone:
		r.out.WriteString(fmt.Sprint(value))
		return nil
	case TypeNumber:
		return p.renderNumber(r, value)
	case TypeDate:
		return p.renderTime(r, value, dateLayouts, "Jan 2, 2006")
	case TypeTime:
		return p.renderTime(r, value, timeLayouts, "15:04")
	case TypeChoice:
		// Handled above; kept so the switch stays exhaustive over ArgType.
		return nil
	}
	return &FormatError{Index: p.index, Reason: fmt.Sprintf("unsupported placeholder type %v", p.typ)}
}

// matchChoice returns the subpattern of the greatest rule whose bound admits
// v, or nil when v is below the lowest bound.
func matchChoice(rules []choiceRule, v float64) *Compiled {
	if math.IsNaN(v) {
		return nil
	}
	var sub *Compiled
	for i := range rules {
		if (rules[i].inclusive && v >= rules[i].bound) || (!rules[i].inclusive && v > rules[i].bound) {
			sub = rules[i].sub
		}
	}
	return sub
}

func (p *placeholderNode) renderNumber(r *renderer, value any) error {
	if _, ok := toFloat(value); !ok {
		return &FormatError{Index: p.index, Reason: fmt.Sprintf("number requires a numeric argument, got %T", value)}
	}

	var f number.Formatter
	switch p.style {
	case "":
		f = number.Decimal(value)
	case "integer":
		f = number.Decimal(value, number.Scale(0))
	case "percent":
		f = number.Percent(value)
	default:
		// Validated at parse time to be a digit count.
		scale, _ := strconv.Atoi(p.style)
		f = number.Decimal(value, number.Scale(scale))
	}
	r.out.WriteString(r.printer.Sprint(f))
	return nil
}

func (p *placeholderNode) renderTime(r *renderer, value any, layouts map[string]string, def string) error {
	t, ok := toTime(value)
	if !ok {
		return &FormatError{Index: p.index, Reason: fmt.Sprintf("%v requires a time.Time argument, got %T", p.typ, value)}
	}

	layout := def
	if p.style != "" {
		if named, ok := layouts[p.style]; ok {
			layout = named
		} else {
			layout = p.style
		}
	}
	r.out.WriteString(t.Format(layout))
	return nil
}

var dateLayouts = map[string]string{
	"short":  "1/2/06",
	"medium": "Jan 2, 2006",
	"long":   "January 2, 2006",
	"full":   "Monday, January 2, 2006",
}

var timeLayouts = map[string]string{
	"short":  "15:04",
	"medium": "15:04:05",
	"long":   "15:04:05 MST",
	"full":   "15:04:05 MST -0700",
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
