/*
Package listkit – number field type.
*/
package listkit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberField stores a float64. Numeric strings are accepted on input;
// unparseable input clears the value to nil rather than failing, so a
// partial form save never raises a user-facing error.
type NumberField struct {
	BaseField
}

func newNumberField(list *List, path string, opts FieldOptions) Field {
	return &NumberField{BaseField: newBase(list, path, "number", opts)}
}

func (n *NumberField) Paths() []SchemaPath {
	return []SchemaPath{n.schemaPath("number")}
}

// ValidateInput accepts absent, empty, or parseable numeric input within
// the configured min/max.
func (n *NumberField) ValidateInput(data Document) (bool, string) {
	v, ok := n.offered(data)
	if !ok || isEmptyValue(v) {
		return true, ""
	}
	f, ok := parseNumber(v)
	if !ok {
		return false, fmt.Sprintf("%s must be a number", n.Label())
	}
	if n.opts.Min != nil && f < *n.opts.Min {
		return false, fmt.Sprintf("%s must be at least %v", n.Label(), *n.opts.Min)
	}
	if n.opts.Max != nil && f > *n.opts.Max {
		return false, fmt.Sprintf("%s must be at most %v", n.Label(), *n.opts.Max)
	}
	return true, ""
}

func (n *NumberField) UpdateItem(item, data Document) {
	v, ok := n.offered(data)
	if !ok {
		return
	}
	if isEmptyValue(v) {
		item[n.path] = nil
		return
	}
	if f, ok := parseNumber(v); ok {
		item[n.path] = f
	} else {
		item[n.path] = nil
	}
}

// Format renders the value with thousands grouping unless FormatNone is
// set or the pattern is empty after an explicit opt-out.
func (n *NumberField) Format(item Document) string {
	v := n.Data(item)
	if v == nil {
		return ""
	}
	f, ok := parseNumber(v)
	if !ok {
		return toString(v)
	}
	if n.opts.FormatNone {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return groupThousands(f)
}

// FilterCondition translates number filter modes. Default mode is equals;
// an empty value under equals matches empty/absent values.
func (n *NumberField) FilterCondition(f Filter) Condition {
	switch f.Mode {
	case "gt":
		if v, ok := parseNumber(f.Value); ok {
			return Condition{Op: OpGT, Value: v, Not: f.Inverted}
		}
	case "lt":
		if v, ok := parseNumber(f.Value); ok {
			return Condition{Op: OpLT, Value: v, Not: f.Inverted}
		}
	case "between":
		lo, okLo := parseNumber(f.After)
		hi, okHi := parseNumber(f.Before)
		if okLo && okHi {
			return Condition{Op: OpBetween, Low: lo, High: hi, Not: f.Inverted}
		}
	}
	if v, ok := parseNumber(f.Value); ok {
		return Condition{Op: OpEq, Value: v, Not: f.Inverted}
	}
	return Condition{Op: OpEmpty, Not: f.Inverted}
}

// parseNumber accepts Go numeric types and numeric strings; grouping
// commas in strings are ignored.
func parseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// groupThousands renders f with comma separators on the integer part.
func groupThousands(f float64) string {
	neg := math.Signbit(f)
	s := strconv.FormatFloat(math.Abs(f), 'f', -1, 64)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
