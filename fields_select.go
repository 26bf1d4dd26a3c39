/*
Package listkit – select field type.

Options are normalized from three accepted shapes (comma string, array of
scalars, array of SelectOption) into one canonical ordered list. The
field contributes a derived <path>Label virtual exposing the selected
option's label.
*/
package listkit

import (
	"fmt"
	"strings"
)

// SelectField stores one value from a declared option set.
type SelectField struct {
	BaseField
	options []SelectOption
}

func newSelectField(list *List, path string, opts FieldOptions) Field {
	return &SelectField{
		BaseField: newBase(list, path, "select", opts),
		options:   normalizeSelectOptions(opts.Options),
	}
}

// SelectOptions returns the canonical ordered option list.
func (s *SelectField) SelectOptions() []SelectOption { return s.options }

// labelPath is the derived virtual exposing the selected option's label.
func (s *SelectField) labelPath() string { return s.path + "Label" }

func (s *SelectField) Paths() []SchemaPath {
	main := s.schemaPath("string")
	main.Options["options"] = s.options
	label := SchemaPath{
		Path:    s.labelPath(),
		Kind:    "string",
		Virtual: true,
		Options: map[string]any{"type": "virtual", "source": s.path},
	}
	return []SchemaPath{main, label}
}

func (s *SelectField) values() []string {
	out := make([]string, len(s.options))
	for i, o := range s.options {
		out[i] = o.Value
	}
	return out
}

// option resolves a stored value to its full option, if declared.
func (s *SelectField) option(value string) (SelectOption, bool) {
	for _, o := range s.options {
		if o.Value == value {
			return o, true
		}
	}
	return SelectOption{}, false
}

// ValidateInput accepts absent/empty input or a declared option value.
func (s *SelectField) ValidateInput(data Document) (bool, string) {
	v, ok := s.offered(data)
	if !ok || isEmptyValue(v) {
		return true, ""
	}
	if _, ok := s.option(toString(v)); ok {
		return true, ""
	}
	return false, fmt.Sprintf("%s is not a valid choice for %s", toString(v), s.Label())
}

func (s *SelectField) UpdateItem(item, data Document) {
	v, ok := s.offered(data)
	if !ok {
		return
	}
	if isEmptyValue(v) {
		item[s.path] = nil
		return
	}
	if _, ok := s.option(toString(v)); ok {
		item[s.path] = toString(v)
	} else {
		item[s.path] = nil
	}
}

// Format renders the selected option's label.
func (s *SelectField) Format(item Document) string {
	v := toString(s.Data(item))
	if v == "" {
		return ""
	}
	if o, ok := s.option(v); ok {
		return o.Label
	}
	return v
}

// Underscore exposes the selected option and its label.
func (s *SelectField) Underscore() map[string]UnderscoreFunc {
	return map[string]UnderscoreFunc{
		"label": func(item Document, _ ...any) any {
			return s.Format(item)
		},
		"option": func(item Document, _ ...any) any {
			o, _ := s.option(toString(s.Data(item)))
			return o
		},
	}
}

// FilterCondition accepts one value or an array (OR semantics).
// An empty array matches no documents, or with inversion every document
// holding a declared value; an empty scalar matches empty/absent values.
func (s *SelectField) FilterCondition(f Filter) Condition {
	switch v := f.Value.(type) {
	case []any:
		return s.arrayCondition(anyToStrings(v), f.Inverted)
	case []string:
		return s.arrayCondition(v, f.Inverted)
	}
	val := toString(f.Value)
	if val == "" {
		return Condition{Op: OpEmpty, Not: f.Inverted}
	}
	return Condition{Op: OpEq, Value: val, Not: f.Inverted}
}

func (s *SelectField) arrayCondition(values []string, inverted bool) Condition {
	if len(values) == 0 {
		if inverted {
			return Condition{Op: OpIn, Values: strsToAny(s.values())}
		}
		return Condition{Op: OpNone}
	}
	return Condition{Op: OpIn, Values: strsToAny(values), Not: inverted}
}

// normalizeSelectOptions accepts a comma string, a slice of scalars, or a
// slice of SelectOption. Scalar values double as labels, humanized.
func normalizeSelectOptions(raw any) []SelectOption {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		var out []SelectOption
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				out = append(out, SelectOption{Value: tok, Label: humanize(tok)})
			}
		}
		return out
	case []SelectOption:
		out := make([]SelectOption, len(v))
		copy(out, v)
		for i := range out {
			if out[i].Label == "" {
				out[i].Label = humanize(out[i].Value)
			}
		}
		return out
	case []string:
		out := make([]SelectOption, 0, len(v))
		for _, s := range v {
			out = append(out, SelectOption{Value: s, Label: humanize(s)})
		}
		return out
	case []any:
		var out []SelectOption
		for _, e := range v {
			if o, ok := e.(SelectOption); ok {
				if o.Label == "" {
					o.Label = humanize(o.Value)
				}
				out = append(out, o)
				continue
			}
			s := toString(e)
			out = append(out, SelectOption{Value: s, Label: humanize(s)})
		}
		return out
	}
	return nil
}

func anyToStrings(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, toString(v))
	}
	return out
}

func strsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}
