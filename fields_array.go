/*
Package listkit – array field types.

TextArray, NumberArray and DateArray store slices and format by joining
with a configurable separator.
*/
package listkit

import (
	"fmt"
	"strings"
	"time"
)

const defaultSeparator = ", "

type arrayBehaviour struct {
	BaseField
}

func (a *arrayBehaviour) separator() string {
	if a.opts.Separator != "" {
		return a.opts.Separator
	}
	return defaultSeparator
}

func (a *arrayBehaviour) Paths() []SchemaPath {
	p := a.schemaPath("array")
	p.Many = true
	return []SchemaPath{p}
}

// asSlice normalizes offered input into a []any: a scalar becomes a
// one-element slice, nil stays nil.
func asSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []string:
		return strsToAny(t)
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out
	case []time.Time:
		out := make([]any, len(t))
		for i, tm := range t {
			out[i] = tm
		}
		return out
	default:
		return []any{v}
	}
}

// ─── text array ───────────────────────────────────────────────────────────────

// TextArrayField stores a []string.
type TextArrayField struct {
	arrayBehaviour
}

func newTextArrayField(list *List, path string, opts FieldOptions) Field {
	return &TextArrayField{arrayBehaviour{BaseField: newBase(list, path, "textarray", opts)}}
}

func (t *TextArrayField) UpdateItem(item, data Document) {
	v, ok := t.offered(data)
	if !ok {
		return
	}
	elems := asSlice(v)
	if elems == nil {
		item[t.path] = nil
		return
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s := toString(e); s != "" {
			out = append(out, s)
		}
	}
	item[t.path] = out
}

func (t *TextArrayField) Format(item Document) string {
	elems := asSlice(t.Data(item))
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		parts = append(parts, toString(e))
	}
	return strings.Join(parts, t.separator())
}

// FilterCondition matches documents where any element contains the value.
func (t *TextArrayField) FilterCondition(f Filter) Condition {
	s := toString(f.Value)
	if s == "" {
		return Condition{Op: OpEmpty, Not: f.Inverted}
	}
	return Condition{Op: OpContains, Value: s, Not: f.Inverted, Fold: true}
}

// ─── number array ─────────────────────────────────────────────────────────────

// NumberArrayField stores a []float64. Unparseable elements are dropped.
type NumberArrayField struct {
	arrayBehaviour
}

func newNumberArrayField(list *List, path string, opts FieldOptions) Field {
	return &NumberArrayField{arrayBehaviour{BaseField: newBase(list, path, "numberarray", opts)}}
}

func (n *NumberArrayField) ValidateInput(data Document) (bool, string) {
	v, ok := n.offered(data)
	if !ok || isEmptyValue(v) {
		return true, ""
	}
	for _, e := range asSlice(v) {
		if isEmptyValue(e) {
			continue
		}
		if _, ok := parseNumber(e); !ok {
			return false, fmt.Sprintf("%s must contain only numbers", n.Label())
		}
	}
	return true, ""
}

func (n *NumberArrayField) UpdateItem(item, data Document) {
	v, ok := n.offered(data)
	if !ok {
		return
	}
	elems := asSlice(v)
	if elems == nil {
		item[n.path] = nil
		return
	}
	out := make([]float64, 0, len(elems))
	for _, e := range elems {
		if f, ok := parseNumber(e); ok {
			out = append(out, f)
		}
	}
	item[n.path] = out
}

func (n *NumberArrayField) Format(item Document) string {
	elems := asSlice(n.Data(item))
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		if f, ok := parseNumber(e); ok {
			parts = append(parts, groupThousands(f))
		}
	}
	return strings.Join(parts, n.separator())
}

// ─── date array ───────────────────────────────────────────────────────────────

// DateArrayField stores a []time.Time. Unparseable elements are dropped.
type DateArrayField struct {
	arrayBehaviour
	layout string
}

func newDateArrayField(list *List, path string, opts FieldOptions) Field {
	layout := opts.Format
	if layout == "" {
		layout = "Jan 2, 2006"
	}
	return &DateArrayField{
		arrayBehaviour: arrayBehaviour{BaseField: newBase(list, path, "datearray", opts)},
		layout:         layout,
	}
}

func (d *DateArrayField) UpdateItem(item, data Document) {
	v, ok := d.offered(data)
	if !ok {
		return
	}
	elems := asSlice(v)
	if elems == nil {
		item[d.path] = nil
		return
	}
	out := make([]time.Time, 0, len(elems))
	for _, e := range elems {
		if t, ok := parseDate(e, defaultDateFormats); ok {
			out = append(out, t)
		}
	}
	item[d.path] = out
}

func (d *DateArrayField) Format(item Document) string {
	elems := asSlice(d.Data(item))
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		if t, ok := asTime(e); ok {
			parts = append(parts, t.Format(d.layout))
		}
	}
	return strings.Join(parts, d.separator())
}
