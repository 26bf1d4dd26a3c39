/*
Package listkit – field base contract.

A Field is the polymorphic unit: it owns its options, contributes schema
paths to its list, and implements per-type validation, update, and
formatting. Filter translation and underscore methods are optional
capabilities declared by separate interfaces.
*/
package listkit

import (
	"fmt"
	"strings"
	"unicode"
)

// Field is implemented by every field type.
type Field interface {
	Path() string
	Type() string
	List() *List
	Options() FieldOptions
	Label() string

	// Paths lists the schema paths this field contributes, derived
	// virtuals included.
	Paths() []SchemaPath

	// ValidateInput checks syntactic validity of offered input.
	// Absent input is always valid.
	ValidateInput(data Document) (bool, string)

	// ValidateRequiredInput checks presence, consulting the existing
	// item value when data offers none.
	ValidateRequiredInput(item, data Document) (bool, string)

	// UpdateItem coerces validated input into the stored representation
	// and mutates item in memory. Unparseable numeric/date input stores
	// nil rather than failing.
	UpdateItem(item, data Document)

	// Format renders the current stored value for display.
	Format(item Document) string

	// Data reads the effective value; types with format quirks override
	// to apply correction or reshaping.
	Data(item Document) any
}

// Filterable is the optional filter-translation capability. Fields that
// are not filterable simply do not implement it; the list treats filters
// on such fields as unsupported no-ops.
type Filterable interface {
	FilterCondition(f Filter) Condition
}

// UnderscoreFunc is a per-document convenience accessor a field
// contributes to its list.
type UnderscoreFunc func(item Document, args ...any) any

// Underscorer is the optional underscore-method capability.
type Underscorer interface {
	Underscore() map[string]UnderscoreFunc
}

// binder is implemented by fields that must resolve cross-list
// references when their list registers.
type binder interface {
	bind() error
}

// ─── base field ───────────────────────────────────────────────────────────────

// BaseField carries the state common to all field types and supplies
// default behaviour; concrete types embed it and override what differs.
type BaseField struct {
	list     *List
	path     string
	typeID   string
	opts     FieldOptions
	required RequiredFunc
}

func newBase(list *List, path, typeID string, opts FieldOptions) BaseField {
	return BaseField{
		list:     list,
		path:     path,
		typeID:   typeID,
		opts:     opts,
		required: opts.requiredTest(),
	}
}

func (b *BaseField) Path() string          { return b.path }
func (b *BaseField) Type() string          { return b.typeID }
func (b *BaseField) List() *List           { return b.list }
func (b *BaseField) Options() FieldOptions { return b.opts }

// Label returns the configured label, or a humanized form of the path.
func (b *BaseField) Label() string {
	if b.opts.Label != "" {
		return b.opts.Label
	}
	return humanize(b.path)
}

// Paths contributes the field's own stored path.
func (b *BaseField) Paths() []SchemaPath {
	return []SchemaPath{b.schemaPath("string")}
}

func (b *BaseField) schemaPath(kind string) SchemaPath {
	return SchemaPath{
		Path:    b.path,
		Kind:    kind,
		Virtual: b.opts.Virtual,
		Options: b.metadata(),
	}
}

// metadata builds the per-path options bag: interpreted options plus the
// verbatim Extra passthrough.
func (b *BaseField) metadata() map[string]any {
	m := map[string]any{"type": b.typeID, "label": b.Label()}
	o := b.opts
	if o.Unique {
		m["unique"] = true
	}
	if o.Index {
		m["index"] = true
	}
	if o.Initial {
		m["initial"] = true
	}
	if o.NoEdit {
		m["noedit"] = true
	}
	if o.Hidden {
		m["hidden"] = true
	}
	if o.Size != "" {
		m["size"] = o.Size
	}
	if o.DependsOn != nil {
		m["dependsOn"] = o.DependsOn
	}
	for k, v := range o.Extra {
		m[k] = v
	}
	return m
}

// offered reports whether data carries a value for this field's path.
func (b *BaseField) offered(data Document) (any, bool) {
	if data == nil {
		return nil, false
	}
	v, ok := data[b.path]
	return v, ok
}

// ValidateInput accepts anything by default.
func (b *BaseField) ValidateInput(data Document) (bool, string) {
	return true, ""
}

// ValidateRequiredInput checks presence of offered input, falling back to
// the existing item value.
func (b *BaseField) ValidateRequiredInput(item, data Document) (bool, string) {
	if !b.required(item) {
		return true, ""
	}
	if v, ok := b.offered(data); ok && !isEmptyValue(v) {
		return true, ""
	}
	if item != nil && !isEmptyValue(item[b.path]) {
		return true, ""
	}
	return false, fmt.Sprintf("%s is required", b.Label())
}

// UpdateItem stores offered input as-is.
func (b *BaseField) UpdateItem(item, data Document) {
	if v, ok := b.offered(data); ok {
		item[b.path] = v
	}
}

// Data reads the stored value directly.
func (b *BaseField) Data(item Document) any {
	if item == nil {
		return nil
	}
	return item[b.path]
}

// Format renders the stored value with fmt defaults.
func (b *BaseField) Format(item Document) string {
	v := b.Data(item)
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// ─── shared helpers ───────────────────────────────────────────────────────────

// isEmptyValue treats nil, empty strings, and empty slices as absent.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// humanize turns "fooBarBaz" / "foo_bar" into "Foo Bar Baz" / "Foo Bar".
func humanize(path string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range path {
		switch {
		case r == '_' || r == '.':
			b.WriteByte(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteByte(' ')
		}
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", v)
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
