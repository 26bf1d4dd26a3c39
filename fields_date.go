/*
Package listkit – date and datetime field types.

Parsing tries a list of candidate layouts in order; the first successful
parse wins. The legacy UTC offset shim re-interprets stored naive
timestamps on read and is opt-in via EngineParams.LegacyUTCOffset.
*/
package listkit

import (
	"fmt"
	"time"
)

var defaultDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// DateField stores a time.Time at day granularity.
type DateField struct {
	BaseField
	layout string // display layout
}

// DateTimeField stores a time.Time with time of day.
type DateTimeField struct {
	DateField
}

func newDateField(list *List, path string, opts FieldOptions) Field {
	layout := opts.Format
	if layout == "" {
		layout = "Jan 2, 2006"
	}
	return &DateField{BaseField: newBase(list, path, "date", opts), layout: layout}
}

func newDateTimeField(list *List, path string, opts FieldOptions) Field {
	layout := opts.Format
	if layout == "" {
		layout = "Jan 2, 2006 3:04 PM"
	}
	f := &DateTimeField{DateField{BaseField: newBase(list, path, "datetime", opts), layout: layout}}
	return f
}

func (d *DateField) Paths() []SchemaPath {
	return []SchemaPath{d.schemaPath("date")}
}

func (d *DateField) formats() []string {
	if len(d.opts.Extra) > 0 {
		if v, ok := d.opts.Extra["parseFormats"].([]string); ok && len(v) > 0 {
			return v
		}
	}
	if e := d.list.engine; e != nil && len(e.params.DateFormats) > 0 {
		return e.params.DateFormats
	}
	return defaultDateFormats
}

// ValidateInput accepts absent/empty input or anything parseable as a
// date under the candidate layouts.
func (d *DateField) ValidateInput(data Document) (bool, string) {
	v, ok := d.offered(data)
	if !ok || isEmptyValue(v) {
		return true, ""
	}
	if _, ok := parseDate(v, d.formats()); ok {
		return true, ""
	}
	return false, fmt.Sprintf("%s must be a valid date", d.Label())
}

// UpdateItem stores the parsed time; unparseable non-empty input clears
// the value to nil.
func (d *DateField) UpdateItem(item, data Document) {
	v, ok := d.offered(data)
	if !ok {
		return
	}
	if isEmptyValue(v) {
		item[d.path] = nil
		return
	}
	if t, ok := parseDate(v, d.formats()); ok {
		item[d.path] = t
	} else {
		item[d.path] = nil
	}
}

// Data applies the legacy UTC offset shim when configured.
func (d *DateField) Data(item Document) any {
	v := d.BaseField.Data(item)
	t, ok := asTime(v)
	if !ok {
		return v
	}
	if e := d.list.engine; e != nil && e.params.LegacyUTCOffset != 0 {
		t = t.Add(time.Duration(e.params.LegacyUTCOffset) * time.Minute)
	}
	return t
}

func (d *DateField) Format(item Document) string {
	t, ok := asTime(d.Data(item))
	if !ok {
		return ""
	}
	return t.Format(d.layout)
}

// FilterCondition translates date filter modes. Default mode "on" matches
// the whole day of the given value; "between" is inclusive on both
// bounds; an empty value matches empty/absent values.
func (d *DateField) FilterCondition(f Filter) Condition {
	formats := d.formats()
	switch f.Mode {
	case "after":
		if t, ok := parseDate(f.Value, formats); ok {
			return Condition{Op: OpGT, Value: t, Not: f.Inverted}
		}
	case "before":
		if t, ok := parseDate(f.Value, formats); ok {
			return Condition{Op: OpLT, Value: t, Not: f.Inverted}
		}
	case "between":
		lo, okLo := parseDate(f.After, formats)
		hi, okHi := parseDate(f.Before, formats)
		if okLo && okHi {
			return Condition{Op: OpBetween, Low: lo, High: hi, Not: f.Inverted}
		}
	}
	if t, ok := parseDate(f.Value, formats); ok {
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		end := start.Add(24*time.Hour - time.Nanosecond)
		return Condition{Op: OpBetween, Low: start, High: end, Not: f.Inverted}
	}
	return Condition{Op: OpEmpty, Not: f.Inverted}
}

// parseDate accepts time.Time, epoch milliseconds, and strings tried
// against the candidate layouts in order.
func parseDate(v any, formats []string) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case int64:
		return time.UnixMilli(t), true
	case float64:
		return time.UnixMilli(int64(t)), true
	case string:
		for _, layout := range formats {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
