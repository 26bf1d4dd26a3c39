/*
Package listkit – boolean field type.
*/
package listkit

import "strings"

// BooleanField stores true/false. Accepts booleans, 0/1, and the strings
// "true"/"false" (case-insensitive); any other non-empty value counts as
// present for required checks and coerces to true on update.
type BooleanField struct {
	BaseField
}

func newBooleanField(list *List, path string, opts FieldOptions) Field {
	return &BooleanField{BaseField: newBase(list, path, "boolean", opts)}
}

func (b *BooleanField) Paths() []SchemaPath {
	return []SchemaPath{b.schemaPath("boolean")}
}

// ValidateRequiredInput treats an offered false as absent: a required
// boolean must be affirmatively true.
func (b *BooleanField) ValidateRequiredInput(item, data Document) (bool, string) {
	if !b.required(item) {
		return true, ""
	}
	if v, ok := b.offered(data); ok {
		bv, recognized := coerceBool(v)
		if recognized && bv {
			return true, ""
		}
		// unrecognized non-empty input still counts as present
		if !recognized && !isEmptyValue(v) {
			return true, ""
		}
	}
	if item != nil {
		if bv, _ := coerceBool(item[b.path]); bv {
			return true, ""
		}
	}
	return false, b.Label() + " is required"
}

func (b *BooleanField) UpdateItem(item, data Document) {
	v, ok := b.offered(data)
	if !ok {
		return
	}
	if isEmptyValue(v) {
		item[b.path] = false
		return
	}
	if bv, recognized := coerceBool(v); recognized {
		item[b.path] = bv
	} else {
		item[b.path] = true
	}
}

func (b *BooleanField) Format(item Document) string {
	if bv, _ := coerceBool(b.Data(item)); bv {
		return "true"
	}
	return "false"
}

// FilterCondition: filtering for false must also match documents where
// the path is absent, so false translates to "not true".
func (b *BooleanField) FilterCondition(f Filter) Condition {
	want, _ := coerceBool(f.Value)
	if f.Inverted {
		want = !want
	}
	if want {
		return Condition{Op: OpEq, Value: true}
	}
	return Condition{Op: OpEq, Value: true, Not: true}
}

// coerceBool reports the boolean meaning of v and whether v is one of
// the recognized boolean shapes.
func coerceBool(v any) (value, recognized bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		if t == 0 || t == 1 {
			return t == 1, true
		}
	case float64:
		if t == 0 || t == 1 {
			return t == 1, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no", "":
			return false, true
		}
	case nil:
		return false, true
	}
	return false, false
}
