/*
Package listkit – text field types.

Text, Textarea and Html share one validation/filter behaviour; Textarea
and Html differ only in type id and UI metadata. Composition instead of
inheritance: textBehaviour is embedded by all three.
*/
package listkit

import (
	"fmt"
	"strings"
	"unicode"
)

// textBehaviour implements the shared string codec and filter translator.
type textBehaviour struct {
	BaseField
}

func newTextBehaviour(list *List, path, typeID string, opts FieldOptions) textBehaviour {
	return textBehaviour{BaseField: newBase(list, path, typeID, opts)}
}

// ValidateInput checks offered input against min/max length post-trim.
func (t *textBehaviour) ValidateInput(data Document) (bool, string) {
	v, ok := t.offered(data)
	if !ok || v == nil {
		return true, ""
	}
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return true, ""
	}
	n := len([]rune(s))
	if t.opts.Min != nil && n < int(*t.opts.Min) {
		return false, fmt.Sprintf("%s must be at least %d characters", t.Label(), int(*t.opts.Min))
	}
	if t.opts.Max != nil && n > int(*t.opts.Max) {
		return false, fmt.Sprintf("%s must be at most %d characters", t.Label(), int(*t.opts.Max))
	}
	return true, ""
}

func (t *textBehaviour) UpdateItem(item, data Document) {
	if v, ok := t.offered(data); ok {
		if v == nil {
			item[t.path] = nil
			return
		}
		item[t.path] = toString(v)
	}
}

// Crop truncates the stored value to length runes. With preserveWords the
// cut backs up to the last whitespace boundary so no partial word remains.
// Multi-byte characters are never split.
func (t *textBehaviour) Crop(item Document, length int, appendStr string, preserveWords bool) string {
	return CropString(toString(t.Data(item)), length, appendStr, preserveWords)
}

// Underscore contributes crop as a document-level accessor.
func (t *textBehaviour) Underscore() map[string]UnderscoreFunc {
	return map[string]UnderscoreFunc{
		"crop": func(item Document, args ...any) any {
			length := 80
			appendStr := "…"
			preserve := false
			if len(args) > 0 {
				if n, ok := toInt(args[0]); ok {
					length = n
				}
			}
			if len(args) > 1 {
				appendStr = toString(args[1])
			}
			if len(args) > 2 {
				if b, ok := args[2].(bool); ok {
					preserve = b
				}
			}
			return t.Crop(item, length, appendStr, preserve)
		},
	}
}

// FilterCondition translates text filter modes. Default mode is contains;
// an empty value under the default mode matches empty/absent values.
func (t *textBehaviour) FilterCondition(f Filter) Condition {
	s := toString(f.Value)
	if s == "" {
		return Condition{Op: OpEmpty, Not: f.Inverted}
	}
	c := Condition{Value: s, Not: f.Inverted, Fold: true}
	switch f.Mode {
	case "exactly":
		c.Op = OpEq
	case "beginsWith":
		c.Op = OpBegins
	case "endsWith":
		c.Op = OpEnds
	default:
		c.Op = OpContains
	}
	return c
}

// CropString is the rune-safe crop used by the text types.
func CropString(s string, length int, appendStr string, preserveWords bool) string {
	r := []rune(s)
	if length < 0 {
		length = 0
	}
	if len(r) <= length {
		return s
	}
	// never separate combining marks from their base character; a base
	// whose marks would be dropped is dropped with them
	for length > 0 && isCombining(r[length]) {
		length--
	}
	cut := r[:length]
	if preserveWords {
		i := len(cut)
		for i > 0 && !unicode.IsSpace(cut[i-1]) {
			i--
		}
		// only back up when a whitespace boundary exists before the cut
		if i > 0 {
			cut = cut[:i]
		}
		for len(cut) > 0 && unicode.IsSpace(cut[len(cut)-1]) {
			cut = cut[:len(cut)-1]
		}
	}
	return string(cut) + appendStr
}

func isCombining(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc)
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	}
	return 0, false
}

// ─── concrete types ───────────────────────────────────────────────────────────

// TextField is a single-line string.
type TextField struct{ textBehaviour }

// TextareaField is a multi-line string.
type TextareaField struct{ textBehaviour }

// HtmlField is a string carrying markup; identical storage and filtering
// to Text, distinct type id for downstream consumers.
type HtmlField struct{ textBehaviour }

func newTextField(list *List, path string, opts FieldOptions) Field {
	return &TextField{newTextBehaviour(list, path, "text", opts)}
}

func newTextareaField(list *List, path string, opts FieldOptions) Field {
	return &TextareaField{newTextBehaviour(list, path, "textarea", opts)}
}

func newHtmlField(list *List, path string, opts FieldOptions) Field {
	return &HtmlField{newTextBehaviour(list, path, "html", opts)}
}
