/*
Package listkit – password field type.

Stored encrypted when the engine carries a crypto config, otherwise as
plain text. Formatting always returns a mask of random length so neither
content nor length leaks. Not filterable.
*/
package listkit

import (
	"strings"

	"github.com/cmskit/listkit-go/internal/uid"
)

// PasswordField is a masked string.
type PasswordField struct {
	BaseField
}

func newPasswordField(list *List, path string, opts FieldOptions) Field {
	return &PasswordField{BaseField: newBase(list, path, "password", opts)}
}

func (p *PasswordField) ValidateInput(data Document) (bool, string) {
	v, ok := p.offered(data)
	if !ok || v == nil {
		return true, ""
	}
	s := toString(v)
	if s == "" {
		return true, ""
	}
	if p.opts.Min != nil && len(s) < int(*p.opts.Min) {
		return false, p.Label() + " is too short"
	}
	return true, ""
}

func (p *PasswordField) UpdateItem(item, data Document) {
	v, ok := p.offered(data)
	if !ok {
		return
	}
	s := toString(v)
	if s == "" {
		item[p.path] = nil
		return
	}
	if e := p.list.engine; e != nil && e.crypto != nil {
		if enc, err := e.encrypt(s); err == nil {
			item[p.path] = enc
			return
		}
	}
	item[p.path] = s
}

// Format returns a mask of non-deterministic length (8–15 characters)
// regardless of the stored value.
func (p *PasswordField) Format(item Document) string {
	if isEmptyValue(p.Data(item)) {
		return ""
	}
	return strings.Repeat("*", 8+uid.RandInt(8))
}

// Compare reports whether candidate matches the stored value, decrypting
// first when the engine carries a crypto config.
func (p *PasswordField) Compare(item Document, candidate string) bool {
	stored := toString(p.Data(item))
	if stored == "" {
		return false
	}
	if e := p.list.engine; e != nil && e.crypto != nil {
		if plain, err := e.decrypt(stored); err == nil {
			stored = plain
		}
	}
	return stored == candidate
}
