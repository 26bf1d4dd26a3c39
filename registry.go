/*
Package listkit – field-type registry.

Maps canonical type ids to descriptors. New field types can be registered
without touching the List or Field core; a redefined id replaces the
previous descriptor (last registration wins).
*/
package listkit

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

// FieldTypeDescriptor is the registered factory + canonical name for one
// field type.
type FieldTypeDescriptor struct {
	TypeID string
	New    func(list *List, path string, opts FieldOptions) Field
}

// Registry maps type ids to descriptors. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]FieldTypeDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]FieldTypeDescriptor{}}
}

// Register adds or replaces a type. Ids are case-insensitive.
func (r *Registry) Register(typeID string, d FieldTypeDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.TypeID = strings.ToLower(typeID)
	r.types[d.TypeID] = d
}

// Resolve maps a FieldOptions.Type value to a descriptor. Accepts a type
// id string, a FieldTypeDescriptor, or a native Go value whose kind
// selects a default type: string → text, numeric kinds → number,
// bool → boolean, time.Time → date. An empty string resolves to text.
func (r *Registry) Resolve(t any) (FieldTypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch v := t.(type) {
	case nil:
		return FieldTypeDescriptor{}, false
	case FieldTypeDescriptor:
		return v, true
	case string:
		if v == "" {
			return r.lookup("text")
		}
		return r.lookup(v)
	case time.Time:
		return r.lookup("date")
	}

	switch reflect.ValueOf(t).Kind() {
	case reflect.String:
		return r.lookup("text")
	case reflect.Bool:
		return r.lookup("boolean")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return r.lookup("number")
	}
	return FieldTypeDescriptor{}, false
}

func (r *Registry) lookup(id string) (FieldTypeDescriptor, bool) {
	d, ok := r.types[strings.ToLower(id)]
	return d, ok
}
