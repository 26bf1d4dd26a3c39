/*
Package listkit – engine.

An Engine is an explicit, constructible context: it owns its own
field-type registry, its set of lists, the datastore and the logger.
Multiple independent engines can coexist in one process.
*/
package listkit

import (
	"context"
	"sync"
)

// Engine owns a field-type registry and a set of lists.
type Engine struct {
	mu       sync.RWMutex
	registry *Registry
	lists    map[string]*List
	order    []string
	store    Datastore
	log      Logger
	params   EngineParams
	crypto   *cryptoEntry
}

// New constructs an engine with the built-in field types registered.
func New(params EngineParams) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		lists:    map[string]*List{},
		store:    params.Store,
		params:   params,
	}
	if e.store == nil {
		e.store = NewMemStore()
	}
	switch {
	case params.Logger != nil:
		e.log = params.Logger
	case params.Verbose:
		e.log = verboseLogger{}
	default:
		e.log = defaultLogger{}
	}
	if params.Crypto != "" {
		e.crypto = newCryptoEntry(params.Crypto)
	}
	registerBuiltins(e.registry)
	return e
}

// Registry returns the engine's field-type registry, for registering
// additional types.
func (e *Engine) Registry() *Registry { return e.registry }

// Logger returns the engine's logger.
func (e *Engine) Logger() Logger { return e.log }

// List creates (or returns) the list with the given key. Options apply
// only on first creation.
func (e *Engine) List(key string, opts ...ListOptions) *List {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.lists[key]; ok {
		return l
	}
	var o ListOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	l := newList(e, key, o)
	e.lists[key] = l
	e.order = append(e.order, key)
	return l
}

// Get returns the list with the given key, if it exists.
func (e *Engine) Get(key string) (*List, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	l, ok := e.lists[key]
	return l, ok
}

// Lists returns all lists in creation order.
func (e *Engine) Lists() []*List {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*List, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.lists[key])
	}
	return out
}

func registerBuiltins(r *Registry) {
	reg := func(id string, fn func(*List, string, FieldOptions) Field) {
		r.Register(id, FieldTypeDescriptor{TypeID: id, New: fn})
	}
	reg("text", newTextField)
	reg("textarea", newTextareaField)
	reg("html", newHtmlField)
	reg("number", newNumberField)
	reg("boolean", newBooleanField)
	reg("select", newSelectField)
	reg("date", newDateField)
	reg("datetime", newDateTimeField)
	reg("textarray", newTextArrayField)
	reg("numberarray", newNumberArrayField)
	reg("datearray", newDateArrayField)
	reg("relationship", newRelationshipField)
	reg("password", newPasswordField)
}

// ─── actor context ────────────────────────────────────────────────────────────

type actorKey struct{}

// WithActor records the acting user id on the context; tracking fields
// read it back during UpdateItem.
func WithActor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFrom returns the acting user id recorded on the context.
func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}
