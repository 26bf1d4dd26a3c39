/*
Package listkit – persistence collaborator contract.

A Datastore compiles a list's schema into a Model. The engine depends on
nothing beyond Find / Count / Save / Delete over documents keyed by field
paths; predicates are the backend-agnostic Condition maps produced by the
filter translators.
*/
package listkit

import "context"

// SchemaPath is one compiled schema entry: a stored or virtual path a
// field contributes to its list.
type SchemaPath struct {
	Path    string
	Kind    string // "string", "number", "boolean", "date", "id", "array"
	Ref     string // relationship target list key, if any
	Virtual bool
	Many    bool

	// Options is the per-path metadata bag: interpreted options plus the
	// verbatim Extra passthrough.
	Options map[string]any
}

// CompiledSchema is what List.Register hands to the datastore.
type CompiledSchema struct {
	Key      string
	Paths    []SchemaPath
	Mappings map[string]string
}

// Path returns the schema entry for a path, or nil.
func (s *CompiledSchema) Path(path string) *SchemaPath {
	for i := range s.Paths {
		if s.Paths[i].Path == path {
			return &s.Paths[i]
		}
	}
	return nil
}

// Query is one read request against a Model.
type Query struct {
	Predicate *Predicate
	Sort      []SortDirective
	Skip      int
	Limit     int // 0 → no limit
	Columns   []string
}

// Model is the compiled, queryable form of one list.
type Model interface {
	Find(ctx context.Context, q *Query) ([]Document, error)
	Count(ctx context.Context, p *Predicate) (int, error)
	Save(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
}

// Datastore compiles list schemas into models. Implementations must
// return distinct models for distinct list keys.
type Datastore interface {
	CompileSchema(s *CompiledSchema) (Model, error)
}
