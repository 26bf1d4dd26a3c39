/*
Package listkit – configuration records.

EngineParams configures an Engine; ListOptions and FieldOptions configure
Lists and Fields. Option keys the engine does not interpret travel in
FieldOptions.Extra and are forwarded verbatim into the compiled schema
metadata for downstream consumers.
*/
package listkit

// Document is a schemaless record keyed by field path. The "id" path is
// reserved for the document identifier.
type Document = map[string]any

// RequiredFunc defers a field's required check to document state.
type RequiredFunc func(item Document) bool

// ValueFunc computes a field value from document state (watch fields).
type ValueFunc func(item Document) any

// EngineParams configures an Engine.
type EngineParams struct {
	Store   Datastore // nil → in-memory store
	Logger  Logger    // nil → default (info+error only)
	Verbose bool      // true → also log trace/data

	// Crypto, when set, enables at-rest encryption for password fields.
	// The password is hashed to an AES-256-GCM key.
	Crypto string

	// DateFormats are the candidate parse layouts for date fields, tried
	// in order, first successful parse wins. Empty → defaultDateFormats.
	DateFormats []string

	// LegacyUTCOffset re-interprets stored naive timestamps by adding the
	// given number of minutes when reading them back. Zero disables the
	// shim; it exists only for historical data stored with a wrong UTC
	// conversion.
	LegacyUTCOffset int
}

// ListOptions configures a List.
type ListOptions struct {
	Label string // display label; "" → derived from the key
	Path  string // URL-ish slug; "" → derived from the key

	Track    bool // maintain createdAt/createdBy/updatedAt/updatedBy
	Sortable bool // maintain a drag-sort sortOrder path

	// SearchFields are the paths searched by AddSearchToQuery.
	// Empty → the name mapping.
	SearchFields []string

	// Map overrides the special-role mappings
	// (name, createdBy, createdOn, modifiedBy, modifiedOn).
	Map map[string]string

	DefaultSort    string // sort string applied when a query has none
	DefaultColumns string // column string for projections and CSV export
	PerPage        int    // default page size; 0 → 25
}

// SelectOption is one canonical select choice.
type SelectOption struct {
	Value string
	Label string
}

// FieldOptions configures one Field. Type is mandatory and may be a
// canonical type id string ("text", "number", ...), a Go value whose kind
// selects a default type (string → text, numeric → number, bool → boolean,
// time.Time → date), or a FieldTypeDescriptor.
type FieldOptions struct {
	Type  any
	Label string

	// Required may be a bool or a RequiredFunc evaluated per document.
	Required any
	Unique   bool
	Index    bool

	Default any  // applied on first save when no value is offered
	Initial bool // shown on create forms (metadata passthrough)
	NoEdit  bool
	Hidden  bool

	DependsOn map[string]any // UI visibility rules (metadata passthrough)
	Size      string         // UI size hint (metadata passthrough)

	// Watch + Value recompute the field on update whenever one of the
	// watched paths receives new input.
	Watch []string
	Value ValueFunc

	Virtual bool // contributes no stored path of its own

	// Type specific.
	Min        *float64 // text: min length; number: min value
	Max        *float64 // text: max length; number: max value
	Options    any      // select: comma string, []any, or []SelectOption
	Ref        string   // relationship: target list key
	Many       bool     // relationship: store an array of ids
	Separator  string   // array types: join separator ("" → ", ")
	Format     string   // number/date: format pattern
	FormatNone bool     // number: disable formatting entirely

	// Extra carries uninterpreted option keys verbatim into the schema.
	Extra map[string]any
}

// Float is a convenience for the *float64 option fields.
func Float(v float64) *float64 { return &v }

// requiredTest normalizes the Required option into a predicate.
func (o FieldOptions) requiredTest() RequiredFunc {
	switch r := o.Required.(type) {
	case bool:
		return func(Document) bool { return r }
	case RequiredFunc:
		return r
	case func(Document) bool:
		return r
	default:
		return func(Document) bool { return false }
	}
}
