/*
Package listkit – List.

A List owns an ordered collection of Fields (and non-field UI headings),
builds the aggregate schema, and exposes the add/register lifecycle,
query building, pagination, unique-value generation and CSV export.
*/
package listkit

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cmskit/listkit-go/internal/uid"
)

// Heading is a non-field UI grouping element.
type Heading struct {
	Label     string
	DependsOn map[string]any
}

// FieldDef is one raw field definition passed to Add.
type FieldDef struct {
	Path    string
	Options FieldOptions
}

// UIElement is one ordered element of the admin form layout.
type UIElement struct {
	Kind    string // "field" | "heading"
	Path    string
	Heading Heading
}

// FieldResult is one field's validation outcome.
type FieldResult struct {
	Path    string
	Valid   bool
	Message string
}

// ValidationResult aggregates per-field outcomes for one submission.
type ValidationResult struct {
	Valid   bool
	Results []FieldResult
}

// List is a named, ordered collection of fields compiled into one model.
type List struct {
	engine *Engine
	key    string
	label  string
	path   string
	opts   ListOptions

	uiElements   []UIElement
	schemaFields []FieldDef
	fields       map[string]Field
	order        []string
	mappings     map[string]string
	underscore   map[string]map[string]UnderscoreFunc

	registered bool
	model      Model
}

func newList(engine *Engine, key string, opts ListOptions) *List {
	l := &List{
		engine:     engine,
		key:        key,
		opts:       opts,
		fields:     map[string]Field{},
		mappings:   map[string]string{},
		underscore: map[string]map[string]UnderscoreFunc{},
	}
	l.label = opts.Label
	if l.label == "" {
		l.label = humanize(key)
	}
	l.path = opts.Path
	if l.path == "" {
		l.path = strings.ToLower(key)
	}
	return l
}

func (l *List) Key() string          { return l.key }
func (l *List) Label() string        { return l.label }
func (l *List) Path() string         { return l.path }
func (l *List) Options() ListOptions { return l.opts }
func (l *List) Registered() bool     { return l.registered }

// UIElements returns the declared form layout in insertion order.
func (l *List) UIElements() []UIElement { return l.uiElements }

// Fields returns the list's fields in declaration order.
func (l *List) Fields() []Field {
	out := make([]Field, 0, len(l.order))
	for _, p := range l.order {
		out = append(out, l.fields[p])
	}
	return out
}

// ─── add / field lifecycle ────────────────────────────────────────────────────

// Add appends field definitions and heading elements, preserving
// declaration order. A duplicate path re-defines the earlier field in
// place rather than duplicating it. Fails after Register.
func (l *List) Add(elements ...any) error {
	if l.registered {
		return NewArgError(fmt.Sprintf("List %q is already registered", l.key))
	}
	for _, el := range elements {
		switch v := el.(type) {
		case string:
			l.uiElements = append(l.uiElements, UIElement{Kind: "heading", Heading: Heading{Label: v}})
		case Heading:
			l.uiElements = append(l.uiElements, UIElement{Kind: "heading", Heading: v})
		case FieldDef:
			if err := l.addField(v.Path, v.Options); err != nil {
				return err
			}
		case []FieldDef:
			for _, def := range v {
				if err := l.addField(def.Path, def.Options); err != nil {
					return err
				}
			}
		default:
			return NewArgError(fmt.Sprintf("List %q: unsupported add element %T", l.key, el))
		}
	}
	return nil
}

func (l *List) addField(path string, opts FieldOptions) error {
	if path == "" || strings.Contains(path, ".") {
		return NewArgError(fmt.Sprintf("List %q: invalid field path %q", l.key, path))
	}
	desc, ok := l.engine.registry.Resolve(opts.Type)
	if !ok {
		return NewArgError(
			fmt.Sprintf("List %q field %q: unknown field type %v", l.key, path, opts.Type),
			ErrUnknownFieldType)
	}
	field := desc.New(l, path, opts)

	if _, exists := l.fields[path]; exists {
		// redefinition wins, position is retained
		for i := range l.schemaFields {
			if l.schemaFields[i].Path == path {
				l.schemaFields[i] = FieldDef{Path: path, Options: opts}
			}
		}
	} else {
		l.order = append(l.order, path)
		l.schemaFields = append(l.schemaFields, FieldDef{Path: path, Options: opts})
		l.uiElements = append(l.uiElements, UIElement{Kind: "field", Path: path})
	}
	l.fields[path] = field
	return nil
}

// Field returns the field at path. With opts, the field is re-defined;
// allowed only before Register. A rejected or post-register re-definition
// is logged and leaves the existing field in place.
func (l *List) Field(path string, opts ...FieldOptions) Field {
	if len(opts) > 0 {
		if l.registered {
			logError(l.engine.log, "field redefinition after register ignored", map[string]any{
				"list": l.key, "path": path,
			})
		} else if err := l.addField(path, opts[0]); err != nil {
			logError(l.engine.log, "field redefinition failed", map[string]any{
				"list": l.key, "path": path, "error": err.Error(),
			})
		}
	}
	return l.fields[path]
}

// ─── register ─────────────────────────────────────────────────────────────────

// Register finalizes the list: applies tracking and sortable plugins,
// resolves relationship targets, and compiles the backend model. Must be
// called exactly once.
func (l *List) Register() error {
	if l.registered {
		return NewArgError(fmt.Sprintf("List %q is already registered", l.key))
	}
	if err := l.applyPlugins(); err != nil {
		return err
	}
	for _, path := range l.order {
		if b, ok := l.fields[path].(binder); ok {
			if err := b.bind(); err != nil {
				return err
			}
		}
	}
	l.applyMappings()

	schema := &CompiledSchema{
		Key:      l.key,
		Mappings: l.mappings,
		Paths:    []SchemaPath{{Path: "id", Kind: "id"}},
	}
	seen := map[string]bool{"id": true}
	for _, path := range l.order {
		f := l.fields[path]
		for _, sp := range f.Paths() {
			if seen[sp.Path] {
				continue
			}
			seen[sp.Path] = true
			schema.Paths = append(schema.Paths, sp)
		}
		if u, ok := f.(Underscorer); ok {
			l.underscore[path] = u.Underscore()
		}
	}

	model, err := l.engine.store.CompileSchema(schema)
	if err != nil {
		return NewError(
			fmt.Sprintf("compiling schema for list %q", l.key),
			WithCode(ErrBackend), WithCause(err))
	}
	l.model = model
	l.registered = true
	logInfo(l.engine.log, "list registered", map[string]any{
		"list": l.key, "paths": len(schema.Paths),
	})
	return nil
}

func (l *List) applyPlugins() error {
	add := func(path string, opts FieldOptions) error {
		if _, exists := l.fields[path]; exists {
			return nil
		}
		return l.addField(path, opts)
	}
	if l.opts.Track {
		if err := add("createdAt", FieldOptions{Type: "datetime", NoEdit: true, Hidden: true}); err != nil {
			return err
		}
		if err := add("createdBy", FieldOptions{Type: "text", NoEdit: true, Hidden: true}); err != nil {
			return err
		}
		if err := add("updatedAt", FieldOptions{Type: "datetime", NoEdit: true, Hidden: true}); err != nil {
			return err
		}
		if err := add("updatedBy", FieldOptions{Type: "text", NoEdit: true, Hidden: true}); err != nil {
			return err
		}
	}
	if l.opts.Sortable {
		if err := add("sortOrder", FieldOptions{Type: "number", Hidden: true}); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) applyMappings() {
	set := func(role, path string) {
		if _, exists := l.fields[path]; exists {
			l.mappings[role] = path
		}
	}
	set("name", "name")
	if l.opts.Track {
		set("createdBy", "createdBy")
		set("createdOn", "createdAt")
		set("modifiedBy", "updatedBy")
		set("modifiedOn", "updatedAt")
	}
	for role, path := range l.opts.Map {
		set(role, path)
	}
}

// Map returns the field path filling a special role ("" when unmapped).
func (l *List) Map(role string) string { return l.mappings[role] }

// Model returns the compiled backend model.
func (l *List) Model() (Model, error) {
	if !l.registered {
		return nil, NewError(
			fmt.Sprintf("list %q is not registered", l.key),
			WithCode(ErrListNotRegistered))
	}
	return l.model, nil
}

// NameOf renders a document's display name via the name mapping,
// falling back to the document id.
func (l *List) NameOf(doc Document) string {
	if path := l.mappings["name"]; path != "" {
		if f, ok := l.fields[path]; ok {
			if s := f.Format(doc); s != "" {
				return s
			}
		}
	}
	return toString(doc["id"])
}

// Underscore returns a field-contributed document accessor.
func (l *List) Underscore(path, name string) (UnderscoreFunc, bool) {
	fn, ok := l.underscore[path][name]
	return fn, ok
}

// ─── validation / update ──────────────────────────────────────────────────────

// Validate runs required and syntactic checks for every field against
// offered data, aggregating all failures instead of stopping at the
// first one.
func (l *List) Validate(item, data Document) ValidationResult {
	vr := ValidationResult{Valid: true}
	for _, path := range l.order {
		f := l.fields[path]
		ok, msg := f.ValidateRequiredInput(item, data)
		if ok {
			ok, msg = f.ValidateInput(data)
		}
		if !ok {
			vr.Valid = false
		}
		vr.Results = append(vr.Results, FieldResult{Path: path, Valid: ok, Message: msg})
	}
	return vr
}

// UpdateItem validates all fields, then coerces data into item and saves.
// All-or-nothing: any validation failure leaves item and the stored
// document completely unmodified. The acting user is read from the
// context (WithActor).
func (l *List) UpdateItem(ctx context.Context, item, data Document) (ValidationResult, error) {
	if !l.registered {
		return ValidationResult{}, NewError(
			fmt.Sprintf("list %q is not registered", l.key),
			WithCode(ErrListNotRegistered))
	}
	vr := l.Validate(item, data)
	if !vr.Valid {
		return vr, nil
	}

	isNew := toString(item["id"]) == ""
	input := make(Document, len(data)+4)
	for k, v := range data {
		// noedit paths are never caller-writable; defaults, watches and
		// tracking still maintain them internally
		if f, ok := l.fields[k]; ok && f.Options().NoEdit {
			continue
		}
		input[k] = v
	}
	if isNew {
		for _, path := range l.order {
			opts := l.fields[path].Options()
			if opts.Default == nil {
				continue
			}
			if _, offered := input[path]; !offered && isEmptyValue(item[path]) {
				input[path] = opts.Default
			}
		}
	}

	for _, path := range l.order {
		l.fields[path].UpdateItem(item, input)
	}
	l.applyWatches(item, input, isNew)
	l.applyTracking(ctx, item, isNew)

	if l.opts.Sortable && isEmptyValue(item["sortOrder"]) {
		next, err := l.nextSortOrder(ctx)
		if err != nil {
			return vr, err
		}
		item["sortOrder"] = next
	}
	if isNew {
		item["id"] = uid.New().String()
	}

	if err := l.model.Save(ctx, item); err != nil {
		return vr, l.backendError(ctx, "saving document", err)
	}
	return vr, nil
}

// applyWatches recomputes computed fields whenever one of their watched
// paths received new input.
func (l *List) applyWatches(item, input Document, isNew bool) {
	for _, path := range l.order {
		opts := l.fields[path].Options()
		if len(opts.Watch) == 0 || opts.Value == nil {
			continue
		}
		trigger := isNew
		for _, w := range opts.Watch {
			if _, ok := input[w]; ok {
				trigger = true
				break
			}
		}
		if trigger {
			item[path] = opts.Value(item)
		}
	}
}

func (l *List) applyTracking(ctx context.Context, item Document, isNew bool) {
	if !l.opts.Track {
		return
	}
	now := time.Now()
	actor := ActorFrom(ctx)
	if isNew {
		item["createdAt"] = now
		item["createdBy"] = actor
	}
	item["updatedAt"] = now
	item["updatedBy"] = actor
}

func (l *List) nextSortOrder(ctx context.Context) (float64, error) {
	docs, err := l.model.Find(ctx, &Query{
		Sort:  []SortDirective{{Path: "sortOrder", Desc: true}},
		Limit: 1,
	})
	if err != nil {
		return 0, l.backendError(ctx, "reading sort order", err)
	}
	if len(docs) == 0 {
		return 1, nil
	}
	max, _ := parseNumber(docs[0]["sortOrder"])
	return max + 1, nil
}

func (l *List) backendError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return NewError(msg, WithCode(ErrCancelled), WithCause(err))
	}
	return NewError(msg, WithCode(ErrBackend), WithCause(err))
}

// ─── filters / search ─────────────────────────────────────────────────────────

// ProcessFilters normalizes the caller-facing wire format (plain maps of
// {mode, value, inverted, after, before}, bare scalars, or Filter values)
// into Filter records keyed by path.
func (l *List) ProcessFilters(raw map[string]any) map[string]Filter {
	out := make(map[string]Filter, len(raw))
	for path, v := range raw {
		switch t := v.(type) {
		case Filter:
			out[path] = t
		case map[string]any:
			f := Filter{}
			if m, ok := t["mode"].(string); ok {
				f.Mode = m
			}
			f.Value = t["value"]
			if inv, ok := t["inverted"].(bool); ok {
				f.Inverted = inv
			}
			f.After = t["after"]
			f.Before = t["before"]
			out[path] = f
		default:
			out[path] = Filter{Value: v}
		}
	}
	return out
}

// AddFiltersToQuery resolves each filter to a field (supporting simple
// dot-paths through relationship fields) and AND-combines the translated
// conditions onto p. An unknown path fails with UnknownFilterPath;
// filters on declared-unfilterable fields are no-ops.
func (l *List) AddFiltersToQuery(p *Predicate, filters map[string]Filter) error {
	for path, f := range filters {
		field, err := l.filterField(path)
		if err != nil {
			return err
		}
		ft, ok := field.(Filterable)
		if !ok {
			logTrace(l.engine.log, "filter on unfilterable field ignored", map[string]any{
				"list": l.key, "path": path,
			})
			continue
		}
		p.And(path, ft.FilterCondition(f))
	}
	return nil
}

// filterField resolves a filter path to the field that translates it.
// For a dot-path the first segment must be a relationship field; the
// remainder resolves against the target list.
func (l *List) filterField(path string) (Field, error) {
	if f, ok := l.fields[path]; ok {
		return f, nil
	}
	if i := strings.IndexByte(path, '.'); i > 0 {
		head, rest := path[:i], path[i+1:]
		if rel, ok := l.fields[head].(*RelationshipField); ok && rel.target != nil {
			return rel.target.filterField(rest)
		}
	}
	return nil, NewError(
		fmt.Sprintf("list %q has no filterable path %q", l.key, path),
		WithCode(ErrUnknownFilterPath),
		WithContext(map[string]any{"list": l.key, "path": path}))
}

// AddSearchToQuery adds an OR-of-contains branch over the configured
// search fields (default: the name mapping).
func (l *List) AddSearchToQuery(p *Predicate, search string) {
	search = strings.TrimSpace(search)
	if search == "" {
		return
	}
	paths := l.opts.SearchFields
	if len(paths) == 0 {
		if name := l.mappings["name"]; name != "" {
			paths = []string{name}
		}
	}
	for _, path := range paths {
		p.Or(path, Condition{Op: OpContains, Value: search, Fold: true})
	}
}

// buildPredicate combines filters and search into one predicate.
func (l *List) buildPredicate(filters map[string]Filter, search string) (*Predicate, error) {
	p := NewPredicate()
	if err := l.AddFiltersToQuery(p, filters); err != nil {
		return nil, err
	}
	l.AddSearchToQuery(p, search)
	return p, nil
}

// ─── pagination ───────────────────────────────────────────────────────────────

// PaginateOptions control one Paginate call.
type PaginateOptions struct {
	Page     int
	PerPage  int // 0 → list default (25)
	MaxPages int // length of the page-number window; 0 → unlimited
	Filters  map[string]Filter
	Search   string
	Sort     string // "" → list default sort
}

// Paginate counts matching documents, clamps the requested page into
// range, and returns the page window together with its results.
func (l *List) Paginate(ctx context.Context, opts PaginateOptions) (*Page, error) {
	if !l.registered {
		return nil, NewError(
			fmt.Sprintf("list %q is not registered", l.key),
			WithCode(ErrListNotRegistered))
	}
	p, err := l.buildPredicate(opts.Filters, opts.Search)
	if err != nil {
		return nil, err
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = l.opts.PerPage
	}
	if perPage < 1 {
		perPage = 25
	}

	total, err := l.model.Count(ctx, p)
	if err != nil {
		return nil, l.backendError(ctx, "counting documents", err)
	}
	page := computePages(total, perPage, opts.Page, opts.MaxPages)

	sort := opts.Sort
	if sort == "" {
		sort = l.opts.DefaultSort
	}
	docs, err := l.model.Find(ctx, &Query{
		Predicate: p,
		Sort:      ParseSort(sort),
		Skip:      (page.CurrentPage - 1) * perPage,
		Limit:     perPage,
	})
	if err != nil {
		return nil, l.backendError(ctx, "finding documents", err)
	}
	page.Results = docs
	return page, nil
}

// ─── unique values ────────────────────────────────────────────────────────────

const uniqueValueCap = 1000

// GetUniqueValue appends an incrementing numeric suffix to value until no
// existing document (optionally narrowed by filters) collides: "post",
// then "post2", "post3", …. Bounded: fails with UniqueValueExhausted
// after 1000 attempts.
func (l *List) GetUniqueValue(ctx context.Context, path, value string, filters map[string]Filter) (string, error) {
	if !l.registered {
		return "", NewError(
			fmt.Sprintf("list %q is not registered", l.key),
			WithCode(ErrListNotRegistered))
	}
	base, err := l.buildPredicate(filters, "")
	if err != nil {
		return "", err
	}
	candidate := value
	for attempt := 1; attempt <= uniqueValueCap; attempt++ {
		p := NewPredicate()
		for k, c := range base.All {
			p.And(k, c)
		}
		p.And(path, Condition{Op: OpEq, Value: candidate})
		n, err := l.model.Count(ctx, p)
		if err != nil {
			return "", l.backendError(ctx, "checking unique value", err)
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = value + strconv.Itoa(attempt+1)
	}
	return "", NewError(
		fmt.Sprintf("no unique value found for %q on list %q within %d attempts", value, l.key, uniqueValueCap),
		WithCode(ErrUniqueExhausted))
}

// ─── columns / export ─────────────────────────────────────────────────────────

// Columns resolves a column string (or the list default, or every field
// in declaration order) into column descriptors.
func (l *List) Columns(spec string) []Column {
	if spec == "" {
		spec = l.opts.DefaultColumns
	}
	if spec != "" {
		var out []Column
		for _, c := range ParseColumns(spec) {
			if _, ok := l.fields[c.Path]; ok || c.Path == "id" {
				out = append(out, c)
			}
		}
		return out
	}
	out := make([]Column, 0, len(l.order))
	for _, path := range l.order {
		out = append(out, Column{Path: path})
	}
	return out
}

// ExportOptions control one ExportCSV call.
type ExportOptions struct {
	Filters map[string]Filter
	Search  string
	Sort    string
	Columns string
}

// ExportCSV streams all matching documents as CSV, one formatted row per
// document. Cancellation is checked per row and surfaces as Cancelled,
// never as a truncated file mistaken for success.
func (l *List) ExportCSV(ctx context.Context, w io.Writer, opts ExportOptions) error {
	if !l.registered {
		return NewError(
			fmt.Sprintf("list %q is not registered", l.key),
			WithCode(ErrListNotRegistered))
	}
	p, err := l.buildPredicate(opts.Filters, opts.Search)
	if err != nil {
		return err
	}
	sort := opts.Sort
	if sort == "" {
		sort = l.opts.DefaultSort
	}
	docs, err := l.model.Find(ctx, &Query{Predicate: p, Sort: ParseSort(sort)})
	if err != nil {
		return l.backendError(ctx, "finding documents", err)
	}

	cols := l.Columns(opts.Columns)
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		if f, ok := l.fields[c.Path]; ok {
			header[i] = f.Label()
		} else {
			header[i] = humanize(c.Path)
		}
	}
	if err := cw.Write(header); err != nil {
		return NewError("writing csv header", WithCode(ErrBackend), WithCause(err))
	}

	row := make([]string, len(cols))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return NewError("csv export cancelled", WithCode(ErrCancelled), WithCause(err))
		}
		for i, c := range cols {
			if f, ok := l.fields[c.Path]; ok {
				row[i] = f.Format(doc)
			} else {
				row[i] = toString(doc[c.Path])
			}
		}
		if err := cw.Write(row); err != nil {
			return NewError("writing csv row", WithCode(ErrBackend), WithCause(err))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return NewError("flushing csv", WithCode(ErrBackend), WithCause(err))
	}
	return nil
}
