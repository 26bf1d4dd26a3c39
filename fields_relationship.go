/*
Package listkit – relationship field type.

Stores a reference id (or []ids with Many) into another list. The target
list must exist when the owning list registers; ExpandedData resolves
stored ids into {id, name} tuples against the target's name mapping.
*/
package listkit

import (
	"context"
	"fmt"
)

// RelValue is one expanded reference.
type RelValue struct {
	ID   string
	Name string
}

// RelationshipField references documents in another list.
type RelationshipField struct {
	BaseField
	ref    string
	many   bool
	target *List // resolved at register time
}

func newRelationshipField(list *List, path string, opts FieldOptions) Field {
	return &RelationshipField{
		BaseField: newBase(list, path, "relationship", opts),
		ref:       opts.Ref,
		many:      opts.Many,
	}
}

// Ref returns the target list key.
func (r *RelationshipField) Ref() string { return r.ref }

// Target returns the resolved target list (nil before register).
func (r *RelationshipField) Target() *List { return r.target }

// bind resolves the target list; called by List.Register.
func (r *RelationshipField) bind() error {
	target, ok := r.list.engine.Get(r.ref)
	if !ok {
		return NewArgError(
			fmt.Sprintf("List %q field %q references unknown list %q", r.list.Key(), r.path, r.ref),
			ErrUnresolvedReference)
	}
	r.target = target
	return nil
}

func (r *RelationshipField) Paths() []SchemaPath {
	kind := "id"
	p := r.schemaPath(kind)
	p.Ref = r.ref
	p.Many = r.many
	return []SchemaPath{p}
}

// ValidateInput accepts an id string or, with Many, a slice of ids.
func (r *RelationshipField) ValidateInput(data Document) (bool, string) {
	v, ok := r.offered(data)
	if !ok || isEmptyValue(v) {
		return true, ""
	}
	if r.many {
		for _, e := range asSlice(v) {
			if toString(e) == "" {
				return false, fmt.Sprintf("%s contains an empty reference", r.Label())
			}
		}
		return true, ""
	}
	switch v.(type) {
	case []any, []string:
		return false, fmt.Sprintf("%s accepts a single reference", r.Label())
	}
	return true, ""
}

func (r *RelationshipField) UpdateItem(item, data Document) {
	v, ok := r.offered(data)
	if !ok {
		return
	}
	if isEmptyValue(v) {
		item[r.path] = nil
		return
	}
	if r.many {
		elems := asSlice(v)
		out := make([]string, 0, len(elems))
		for _, e := range elems {
			if id := toString(e); id != "" {
				out = append(out, id)
			}
		}
		item[r.path] = out
		return
	}
	item[r.path] = toString(v)
}

// Format renders the raw stored id(s); use ExpandedData for names.
func (r *RelationshipField) Format(item Document) string {
	v := r.Data(item)
	if isEmptyValue(v) {
		return ""
	}
	if r.many {
		elems := asSlice(v)
		out := ""
		for i, e := range elems {
			if i > 0 {
				out += ", "
			}
			out += toString(e)
		}
		return out
	}
	return toString(v)
}

// ids returns the stored reference ids.
func (r *RelationshipField) ids(item Document) []string {
	v := r.Data(item)
	if isEmptyValue(v) {
		return nil
	}
	if r.many {
		elems := asSlice(v)
		out := make([]string, 0, len(elems))
		for _, e := range elems {
			if id := toString(e); id != "" {
				out = append(out, id)
			}
		}
		return out
	}
	return []string{toString(v)}
}

// ExpandedData resolves stored ids into {id, name} tuples using the
// target list's name mapping. The target list must be registered.
func (r *RelationshipField) ExpandedData(ctx context.Context, item Document) ([]RelValue, error) {
	ids := r.ids(item)
	if len(ids) == 0 {
		return nil, nil
	}
	if r.target == nil || !r.target.Registered() {
		return nil, NewError(
			fmt.Sprintf("list %q is not registered", r.ref),
			WithCode(ErrListNotRegistered))
	}
	p := NewPredicate().And("id", Condition{Op: OpIn, Values: strsToAny(ids)})
	docs, err := r.target.model.Find(ctx, &Query{Predicate: p})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Document, len(docs))
	for _, d := range docs {
		byID[toString(d["id"])] = d
	}
	out := make([]RelValue, 0, len(ids))
	for _, id := range ids {
		rv := RelValue{ID: id}
		if doc, ok := byID[id]; ok {
			rv.Name = r.target.NameOf(doc)
		}
		out = append(out, rv)
	}
	return out, nil
}

// FilterCondition matches by reference id; arrays use OR semantics.
func (r *RelationshipField) FilterCondition(f Filter) Condition {
	switch v := f.Value.(type) {
	case []any:
		if len(v) == 0 {
			return Condition{Op: OpEmpty, Not: f.Inverted}
		}
		return Condition{Op: OpIn, Values: v, Not: f.Inverted}
	case []string:
		if len(v) == 0 {
			return Condition{Op: OpEmpty, Not: f.Inverted}
		}
		return Condition{Op: OpIn, Values: strsToAny(v), Not: f.Inverted}
	}
	id := toString(f.Value)
	if id == "" {
		return Condition{Op: OpEmpty, Not: f.Inverted}
	}
	return Condition{Op: OpEq, Value: id, Not: f.Inverted}
}
