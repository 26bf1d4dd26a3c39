/*
Package listkit – in-memory datastore.

The default Datastore and the test substrate. Documents live in
insertion order per list; predicates are evaluated directly, including
dot-path dereferencing through relationship ids into other lists.
*/
package listkit

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmskit/listkit-go/internal/uid"
)

// MemStore keeps every list's documents in process memory.
type MemStore struct {
	mu     sync.RWMutex
	models map[string]*memModel
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{models: map[string]*memModel{}}
}

// CompileSchema returns the model for the schema's list key, creating it
// on first use. Re-compiling replaces the schema but keeps the documents.
func (s *MemStore) CompileSchema(schema *CompiledSchema) (Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[schema.Key]
	if !ok {
		m = &memModel{store: s, index: map[string]int{}}
		s.models[schema.Key] = m
	}
	m.schema = schema
	return m, nil
}

func (s *MemStore) model(key string) *memModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models[key]
}

type memModel struct {
	store  *MemStore
	schema *CompiledSchema

	mu    sync.RWMutex
	docs  []Document
	index map[string]int // id → position in docs
}

func (m *memModel) Find(ctx context.Context, q *Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	if q == nil {
		q = &Query{}
	}
	if !q.Predicate.matchesNothing() {
		for _, doc := range m.docs {
			if m.matches(doc, q.Predicate) {
				out = append(out, cloneDoc(doc))
			}
		}
	}
	m.sortDocs(out, q.Sort)

	if q.Skip > 0 {
		if q.Skip >= len(out) {
			out = nil
		} else {
			out = out[q.Skip:]
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if len(q.Columns) > 0 {
		for i, doc := range out {
			proj := Document{"id": doc["id"]}
			for _, c := range q.Columns {
				if v, ok := doc[c]; ok {
					proj[c] = v
				}
			}
			out[i] = proj
		}
	}
	return out, nil
}

func (m *memModel) Count(ctx context.Context, p *Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p.matchesNothing() {
		return 0, nil
	}
	n := 0
	for _, doc := range m.docs {
		if m.matches(doc, p) {
			n++
		}
	}
	return n, nil
}

func (m *memModel) Save(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := toString(doc["id"])
	if id == "" {
		id = uid.New().String()
		doc["id"] = id
	}
	stored := cloneDoc(doc)
	if pos, ok := m.index[id]; ok {
		m.docs[pos] = stored
		return nil
	}
	m.index[id] = len(m.docs)
	m.docs = append(m.docs, stored)
	return nil
}

func (m *memModel) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.index[id]
	if !ok {
		return nil
	}
	m.docs = append(m.docs[:pos], m.docs[pos+1:]...)
	delete(m.index, id)
	for i := pos; i < len(m.docs); i++ {
		m.index[toString(m.docs[i]["id"])] = i
	}
	return nil
}

// ─── predicate evaluation ─────────────────────────────────────────────────────

func (m *memModel) matches(doc Document, p *Predicate) bool {
	return matchPredicate(doc, p, m.resolve)
}

// matchPredicate evaluates a predicate against one document, reading
// values through the given path resolver.
func matchPredicate(doc Document, p *Predicate, resolve func(Document, string) any) bool {
	if p.IsEmpty() {
		return true
	}
	for path, c := range p.All {
		if !condMatch(resolve(doc, path), c) {
			return false
		}
	}
	if len(p.Any) > 0 {
		hit := false
		for path, c := range p.Any {
			if condMatch(resolve(doc, path), c) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// resolve reads a (possibly dotted) path out of a document. A dotted
// path whose head is a relationship id dereferences into the target
// list's documents.
func (m *memModel) resolve(doc Document, path string) any {
	if v, ok := doc[path]; ok {
		return v
	}
	i := strings.IndexByte(path, '.')
	if i <= 0 {
		return nil
	}
	head, rest := path[:i], path[i+1:]
	v, ok := doc[head]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case Document:
		return m.resolve(t, rest)
	case string:
		sp := m.schema.Path(head)
		if sp == nil || sp.Ref == "" {
			return nil
		}
		target := m.store.model(sp.Ref)
		if target == nil {
			return nil
		}
		target.mu.RLock()
		defer target.mu.RUnlock()
		if pos, ok := target.index[t]; ok {
			return target.resolve(target.docs[pos], rest)
		}
	}
	return nil
}

// condMatch evaluates one condition against one resolved value.
// The complement of a condition also matches absent values.
func condMatch(v any, c Condition) bool {
	base := rawMatch(v, c)
	if c.Not {
		return !base
	}
	return base
}

func rawMatch(v any, c Condition) bool {
	switch c.Op {
	case OpNone:
		return false
	case OpEmpty:
		return isEmptyValue(v)
	}
	// array values match when any element matches
	if elems := sliceOf(v); elems != nil {
		for _, e := range elems {
			if rawMatch(e, c) {
				return true
			}
		}
		return false
	}
	switch c.Op {
	case OpEq:
		return eqValue(v, c.Value, c.Fold)
	case OpIn:
		for _, want := range c.Values {
			if eqValue(v, want, c.Fold) {
				return true
			}
		}
		return false
	case OpContains, OpBegins, OpEnds:
		s, want := toString(v), toString(c.Value)
		if c.Fold {
			s, want = strings.ToLower(s), strings.ToLower(want)
		}
		if v == nil || want == "" {
			return false
		}
		switch c.Op {
		case OpBegins:
			return strings.HasPrefix(s, want)
		case OpEnds:
			return strings.HasSuffix(s, want)
		default:
			return strings.Contains(s, want)
		}
	case OpLT, OpLTE, OpGT, OpGTE:
		cmp, ok := compareValues(v, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpLT:
			return cmp < 0
		case OpLTE:
			return cmp <= 0
		case OpGT:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case OpBetween:
		lo, okLo := compareValues(v, c.Low)
		hi, okHi := compareValues(v, c.High)
		return okLo && okHi && lo >= 0 && hi <= 0
	}
	return false
}

// sliceOf returns the elements of a slice value, or nil for scalars.
func sliceOf(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		return strsToAny(t)
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out
	case []time.Time:
		out := make([]any, len(t))
		for i, tm := range t {
			out[i] = tm
		}
		return out
	}
	return nil
}

func eqValue(a, b any, fold bool) bool {
	if fold {
		sa, okA := a.(string)
		sb, okB := b.(string)
		if okA && okB {
			return strings.EqualFold(sa, sb)
		}
	}
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	sa, sb := toString(a), toString(b)
	if fold {
		return strings.EqualFold(sa, sb)
	}
	return sa == sb
}

// compareValues orders two values numerically, temporally, or
// lexicographically, whichever both sides support.
func compareValues(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if fa, ok := parseNumber(a); ok {
		if fb, ok := parseNumber(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			switch {
			case ta.Before(tb):
				return -1, true
			case ta.After(tb):
				return 1, true
			}
			return 0, true
		}
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

func (m *memModel) sortDocs(docs []Document, directives []SortDirective) {
	sortDocuments(docs, directives, m.resolve)
}

// sortDocuments orders docs by the directives, reading values through
// the given path resolver. Nil values sort last.
func sortDocuments(docs []Document, directives []SortDirective, resolve func(Document, string) any) {
	if len(directives) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, d := range directives {
			a, b := resolve(docs[i], d.Path), resolve(docs[j], d.Path)
			if a == nil && b == nil {
				continue
			}
			// nil sorts last regardless of direction
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			cmp, ok := compareValues(a, b)
			if !ok {
				cmp = strings.Compare(toString(a), toString(b))
			}
			if cmp == 0 {
				continue
			}
			if d.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func cloneDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
