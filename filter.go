/*
Package listkit – filters and backend-agnostic predicates.

A Filter is the caller-facing wire format ({mode, value, inverted}); a
Predicate is what the per-type filter translators produce and what the
datastores consume.
*/
package listkit

// Filter is a declarative request to narrow a query by one field's value.
// Mode is interpreted per field type; an unknown mode falls back to the
// type's default mode. After/Before carry the bounds for range modes.
type Filter struct {
	Mode     string
	Value    any
	Inverted bool
	After    any
	Before   any
}

// Op identifies a predicate comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpLT       Op = "lt"
	OpLTE      Op = "lte"
	OpGT       Op = "gt"
	OpGTE      Op = "gte"
	OpBetween  Op = "between"
	OpContains Op = "contains"
	OpBegins   Op = "begins"
	OpEnds     Op = "ends"
	OpEmpty    Op = "empty" // value absent, nil or empty string
	OpNone     Op = "none"  // matches no documents
)

// Condition is one comparison against one path.
//   - Value carries the operand for scalar ops, Values for OpIn,
//     Low/High for OpBetween (both bounds inclusive).
//   - Not requests the logical complement. A complemented condition must
//     also match documents where the path is absent.
//   - Fold requests case-insensitive string comparison.
type Condition struct {
	Op     Op
	Value  any
	Values []any
	Low    any
	High   any
	Not    bool
	Fold   bool
}

// Predicate is a conjunction of per-path conditions, with an optional
// disjunctive branch (used by search). A document matches when every
// condition in All holds and, if Any is non-empty, at least one condition
// in Any holds.
type Predicate struct {
	All map[string]Condition
	Any map[string]Condition
}

// NewPredicate returns an empty predicate (matches everything).
func NewPredicate() *Predicate {
	return &Predicate{All: map[string]Condition{}, Any: map[string]Condition{}}
}

// And adds a conjunctive condition for path. A second condition on the same
// path replaces the first.
func (p *Predicate) And(path string, c Condition) *Predicate {
	if p.All == nil {
		p.All = map[string]Condition{}
	}
	p.All[path] = c
	return p
}

// Or adds a condition to the disjunctive branch.
func (p *Predicate) Or(path string, c Condition) *Predicate {
	if p.Any == nil {
		p.Any = map[string]Condition{}
	}
	p.Any[path] = c
	return p
}

// IsEmpty reports whether the predicate constrains nothing.
func (p *Predicate) IsEmpty() bool {
	return p == nil || (len(p.All) == 0 && len(p.Any) == 0)
}

// matchesNothing reports whether the conjunction contains an
// un-negated OpNone, so backends can skip the query entirely.
func (p *Predicate) matchesNothing() bool {
	if p == nil {
		return false
	}
	for _, c := range p.All {
		if c.Op == OpNone && !c.Not {
			return true
		}
	}
	return false
}
