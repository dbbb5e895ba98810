package sheet

import (
	"github.com/vogtb-labs/cellsheet/internal/cellvalue"
	"github.com/vogtb-labs/cellsheet/internal/formula"
	"github.com/vogtb-labs/cellsheet/internal/position"
)

type kind uint8

const (
	kindEmpty kind = iota
	kindText
	kindFormula
)

// cellResolver is the narrow capability a record needs from its
// owning Sheet: non-creating and create-if-missing position lookup.
// Passing this in (rather than a stored Sheet reference) is what
// keeps record free of the Cell/Sheet back-reference the source
// carries (SPEC_FULL.md §9).
type cellResolver interface {
	getRecord(p position.Position) *record
	getOrCreateRecord(p position.Position) *record
}

// record is the mutable internal representation of a single
// addressable cell: a tagged variant, its memoized value, and its
// dependency edges. It is never exposed outside this package; the
// exported Cell type is a position-addressed handle over it.
type record struct {
	kind        kind
	rawText     string
	valueOffset int
	formulaVal  *formula.Formula
	cache       *cellvalue.Value
	dependsOn   map[*record]struct{}
	dependents  map[*record]struct{}
}

func newRecord() *record {
	return &record{kind: kindEmpty}
}

func (r *record) isEmpty() bool { return r.kind == kindEmpty }

// text returns the raw content, matching Cell.GetText.
func (r *record) text() string {
	switch r.kind {
	case kindText:
		return r.rawText
	case kindFormula:
		return "=" + r.formulaVal.GetExpression()
	default:
		return ""
	}
}

// referencedCells returns the positions this cell's formula
// references; empty for Empty/Text cells.
func (r *record) referencedCells() []position.Position {
	if r.kind == kindFormula {
		return r.formulaVal.GetReferencedCells()
	}
	return nil
}

// value returns the memoized value, computing and caching it on
// first access.
func (r *record) value(resolver cellResolver) cellvalue.Value {
	if r.cache != nil {
		return *r.cache
	}
	var v cellvalue.Value
	switch r.kind {
	case kindEmpty:
		v = cellvalue.Text("")
	case kindText:
		v = cellvalue.Text(r.rawText[r.valueOffset:])
	case kindFormula:
		v = r.formulaVal.Evaluate(resolverAdapter{resolver})
	}
	r.cache = &v
	return v
}

// set commits new text per the Set semantics: no-op on an unchanged
// canonical text, empty/text/formula dispatch, cycle rejection prior
// to commit, then invalidation and dependency-edge rewrite.
func (r *record) set(resolver cellResolver, text string) error {
	if text == r.text() {
		return nil
	}

	switch {
	case text == "":
		r.kind = kindEmpty
		r.rawText = ""
		r.valueOffset = 0
		r.formulaVal = nil

	case len(text) > 1 && text[0] == '=':
		f, err := formula.Parse(text[1:])
		if err != nil {
			return err
		}
		if detectCycle(resolver, r, f.GetReferencedCells()) {
			return errCircular
		}
		r.kind = kindFormula
		r.formulaVal = f
		r.rawText = ""
		r.valueOffset = 0

	default:
		r.kind = kindText
		r.rawText = text
		r.formulaVal = nil
		if text[0] == '\'' {
			r.valueOffset = 1
		} else {
			r.valueOffset = 0
		}
	}

	r.invalidate()
	r.updateDependencies(resolver)
	return nil
}

// sentinel used internally; the Sheet wraps it with the offending
// position before returning it to the caller.
var errCircular = &sentinelCircular{}

type sentinelCircular struct{}

func (*sentinelCircular) Error() string { return "circular dependency" }

func (r *record) clear(resolver cellResolver) error {
	return r.set(resolver, "")
}

// invalidate clears this cell's cache and recurses into dependents.
// It stops as soon as it finds an already-absent cache, which is the
// pruning the invariant guarantees is safe (SPEC_FULL.md §4.3.2).
func (r *record) invalidate() {
	if r.cache == nil {
		return
	}
	r.cache = nil
	for dep := range r.dependents {
		dep.invalidate()
	}
}

// updateDependencies rewrites depends_on/dependents in the
// three-phase order required so a dependency shared between the old
// and new sets ends with a correct back-edge (SPEC_FULL.md §4.3.3).
func (r *record) updateDependencies(resolver cellResolver) {
	for old := range r.dependsOn {
		delete(old.dependents, r)
	}

	refs := r.referencedCells()
	next := make(map[*record]struct{}, len(refs))
	for _, p := range refs {
		dep := resolver.getOrCreateRecord(p)
		next[dep] = struct{}{}
	}
	r.dependsOn = next

	for dep := range next {
		if dep.dependents == nil {
			dep.dependents = make(map[*record]struct{})
		}
		dep.dependents[r] = struct{}{}
	}
}

// detectCycle performs the depth-first search described in
// SPEC_FULL.md §4.3.1: starting from refs, walk existing edges
// (never mutating them) looking for target. The visited set spans
// the whole search to keep it linear in graph size.
func detectCycle(resolver cellResolver, target *record, refs []position.Position) bool {
	visited := make(map[*record]struct{})
	var visit func([]position.Position) bool
	visit = func(refs []position.Position) bool {
		for _, p := range refs {
			cand := resolver.getRecord(p)
			if cand == target {
				return true
			}
			if cand == nil || cand.isEmpty() {
				continue
			}
			if _, seen := visited[cand]; seen {
				continue
			}
			visited[cand] = struct{}{}
			if visit(cand.referencedCells()) {
				return true
			}
		}
		return false
	}
	return visit(refs)
}

// resolverAdapter satisfies formula.CellReader over a cellResolver,
// so formula evaluation can recursively resolve cell references
// without the formula package knowing anything about Sheet.
type resolverAdapter struct {
	resolver cellResolver
}

func (a resolverAdapter) GetValue(p position.Position) cellvalue.Value {
	rec := a.resolver.getRecord(p)
	if rec == nil {
		return cellvalue.Text("")
	}
	return rec.value(a.resolver)
}
