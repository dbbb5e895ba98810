// Package formula implements the engine's formula language: a small
// lexer, recursive-descent parser, and AST evaluator over arithmetic,
// string concatenation, and cell references. It is the concrete
// grammar behind the Formula adapter contract (Evaluate /
// GetExpression / GetReferencedCells).
package formula

import (
	"fmt"
	"sort"

	"github.com/vogtb-labs/cellsheet/internal/cellvalue"
	"github.com/vogtb-labs/cellsheet/internal/position"
)

// FormulaException reports a syntactically invalid formula source.
// Construction fails this way, never silently.
type FormulaException struct {
	Source string
	Reason string
}

func (e *FormulaException) Error() string {
	return fmt.Sprintf("formula error in %q: %s", e.Source, e.Reason)
}

// Formula is a parsed, evaluable formula: an AST, its canonical
// printed form, and the precomputed, sorted, deduplicated list of
// cell positions it references.
type Formula struct {
	root ast
	expr string
	refs []position.Position
}

// Parse lexes and parses source (without the leading '=' sigil) into
// a Formula. A syntax error is returned as a *FormulaException.
func Parse(source string) (*Formula, error) {
	toks, err := newLexer(source).tokenize()
	if err != nil {
		return nil, &FormulaException{Source: source, Reason: err.Error()}
	}
	p := &parser{tokens: toks}
	root, err := p.parse()
	if err != nil {
		return nil, &FormulaException{Source: source, Reason: err.Error()}
	}
	return &Formula{
		root: root,
		expr: root.String(),
		refs: collectReferences(root),
	}, nil
}

// Evaluate executes the formula against a sheet view, returning a
// Number, Text, or typed Error value. It never returns a Go error;
// evaluation-time faults surface as error-kind cellvalue.Value per
// the Formula contract.
func (f *Formula) Evaluate(sheet CellReader) cellvalue.Value {
	return f.root.Eval(sheet)
}

// GetExpression returns the formula's canonical, whitespace-
// normalized, fully-parenthesized printed form.
func (f *Formula) GetExpression() string {
	return f.expr
}

// GetReferencedCells returns every valid position referenced by the
// formula, in ascending order with duplicates removed. Positions that
// were cell-ref-shaped but decoded out of bounds are excluded (they
// still surface as Ref errors during Evaluate).
func (f *Formula) GetReferencedCells() []position.Position {
	return f.refs
}

func collectReferences(node ast) []position.Position {
	var raw []position.Position
	var walk func(ast)
	walk = func(n ast) {
		switch v := n.(type) {
		case *cellRefNode:
			if v.pos.IsValid() {
				raw = append(raw, v.pos)
			}
		case *binaryOpNode:
			walk(v.left)
			walk(v.right)
		case *unaryOpNode:
			walk(v.operand)
		}
	}
	walk(node)

	sort.Slice(raw, func(i, j int) bool { return raw[i].Less(raw[j]) })

	out := raw[:0]
	for i, p := range raw {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
