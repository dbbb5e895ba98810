package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb-labs/cellsheet/internal/cellvalue"
	"github.com/vogtb-labs/cellsheet/internal/position"
)

// fakeSheet is a minimal CellReader backed by an in-memory map, used
// to test formula evaluation without depending on the sheet package.
type fakeSheet map[position.Position]cellvalue.Value

func (f fakeSheet) GetValue(p position.Position) cellvalue.Value {
	if v, ok := f[p]; ok {
		return v
	}
	return cellvalue.Text("")
}

func TestParserBasicFormulas(t *testing.T) {
	valid := []string{
		"1+2",
		"A1",
		"(1+2)*3",
		"1+2*3",
		"-2^2",
		`"hello"&"world"`,
		"A1+B2-C3",
		`"say ""hi"""`,
	}
	for _, src := range valid {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.NoError(t, err)
		})
	}
}

func TestParserInvalidFormulas(t *testing.T) {
	invalid := []string{
		"",
		"1+",
		"(1+2",
		`"unterminated`,
		"1 2",
	}
	for _, src := range invalid {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)
			var fe *FormulaException
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	f, err := Parse("1+2")
	require.NoError(t, err)
	v := f.Evaluate(fakeSheet{})
	assert.True(t, v.Equal(cellvalue.Number(3)))
}

func TestEvaluateCellReference(t *testing.T) {
	a1 := position.FromString("A1")
	sheet := fakeSheet{a1: cellvalue.Number(10)}
	f, err := Parse("A1+1")
	require.NoError(t, err)
	v := f.Evaluate(sheet)
	assert.True(t, v.Equal(cellvalue.Number(11)))
}

func TestEvaluateDivisionByZero(t *testing.T) {
	f, err := Parse("1/0")
	require.NoError(t, err)
	v := f.Evaluate(fakeSheet{})
	cat, ok := v.AsCategory()
	require.True(t, ok)
	assert.Equal(t, cellvalue.CategoryDiv0, cat)
}

func TestEvaluateValueMismatch(t *testing.T) {
	f, err := Parse(`"foo"+1`)
	require.NoError(t, err)
	v := f.Evaluate(fakeSheet{})
	cat, ok := v.AsCategory()
	require.True(t, ok)
	assert.Equal(t, cellvalue.CategoryValue, cat)
}

func TestEvaluateConcatenation(t *testing.T) {
	f, err := Parse(`"foo"&"bar"`)
	require.NoError(t, err)
	v := f.Evaluate(fakeSheet{})
	assert.True(t, v.Equal(cellvalue.Text("foobar")))
}

func TestEvaluateOutOfBoundsReferenceIsRefError(t *testing.T) {
	f, err := Parse("ZZZZ1")
	require.NoError(t, err)
	v := f.Evaluate(fakeSheet{})
	cat, ok := v.AsCategory()
	require.True(t, ok)
	assert.Equal(t, cellvalue.CategoryRef, cat)
	assert.Empty(t, f.GetReferencedCells())
}

func TestGetReferencedCellsSortedDeduplicated(t *testing.T) {
	f, err := Parse("B2+A1+B2+A1")
	require.NoError(t, err)
	a1 := position.FromString("A1")
	b2 := position.FromString("B2")
	assert.Equal(t, []position.Position{a1, b2}, f.GetReferencedCells())
}

func TestGetExpressionCanonicalForm(t *testing.T) {
	f, err := Parse("1+2*3")
	require.NoError(t, err)
	assert.Equal(t, "(1+(2*3))", f.GetExpression())
}
