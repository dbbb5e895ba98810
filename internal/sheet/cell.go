package sheet

import (
	"github.com/vogtb-labs/cellsheet/internal/cellvalue"
	"github.com/vogtb-labs/cellsheet/internal/position"
)

// Cell is a read-only, position-addressed view onto a single cell
// within its owning Sheet. It holds no cached state of its own: every
// call freshly resolves the underlying record, so a Cell handle
// obtained before a Clear correctly reports emptiness afterward.
type Cell struct {
	sheet *Sheet
	pos   position.Position
}

// Position returns the coordinate this handle addresses.
func (c *Cell) Position() position.Position { return c.pos }

// GetValue returns the cell's memoized value, computing it if absent.
func (c *Cell) GetValue() cellvalue.Value {
	rec := c.sheet.getRecord(c.pos)
	if rec == nil {
		return cellvalue.Text("")
	}
	return rec.value(c.sheet)
}

// GetText returns the cell's raw content.
func (c *Cell) GetText() string {
	rec := c.sheet.getRecord(c.pos)
	if rec == nil {
		return ""
	}
	return rec.text()
}

// GetReferencedCells returns the positions this cell's formula
// references, or nil if it is not a formula cell.
func (c *Cell) GetReferencedCells() []position.Position {
	rec := c.sheet.getRecord(c.pos)
	if rec == nil {
		return nil
	}
	return rec.referencedCells()
}

// IsEmpty reports whether the cell is Empty.
func (c *Cell) IsEmpty() bool {
	rec := c.sheet.getRecord(c.pos)
	if rec == nil {
		return true
	}
	return rec.isEmpty()
}
