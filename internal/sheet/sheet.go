// Package sheet implements the sparse, growable grid of cells at the
// heart of the engine: addressed access, on-demand cell creation,
// the printable-region bookkeeping, and the cycle-detection /
// cache-invalidation / dependency-edge machinery that keeps a Sheet
// internally consistent across edits.
package sheet

import (
	"io"

	"go.uber.org/zap"

	"github.com/vogtb-labs/cellsheet/internal/position"
)

// Sheet is a sparse two-dimensional container of cells. It owns every
// cell it addresses and is the sole resolver its cells use to reach
// other cells (SPEC_FULL.md §9: no Cell-to-Sheet back-reference).
type Sheet struct {
	grid      [][]*record
	factSize  position.Size
	printSize position.Size
	bounds    position.Bounds
	log       *zap.SugaredLogger
}

// Option configures a Sheet at construction time.
type Option func(*Sheet)

// WithLogger attaches a structured logger. Without one, a Sheet logs
// nothing (zap.NewNop()).
func WithLogger(l *zap.Logger) Option {
	return func(s *Sheet) { s.log = l.Sugar() }
}

// WithBounds narrows the addressable region this Sheet accepts at its
// edit/read boundary (SetCell, GetCell, GetOrCreateCell, ClearCell)
// to maxRows x maxCols. Values outside (0, position.MaxRows] or
// (0, position.MaxCols] are ignored, since a Sheet can never address
// more than the package's absolute bounds. Without this option a
// Sheet uses position.DefaultBounds().
func WithBounds(maxRows, maxCols int) Option {
	return func(s *Sheet) {
		if maxRows > 0 && maxRows <= position.MaxRows {
			s.bounds.MaxRows = maxRows
		}
		if maxCols > 0 && maxCols <= position.MaxCols {
			s.bounds.MaxCols = maxCols
		}
	}
}

// New constructs an empty Sheet.
func New(opts ...Option) *Sheet {
	s := &Sheet{log: zap.NewNop().Sugar(), bounds: position.DefaultBounds()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- cellResolver ---

func (s *Sheet) getRecord(p position.Position) *record {
	if p.Row >= s.factSize.Rows || p.Col >= s.factSize.Cols || p.Row < 0 || p.Col < 0 {
		return nil
	}
	return s.grid[p.Row][p.Col]
}

func (s *Sheet) getOrCreateRecord(p position.Position) *record {
	if rec := s.getRecord(p); rec != nil {
		return rec
	}
	s.growTo(p)
	rec := newRecord()
	s.grid[p.Row][p.Col] = rec
	s.log.Debugw("placeholder created for dependency", "pos", p.String())
	return rec
}

// growTo extends storage, if needed, so that p is addressable. Rows
// and each row's column count are grown independently, matching the
// source's resize-rows-then-resize-every-row's-columns pattern.
func (s *Sheet) growTo(p position.Position) {
	if p.Row+1 > s.factSize.Rows {
		for len(s.grid) < p.Row+1 {
			s.grid = append(s.grid, nil)
		}
		for i := s.factSize.Rows; i < p.Row+1; i++ {
			s.grid[i] = make([]*record, s.factSize.Cols)
		}
		s.factSize.Rows = p.Row + 1
	}
	if p.Col+1 > s.factSize.Cols {
		for i := 0; i < s.factSize.Rows; i++ {
			grown := make([]*record, p.Col+1)
			copy(grown, s.grid[i])
			s.grid[i] = grown
		}
		s.factSize.Cols = p.Col + 1
	}
}

// SetCell validates pos, materializes storage and a cell on first
// use, delegates to the cell's Set, and extends the printable region
// when the result is non-empty.
func (s *Sheet) SetCell(pos position.Position, text string) error {
	if !s.bounds.Contains(pos) {
		s.log.Warnw("rejected set: invalid position", "row", pos.Row, "col", pos.Col)
		return &InvalidPositionException{Pos: pos}
	}

	rec := s.getRecord(pos)
	if rec == nil {
		s.growTo(pos)
		rec = newRecord()
		s.grid[pos.Row][pos.Col] = rec
	}

	if err := rec.set(s, text); err != nil {
		if err == errCircular {
			s.log.Warnw("rejected set: circular dependency", "pos", pos.String())
			return &CircularDependencyException{Pos: pos}
		}
		s.log.Warnw("rejected set: formula error", "pos", pos.String(), "error", err)
		return err
	}

	if !rec.isEmpty() {
		if pos.Row+1 > s.printSize.Rows {
			s.printSize.Rows = pos.Row + 1
		}
		if pos.Col+1 > s.printSize.Cols {
			s.printSize.Cols = pos.Col + 1
		}
	}

	s.log.Debugw("cell set", "pos", pos.String())
	return nil
}

// GetCell returns a handle to the cell at pos, or nil if pos is out
// of the allocated bounds or the slot is unoccupied. It never
// mutates the sheet.
func (s *Sheet) GetCell(pos position.Position) (*Cell, error) {
	if !s.bounds.Contains(pos) {
		return nil, &InvalidPositionException{Pos: pos}
	}
	if s.getRecord(pos) == nil {
		return nil, nil
	}
	return &Cell{sheet: s, pos: pos}, nil
}

// GetOrCreateCell returns a handle to the cell at pos, materializing
// an Empty placeholder if none exists. This is the resolver used by
// dependency-edge rewrite so back-edges can always be recorded.
func (s *Sheet) GetOrCreateCell(pos position.Position) (*Cell, error) {
	if !s.bounds.Contains(pos) {
		return nil, &InvalidPositionException{Pos: pos}
	}
	if s.getRecord(pos) == nil {
		if err := s.SetCell(pos, ""); err != nil {
			return nil, err
		}
	}
	return &Cell{sheet: s, pos: pos}, nil
}

// ClearCell clears the cell at pos (a no-op if none exists), removes
// its slot if it has become a dependent-less empty cell, and retracts
// the printable region.
func (s *Sheet) ClearCell(pos position.Position) error {
	if !s.bounds.Contains(pos) {
		s.log.Warnw("rejected clear: invalid position", "row", pos.Row, "col", pos.Col)
		return &InvalidPositionException{Pos: pos}
	}
	rec := s.getRecord(pos)
	if rec == nil {
		return nil
	}
	if err := rec.clear(s); err != nil {
		return err
	}
	if len(rec.dependents) == 0 {
		s.grid[pos.Row][pos.Col] = nil
	}
	s.retractPrintSize()
	s.log.Debugw("cell cleared", "pos", pos.String())
	return nil
}

// retractPrintSize shrinks the printable region after a clear. The
// two loops intentionally use mixed bounds: row retraction scans
// columns bounded by the current print_size.cols, then column
// retraction scans rows bounded by the already-retracted
// print_size.rows (SPEC_FULL.md §9, §4.4).
func (s *Sheet) retractPrintSize() {
	for s.printSize.Rows > 0 {
		row := s.printSize.Rows - 1
		live := false
		for col := 0; col < s.printSize.Cols; col++ {
			if s.grid[row][col] != nil {
				live = true
				break
			}
		}
		if live {
			break
		}
		s.printSize.Rows--
	}
	for s.printSize.Cols > 0 {
		col := s.printSize.Cols - 1
		live := false
		for row := 0; row < s.printSize.Rows; row++ {
			if s.grid[row][col] != nil {
				live = true
				break
			}
		}
		if live {
			break
		}
		s.printSize.Cols--
	}
}

// GetPrintableSize returns the current printable region.
func (s *Sheet) GetPrintableSize() position.Size {
	return s.printSize
}

// PrintValues writes each cell's value, tab-separated within a row
// and newline-terminated, over the printable region.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printGrid(w, func(rec *record) string { return rec.value(s).AsString() })
}

// PrintTexts writes each cell's raw text, tab-separated within a row
// and newline-terminated, over the printable region.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printGrid(w, func(rec *record) string { return rec.text() })
}

func (s *Sheet) printGrid(w io.Writer, render func(*record) string) error {
	for y := 0; y < s.printSize.Rows; y++ {
		for x := 0; x < s.printSize.Cols; x++ {
			if x != 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			rec := s.grid[y][x]
			if rec != nil {
				if _, err := io.WriteString(w, render(rec)); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
