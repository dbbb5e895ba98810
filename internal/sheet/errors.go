package sheet

import (
	"fmt"

	"github.com/vogtb-labs/cellsheet/internal/position"
)

// InvalidPositionException reports that a supplied position lies
// outside the Sheet's addressable bounds.
type InvalidPositionException struct {
	Pos position.Position
}

func (e *InvalidPositionException) Error() string {
	return fmt.Sprintf("invalid position: row=%d col=%d", e.Pos.Row, e.Pos.Col)
}

// CircularDependencyException reports that committing a formula edit
// would introduce a cycle in the dependency graph. The edit is
// rejected and the cell is left unchanged.
type CircularDependencyException struct {
	Pos position.Position
}

func (e *CircularDependencyException) Error() string {
	return fmt.Sprintf("circular dependency detected setting %s", e.Pos.String())
}
