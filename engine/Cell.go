package engine

import (
	"fmt"
	"strings"
)

const FormulaPrefix = "="

// Coordinate is a zero-based grid position
type Coordinate struct {
	Column int
	Row    int
}

func (c Coordinate) Offset(dx int, dy int) Coordinate {
	return Coordinate{Column: c.Column + dx, Row: c.Row + dy}
}

func (c Coordinate) String() string {
	if address := CoordinateToAddress(c); address != "" {
		return address
	}

	return fmt.Sprintf("(%d,%d)", c.Column, c.Row)
}

// Cell is replaced wholesale on every write. Reverse edges live in DependencyGraph.
type Cell struct {
	Rendered   string
	Underlying string
}

func (c Cell) IsFormula() bool {
	return IsFormula(c.Underlying)
}

func (c Cell) IsEmpty() bool {
	return c.Underlying == "" && c.Rendered == ""
}

func IsFormula(input string) bool {
	return strings.HasPrefix(input, FormulaPrefix)
}
