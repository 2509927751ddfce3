package engine

// CellValuesGetter returns the current value of a cell, ok is false when the getter doesn't know it
type CellValuesGetter func(c Coordinate) (cell Cell, ok bool)

// NewCellValuesGetterChain asks first and falls back to second
func NewCellValuesGetterChain(first CellValuesGetter, second CellValuesGetter) CellValuesGetter {
	if second == nil {
		return first
	}

	if first == nil {
		return second
	}

	return func(c Coordinate) (Cell, bool) {
		if cell, ok := first(c); ok {
			return cell, true
		}
		return second(c)
	}
}

func NewStagedValuesGetter(staged map[Coordinate]Cell) CellValuesGetter {
	return func(c Coordinate) (Cell, bool) {
		cell, ok := staged[c]
		return cell, ok
	}
}

func NewTableValuesGetter(table *TableData) CellValuesGetter {
	return func(c Coordinate) (Cell, bool) {
		cell, err := table.Cell(c)
		return cell, err == nil
	}
}
