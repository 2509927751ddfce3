package engine

import "fmt"

// TableData is a rectangular row-major grid. It only grows.
type TableData struct {
	cells   [][]Cell
	columns int
}

// Block is a rectangular snapshot of cells taken by CopyBlock
type Block struct {
	Origin Coordinate
	Cells  [][]Cell
}

func (b Block) Columns() int {
	if len(b.Cells) == 0 {
		return 0
	}
	return len(b.Cells[0])
}

func (b Block) Rows() int {
	return len(b.Cells)
}

func NewTableData(columns int, rows int) *TableData {
	table := &TableData{}
	table.Grow(columns, rows)
	return table
}

func (t *TableData) Columns() int {
	return t.columns
}

func (t *TableData) Rows() int {
	return len(t.cells)
}

func (t *TableData) Contains(c Coordinate) bool {
	return c.Column >= 0 && c.Row >= 0 && c.Column < t.columns && c.Row < len(t.cells)
}

func (t *TableData) Cell(c Coordinate) (Cell, error) {
	if !t.Contains(c) {
		return Cell{}, fmt.Errorf("%s: %w", c, CellOutOfBoundsError)
	}
	return t.cells[c.Row][c.Column], nil
}

// SetCell replaces the slot wholesale
func (t *TableData) SetCell(c Coordinate, cell Cell) error {
	if !t.Contains(c) {
		return fmt.Errorf("%s: %w", c, CellOutOfBoundsError)
	}
	t.cells[c.Row][c.Column] = cell
	return nil
}

// Grow extends the grid to at least columns x rows with empty cells, it never shrinks
func (t *TableData) Grow(columns int, rows int) {
	if columns > t.columns {
		for index := range t.cells {
			t.cells[index] = append(t.cells[index], make([]Cell, columns-t.columns)...)
		}
		t.columns = columns
	}

	for len(t.cells) < rows {
		t.cells = append(t.cells, make([]Cell, t.columns))
	}
}

func (t *TableData) EnsureContains(c Coordinate) {
	t.Grow(c.Column+1, c.Row+1)
}

// CopyBlock snapshots columns x rows cells starting at origin
func (t *TableData) CopyBlock(origin Coordinate, columns int, rows int) (Block, error) {
	if columns < 1 || rows < 1 {
		return Block{}, fmt.Errorf("block %dx%d should not be empty: %w", columns, rows, CellOutOfBoundsError)
	}

	last := origin.Offset(columns-1, rows-1)
	if !t.Contains(origin) || !t.Contains(last) {
		return Block{}, fmt.Errorf("block %s:%s: %w", origin, last, CellOutOfBoundsError)
	}

	block := Block{Origin: origin, Cells: make([][]Cell, rows)}
	for rowOffset := 0; rowOffset < rows; rowOffset++ {
		row := t.cells[origin.Row+rowOffset]
		block.Cells[rowOffset] = append([]Cell(nil), row[origin.Column:origin.Column+columns]...)
	}

	return block, nil
}

// All iterates non-empty cells in row-major order
func (t *TableData) All(yield func(Coordinate, Cell) bool) {
	for row, cells := range t.cells {
		for column, cell := range cells {
			if cell.IsEmpty() {
				continue
			}
			if !yield(Coordinate{Column: column, Row: row}, cell) {
				return
			}
		}
	}
}
