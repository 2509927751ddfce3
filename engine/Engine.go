package engine

import (
	"fmt"
	"log/slog"
)

// Engine owns a grid and the formula edges between its cells.
// It is not safe for concurrent use, callers serialize all writes.
type Engine struct {
	table  *TableData
	graph  *DependencyGraph
	logger *slog.Logger
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEngine(columns int, rows int, options ...Option) *Engine {
	e := &Engine{
		table:  NewTableData(columns, rows),
		graph:  NewDependencyGraph(),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

func (e *Engine) Columns() int {
	return e.table.Columns()
}

func (e *Engine) Rows() int {
	return e.table.Rows()
}

func (e *Engine) Grow(columns int, rows int) {
	e.table.Grow(columns, rows)
}

func (e *Engine) EnsureContains(c Coordinate) {
	e.table.EnsureContains(c)
}

func (e *Engine) Cell(c Coordinate) (Cell, error) {
	return e.table.Cell(c)
}

func (e *Engine) CellByAddress(address string) (Cell, error) {
	coordinate, err := AddressToCoordinate(address)
	if err != nil {
		return Cell{}, err
	}
	return e.table.Cell(coordinate)
}

// Cells iterates non-empty cells in row-major order
func (e *Engine) Cells(yield func(Coordinate, Cell) bool) {
	e.table.All(yield)
}

func (e *Engine) Dependants(c Coordinate) []Coordinate {
	return e.graph.Dependants(c)
}

func (e *Engine) Precedents(c Coordinate) []Coordinate {
	return e.graph.Precedents(c)
}

func (e *Engine) SetCellByAddress(address string, input string) ([]Coordinate, error) {
	coordinate, err := AddressToCoordinate(address)
	if err != nil {
		return nil, err
	}
	return e.SetCell(coordinate, input)
}

// SetCell commits input at c as a fresh edit and propagates it.
// It returns c followed by every recomputed dependant. On error the grid is left untouched.
func (e *Engine) SetCell(c Coordinate, input string) ([]Coordinate, error) {
	if !e.table.Contains(c) {
		return nil, fmt.Errorf("%s: %w", c, CellOutOfBoundsError)
	}

	cell, references, err := e.compute(c, input, nil, true)
	if err != nil {
		return nil, err
	}

	if source, found := e.graph.FindCycle(c, references); found {
		return nil, fmt.Errorf("%s references %s: %w", c, source, CircularDependencyError)
	}

	previousCell, _ := e.table.Cell(c)
	previousPrecedents := e.graph.Precedents(c)

	_ = e.table.SetCell(c, cell)
	e.graph.SetPrecedents(c, references)

	changed, err := e.Propagate(c)
	if err != nil {
		_ = e.table.SetCell(c, previousCell)
		e.graph.SetPrecedents(c, previousPrecedents)
		return nil, err
	}

	return append([]Coordinate{c}, changed...), nil
}

// Propagate recomputes every transitive dependant of c exactly once, in dependency order.
// Results are staged and written together, so a failed pass writes nothing.
func (e *Engine) Propagate(c Coordinate) ([]Coordinate, error) {
	order, err := e.graph.RecalculationOrder(c)
	if err != nil {
		e.logger.Warn("propagation aborted", "source", c.String(), "error", err)
		return nil, err
	}

	staged := make(map[Coordinate]Cell, len(order))
	values := NewCellValuesGetterChain(NewStagedValuesGetter(staged), NewTableValuesGetter(e.table))
	changed := make([]Coordinate, 0, len(order))

	for _, dependant := range order {
		current, err := e.table.Cell(dependant)
		if err != nil {
			return nil, err
		}

		if !current.IsFormula() {
			continue
		}

		cell, _, err := e.compute(dependant, current.Underlying, values, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dependant, err)
		}

		staged[dependant] = cell
		changed = append(changed, dependant)
	}

	for _, dependant := range changed {
		_ = e.table.SetCell(dependant, staged[dependant])
	}

	e.logger.Debug("propagated", "source", c.String(), "recomputed", len(changed))

	return changed, nil
}

func (e *Engine) Copy(origin Coordinate, columns int, rows int) (Block, error) {
	return e.table.CopyBlock(origin, columns, rows)
}

// Paste writes block with its top-left cell at destination, growing the grid when needed.
// Formulas have their references shifted and are committed as fresh edits, literals are
// cloned. Edges pointing at destination cells from elsewhere are kept.
// Cells are written in row-major order; on error the cells written so far stay.
func (e *Engine) Paste(block Block, destination Coordinate) ([]Coordinate, error) {
	if destination.Column < 0 || destination.Row < 0 {
		return nil, fmt.Errorf("%s: %w", destination, CellOutOfBoundsError)
	}

	changed := make([]Coordinate, 0, block.Rows()*block.Columns())
	if block.Rows() == 0 || block.Columns() == 0 {
		return changed, nil
	}

	dx := destination.Column - block.Origin.Column
	dy := destination.Row - block.Origin.Row
	e.table.EnsureContains(destination.Offset(block.Columns()-1, block.Rows()-1))

	alreadyChanged := map[Coordinate]bool{}
	for rowOffset, row := range block.Cells {
		for columnOffset, source := range row {
			target := destination.Offset(columnOffset, rowOffset)

			input := source.Underlying
			if source.IsFormula() {
				input = ShiftReferences(input, dx, dy)
			}

			written, err := e.SetCell(target, input)
			if err != nil {
				return changed, fmt.Errorf("paste to %s: %w", target, err)
			}

			for _, coordinate := range written {
				if !alreadyChanged[coordinate] {
					alreadyChanged[coordinate] = true
					changed = append(changed, coordinate)
				}
			}
		}
	}

	return changed, nil
}

func (e *Engine) compute(origin Coordinate, input string, values CellValuesGetter, fresh bool) (Cell, []Coordinate, error) {
	if !IsFormula(input) {
		return Cell{Rendered: input, Underlying: input}, nil, nil
	}

	root, err := ParseFormula(input)
	if err != nil {
		return Cell{}, nil, err
	}

	ctx := NewEvaluationContext(e.table, values, origin, fresh)
	value, err := Evaluate(root, ctx.Lookup)
	if err != nil {
		return Cell{}, nil, fmt.Errorf("%s: %w", input, err)
	}

	return Cell{Rendered: FormatNumber(value), Underlying: input}, ctx.References(), nil
}
