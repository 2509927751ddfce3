package engine

import "fmt"

// EvaluationContext carries what a formula's lookups need to know about where they run.
// A fresh edit records every in-bounds reference so the caller can commit them as edges,
// a cascade recompute records nothing.
type EvaluationContext struct {
	Origin Coordinate
	Fresh  bool

	table      *TableData
	values     CellValuesGetter
	references []Coordinate
}

func NewEvaluationContext(table *TableData, values CellValuesGetter, origin Coordinate, fresh bool) *EvaluationContext {
	if values == nil {
		values = NewTableValuesGetter(table)
	}

	return &EvaluationContext{
		Origin: origin,
		Fresh:  fresh,
		table:  table,
		values: values,
	}
}

func (ctx *EvaluationContext) Lookup(address string) (float64, error) {
	coordinate, err := AddressToCoordinate(address)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", UnresolvedReferenceError, err)
	}

	if !ctx.table.Contains(coordinate) {
		return 0, fmt.Errorf("%s: %w", address, UnresolvedReferenceError)
	}

	if ctx.Fresh {
		ctx.references = append(ctx.references, coordinate)
	}

	cell, _ := ctx.values(coordinate)
	return ParseNumber(cell.Rendered), nil
}

// References returns the coordinates recorded by a fresh evaluation, repeats included
func (ctx *EvaluationContext) References() []Coordinate {
	return ctx.references
}
