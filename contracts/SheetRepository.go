package contracts

import "errors"

type SheetRepository interface {
	// SetCell returns the written cell and every cell recomputed because of it
	SetCell(sheetId string, cellId string, value string) (cell *Cell, changed []*Cell, err error)
	GetCell(sheetId string, cellId string) (*Cell, error)
	GetCellList(sheetId string) (*CellList, error)
	// Paste copies columns x rows cells starting at originCellId so the block's top-left lands on destinationCellId
	Paste(sheetId string, originCellId string, columns int, rows int, destinationCellId string) (changed []*Cell, err error)
}

var SheetNotFoundError = errors.New("sheet not found")
