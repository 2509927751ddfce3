package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NathanaelEastwood/SheetAI-sub000/contracts"
	"github.com/NathanaelEastwood/SheetAI-sub000/engine"
	"go.etcd.io/bbolt"
)

// GridSize is a number of columns and rows
type GridSize struct {
	Columns int
	Rows    int
}

func (g GridSize) Contains(coordinate engine.Coordinate) bool {
	return coordinate.Column >= 0 && coordinate.Row >= 0 && coordinate.Column < g.Columns && coordinate.Row < g.Rows
}

// SheetRepository keeps one engine per sheet in memory and the raw input of every
// non-empty cell in bbolt, one bucket per sheet. Rendered values are never stored:
// a sheet is rebuilt by replaying its cells into a fresh engine.
//
// Sheets start at initialGrid and grow on write up to maxGrid. A write also grows the
// sheet over every cell its formula references, so a reference never turns from
// out-of-grid into in-grid after the formula was evaluated.
type SheetRepository struct {
	db                *bbolt.DB
	serializer        contracts.CellSerializer
	canonicalizer     contracts.Canonicalizer
	webhookDispatcher contracts.WebhookDispatcher
	logger            *slog.Logger
	initialGrid       GridSize
	maxGrid           GridSize

	// engines are single-writer, every access goes through mutex
	mutex  sync.Mutex
	sheets map[string]*engine.Engine
}

func NewSheetRepository(
	db *bbolt.DB, serializer contracts.CellSerializer, canonicalizer contracts.Canonicalizer,
	webhookDispatcher contracts.WebhookDispatcher, logger *slog.Logger, initialGrid GridSize, maxGrid GridSize,
) *SheetRepository {
	return &SheetRepository{
		db:                db,
		serializer:        serializer,
		canonicalizer:     canonicalizer,
		webhookDispatcher: webhookDispatcher,
		logger:            logger,
		initialGrid:       initialGrid,
		maxGrid:           maxGrid,
		sheets:            map[string]*engine.Engine{},
	}
}

func (s *SheetRepository) SetCell(sheetId string, cellId string, value string) (cell *contracts.Cell, changed []*contracts.Cell, err error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)
	value = s.canonicalizer.CanonicalizeValue(value)

	coordinate, err := s.parseCellId(cellId)
	if err != nil {
		return
	}

	if err = s.checkLimits(coordinate); err != nil {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, true)
	if err != nil {
		return
	}

	s.growFor(sheet, coordinate, value)
	written, err := sheet.SetCell(coordinate, value)
	if err != nil {
		return
	}

	if err = s.persist(sheetId, sheet, written); err != nil {
		return
	}

	changed = s.makeCells(sheet, written)
	s.notify(sheetId, changed)

	return changed[0], changed, nil
}

func (s *SheetRepository) GetCell(sheetId string, cellId string) (*contracts.Cell, error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)

	coordinate, err := s.parseCellId(cellId)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, false)
	if err != nil {
		return nil, err
	}

	current, err := sheet.Cell(coordinate)
	if err != nil || current.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", cellId, contracts.CellNotFoundError)
	}

	return s.makeCell(sheet, coordinate, current), nil
}

func (s *SheetRepository) GetCellList(sheetId string) (*contracts.CellList, error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, false)
	if err != nil {
		return nil, err
	}

	cellList := contracts.CellList{}
	for coordinate, current := range sheet.Cells {
		cell := s.makeCell(sheet, coordinate, current)
		cellList[cell.Address] = cell
	}

	return &cellList, nil
}

func (s *SheetRepository) Paste(sheetId string, originCellId string, columns int, rows int, destinationCellId string) ([]*contracts.Cell, error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)

	origin, err := s.parseCellId(originCellId)
	if err != nil {
		return nil, err
	}

	destination, err := s.parseCellId(destinationCellId)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, false)
	if err != nil {
		return nil, err
	}

	block, err := sheet.Copy(origin, columns, rows)
	if err != nil {
		return nil, err
	}

	// the copied block fits the grid, so the offset below can not overflow
	if err = s.checkLimits(destination.Offset(columns-1, rows-1)); err != nil {
		return nil, err
	}

	dx := destination.Column - origin.Column
	dy := destination.Row - origin.Row
	for rowOffset, row := range block.Cells {
		for columnOffset, source := range row {
			value := source.Underlying
			if source.IsFormula() {
				value = engine.ShiftReferences(value, dx, dy)
			}
			s.growFor(sheet, destination.Offset(columnOffset, rowOffset), value)
		}
	}

	// cells pasted before a failure are committed in the engine, so they are stored too
	written, pasteErr := sheet.Paste(block, destination)
	if err = s.persist(sheetId, sheet, written); err != nil {
		return nil, errors.Join(pasteErr, err)
	}

	changed := s.makeCells(sheet, written)
	s.notify(sheetId, changed)

	return changed, pasteErr
}

func (s *SheetRepository) parseCellId(cellId string) (engine.Coordinate, error) {
	coordinate, err := engine.AddressToCoordinate(s.canonicalizer.CanonicalizeCellId(cellId))
	if err != nil {
		return coordinate, fmt.Errorf("cell_id `%s`: %w: %w", cellId, contracts.CellIdInvalidError, err)
	}
	return coordinate, nil
}

func (s *SheetRepository) checkLimits(coordinate engine.Coordinate) error {
	if !s.maxGrid.Contains(coordinate) {
		return fmt.Errorf("%s exceeds %dx%d: %w", coordinate, s.maxGrid.Columns, s.maxGrid.Rows, engine.CellOutOfBoundsError)
	}
	return nil
}

// growFor grows sheet over coordinate and over every reference of value that is within maxGrid
func (s *SheetRepository) growFor(sheet *engine.Engine, coordinate engine.Coordinate, value string) {
	sheet.EnsureContains(coordinate)

	if !engine.IsFormula(value) {
		return
	}

	root, err := engine.ParseFormula(value)
	if err != nil {
		return
	}

	for _, address := range engine.References(root) {
		reference, err := engine.AddressToCoordinate(address)
		if err == nil && s.maxGrid.Contains(reference) {
			sheet.EnsureContains(reference)
		}
	}
}

// loadSheet returns the cached engine or rebuilds it from the database
func (s *SheetRepository) loadSheet(sheetId string, create bool) (*engine.Engine, error) {
	if sheet, ok := s.sheets[sheetId]; ok {
		return sheet, nil
	}

	type storedCell struct {
		coordinate engine.Coordinate
		value      string
	}
	storedCells := make([]storedCell, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sheetId))
		if bucket == nil {
			if create {
				return nil
			}
			return fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
		}

		return bucket.ForEach(func(key []byte, data []byte) error {
			address, value, err := s.serializer.Unmarshal(data)
			if err != nil {
				s.logger.Warn("skip stored cell", "sheet", sheetId, "key", string(key), "error", err)
				return nil
			}

			coordinate, err := engine.AddressToCoordinate(address)
			if err == nil {
				err = s.checkLimits(coordinate)
			}
			if err != nil {
				s.logger.Warn("skip stored cell", "sheet", sheetId, "key", string(key), "error", err)
				return nil
			}

			storedCells = append(storedCells, storedCell{coordinate: coordinate, value: value})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sheet := engine.NewEngine(s.initialGrid.Columns, s.initialGrid.Rows, engine.WithLogger(s.logger.With("sheet", sheetId)))
	for _, stored := range storedCells {
		s.growFor(sheet, stored.coordinate, stored.value)
	}

	for _, stored := range storedCells {
		if _, err = sheet.SetCell(stored.coordinate, stored.value); err != nil {
			s.logger.Warn("skip stored cell", "sheet", sheetId, "cell", stored.coordinate.String(), "error", err)
		}
	}

	s.logger.Debug("sheet loaded", "sheet", sheetId, "cells", len(storedCells))
	s.sheets[sheetId] = sheet
	return sheet, nil
}

// persist stores raw input of the given cells. On failure the cached engine is dropped
// so the next access rebuilds it from what the database really holds.
func (s *SheetRepository) persist(sheetId string, sheet *engine.Engine, coordinates []engine.Coordinate) error {
	if len(coordinates) == 0 {
		return nil
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(sheetId))
		if err != nil {
			return err
		}

		for _, coordinate := range coordinates {
			current, err := sheet.Cell(coordinate)
			if err != nil {
				return err
			}

			address := coordinate.String()
			if current.Underlying == "" {
				err = bucket.Delete([]byte(address))
			} else {
				err = bucket.Put([]byte(address), s.serializer.Marshal(address, current.Underlying))
			}
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		delete(s.sheets, sheetId)
		s.logger.Error("persist sheet", "sheet", sheetId, "error", err)
	}

	return err
}

func (s *SheetRepository) notify(sheetId string, cells []*contracts.Cell) {
	if s.webhookDispatcher != nil && len(cells) != 0 {
		s.webhookDispatcher.Notify(sheetId, cells)
	}
}

func (s *SheetRepository) makeCells(sheet *engine.Engine, coordinates []engine.Coordinate) []*contracts.Cell {
	cells := make([]*contracts.Cell, 0, len(coordinates))
	for _, coordinate := range coordinates {
		current, _ := sheet.Cell(coordinate)
		cells = append(cells, s.makeCell(sheet, coordinate, current))
	}
	return cells
}

func (s *SheetRepository) makeCell(sheet *engine.Engine, coordinate engine.Coordinate, current engine.Cell) *contracts.Cell {
	cell := &contracts.Cell{
		Address: coordinate.String(),
		Value:   current.Underlying,
		Result:  current.Rendered,
	}

	for _, dependant := range sheet.Dependants(coordinate) {
		cell.Dependants = append(cell.Dependants, dependant.String())
	}

	return cell
}
