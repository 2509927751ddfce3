package main

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/NathanaelEastwood/SheetAI-sub000/contracts"
	"github.com/NathanaelEastwood/SheetAI-sub000/engine"
	"github.com/NathanaelEastwood/SheetAI-sub000/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.etcd.io/bbolt"
)

func TestSheetRepository_SetCell(t *testing.T) {
	expectedCellsMatcher := func(expectedCells ...contracts.Cell) interface{} {
		return mock.MatchedBy(func(cells []*contracts.Cell) bool {
			if len(cells) != len(expectedCells) {
				fmt.Fprintf(os.Stderr, "len(cells): %d, len(expectedCells): %d\n", len(cells), len(expectedCells))
				return false
			}

			for i, cell := range cells {
				if cell == nil {
					fmt.Fprintf(os.Stderr, "cell[%d] is nil\n", i)
					return false
				}

				if cell.Address != expectedCells[i].Address {
					fmt.Fprintf(os.Stderr, "cell.Address: %s, expectedCells[%d].Address: %s\n", cell.Address, i, expectedCells[i].Address)
					return false
				}
				if cell.Value != expectedCells[i].Value {
					fmt.Fprintf(os.Stderr, "cell.Value: %s, expectedCells[%d].Value: %s\n", cell.Value, i, expectedCells[i].Value)
					return false
				}
				if cell.Result != expectedCells[i].Result {
					fmt.Fprintf(os.Stderr, "cell.Result: %s, expectedCells[%d].Result: %s\n", cell.Result, i, expectedCells[i].Result)
					return false
				}
			}
			return true
		})
	}

	t.Run("success", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		t.Run("first_write", func(t *testing.T) {
			webhookDispatcher := mocks.NewWebhookDispatcher(t)
			webhookDispatcher.On("Notify", "sheet1", expectedCellsMatcher(contracts.Cell{
				Address: "A1",
				Value:   "5",
				Result:  "5",
			})).Return().Once()

			sheetRepository := _createSheetRepository(db, webhookDispatcher)

			cell, changed, err := sheetRepository.SetCell("Sheet1", "a1", "5")

			assert.NoError(t, err)
			assert.Len(t, changed, 1)
			assert.Equal(t, "A1", cell.Address)
			assert.Equal(t, "5", cell.Value)
			assert.Equal(t, "5", cell.Result)
		})

		t.Run("formula_and_propagation", func(t *testing.T) {
			webhookDispatcher := mocks.NewWebhookDispatcher(t)
			webhookDispatcher.On("Notify", "sheet1", expectedCellsMatcher(
				contracts.Cell{Address: "B1", Value: "=A1*2", Result: "10"},
			)).Return().Once()
			webhookDispatcher.On("Notify", "sheet1", expectedCellsMatcher(
				contracts.Cell{Address: "A1", Value: "7", Result: "7"},
				contracts.Cell{Address: "B1", Value: "=A1*2", Result: "14"},
			)).Return().Once()

			sheetRepository := _createSheetRepository(db, webhookDispatcher)

			cell, _, err := sheetRepository.SetCell("sheet1", "B1", "=a1*2")
			assert.NoError(t, err)
			assert.Equal(t, "=A1*2", cell.Value)
			assert.Equal(t, "10", cell.Result)

			cell, changed, err := sheetRepository.SetCell("sheet1", " a 1 ", "7")
			assert.NoError(t, err)
			assert.Equal(t, "7", cell.Result)
			assert.Equal(t, []string{"B1"}, cell.Dependants)
			assert.Len(t, changed, 2)
		})

		t.Run("reload_from_database", func(t *testing.T) {
			sheetRepository := _createSheetRepository(db, nil)

			cell, err := sheetRepository.GetCell("SHEET1", "b1")
			assert.NoError(t, err)
			assert.Equal(t, "=A1*2", cell.Value)
			assert.Equal(t, "14", cell.Result)

			cell, err = sheetRepository.GetCell("sheet1", "A1")
			assert.NoError(t, err)
			assert.Equal(t, []string{"B1"}, cell.Dependants)
		})
	})

	t.Run("replay_does_not_depend_on_key_order", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)
		_, _, err := sheetRepository.SetCell("sheet1", "A1", "=A10+A2")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "A2", "=A10*2")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "A10", "3")
		assert.NoError(t, err)

		reloaded := _createSheetRepository(db, nil)
		cell, err := reloaded.GetCell("sheet1", "A1")
		assert.NoError(t, err)
		assert.Equal(t, "9", cell.Result)
	})

	t.Run("literal_text_kept_as_typed", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		cell, _, err := sheetRepository.SetCell("sheet1", "A1", "hello World")
		assert.NoError(t, err)
		assert.Equal(t, "hello World", cell.Value)
		assert.Equal(t, "hello World", cell.Result)

		cell, _, err = sheetRepository.SetCell("sheet1", "B1", "=A1+1")
		assert.NoError(t, err)
		assert.Equal(t, "1", cell.Result)
	})

	t.Run("clear_cell", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, _, err := sheetRepository.SetCell("sheet1", "A1", "5")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "B1", "=A1")
		assert.NoError(t, err)

		_, changed, err := sheetRepository.SetCell("sheet1", "A1", "")
		assert.NoError(t, err)
		assert.Len(t, changed, 2)
		assert.Equal(t, "0", changed[1].Result)

		reloaded := _createSheetRepository(db, nil)
		_, err = reloaded.GetCell("sheet1", "A1")
		assert.ErrorIs(t, err, contracts.CellNotFoundError)
	})

	t.Run("invalid_cell_id", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		for _, cellId := range []string{"1A", "A0", "", "A-1", "Ä1"} {
			cell, changed, err := sheetRepository.SetCell("sheet1", cellId, "5")

			assert.Nil(t, cell)
			assert.Nil(t, changed)
			assert.ErrorIs(t, err, contracts.CellIdInvalidError, cellId)
			assert.ErrorIs(t, err, engine.InvalidAddressError, cellId)
		}
	})

	t.Run("rejected_formula_is_not_stored", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, _, err := sheetRepository.SetCell("sheet1", "A1", "=B1")
		assert.NoError(t, err)

		expectedErrors := map[string]error{
			"=A1":    engine.CircularDependencyError,
			"=(1+2":  engine.UnmatchedOpeningParenthesisError,
			"=1+2)":  engine.UnmatchedClosingParenthesisError,
			"=1+":    engine.MalformedExpressionError,
			"=1%2":   engine.UnknownOperatorError,
			"=B1+A1": engine.CircularDependencyError,
		}

		for value, expectedErr := range expectedErrors {
			cell, _, err := sheetRepository.SetCell("sheet1", "B1", value)

			assert.Nil(t, cell, value)
			assert.ErrorIs(t, err, expectedErr, value)
			assert.ErrorIs(t, err, engine.ExpressionError, value)
		}

		_, err = sheetRepository.GetCell("sheet1", "B1")
		assert.ErrorIs(t, err, contracts.CellNotFoundError)

		reloaded := _createSheetRepository(db, nil)
		_, err = reloaded.GetCell("sheet1", "B1")
		assert.ErrorIs(t, err, contracts.CellNotFoundError)
	})

	t.Run("grid_grows_on_write", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepositoryWithGrid(db, GridSize{Columns: 2, Rows: 2}, GridSize{Columns: 26, Rows: 100})

		_, _, err := sheetRepository.SetCell("sheet1", "E10", "3")
		assert.NoError(t, err)

		cell, _, err := sheetRepository.SetCell("sheet1", "A1", "=E10*2")
		assert.NoError(t, err)
		assert.Equal(t, "6", cell.Result)

		reloaded := _createSheetRepositoryWithGrid(db, GridSize{Columns: 2, Rows: 2}, GridSize{Columns: 26, Rows: 100})
		cell, err = reloaded.GetCell("sheet1", "A1")
		assert.NoError(t, err)
		assert.Equal(t, "6", cell.Result)
	})

	t.Run("grid_grows_over_formula_references", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		cell, _, err := sheetRepository.SetCell("sheet1", "A1", "=AA1*2")
		assert.NoError(t, err)
		assert.Equal(t, "0", cell.Result)

		_, changed, err := sheetRepository.SetCell("sheet1", "AA1", "5")
		assert.NoError(t, err)
		assert.Len(t, changed, 2)

		live, err := sheetRepository.GetCell("sheet1", "A1")
		assert.NoError(t, err)
		assert.Equal(t, "10", live.Result)

		reloaded, err := _createSheetRepository(db, nil).GetCell("sheet1", "A1")
		assert.NoError(t, err)
		assert.Equal(t, live.Result, reloaded.Result)
	})

	t.Run("cell_beyond_max_grid", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, _, err := sheetRepository.SetCell("sheet1", "A1", "1")
		assert.NoError(t, err)

		for _, cellId := range []string{"A2000000000", "A10001", "IW1", "ZZZZZZ1"} {
			cell, changed, err := sheetRepository.SetCell("sheet1", cellId, "1")

			assert.Nil(t, cell, cellId)
			assert.Nil(t, changed, cellId)
			assert.ErrorIs(t, err, engine.CellOutOfBoundsError, cellId)
		}

		// references beyond the limit read as 0 and do not grow the grid
		cell, _, err := sheetRepository.SetCell("sheet1", "B1", "=A2000000000+A1")
		assert.NoError(t, err)
		assert.Equal(t, "1", cell.Result)

		sheet := sheetRepository.sheets["sheet1"]
		assert.Equal(t, DefaultGridColumns, sheet.Columns())
		assert.Equal(t, DefaultGridRows, sheet.Rows())
	})

	t.Run("stored_cells_beyond_max_grid_are_skipped", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		large := _createSheetRepositoryWithGrid(db, GridSize{Columns: 2, Rows: 2}, GridSize{Columns: 10, Rows: 10})
		_, _, err := large.SetCell("sheet1", "A1", "=J10")
		assert.NoError(t, err)
		_, _, err = large.SetCell("sheet1", "J10", "4")
		assert.NoError(t, err)

		small := _createSheetRepositoryWithGrid(db, GridSize{Columns: 2, Rows: 2}, GridSize{Columns: 5, Rows: 5})

		cell, err := small.GetCell("sheet1", "A1")
		assert.NoError(t, err)
		assert.Equal(t, "0", cell.Result)

		_, err = small.GetCell("sheet1", "J10")
		assert.ErrorIs(t, err, contracts.CellNotFoundError)
		assert.Equal(t, 2, small.sheets["sheet1"].Columns())
	})

	t.Run("database_error", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, _, err := sheetRepository.SetCell("sheet1", "A1", "5")
		assert.NoError(t, err)

		assert.NoError(t, db.Close())

		cell, changed, err := sheetRepository.SetCell("sheet1", "A1", "6")
		assert.Error(t, err)
		assert.Nil(t, cell)
		assert.Nil(t, changed)
		assert.NotContains(t, sheetRepository.sheets, "sheet1")
	})
}

func TestSheetRepository_GetCell(t *testing.T) {
	db, dbClose := _createTmpDb()
	defer dbClose()

	sheetRepository := _createSheetRepository(db, nil)
	_, _, err := sheetRepository.SetCell("sheet1", "A1", "5")
	assert.NoError(t, err)

	t.Run("sheet_not_found", func(t *testing.T) {
		cell, err := sheetRepository.GetCell("unknown", "A1")

		assert.Nil(t, cell)
		assert.ErrorIs(t, err, contracts.SheetNotFoundError)
	})

	t.Run("empty_cell", func(t *testing.T) {
		cell, err := sheetRepository.GetCell("sheet1", "C9")

		assert.Nil(t, cell)
		assert.ErrorIs(t, err, contracts.CellNotFoundError)
	})

	t.Run("outside_of_grid", func(t *testing.T) {
		cell, err := sheetRepository.GetCell("sheet1", "ZZ1000")

		assert.Nil(t, cell)
		assert.ErrorIs(t, err, contracts.CellNotFoundError)
	})

	t.Run("invalid_cell_id", func(t *testing.T) {
		cell, err := sheetRepository.GetCell("sheet1", "A")

		assert.Nil(t, cell)
		assert.ErrorIs(t, err, contracts.CellIdInvalidError)
	})
}

func TestSheetRepository_GetCellList(t *testing.T) {
	db, dbClose := _createTmpDb()
	defer dbClose()

	sheetRepository := _createSheetRepository(db, nil)

	t.Run("sheet_not_found", func(t *testing.T) {
		list, err := sheetRepository.GetCellList("sheet1")

		assert.Nil(t, list)
		assert.ErrorIs(t, err, contracts.SheetNotFoundError)
	})

	t.Run("success", func(t *testing.T) {
		_, _, err := sheetRepository.SetCell("sheet1", "A1", "5")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "B2", "=A1/2")
		assert.NoError(t, err)

		list, err := sheetRepository.GetCellList("sheet1")

		assert.NoError(t, err)
		assert.Len(t, *list, 2)
		assert.Equal(t, "5", (*list)["A1"].Result)
		assert.Equal(t, "2.5", (*list)["B2"].Result)
		assert.Equal(t, "=A1/2", (*list)["B2"].Value)
	})
}

func TestSheetRepository_Paste(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		webhookDispatcher := mocks.NewWebhookDispatcher(t)
		webhookDispatcher.On("Notify", "sheet1", mock.Anything).Return()

		sheetRepository := _createSheetRepository(db, webhookDispatcher)

		_, _, err := sheetRepository.SetCell("sheet1", "C3", "4")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "B2", "=A1+1")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "C2", "7")
		assert.NoError(t, err)

		changed, err := sheetRepository.Paste("sheet1", "b2", 2, 1, "d4")

		assert.NoError(t, err)
		assert.Len(t, changed, 2)
		assert.Equal(t, "D4", changed[0].Address)
		assert.Equal(t, "=C3+1", changed[0].Value)
		assert.Equal(t, "5", changed[0].Result)
		assert.Equal(t, "E4", changed[1].Address)
		assert.Equal(t, "7", changed[1].Value)

		reloaded := _createSheetRepository(db, nil)
		cell, err := reloaded.GetCell("sheet1", "D4")
		assert.NoError(t, err)
		assert.Equal(t, "=C3+1", cell.Value)
		assert.Equal(t, "5", cell.Result)
	})

	t.Run("sheet_not_found", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		changed, err := sheetRepository.Paste("sheet1", "A1", 1, 1, "B1")

		assert.Nil(t, changed)
		assert.ErrorIs(t, err, contracts.SheetNotFoundError)
	})

	t.Run("invalid_cell_id", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, err := sheetRepository.Paste("sheet1", "1A", 1, 1, "B1")
		assert.ErrorIs(t, err, contracts.CellIdInvalidError)

		_, err = sheetRepository.Paste("sheet1", "A1", 1, 1, "B0")
		assert.ErrorIs(t, err, contracts.CellIdInvalidError)
	})

	t.Run("shifted_references_grow_the_grid", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, _, err := sheetRepository.SetCell("sheet1", "B1", "=C1")
		assert.NoError(t, err)

		changed, err := sheetRepository.Paste("sheet1", "B1", 1, 1, "Z1")
		assert.NoError(t, err)
		assert.Equal(t, "=AA1", changed[0].Value)

		_, _, err = sheetRepository.SetCell("sheet1", "AA1", "4")
		assert.NoError(t, err)

		live, err := sheetRepository.GetCell("sheet1", "Z1")
		assert.NoError(t, err)
		assert.Equal(t, "4", live.Result)

		reloaded, err := _createSheetRepository(db, nil).GetCell("sheet1", "Z1")
		assert.NoError(t, err)
		assert.Equal(t, live.Result, reloaded.Result)
	})

	t.Run("destination_beyond_max_grid", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)
		_, _, err := sheetRepository.SetCell("sheet1", "A1", "1")
		assert.NoError(t, err)

		for _, destination := range []string{"A2000000000", "IV10000", "A10000"} {
			changed, err := sheetRepository.Paste("sheet1", "A1", 2, 2, destination)

			assert.Nil(t, changed, destination)
			assert.ErrorIs(t, err, engine.CellOutOfBoundsError, destination)
		}

		sheet := sheetRepository.sheets["sheet1"]
		assert.Equal(t, DefaultGridColumns, sheet.Columns())
		assert.Equal(t, DefaultGridRows, sheet.Rows())
	})

	t.Run("block_outside_of_grid", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)
		_, _, err := sheetRepository.SetCell("sheet1", "A1", "1")
		assert.NoError(t, err)

		_, err = sheetRepository.Paste("sheet1", "A1", 1000, 1, "B1")
		assert.ErrorIs(t, err, engine.CellOutOfBoundsError)
	})

	t.Run("stops_on_circular_dependency", func(t *testing.T) {
		db, dbClose := _createTmpDb()
		defer dbClose()

		sheetRepository := _createSheetRepository(db, nil)

		_, _, err := sheetRepository.SetCell("sheet1", "A2", "=A1")
		assert.NoError(t, err)
		_, _, err = sheetRepository.SetCell("sheet1", "B1", "=B2")
		assert.NoError(t, err)

		// pasted A2 becomes =B1 in B2 while B1 reads B2

		changed, err := sheetRepository.Paste("sheet1", "A2", 1, 1, "B2")

		assert.ErrorIs(t, err, engine.CircularDependencyError)
		assert.Empty(t, changed)

		_, err = sheetRepository.GetCell("sheet1", "B2")
		assert.ErrorIs(t, err, contracts.CellNotFoundError)
	})
}

func _createSheetRepository(db *bbolt.DB, webhookDispatcher contracts.WebhookDispatcher) *SheetRepository {
	return NewSheetRepository(
		db, NewCellBinarySerializer(), NewCanonicalizer(), webhookDispatcher, slog.New(slog.DiscardHandler),
		GridSize{Columns: DefaultGridColumns, Rows: DefaultGridRows},
		GridSize{Columns: DefaultMaxGridColumns, Rows: DefaultMaxGridRows},
	)
}

func _createSheetRepositoryWithGrid(db *bbolt.DB, initialGrid GridSize, maxGrid GridSize) *SheetRepository {
	return NewSheetRepository(
		db, NewCellBinarySerializer(), NewCanonicalizer(), nil, slog.New(slog.DiscardHandler), initialGrid, maxGrid,
	)
}

func _createTmpDb() (*bbolt.DB, func()) {
	f, _ := os.CreateTemp("", "db_*.db")
	os.Remove(f.Name())

	db, dbErr := bbolt.Open(f.Name(), 0600, nil)
	if dbErr != nil {
		panic(dbErr)
	}

	return db, func() {
		db.Close()
		os.Remove(f.Name())
	}
}
