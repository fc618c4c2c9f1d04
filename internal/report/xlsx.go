package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"collection_finder/internal/domain/entity"
)

const (
	sheetLots    = "Lots"
	sheetSummary = "Summary"
)

//nolint:gochecknoglobals
var (
	lotsHeader    = []any{"Set", "Piece", "#", "Lot", "Price", "Value", "GS", "Mine", "Source", "Criteria"}
	summaryHeader = []any{"Set", "Piece", "Outcome", "Total", "Matched", "Reason"}
)

// WriteXLSX выгружает отчёт поиска в книгу из двух листов: найденные лоты и
// итог по каждой паре.
func WriteXLSX(w io.Writer, r entity.SearchReport) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", sheetLots); err != nil {
		return fmt.Errorf("f.SetSheetName: %w", err)
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("f.NewSheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("f.NewStyle: %w", err)
	}

	if err = writeRow(f, sheetLots, 1, lotsHeader); err != nil {
		return err
	}

	if err = writeRow(f, sheetSummary, 1, summaryHeader); err != nil {
		return err
	}

	lotsRow, summaryRow := 2, 2

	for _, pair := range r.Pairs() {
		if err = writeRow(f, sheetSummary, summaryRow, []any{
			pair.Set.String(), pair.Piece.String(), pair.Outcome.String(), pair.Total, pair.Filtered, pair.Reason,
		}); err != nil {
			return err
		}

		summaryRow++

		for i, lot := range pair.Lots {
			if err = writeRow(f, sheetLots, lotsRow, lotRow(pair, i, lot)); err != nil {
				return err
			}

			lotsRow++
		}
	}

	for _, sheet := range []string{sheetLots, sheetSummary} {
		if err = f.SetCellStyle(sheet, "A1", "J1", headerStyle); err != nil {
			return fmt.Errorf("f.SetCellStyle: %w", err)
		}

		if err = f.SetColWidth(sheet, "A", "B", 14); err != nil { //nolint:mnd
			return fmt.Errorf("f.SetColWidth: %w", err)
		}
	}

	if err = f.SetColWidth(sheetLots, "E", "E", 30); err != nil { //nolint:mnd
		return fmt.Errorf("f.SetColWidth: %w", err)
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write: %w", err)
	}

	return nil
}

func lotRow(pair entity.PieceResult, i int, lot entity.ScoredLot) []any {
	var score any
	if !math.IsInf(lot.Score, 1) {
		score = lot.Score
	}

	var gs any
	if lot.GearScore != nil {
		gs = *lot.GearScore
	}

	return []any{
		pair.Set.String(),
		pair.Piece.String(),
		i + 1,
		lot.ID.String(),
		FormatPrice(lot.Prices),
		score,
		gs,
		lot.IsMine,
		source(lot.Lot),
		Criteria(pair.Set, pair.Piece, pair.Options),
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("excelize.CoordinatesToCellName: %w", err)
	}

	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("f.SetSheetRow: %w", err)
	}

	return nil
}
