package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"collection_finder/internal/domain/entity"
)

const ruleWidth = 80

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}

	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteSearch выводит отчёт поиска текстом: шапка с фильтрами, затем блоки
// по сетам и слотам.
func WriteSearch(w io.Writer, r entity.SearchReport) error {
	ew := &errWriter{w: w}
	rule := strings.Repeat("=", ruleWidth)

	ew.printf("%s\n", rule)
	ew.printf("Search Results for All Configured Collections\n")

	if len(r.Filters) > 0 {
		ew.printf("Price Filters: %s\n", FormatFilters(r.Filters))
	}

	ew.printf("Sorted by price (cheapest first)\n")
	ew.printf("%s\n", WeightsLegend)
	ew.printf("%s\n", rule)

	if len(r.Sets) == 0 {
		ew.printf("\nNo collections to search\n")
	}

	for _, set := range r.Sets {
		bar := strings.Repeat("█", ruleWidth)

		ew.printf("\n%s\n  %s SET\n%s\n\n", bar, set.Set, bar)

		for _, piece := range set.Pieces {
			writePiece(ew, piece, len(r.Filters) > 0)
		}
	}

	return ew.err
}

func writePiece(ew *errWriter, p entity.PieceResult, filtered bool) {
	ew.printf("[%s]\n%s\n", strings.ToUpper(p.Piece.String()), strings.Repeat("-", ruleWidth))

	switch p.Outcome {
	case entity.OutcomeSkippedNoPiece, entity.OutcomeSkippedNoRequirements:
		ew.printf("⊘ %s\n\n", p.Reason)

		return
	case entity.OutcomeError:
		ew.printf("✗ ERROR: %s\n\n", p.Reason)

		return
	case entity.OutcomeSuccess:
	}

	if filtered {
		ew.printf("Found %d total, %d match price filters\n\n", p.Total, p.Filtered)
	} else {
		ew.printf("Found %d listing(s)\n\n", p.Total)
	}

	if len(p.Options) > 0 && p.Filtered > 0 {
		ew.printf("To find in market: %s\n\n", Criteria(p.Set, p.Piece, p.Options))
	}

	if len(p.Lots) == 0 {
		ew.printf("  No items match your price filters\n\n")

		return
	}

	for i, lot := range p.Lots {
		ew.printf("  %d. %s %s #%d%s%s%s\n", i+1, p.Set, pieceTitle(p.Piece), i+1,
			gearScore(lot.Lot), ownMarker(lot.Lot), scoreSuffix(lot.Score))
		ew.printf("     %s\n", FormatPrice(lot.Prices))
		ew.printf("     %s\n\n", source(lot.Lot))
	}
}

// WriteDebug выводит сырые цены первых лотов по каждой паре.
func WriteDebug(w io.Writer, r entity.DebugReport) error {
	ew := &errWriter{w: w}

	ew.printf("DEBUG MODE - Showing first items with raw price data\n")
	ew.printf("%s\n\n", strings.Repeat("=", ruleWidth))

	for _, pair := range r.Pairs {
		ew.printf("Set: %s, Piece: %s\n", pair.Set, pair.Piece)

		if pair.Outcome == entity.OutcomeError {
			ew.printf("Error: %s\n\n", pair.Reason)

			continue
		}

		ew.printf("Found %d items (showing first %d)\n\n", pair.Total, len(pair.Lots))

		for i, lot := range pair.Lots {
			ew.printf("--- Item %d (Lot #%s) ---\n", i+1, lot.ID)
			ew.printf("Prices array:\n")

			for _, p := range lot.Prices {
				ew.printf("  • Value: %s\n", strconv.FormatFloat(p.Value, 'f', -1, 64))
				ew.printf("    Code: '%s'\n", p.Currency.Code)
				ew.printf("    Title: '%s'\n", orNA(p.Currency.Title))
				ew.printf("    Type: '%s'\n\n", orNA(p.Currency.Type))
			}

			ew.printf("\n")
		}
	}

	return ew.err
}

func gearScore(l entity.Lot) string {
	if l.GearScore == nil || *l.GearScore == 0 {
		return ""
	}

	return " (GS: " + strconv.FormatFloat(*l.GearScore, 'f', -1, 64) + ")"
}

func ownMarker(l entity.Lot) string {
	if l.IsMine {
		return " ⭐ YOUR ITEM"
	}

	return ""
}

func scoreSuffix(score float64) string {
	if s := FormatScore(score); s != "" {
		return " " + s
	}

	return ""
}

func source(l entity.Lot) string {
	if l.Source == "" {
		return "Market"
	}

	return l.Source
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}

	return s
}
