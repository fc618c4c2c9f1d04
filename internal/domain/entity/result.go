package entity

import (
	"collection_finder/internal/domain/value"
)

// Outcome конечное состояние пары (сет, слот).
type Outcome string

const (
	OutcomeSkippedNoPiece        Outcome = "skipped-no-piece"
	OutcomeSkippedNoRequirements Outcome = "skipped-no-requirements"
	OutcomeError                 Outcome = "error"
	OutcomeSuccess               Outcome = "success"
)

func (o Outcome) String() string {
	return string(o)
}

func (o Outcome) Skipped() bool {
	return o == OutcomeSkippedNoPiece || o == OutcomeSkippedNoRequirements
}

const (
	ReasonNoRequirements = "No requirements configured"
	ReasonNoOptions      = "No excellent options required"
	MessageNoData        = "Failed to fetch data or no data returned"
)

type ScoredLot struct {
	Lot
	Score float64
}

// PieceResult результат по одной паре (сет, слот).
type PieceResult struct {
	Set     value.SetName
	Piece   value.Piece
	Options []value.OptionCode
	Outcome Outcome
	// Reason причина пропуска или текст ошибки.
	Reason   string
	Total    int
	Filtered int
	Lots     []ScoredLot
}

type SetResults struct {
	Set    value.SetName
	Pieces []PieceResult
}

// SearchReport дерево результатов: сет -> слот -> лоты по возрастанию цены.
type SearchReport struct {
	Filters PriceFilters
	Sets    []SetResults
}

// Pairs все пары отчёта в порядке обхода.
func (r SearchReport) Pairs() []PieceResult {
	var out []PieceResult
	for _, s := range r.Sets {
		out = append(out, s.Pieces...)
	}

	return out
}

// DebugPair сырые лоты по одной паре.
type DebugPair struct {
	Set     value.SetName
	Piece   value.Piece
	Options []value.OptionCode
	Outcome Outcome
	Reason  string
	Total   int
	Lots    []Lot
}

type DebugReport struct {
	Pairs []DebugPair
}
