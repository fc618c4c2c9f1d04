package server

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/report"
	"collection_finder/internal/worker"
	"collection_finder/pkg/lox"
	"collection_finder/pkg/rest"
)

func newRESTCatalog() rest.Catalog {
	return rest.Catalog{
		Sets: lox.Map(value.Sets(), func(set value.SetName) rest.CatalogSet {
			return rest.CatalogSet{
				Name:   set.String(),
				Pieces: lox.Map(set.ApplicablePieces(), value.Piece.String),
			}
		}),
		Pieces: lox.Map(value.Pieces(), value.Piece.String),
		Options: lox.Map(value.OptionCodes(), func(code value.OptionCode) rest.CatalogOption {
			return rest.CatalogOption{
				Code:  code.String(),
				Short: code.Short(),
				Label: code.Label(),
			}
		}),
		Currencies: lox.Map(value.CurrencyNames(), func(name value.CurrencyName) rest.CatalogCurrency {
			return rest.CatalogCurrency{
				Name:   name.String(),
				Code:   name.Code().String(),
				Weight: name.Code().Weight(),
			}
		}),
	}
}

func newRESTProfile(profile entity.Profile) rest.Profile {
	return rest.Profile{
		Set: profile.Set.String(),
		Requirements: lo.MapEntries(profile.Requirements,
			func(piece value.Piece, codes []value.OptionCode) (string, []string) {
				return piece.String(), lox.Map(codes, value.OptionCode.String)
			},
		),
		ConfiguredPieces: profile.Requirements.ConfiguredPieces(),
		TotalPieces:      len(profile.Set.ApplicablePieces()),
	}
}

func newDomainRequirements(raw map[string][]string) (entity.Requirements, error) {
	requirements := make(entity.Requirements, len(raw))

	for rawPiece, rawCodes := range raw {
		piece, err := value.ParsePiece(rawPiece)
		if err != nil {
			return nil, fmt.Errorf("value.ParsePiece: %w", err)
		}

		codes, err := lox.MapErr(rawCodes, value.ParseOptionCode)
		if err != nil {
			return nil, fmt.Errorf("value.ParseOptionCode: %w", err)
		}

		requirements[piece] = codes
	}

	return requirements, nil
}

func newRESTRun(run worker.Run) rest.Run {
	out := rest.Run{
		ID:     run.ID,
		Kind:   run.Kind.String(),
		Set:    run.Set.String(),
		Status: run.Status.String(),
		Error:  run.Error,
		Progress: rest.Progress{
			Done:  run.Progress.Done,
			Total: run.Progress.Total,
			Set:   run.Progress.Set.String(),
			Piece: run.Progress.Piece.String(),
		},
		StartedAt: run.StartedAt,
	}

	if !run.FinishedAt.IsZero() {
		out.FinishedAt = &run.FinishedAt
	}

	if run.Search != nil {
		out.Search = lo.ToPtr(newRESTSearchReport(*run.Search))
	}

	if run.Debug != nil {
		out.Debug = lo.ToPtr(newRESTDebugReport(*run.Debug))
	}

	return out
}

func newRESTSearchReport(r entity.SearchReport) rest.SearchReport {
	return rest.SearchReport{
		Filters: lo.MapKeys(r.Filters, func(_ float64, name value.CurrencyName) string {
			return name.String()
		}),
		Sets: lox.Map(r.Sets, func(set entity.SetResults) rest.SetResult {
			return rest.SetResult{
				Set:    set.Set.String(),
				Pieces: lox.Map(set.Pieces, newRESTPieceResult),
			}
		}),
	}
}

func newRESTPieceResult(p entity.PieceResult) rest.PieceResult {
	out := rest.PieceResult{
		Piece:    p.Piece.String(),
		Outcome:  p.Outcome.String(),
		Reason:   p.Reason,
		Options:  lox.Map(p.Options, value.OptionCode.String),
		Total:    p.Total,
		Filtered: p.Filtered,
		Lots: lox.Map(p.Lots, func(l entity.ScoredLot) rest.Lot {
			lot := newRESTLot(l.Lot)
			if !math.IsInf(l.Score, 0) {
				lot.Score = lo.ToPtr(l.Score)
			}

			return lot
		}),
	}

	if len(p.Options) > 0 {
		out.Criteria = report.Criteria(p.Set, p.Piece, p.Options)
	}

	return out
}

func newRESTDebugReport(r entity.DebugReport) rest.DebugReport {
	return rest.DebugReport{
		Pairs: lox.Map(r.Pairs, func(p entity.DebugPair) rest.DebugPair {
			return rest.DebugPair{
				Set:     p.Set.String(),
				Piece:   p.Piece.String(),
				Options: lox.Map(p.Options, value.OptionCode.String),
				Outcome: p.Outcome.String(),
				Reason:  p.Reason,
				Total:   p.Total,
				Lots:    lox.Map(p.Lots, newRESTLot),
			}
		}),
	}
}

func newRESTLot(l entity.Lot) rest.Lot {
	return rest.Lot{
		ID:                     l.ID.String(),
		Source:                 l.Source,
		IsMine:                 l.IsMine,
		Type:                   l.Type,
		GearScore:              l.GearScore,
		HasPendingCounterOffer: l.HasPendingCounterOffer,
		Prices: lox.Map(l.Prices, func(p entity.Price) rest.Price {
			return rest.Price{
				Value: p.Value,
				Code:  p.Currency.Code,
				Title: p.Currency.Title,
				Type:  p.Currency.Type,
			}
		}),
		PriceText: report.FormatPrice(l.Prices),
	}
}
