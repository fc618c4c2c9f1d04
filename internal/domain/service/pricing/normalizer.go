package pricing

import (
	"slices"

	"github.com/samber/lo"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
)

// Score нормализованная цена лота в условных единицах. Используется только
// для упорядочивания, это не курс обмена.
func Score(lot entity.Lot) float64 {
	if len(lot.Prices) == 0 {
		return value.NoPriceScore()
	}

	return lo.SumBy(lot.Prices, func(p entity.Price) float64 {
		return p.Value * value.NormalizeCurrencyCode(p.Currency.Code).Weight()
	})
}

// Rank считает нормализованную цену и сортирует по возрастанию; при равной
// цене сохраняется порядок выдачи.
func Rank(lots []entity.Lot) []entity.ScoredLot {
	scored := lo.Map(lots, func(lot entity.Lot, _ int) entity.ScoredLot {
		return entity.ScoredLot{Lot: lot, Score: Score(lot)}
	})

	slices.SortStableFunc(scored, func(a, b entity.ScoredLot) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		default:
			return 0
		}
	})

	return scored
}
