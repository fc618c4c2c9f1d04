package pricing

import (
	"github.com/samber/lo"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
)

// Matches проверяет лот по порогам цен. Классы валют проверяются по приоритету:
// jewel, затем zen, затем dc. Если у лота есть jewel-цена и пользователь задал
// хотя бы один jewel-порог, решение принимается только по jewel-ценам.
func Matches(lot entity.Lot, filters entity.PriceFilters) bool {
	if len(filters) == 0 {
		return true
	}

	if len(lot.Prices) == 0 {
		return false
	}

	limits := filters.ByCode()
	prices := lot.PriceByCode()

	lotJewels := lo.PickBy(prices, func(code value.CurrencyCode, _ float64) bool {
		return code.Class() == value.ClassJewel
	})

	hasJewelLimit := lo.SomeBy(lo.Keys(limits), func(code value.CurrencyCode) bool {
		return code.Class() == value.ClassJewel
	})

	if len(lotJewels) > 0 && hasJewelLimit {
		for code, v := range lotJewels {
			limit, ok := limits[code]
			if !ok || v > limit {
				return false
			}
		}

		return true
	}

	for _, code := range []value.CurrencyCode{value.CodeZen, value.CodeDC} {
		v, ok := prices[code]
		if !ok {
			continue
		}

		if limit, ok := limits[code]; ok {
			return v <= limit
		}
	}

	return false
}

// Filter оставляет подходящие лоты, сохраняя исходный порядок.
func Filter(lots []entity.Lot, filters entity.PriceFilters) []entity.Lot {
	return lo.Filter(lots, func(lot entity.Lot, _ int) bool {
		return Matches(lot, filters)
	})
}
