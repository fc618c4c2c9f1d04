package entity

import (
	"strconv"
	"strings"

	"collection_finder/internal/domain/value"
)

// PriceFilters максимальная цена по названию валюты. Строится заново для
// каждого поиска и никогда не сохраняется.
type PriceFilters map[value.CurrencyName]float64

// ParsePriceFilters разбирает ввод пользователя. Пустые, нечисловые и
// отрицательные значения, а также неизвестные валюты пропускаются.
func ParsePriceFilters(raw map[string]string) PriceFilters {
	filters := make(PriceFilters, len(raw))

	for rawName, rawValue := range raw {
		name, ok := value.ParseCurrencyName(rawName)
		if !ok {
			continue
		}

		s := strings.TrimSpace(rawValue)
		if s == "" {
			continue
		}

		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			continue
		}

		filters[name] = v
	}

	return filters
}

// ByCode пороги по кодам API.
func (f PriceFilters) ByCode() map[value.CurrencyCode]float64 {
	out := make(map[value.CurrencyCode]float64, len(f))
	for name, limit := range f {
		out[name.Code()] = limit
	}

	return out
}
