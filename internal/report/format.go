package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
)

const (
	NoPrice = "No price listed"
	// WeightsLegend пояснение к нормализованной цене.
	WeightsLegend = "Value calc: Life/Chaos=1.0, Creation=0.5, Bless/Soul=0.25, DC=0.125"
)

// FormatPrice цены лота через " or ", например "1,000 chaos or 5 bless".
func FormatPrice(prices []entity.Price) string {
	if len(prices) == 0 {
		return NoPrice
	}

	return strings.Join(lo.Map(prices, func(p entity.Price, _ int) string {
		return FormatNumber(p.Value) + " " + p.Currency.Code
	}), " or ")
}

// FormatNumber число с разделителями тысяч; дробная часть сохраняется как есть.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	if hasFrac {
		return sign + b.String() + "." + fracPart
	}

	return sign + b.String()
}

// Criteria строка для ручного поиска на рынке:
// "Set: Bronze | Type: helm | Options: MH+DD".
func Criteria(set value.SetName, piece value.Piece, codes []value.OptionCode) string {
	labels := lo.Map(codes, func(c value.OptionCode, _ int) string {
		return c.Short()
	})

	return "Set: " + set.String() + " | Type: " + piece.String() + " | Options: " + strings.Join(labels, "+")
}

// FormatFilters активные пороги в порядке валют, например "Chaos ≤ 150, Zen ≤ 2,000".
func FormatFilters(filters entity.PriceFilters) string {
	parts := lo.FilterMap(value.CurrencyNames(), func(name value.CurrencyName, _ int) (string, bool) {
		limit, ok := filters[name]

		return name.String() + " ≤ " + FormatNumber(math.Round(limit)), ok
	})

	return strings.Join(parts, ", ")
}

// FormatScore "[Value: 12.50]"; пусто для лота без цены.
func FormatScore(score float64) string {
	if math.IsInf(score, 1) {
		return ""
	}

	return "[Value: " + strconv.FormatFloat(score, 'f', 2, 64) + "]"
}

func pieceTitle(p value.Piece) string {
	s := p.String()
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
