package entity

import "collection_finder/internal/domain/value"

type Currency struct {
	ID                 value.RemoteID
	Code               string
	Type               string
	Title              string
	IsAvailableForLots bool
}

type Price struct {
	Value    float64
	Currency Currency
}

// Lot объявление маркетплейса.
type Lot struct {
	ID                     value.RemoteID
	Source                 string
	IsMine                 bool
	Type                   string
	GearScore              *float64
	HasPendingCounterOffer bool
	Prices                 []Price
	Currencies             []Currency
}

// PriceByCode цены лота по нормализованному коду; при повторе кода побеждает
// последняя запись.
func (l Lot) PriceByCode() map[value.CurrencyCode]float64 {
	out := make(map[value.CurrencyCode]float64, len(l.Prices))
	for _, p := range l.Prices {
		out[value.NormalizeCurrencyCode(p.Currency.Code)] = p.Value
	}

	return out
}

type Pagination struct {
	Total          int
	CurrentPage    int
	NextPageExists bool
}

// LotsPage первая страница выдачи по одному запросу.
type LotsPage struct {
	Lots       []Lot
	Pagination Pagination
}
