package marketplace

import (
	"strings"

	"github.com/samber/lo"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
)

type lotsResponse struct {
	Data   *lotsData      `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type lotsData struct {
	Lots *lotsPage `json:"lots"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type lotsPage struct {
	Lots       []lot      `json:"Lots"`
	Pagination pagination `json:"Pagination"`
}

type lot struct {
	ID                     value.RemoteID `json:"id"`
	Source                 string         `json:"source"`
	IsMine                 bool           `json:"isMine"`
	Type                   string         `json:"type"`
	GearScore              *float64       `json:"gearScore"`
	HasPendingCounterOffer bool           `json:"hasPendingCounterOffer"`
	Prices                 []price        `json:"Prices"`
	Currencies             []currency     `json:"Currencies"`
}

type price struct {
	Value    float64  `json:"value"`
	Currency currency `json:"Currency"`
}

type currency struct {
	ID                 value.RemoteID `json:"id"`
	Code               string         `json:"code"`
	Type               string         `json:"type"`
	Title              string         `json:"title"`
	IsAvailableForLots bool           `json:"isAvailableForLots"`
}

type pagination struct {
	Total          int  `json:"total"`
	CurrentPage    int  `json:"currentPage"`
	NextPageExists bool `json:"nextPageExists"`
}

func (r lotsResponse) errorMessages() string {
	messages := lo.FilterMap(r.Errors, func(e graphQLError, _ int) (string, bool) {
		return e.Message, e.Message != ""
	})

	return strings.Join(messages, "; ")
}

func newDomainLotsPage(p lotsPage) entity.LotsPage {
	return entity.LotsPage{
		Lots: lo.Map(p.Lots, func(l lot, _ int) entity.Lot {
			return newDomainLot(l)
		}),
		Pagination: entity.Pagination{
			Total:          p.Pagination.Total,
			CurrentPage:    p.Pagination.CurrentPage,
			NextPageExists: p.Pagination.NextPageExists,
		},
	}
}

func newDomainLot(l lot) entity.Lot {
	return entity.Lot{
		ID:                     l.ID,
		Source:                 l.Source,
		IsMine:                 l.IsMine,
		Type:                   l.Type,
		GearScore:              l.GearScore,
		HasPendingCounterOffer: l.HasPendingCounterOffer,
		Prices: lo.Map(l.Prices, func(p price, _ int) entity.Price {
			return entity.Price{
				Value:    p.Value,
				Currency: newDomainCurrency(p.Currency),
			}
		}),
		Currencies: lo.Map(l.Currencies, func(c currency, _ int) entity.Currency {
			return newDomainCurrency(c)
		}),
	}
}

func newDomainCurrency(c currency) entity.Currency {
	return entity.Currency{
		ID:                 c.ID,
		Code:               c.Code,
		Type:               c.Type,
		Title:              c.Title,
		IsAvailableForLots: c.IsAvailableForLots,
	}
}
