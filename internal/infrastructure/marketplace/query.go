package marketplace

import (
	"slices"

	"collection_finder/internal/domain/value"
)

const (
	operationName = "GET_ALL_LOTS"
	pageLimit     = 50
	sortField     = "LOT_FIELD_UPDATED_AT"
	sortType      = "SORT_TYPE_DESC"
)

const lotsQuery = `query GET_ALL_LOTS($offset: NonNegativeInt, $limit: NonNegativeInt, $sort: LotsSortInput, $filter: LotsFilterInput) {
  lots(limit: $limit, offset: $offset, sort: $sort, filter: $filter) {
    Lots {
      id
      source
      isMine
      type
      gearScore
      hasPendingCounterOffer
      Prices {
        value
        Currency {
          id
          code
          type
          title
          __typename
        }
        __typename
      }
      Currencies {
        id
        code
        type
        title
        isAvailableForLots
        __typename
      }
      __typename
    }
    Pagination {
      total
      currentPage
      nextPageExists
      __typename
    }
    __typename
  }
}`

// Request тело GraphQL-запроса к маркетплейсу.
type Request struct {
	OperationName string    `json:"operationName"`
	Query         string    `json:"query"`
	Variables     Variables `json:"variables"`
}

type Variables struct {
	// Filter содержит name, type и по ключу на каждый код опции.
	Filter map[string]any `json:"filter"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Sort   Sort           `json:"sort"`
}

type Sort struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

// BuildLotsQuery собирает запрос первой страницы лотов для пары (сет, слот).
// Каждая опция допускается на любом уровне. Функция чистая.
func BuildLotsQuery(set value.SetName, piece value.Piece, codes []value.OptionCode) Request {
	filter := make(map[string]any, len(codes)+2) //nolint:mnd

	for _, code := range codes {
		filter[code.String()] = slices.Clone(value.ExcellentLevels)
	}

	filter["name"] = set.String()
	filter["type"] = []string{piece.String()}

	return Request{
		OperationName: operationName,
		Query:         lotsQuery,
		Variables: Variables{
			Filter: filter,
			Limit:  pageLimit,
			Offset: 0,
			Sort: Sort{
				Field: sortField,
				Type:  sortType,
			},
		},
	}
}
