package profilestore

import (
	"slices"

	"github.com/samber/lo"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/errcodes"
)

// Validate проверяет требования к сету и возвращает нормализованную копию:
// без пустых слотов, без повторов, коды в порядке каталога.
func Validate(set value.SetName, requirements entity.Requirements) (entity.Requirements, error) {
	if _, err := value.ParseSetName(set.String()); err != nil {
		return nil, err //nolint:wrapcheck
	}

	normalized := make(entity.Requirements, len(requirements))

	for piece, codes := range requirements {
		if !piece.Valid() {
			return nil, domain.Errorf(errcodes.InvalidPieceType, "unknown piece type %q", piece)
		}

		for _, code := range codes {
			if _, err := value.ParseOptionCode(code.String()); err != nil {
				return nil, err //nolint:wrapcheck
			}
		}

		codes = lo.Uniq(codes)
		if len(codes) == 0 {
			continue
		}

		if !set.HasPiece(piece) {
			return nil, domain.Errorf(errcodes.PieceNotApplicable, "%s: %s", set, set.MissingPieceReason(piece))
		}

		slices.SortFunc(codes, value.CompareOptionCodes)
		normalized[piece] = codes
	}

	if normalized.OptionCount() == 0 {
		return nil, domain.Errorf(errcodes.NoOptionsSelected, "%s: select at least one excellent option", set)
	}

	return normalized, nil
}
