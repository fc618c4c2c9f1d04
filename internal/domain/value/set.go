package value

import (
	"strings"

	"github.com/samber/lo"

	"collection_finder/internal/domain"
	"collection_finder/pkg/errcodes"
)

// SetName название сета из фиксированного каталога.
type SetName string

//nolint:gochecknoglobals
var catalog = []SetName{
	"Leather", "Pad", "Vine", "Bronze", "Silk", "Bone", "Scale", "Wind", "Violent Wind",
	"Sphinx", "Brass", "Spirit", "Plate", "Legendary", "Red Winged", "Guardian", "Dragon",
	"Light Plate", "Sacred Fire", "Ancient", "Adamantine", "Storm Crow", "Storm Zahard",
	"Black Dragon", "Demonic", "Grand Soul", "Holy Spirit", "Dark Steel", "Dark Phoenix",
	"Thunder Hawk", "Great Dragon", "Dark Soul", "Hurricane", "Red Spirit", "Dark Master",
	"Storm Blitz", "Piercing Grove", "Dragon Knight", "Vengeance", "Sylphid Ray", "Volcano",
	"Sunlight", "Succubus", "Phoenix Soul",
}

//nolint:gochecknoglobals
var (
	noGloves = []SetName{"Sacred Fire", "Storm Zahard", "Piercing Grove", "Phoenix Soul"}
	noHelm   = []SetName{"Volcano", "Hurricane", "Thunder Hawk", "Storm Crow"}
)

// Sets возвращает каталог в порядке отображения.
func Sets() []SetName {
	return append([]SetName(nil), catalog...)
}

// ParseSetName принимает название без учёта регистра и возвращает каноническое.
func ParseSetName(s string) (SetName, error) {
	trimmed := strings.TrimSpace(s)

	name, ok := lo.Find(catalog, func(n SetName) bool {
		return strings.EqualFold(string(n), trimmed)
	})
	if !ok {
		return "", domain.Errorf(errcodes.InvalidSetName, "unknown set %q", s)
	}

	return name, nil
}

func (s SetName) String() string {
	return string(s)
}

// HasPiece false для слотов, которых у сета не существует.
func (s SetName) HasPiece(p Piece) bool {
	switch p {
	case PieceGloves:
		return !lo.Contains(noGloves, s)
	case PieceHelm:
		return !lo.Contains(noHelm, s)
	default:
		return p.Valid()
	}
}

// MissingPieceReason текст пропуска для слота, которого у сета нет.
func (s SetName) MissingPieceReason(p Piece) string {
	if p == PieceHelm {
		return "This set has no helmet"
	}

	return "This set has no gloves"
}

func (s SetName) ApplicablePieces() []Piece {
	return lo.Filter(Pieces(), func(p Piece, _ int) bool {
		return s.HasPiece(p)
	})
}
