package value

import (
	"strings"

	"collection_finder/internal/domain"
	"collection_finder/pkg/errcodes"
)

// Piece тип элемента экипировки (слот).
type Piece string

const (
	PieceHelm   Piece = "helm"
	PieceArmor  Piece = "armor"
	PiecePants  Piece = "pants"
	PieceGloves Piece = "gloves"
	PieceBoots  Piece = "boots"
)

// Pieces возвращает фиксированный порядок обхода слотов.
func Pieces() []Piece {
	return []Piece{PieceHelm, PieceArmor, PiecePants, PieceGloves, PieceBoots}
}

func ParsePiece(s string) (Piece, error) {
	p := Piece(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", domain.Errorf(errcodes.InvalidPieceType, "unknown piece type %q", s)
	}

	return p, nil
}

func (p Piece) Valid() bool {
	switch p {
	case PieceHelm, PieceArmor, PiecePants, PieceGloves, PieceBoots:
		return true
	default:
		return false
	}
}

func (p Piece) String() string {
	return string(p)
}
