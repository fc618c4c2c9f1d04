package value_test

import (
	"math"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

func TestCatalog(t *testing.T) {
	rq := require.New(t)

	rq.Len(value.Sets(), 44)
	rq.Equal(value.SetName("Leather"), value.Sets()[0])
	rq.Equal(value.SetName("Phoenix Soul"), value.Sets()[43])

	testCases := []struct {
		name    string
		set     value.SetName
		missing []value.Piece
	}{
		{name: "Full set", set: "Bronze"},
		{name: "No gloves", set: "Sacred Fire", missing: []value.Piece{value.PieceGloves}},
		{name: "No gloves (Phoenix Soul)", set: "Phoenix Soul", missing: []value.Piece{value.PieceGloves}},
		{name: "No helm", set: "Volcano", missing: []value.Piece{value.PieceHelm}},
		{name: "No helm (Storm Crow)", set: "Storm Crow", missing: []value.Piece{value.PieceHelm}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			applicable := tc.set.ApplicablePieces()
			rq.Len(applicable, len(value.Pieces())-len(tc.missing))

			for _, p := range tc.missing {
				rq.False(tc.set.HasPiece(p))
				rq.NotContains(applicable, p)
			}
		})
	}

	rq.Equal("This set has no gloves", value.SetName("Sacred Fire").MissingPieceReason(value.PieceGloves))
	rq.Equal("This set has no helmet", value.SetName("Volcano").MissingPieceReason(value.PieceHelm))
}

func TestParse(t *testing.T) {
	rq := require.New(t)

	set, err := value.ParseSetName("  dark phoenix ")
	rq.NoError(err)
	rq.Equal(value.SetName("Dark Phoenix"), set)

	_, err = value.ParseSetName("Mythril")
	rq.True(domain.HasCode(err, errcodes.InvalidSetName))

	piece, err := value.ParsePiece("Gloves")
	rq.NoError(err)
	rq.Equal(value.PieceGloves, piece)

	_, err = value.ParsePiece("shield")
	rq.True(domain.HasCode(err, errcodes.InvalidPieceType))

	code, err := value.ParseOptionCode("IMSD")
	rq.NoError(err)
	rq.Equal(value.OptionMaxSD, code)
	rq.Equal("SD", code.Short())
	rq.Equal("Increase maximum SD", code.Label())

	_, err = value.ParseOptionCode("crit")
	rq.True(domain.HasCode(err, errcodes.InvalidOptionCode))

	rq.Negative(value.CompareOptionCodes(value.OptionMaxLife, value.OptionZenDrop))
}

func TestCurrency(t *testing.T) {
	rq := require.New(t)

	expected := map[value.CurrencyName]value.CurrencyCode{
		"Bless": "bless", "Soul": "soul", "Life": "life", "Chaos": "chaos",
		"Creation": "creat", "Zen": "zen", "DC": "dc",
	}

	for name, code := range expected {
		rq.Equal(code, name.Code())
	}

	name, ok := value.ParseCurrencyName("creation")
	rq.True(ok)
	rq.Equal(value.CurrencyCreation, name)

	_, ok = value.ParseCurrencyName("Gold")
	rq.False(ok)

	rq.Equal(value.ClassJewel, value.NormalizeCurrencyCode(" CHAOS ").Class())
	rq.Equal(value.ClassSoft, value.CodeZen.Class())
	rq.Equal(value.ClassPremium, value.CodeDC.Class())
	rq.Equal(value.ClassUnknown, value.CurrencyCode("gold").Class())

	rq.InDelta(0.125, value.CodeDC.Weight(), 0)
	rq.InDelta(0.0, value.CurrencyCode("gold").Weight(), 0)
	rq.True(math.IsInf(value.NoPriceScore(), 1))
}

func TestRemoteID(t *testing.T) {
	rq := require.New(t)

	var ids []value.RemoteID

	rq.NoError(json.Unmarshal([]byte(`["lot-1", 42, null]`), &ids))
	rq.Equal([]value.RemoteID{"lot-1", "42", ""}, ids)

	b, err := json.Marshal(value.RemoteID("42"))
	rq.NoError(err)
	rq.JSONEq(`"42"`, string(b))
}
