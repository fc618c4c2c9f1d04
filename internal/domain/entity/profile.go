package entity

import (
	"slices"

	"github.com/samber/lo"

	"collection_finder/internal/domain/value"
)

// Requirements опции, которые должны быть на каждом слоте сета.
type Requirements map[value.Piece][]value.OptionCode

// OptionCount число выбранных опций по всем слотам.
func (r Requirements) OptionCount() int {
	return lo.SumBy(lo.Values(r), func(codes []value.OptionCode) int {
		return len(codes)
	})
}

// ConfiguredPieces число слотов хотя бы с одной опцией.
func (r Requirements) ConfiguredPieces() int {
	return lo.CountBy(lo.Values(r), func(codes []value.OptionCode) bool {
		return len(codes) > 0
	})
}

func (r Requirements) Clone() Requirements {
	out := make(Requirements, len(r))
	for piece, codes := range r {
		out[piece] = slices.Clone(codes)
	}

	return out
}

// Profile требования для одного сета.
type Profile struct {
	Set          value.SetName
	Requirements Requirements
}

// Configuration весь сохранённый документ: сет -> требования.
type Configuration map[value.SetName]Requirements

// SetNames в отсортированном порядке.
func (c Configuration) SetNames() []value.SetName {
	names := lo.Keys(c)
	slices.Sort(names)

	return names
}

func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for set, req := range c {
		out[set] = req.Clone()
	}

	return out
}

func (c Configuration) Profiles() []Profile {
	return lo.Map(c.SetNames(), func(set value.SetName, _ int) Profile {
		return Profile{Set: set, Requirements: c[set]}
	})
}
