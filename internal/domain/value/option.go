package value

import (
	"strings"

	"collection_finder/internal/domain"
	"collection_finder/pkg/errcodes"
)

// OptionCode код excellent-опции в фильтре маркетплейса.
type OptionCode string

const (
	OptionMaxLife    OptionCode = "iml"
	OptionMaxSD      OptionCode = "imsd"
	OptionDmgDecr    OptionCode = "dd"
	OptionReflect    OptionCode = "rd"
	OptionDefSuccess OptionCode = "dsr"
	OptionZenDrop    OptionCode = "izdr"
)

// ExcellentLevels любой уровень опции подходит, лишь бы она была на предмете.
var ExcellentLevels = []int{0, 1, 2, 3, 4} //nolint:gochecknoglobals

type optionInfo struct {
	short string
	label string
}

//nolint:gochecknoglobals
var options = map[OptionCode]optionInfo{
	OptionMaxLife:    {short: "MH", label: "Increase maximum life"},
	OptionMaxSD:      {short: "SD", label: "Increase maximum SD"},
	OptionDmgDecr:    {short: "DD", label: "Damage decrease"},
	OptionReflect:    {short: "REF", label: "Reflect Damage"},
	OptionDefSuccess: {short: "DSR", label: "Defense success rate"},
	OptionZenDrop:    {short: "ZEN", label: "Increase Zen drop rate"},
}

// OptionCodes в порядке отображения.
func OptionCodes() []OptionCode {
	return []OptionCode{
		OptionMaxLife, OptionMaxSD, OptionDmgDecr, OptionReflect, OptionDefSuccess, OptionZenDrop,
	}
}

func ParseOptionCode(s string) (OptionCode, error) {
	c := OptionCode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := options[c]; !ok {
		return "", domain.Errorf(errcodes.InvalidOptionCode, "unknown option code %q", s)
	}

	return c, nil
}

func (c OptionCode) String() string {
	return string(c)
}

// Short короткая метка, как в интерфейсе рынка (MH, SD...).
func (c OptionCode) Short() string {
	return options[c].short
}

func (c OptionCode) Label() string {
	return options[c].label
}

// rank позиция в каталоге, используется для стабильной сортировки.
func (c OptionCode) rank() int {
	for i, code := range OptionCodes() {
		if code == c {
			return i
		}
	}

	return len(options)
}

// CompareOptionCodes упорядочивает коды по каталогу.
func CompareOptionCodes(a, b OptionCode) int {
	return a.rank() - b.rank()
}
