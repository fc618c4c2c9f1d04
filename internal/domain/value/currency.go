package value

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// CurrencyName пользовательское название валюты в фильтре цены.
type CurrencyName string

const (
	CurrencyBless    CurrencyName = "Bless"
	CurrencySoul     CurrencyName = "Soul"
	CurrencyLife     CurrencyName = "Life"
	CurrencyChaos    CurrencyName = "Chaos"
	CurrencyCreation CurrencyName = "Creation"
	CurrencyZen      CurrencyName = "Zen"
	CurrencyDC       CurrencyName = "DC"
)

// CurrencyCode код валюты в API маркетплейса (всегда в нижнем регистре).
type CurrencyCode string

const (
	CodeBless CurrencyCode = "bless"
	CodeSoul  CurrencyCode = "soul"
	CodeLife  CurrencyCode = "life"
	CodeChaos CurrencyCode = "chaos"
	CodeCreat CurrencyCode = "creat"
	CodeZen   CurrencyCode = "zen"
	CodeDC    CurrencyCode = "dc"
)

type CurrencyClass int

const (
	ClassUnknown CurrencyClass = iota
	ClassJewel
	ClassSoft
	ClassPremium
)

//nolint:gochecknoglobals
var (
	currencyCodes = map[CurrencyName]CurrencyCode{
		CurrencyBless:    CodeBless,
		CurrencySoul:     CodeSoul,
		CurrencyLife:     CodeLife,
		CurrencyChaos:    CodeChaos,
		CurrencyCreation: CodeCreat,
		CurrencyZen:      CodeZen,
		CurrencyDC:       CodeDC,
	}

	weights = map[CurrencyCode]float64{
		CodeLife:  1.0,
		CodeChaos: 1.0,
		CodeCreat: 0.5,
		CodeBless: 0.25,
		CodeSoul:  0.25,
		CodeDC:    0.125,
		CodeZen:   0.0,
	}
)

// CurrencyNames в порядке отображения.
func CurrencyNames() []CurrencyName {
	return []CurrencyName{
		CurrencyBless, CurrencySoul, CurrencyLife, CurrencyChaos, CurrencyCreation, CurrencyZen, CurrencyDC,
	}
}

// ParseCurrencyName без учёта регистра; ok=false для неизвестных названий.
func ParseCurrencyName(s string) (CurrencyName, bool) {
	trimmed := strings.TrimSpace(s)

	return lo.Find(CurrencyNames(), func(n CurrencyName) bool {
		return strings.EqualFold(string(n), trimmed)
	})
}

func (n CurrencyName) Code() CurrencyCode {
	return currencyCodes[n]
}

func (n CurrencyName) String() string {
	return string(n)
}

func NormalizeCurrencyCode(s string) CurrencyCode {
	return CurrencyCode(strings.ToLower(strings.TrimSpace(s)))
}

func (c CurrencyCode) String() string {
	return string(c)
}

func (c CurrencyCode) Class() CurrencyClass {
	switch c {
	case CodeBless, CodeSoul, CodeLife, CodeChaos, CodeCreat:
		return ClassJewel
	case CodeZen:
		return ClassSoft
	case CodeDC:
		return ClassPremium
	default:
		return ClassUnknown
	}
}

// Weight вес валюты для нормализованной цены, 0 для неизвестных кодов.
func (c CurrencyCode) Weight() float64 {
	return weights[c]
}

// NoPriceScore значение нормализованной цены лота без цен.
func NoPriceScore() float64 {
	return math.Inf(1)
}
