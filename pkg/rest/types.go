package rest

import "time"

type Catalog struct {
	Sets       []CatalogSet      `json:"sets"`
	Pieces     []string          `json:"pieces"`
	Options    []CatalogOption   `json:"options"`
	Currencies []CatalogCurrency `json:"currencies"`
}

type CatalogSet struct {
	Name   string   `json:"name"`
	Pieces []string `json:"pieces"`
}

type CatalogOption struct {
	Code  string `json:"code"`
	Short string `json:"short"`
	Label string `json:"label"`
}

type CatalogCurrency struct {
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Weight float64 `json:"weight"`
}

type Profile struct {
	Set              string              `json:"set"`
	Requirements     map[string][]string `json:"requirements"`
	ConfiguredPieces int                 `json:"configuredPieces"`
	TotalPieces      int                 `json:"totalPieces"`
}

type SaveProfileRequest struct {
	Requirements map[string][]string `json:"requirements" validate:"required"`
}

type SaveProfileResponse struct {
	Profile Profile `json:"profile"`
	// Outcome inserted или updated.
	Outcome string `json:"outcome"`
}

type DeleteProfileResponse struct {
	Deleted bool `json:"deleted"`
}

// StartSearchRequest без токена использует токен из настроек сервиса.
type StartSearchRequest struct {
	Token   string            `json:"token"`
	Set     string            `json:"set"`
	Filters map[string]string `json:"filters" validate:"omitempty,max=7"`
}

type StartDebugRequest struct {
	Token       string `json:"token"`
	Set         string `json:"set"`
	StopAtFirst bool   `json:"stopAtFirst"`
}

type Run struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Set        string        `json:"set,omitempty"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Progress   Progress      `json:"progress"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
	Search     *SearchReport `json:"search,omitempty"`
	Debug      *DebugReport  `json:"debug,omitempty"`
}

type Progress struct {
	Done  int    `json:"done"`
	Total int    `json:"total"`
	Set   string `json:"set,omitempty"`
	Piece string `json:"piece,omitempty"`
}

type SearchReport struct {
	Filters map[string]float64 `json:"filters"`
	Sets    []SetResult        `json:"sets"`
}

type SetResult struct {
	Set    string        `json:"set"`
	Pieces []PieceResult `json:"pieces"`
}

type PieceResult struct {
	Piece    string   `json:"piece"`
	Outcome  string   `json:"outcome"`
	Reason   string   `json:"reason,omitempty"`
	Options  []string `json:"options,omitempty"`
	Criteria string   `json:"criteria,omitempty"`
	Total    int      `json:"total"`
	Filtered int      `json:"filtered"`
	Lots     []Lot    `json:"lots"`
}

type Lot struct {
	ID                     string   `json:"id"`
	Source                 string   `json:"source"`
	IsMine                 bool     `json:"isMine"`
	Type                   string   `json:"type"`
	GearScore              *float64 `json:"gearScore"`
	HasPendingCounterOffer bool     `json:"hasPendingCounterOffer"`
	Prices                 []Price  `json:"prices"`
	PriceText              string   `json:"priceText"`
	// Score нормализованная цена; null для лота без цены.
	Score *float64 `json:"score"`
}

type Price struct {
	Value float64 `json:"value"`
	Code  string  `json:"code"`
	Title string  `json:"title,omitempty"`
	Type  string  `json:"type,omitempty"`
}

type DebugReport struct {
	Pairs []DebugPair `json:"pairs"`
}

type DebugPair struct {
	Set     string   `json:"set"`
	Piece   string   `json:"piece"`
	Options []string `json:"options"`
	Outcome string   `json:"outcome"`
	Reason  string   `json:"reason,omitempty"`
	Total   int      `json:"total"`
	Lots    []Lot    `json:"lots"`
}
