package errcodes

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
)

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Конфигурация профилей.
	ConfigLoadFailed   failure.ErrorCode = "ConfigLoadFailed"
	ConfigSaveFailed   failure.ErrorCode = "ConfigSaveFailed"
	InvalidSetName     failure.ErrorCode = "InvalidSetName"
	InvalidPieceType   failure.ErrorCode = "InvalidPieceType"
	InvalidOptionCode  failure.ErrorCode = "InvalidOptionCode"
	PieceNotApplicable failure.ErrorCode = "PieceNotApplicable"
	NoOptionsSelected  failure.ErrorCode = "NoOptionsSelected"

	// Поиск.
	TokenMissing   failure.ErrorCode = "TokenMissing"
	NoProfiles     failure.ErrorCode = "NoProfiles"
	SetNotFound    failure.ErrorCode = "SetNotFound"
	RunNotFound    failure.ErrorCode = "RunNotFound"
	RunInProgress  failure.ErrorCode = "RunInProgress"
	InvalidRunKind failure.ErrorCode = "InvalidRunKind"

	// Маркетплейс.
	MarketUnavailable failure.ErrorCode = "MarketUnavailable"
	MarketBadResponse failure.ErrorCode = "MarketBadResponse"
	MarketNoData      failure.ErrorCode = "MarketNoData"
)

// HTTPStatus maps a domain error code to the status the API answers with.
func HTTPStatus(code failure.ErrorCode) int {
	switch code {
	case ValidationError, InvalidSetName, InvalidPieceType, InvalidOptionCode,
		PieceNotApplicable, NoOptionsSelected, TokenMissing, NoProfiles, InvalidRunKind:
		return http.StatusBadRequest
	case NotFound, SetNotFound, RunNotFound:
		return http.StatusNotFound
	case RunInProgress:
		return http.StatusConflict
	case TimeoutExceeded:
		return http.StatusGatewayTimeout
	case MarketUnavailable, MarketBadResponse, MarketNoData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
