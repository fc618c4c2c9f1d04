package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"

	FieldRunID    = "run-id"
	FieldRunKind  = "run-kind"
	FieldSet      = "set"
	FieldPiece    = "piece"
	FieldOutcome  = "outcome"
	FieldTotal    = "total"
	FieldFiltered = "filtered"
	FieldPath     = "path"
	FieldReason   = "reason"
)
