package contextx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

var ErrNoValue = errors.New("no value in context")

type (
	contextKeyLogger      struct{}
	contextKeyTraceID     struct{}
	contextKeyBearerToken struct{}
)

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger{}, logger)
}

func LoggerFromContext(ctx context.Context) (*slog.Logger, error) {
	logger, ok := ctx.Value(contextKeyLogger{}).(*slog.Logger)
	if !ok {
		return nil, fmt.Errorf("logger: %w", ErrNoValue)
	}

	return logger, nil
}

// LoggerFromContextOrDefault never returns nil: without a logger in ctx it
// falls back to slog.Default().
func LoggerFromContextOrDefault(ctx context.Context) *slog.Logger {
	logger, err := LoggerFromContext(ctx)
	if err != nil {
		return slog.Default()
	}

	return logger
}

type TraceID string

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}

// BearerToken is the marketplace token pasted by the user. It travels with the
// context of a run so outgoing requests can be authorized by the transport.
type BearerToken string

// String hides the token so it never ends up in logs by accident.
func (BearerToken) String() string {
	return "[MASKED]"
}

const bearerScheme = "bearer"

// Normalize trims whitespace and every leading "Bearer" scheme word pasted
// together with the token copied from the browser. The scheme is matched
// case-insensitively and also when nothing follows it.
func (t BearerToken) Normalize() BearerToken {
	token := strings.TrimSpace(string(t))

	for len(token) >= len(bearerScheme) && strings.EqualFold(token[:len(bearerScheme)], bearerScheme) {
		rest := token[len(bearerScheme):]
		if rest != "" && !unicode.IsSpace(rune(rest[0])) {
			break
		}

		token = strings.TrimSpace(rest)
	}

	return BearerToken(token)
}

func WithBearerToken(ctx context.Context, token BearerToken) context.Context {
	return context.WithValue(ctx, contextKeyBearerToken{}, token)
}

// BearerTokenFromContext returns the normalized token. A token that is empty
// after normalization counts as missing.
func BearerTokenFromContext(ctx context.Context) (BearerToken, error) {
	token, ok := ctx.Value(contextKeyBearerToken{}).(BearerToken)
	if ok {
		token = token.Normalize()
	}

	if token == "" {
		return "", fmt.Errorf("bearer token: %w", ErrNoValue)
	}

	return token, nil
}
