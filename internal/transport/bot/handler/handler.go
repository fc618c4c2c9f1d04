package handler

import (
	"context"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/worker"
	"collection_finder/pkg/contextx"
)

type runService interface {
	StartSearch(ctx context.Context, params worker.SearchParams) (worker.Run, error)
	StartDebug(ctx context.Context, params worker.DebugParams) (worker.Run, error)
	Result(id string) (worker.Run, error)
	IsRunning(kind worker.Kind) bool
}

type profileSource interface {
	Snapshot() entity.Configuration
}

type Handler struct {
	runner   runService
	profiles profileSource
	token    contextx.BearerToken
}

// New token используется для всех запусков из чата: сам токен в чат не передаётся.
func New(runner runService, profiles profileSource, token string) *Handler {
	return &Handler{
		runner:   runner,
		profiles: profiles,
		token:    contextx.BearerToken(token),
	}
}
