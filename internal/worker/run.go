package worker

import (
	"sync"
	"time"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/errcodes"
)

type Kind string

const (
	KindSearch Kind = "search"
	KindDebug  Kind = "debug"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSearch, KindDebug:
		return k, nil
	default:
		return "", domain.Errorf(errcodes.InvalidRunKind, "unknown run kind %q", s)
	}
}

func (k Kind) String() string {
	return string(k)
}

type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// Run снимок запуска для отдачи наружу.
type Run struct {
	ID         string
	Kind       Kind
	Set        value.SetName
	Status     Status
	Error      string
	Progress   search.Progress
	StartedAt  time.Time
	FinishedAt time.Time
	Search     *entity.SearchReport
	Debug      *entity.DebugReport
}

type state struct {
	id string

	mu  sync.Mutex
	run Run
}

func newState(id string, kind Kind, set value.SetName) *state {
	return &state{
		id: id,
		run: Run{
			ID:        id,
			Kind:      kind,
			Set:       set,
			Status:    StatusRunning,
			StartedAt: time.Now(),
		},
	}
}

func (s *state) setProgress(p search.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.run.Progress = p
}

func (s *state) setSearchReport(report entity.SearchReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.run.Search = &report
}

func (s *state) setDebugReport(report entity.DebugReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.run.Debug = &report
}

func (s *state) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.run.FinishedAt = time.Now()
	s.run.Status = StatusFinished

	if err != nil {
		s.run.Status = StatusFailed
		s.run.Error = err.Error()
	}
}

func (s *state) snapshot() Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run
}
