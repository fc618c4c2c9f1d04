package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/infrastructure/profilestore"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/httpx/reply"
	"collection_finder/pkg/httpx/req"
	"collection_finder/pkg/lox"
	"collection_finder/pkg/rest"
)

type profileStore interface {
	Snapshot() entity.Configuration
	Get(set value.SetName) (entity.Requirements, bool)
	Save(ctx context.Context, set value.SetName, requirements entity.Requirements) (profilestore.SaveOutcome, error)
	Delete(ctx context.Context, set value.SetName) (bool, error)
}

type ProfileServer struct {
	profileStore profileStore
}

func NewProfileServer(profileStore profileStore) ProfileServer {
	return ProfileServer{
		profileStore: profileStore,
	}
}

func (s ProfileServer) getV1Profiles(w http.ResponseWriter, r *http.Request) error {
	profiles := lox.Map(s.profileStore.Snapshot().Profiles(), newRESTProfile)

	reply.JSON(r.Context(), w, http.StatusOK, profiles)

	return nil
}

func (s ProfileServer) getV1Profile(w http.ResponseWriter, r *http.Request) error {
	set, err := value.ParseSetName(chi.URLParam(r, "set"))
	if err != nil {
		return fmt.Errorf("value.ParseSetName: %w", err)
	}

	requirements, ok := s.profileStore.Get(set)
	if !ok {
		return domain.Errorf(errcodes.SetNotFound, "no profile for %s", set)
	}

	reply.JSON(r.Context(), w, http.StatusOK, newRESTProfile(entity.Profile{Set: set, Requirements: requirements}))

	return nil
}

func (s ProfileServer) putV1Profile(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	set, err := value.ParseSetName(chi.URLParam(r, "set"))
	if err != nil {
		return fmt.Errorf("value.ParseSetName: %w", err)
	}

	var request rest.SaveProfileRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	requirements, err := newDomainRequirements(request.Requirements)
	if err != nil {
		return fmt.Errorf("newDomainRequirements: %w", err)
	}

	outcome, err := s.profileStore.Save(ctx, set, requirements)
	if err != nil {
		return fmt.Errorf("profileStore.Save: %w", err)
	}

	saved, _ := s.profileStore.Get(set)

	status := http.StatusOK
	if outcome == profilestore.Inserted {
		status = http.StatusCreated
	}

	reply.JSON(ctx, w, status, rest.SaveProfileResponse{
		Profile: newRESTProfile(entity.Profile{Set: set, Requirements: saved}),
		Outcome: string(outcome),
	})

	return nil
}

func (s ProfileServer) deleteV1Profile(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	set, err := value.ParseSetName(chi.URLParam(r, "set"))
	if err != nil {
		return fmt.Errorf("value.ParseSetName: %w", err)
	}

	deleted, err := s.profileStore.Delete(ctx, set)
	if err != nil {
		return fmt.Errorf("profileStore.Delete: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.DeleteProfileResponse{Deleted: deleted})

	return nil
}
