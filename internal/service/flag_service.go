package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go-flag-graph-service/internal/depgraph"
	"go-flag-graph-service/internal/domain"
	"go-flag-graph-service/internal/observability"
	"go-flag-graph-service/internal/repository"
)

// DependentsView is the advisory payload for "what depends on this flag",
// surfaced before a user attempts a deletion.
type DependentsView struct {
	HasActiveDependents bool               `json:"has_active_dependents"`
	DependentFlags      []depgraph.FlagRef `json:"dependent_flags"`
}

// FlagService is the write path for team-scoped feature flags. Every
// create and update is admitted through the dependency-graph validator,
// and every soft-delete through the deletion guard, before anything is
// persisted; a rejected mutation leaves storage untouched.
type FlagService interface {
	ListFlags(ctx context.Context, teamID uint, page repository.PageRequest) (repository.PageResult[domain.Flag], error)
	GetFlag(ctx context.Context, teamID, flagID uint) (*domain.Flag, error)
	CreateFlag(ctx context.Context, flag *domain.Flag) error
	UpdateFlag(ctx context.Context, flag *domain.Flag) error
	DeleteFlag(ctx context.Context, teamID, flagID uint) error
	Dependents(ctx context.Context, teamID, flagID uint) (DependentsView, error)
}

type flagService struct {
	repo      repository.FlagRepository
	validator *depgraph.Validator
	cache     DependentsCacheStore
	cacheTTL  time.Duration
	logger    *slog.Logger
}

func NewFlagService(repo repository.FlagRepository, validator *depgraph.Validator, cache DependentsCacheStore, cacheTTL time.Duration, logger *slog.Logger) FlagService {
	if cache == nil {
		cache = NewNoopDependentsCacheStore()
	}
	return &flagService{repo: repo, validator: validator, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *flagService) ListFlags(ctx context.Context, teamID uint, page repository.PageRequest) (repository.PageResult[domain.Flag], error) {
	return s.repo.ListFlagsPage(ctx, teamID, page)
}

func (s *flagService) GetFlag(ctx context.Context, teamID, flagID uint) (*domain.Flag, error) {
	flag, err := s.repo.FindFlagByID(ctx, teamID, flagID)
	if err != nil {
		return nil, err
	}
	if flag.Deleted {
		return nil, repository.ErrFlagNotFound
	}
	return flag, nil
}

func (s *flagService) CreateFlag(ctx context.Context, flag *domain.Flag) error {
	if err := s.admitMutation(ctx, flag.TeamID, 0, flag.Filters); err != nil {
		return err
	}
	if err := s.repo.CreateFlag(ctx, flag); err != nil {
		return err
	}
	s.invalidateTeam(ctx, flag.TeamID)
	return nil
}

func (s *flagService) UpdateFlag(ctx context.Context, flag *domain.Flag) error {
	current, err := s.repo.FindFlagByID(ctx, flag.TeamID, flag.ID)
	if err != nil {
		return err
	}
	if current.Deleted {
		return repository.ErrFlagNotFound
	}
	if err := s.admitMutation(ctx, flag.TeamID, flag.ID, flag.Filters); err != nil {
		return err
	}
	if err := s.repo.UpdateFlag(ctx, flag); err != nil {
		return err
	}
	s.invalidateTeam(ctx, flag.TeamID)
	return nil
}

func (s *flagService) DeleteFlag(ctx context.Context, teamID, flagID uint) error {
	current, err := s.repo.FindFlagByID(ctx, teamID, flagID)
	if err != nil {
		return err
	}
	if current.Deleted {
		return repository.ErrFlagNotFound
	}
	if err := s.validator.CheckDeletable(ctx, teamID, flagID); err != nil {
		observability.RecordGraphCheck(ctx, "deletion", checkOutcome(err))
		return err
	}
	observability.RecordGraphCheck(ctx, "deletion", "pass")
	if err := s.repo.SoftDeleteFlag(ctx, teamID, flagID); err != nil {
		return err
	}
	s.invalidateTeam(ctx, teamID)
	return nil
}

func (s *flagService) Dependents(ctx context.Context, teamID, flagID uint) (DependentsView, error) {
	// The target must exist (deleted ones included: a UI may inspect a
	// flag mid-deletion flow).
	if _, err := s.repo.FindFlagByID(ctx, teamID, flagID); err != nil {
		return DependentsView{}, err
	}

	if cached, ok, err := s.cache.Get(ctx, teamID, flagID); err == nil && ok {
		var view DependentsView
		if err := json.Unmarshal(cached, &view); err == nil {
			return view, nil
		}
	} else if err != nil {
		s.logger.WarnContext(ctx, "dependents cache read failed", "error", err)
	}

	has, dependents, err := s.validator.HasActiveDependents(ctx, teamID, flagID)
	if err != nil {
		return DependentsView{}, err
	}
	view := DependentsView{HasActiveDependents: has, DependentFlags: dependents}
	if payload, err := json.Marshal(view); err == nil {
		if err := s.cache.Set(ctx, teamID, flagID, payload, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "dependents cache write failed", "error", err)
		}
	}
	return view, nil
}

// admitMutation runs the graph validator and records the outcome.
func (s *flagService) admitMutation(ctx context.Context, teamID, editingID uint, proposed domain.TargetingRules) error {
	if err := s.validator.ValidateMutation(ctx, teamID, editingID, proposed); err != nil {
		observability.RecordGraphCheck(ctx, "mutation", checkOutcome(err))
		return err
	}
	observability.RecordGraphCheck(ctx, "mutation", "pass")
	return nil
}

func (s *flagService) invalidateTeam(ctx context.Context, teamID uint) {
	if err := s.cache.InvalidateTeam(ctx, teamID); err != nil {
		s.logger.WarnContext(ctx, "dependents cache invalidation failed", "team_id", teamID, "error", err)
	}
}

func checkOutcome(err error) string {
	var verr *depgraph.ValidationError
	if errors.As(err, &verr) {
		return string(verr.Kind)
	}
	return "error"
}
