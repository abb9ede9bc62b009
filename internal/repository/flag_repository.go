package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-flag-graph-service/internal/domain"
	"go-flag-graph-service/internal/observability"
)

// ErrFlagNotFound aliases the domain sentinel so callers can keep checking
// against the repository package.
var ErrFlagNotFound = domain.ErrFlagNotFound

// FlagRepository is the storage surface for team-scoped feature flags.
// ListFlags and FindFlagByID together satisfy the graph validator's read
// capability: listings hide soft-deleted rows, point lookups do not.
type FlagRepository interface {
	ListFlags(ctx context.Context, teamID uint) ([]domain.Flag, error)
	ListFlagsPage(ctx context.Context, teamID uint, page PageRequest) (PageResult[domain.Flag], error)
	FindFlagByID(ctx context.Context, teamID, flagID uint) (*domain.Flag, error)
	FindFlagByKey(ctx context.Context, teamID uint, key string) (*domain.Flag, error)
	CreateFlag(ctx context.Context, flag *domain.Flag) error
	UpdateFlag(ctx context.Context, flag *domain.Flag) error
	SoftDeleteFlag(ctx context.Context, teamID, flagID uint) error
}

type GormFlagRepository struct{ db *gorm.DB }

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &GormFlagRepository{db: db}
}

func (r *GormFlagRepository) ListFlags(ctx context.Context, teamID uint) ([]domain.Flag, error) {
	var flags []domain.Flag
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND deleted = ?", teamID, false).
		Order("id asc").
		Find(&flags).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "flag", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "flag", "list", "success")
	return flags, nil
}

func (r *GormFlagRepository) ListFlagsPage(ctx context.Context, teamID uint, page PageRequest) (PageResult[domain.Flag], error) {
	page = normalizePageRequest(page)
	base := r.db.WithContext(ctx).Model(&domain.Flag{}).
		Where("team_id = ? AND deleted = ?", teamID, false).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "flag", "list_page", "error")
		return PageResult[domain.Flag]{}, err
	}
	var flags []domain.Flag
	err := base.Order("id asc").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&flags).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "flag", "list_page", "error")
		return PageResult[domain.Flag]{}, err
	}
	observability.RecordRepositoryOperation(ctx, "flag", "list_page", "success")
	return PageResult[domain.Flag]{
		Items:      flags,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}

func (r *GormFlagRepository) FindFlagByID(ctx context.Context, teamID, flagID uint) (*domain.Flag, error) {
	var flag domain.Flag
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, flagID).
		First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "flag", "find_by_id", "not_found")
			return nil, ErrFlagNotFound
		}
		observability.RecordRepositoryOperation(ctx, "flag", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "flag", "find_by_id", "success")
	return &flag, nil
}

func (r *GormFlagRepository) FindFlagByKey(ctx context.Context, teamID uint, key string) (*domain.Flag, error) {
	var flag domain.Flag
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND key = ?", teamID, strings.TrimSpace(strings.ToLower(key))).
		First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "flag", "find_by_key", "not_found")
			return nil, ErrFlagNotFound
		}
		observability.RecordRepositoryOperation(ctx, "flag", "find_by_key", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "flag", "find_by_key", "success")
	return &flag, nil
}

func (r *GormFlagRepository) CreateFlag(ctx context.Context, flag *domain.Flag) error {
	flag.Key = strings.TrimSpace(strings.ToLower(flag.Key))
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "flag", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "flag", "create", "success")
	return nil
}

func (r *GormFlagRepository) UpdateFlag(ctx context.Context, flag *domain.Flag) error {
	flag.Key = strings.TrimSpace(strings.ToLower(flag.Key))
	flag.Name = strings.TrimSpace(flag.Name)
	res := r.db.WithContext(ctx).Model(&domain.Flag{}).
		Where("team_id = ? AND id = ? AND deleted = ?", flag.TeamID, flag.ID, false).
		Select("key", "name", "active", "filters").
		Updates(flag)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "flag", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "flag", "update", "not_found")
		return ErrFlagNotFound
	}
	observability.RecordRepositoryOperation(ctx, "flag", "update", "success")
	return nil
}

// SoftDeleteFlag marks the row deleted without removing it; stale edges of
// a deleted flag drop out of the graph because listings exclude it.
func (r *GormFlagRepository) SoftDeleteFlag(ctx context.Context, teamID, flagID uint) error {
	res := r.db.WithContext(ctx).Model(&domain.Flag{}).
		Where("team_id = ? AND id = ? AND deleted = ?", teamID, flagID, false).
		Update("deleted", true)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "flag", "soft_delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "flag", "soft_delete", "not_found")
		return ErrFlagNotFound
	}
	observability.RecordRepositoryOperation(ctx, "flag", "soft_delete", "success")
	return nil
}
