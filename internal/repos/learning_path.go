package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/domain"
	"github.com/learnpath/core-service/internal/logger"
)

type LearningPathRepo interface {
	Create(ctx context.Context, row *domain.LearningPathRecord) (*domain.LearningPathRecord, error)
	GetByThreadID(ctx context.Context, threadID string) (*domain.LearningPathRecord, error)
	List(ctx context.Context, ownerUserKey string, limit, offset int) ([]*domain.LearningPathRecord, error)
	UpdateStatus(ctx context.Context, threadID, status string) error
	SetCompleted(ctx context.Context, threadID string, graphState datatypes.JSON) error
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return &learningPathRepo{db: db, log: baseLog.With("repo", "LearningPathRepo")}
}

func (r *learningPathRepo) Create(ctx context.Context, row *domain.LearningPathRecord) (*domain.LearningPathRecord, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *learningPathRepo) GetByThreadID(ctx context.Context, threadID string) (*domain.LearningPathRecord, error) {
	var row domain.LearningPathRecord
	err := r.db.WithContext(ctx).Where("thread_id = ?", threadID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: learning path %q", apperr.ErrNotFound, threadID)
		}
		return nil, err
	}
	return &row, nil
}

func (r *learningPathRepo) List(ctx context.Context, ownerUserKey string, limit, offset int) ([]*domain.LearningPathRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if ownerUserKey != "" {
		q = q.Where("owner_user_key = ?", ownerUserKey)
	}
	var rows []*domain.LearningPathRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *learningPathRepo) UpdateStatus(ctx context.Context, threadID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.LearningPathRecord{}).
		Where("thread_id = ?", threadID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: learning path %q", apperr.ErrNotFound, threadID)
	}
	return nil
}

func (r *learningPathRepo) SetCompleted(ctx context.Context, threadID string, graphState datatypes.JSON) error {
	res := r.db.WithContext(ctx).
		Model(&domain.LearningPathRecord{}).
		Where("thread_id = ?", threadID).
		Updates(map[string]interface{}{
			"status":      domain.PathStatusCompleted,
			"graph_state": graphState,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: learning path %q", apperr.ErrNotFound, threadID)
	}
	return nil
}
