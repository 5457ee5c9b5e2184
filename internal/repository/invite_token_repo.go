package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
)

// InviteTokenRepository 邀请令牌数据访问接口
type InviteTokenRepository interface {
	Create(ctx context.Context, token *model.StudyInviteToken) error
	GetByKey(ctx context.Context, key string) (*model.StudyInviteToken, error)
	// GetByKeyForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询令牌，
	// 必须在已有事务的连接上调用（通过 Repository.Transaction 注入）
	GetByKeyForUpdate(ctx context.Context, key string) (*model.StudyInviteToken, error)
	ExistsByKey(ctx context.Context, key string) (bool, error)
	ListByStudy(ctx context.Context, studyID string) ([]model.StudyInviteToken, error)
}

// inviteTokenRepo InviteTokenRepository 的 GORM 实现
type inviteTokenRepo struct {
	db *gorm.DB
}

// NewInviteTokenRepo 创建 InviteTokenRepository 实例
func NewInviteTokenRepo(db *gorm.DB) InviteTokenRepository {
	return &inviteTokenRepo{db: db}
}

func (r *inviteTokenRepo) Create(ctx context.Context, token *model.StudyInviteToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *inviteTokenRepo) GetByKey(ctx context.Context, key string) (*model.StudyInviteToken, error) {
	var token model.StudyInviteToken
	err := r.db.WithContext(ctx).
		Preload("Study").
		Where("key = ?", key).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *inviteTokenRepo) GetByKeyForUpdate(ctx context.Context, key string) (*model.StudyInviteToken, error) {
	var token model.StudyInviteToken
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("key = ?", key).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *inviteTokenRepo) ExistsByKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudyInviteToken{}).
		Where("key = ?", key).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *inviteTokenRepo) ListByStudy(ctx context.Context, studyID string) ([]model.StudyInviteToken, error) {
	var tokens []model.StudyInviteToken
	err := r.db.WithContext(ctx).
		Where("study_id = ?", studyID).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
