package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
)

// MembershipFilter 成员列表过滤条件（nil 字段表示不过滤）
type MembershipFilter struct {
	UserID     *string
	StudyID    *string
	IsWithdraw *bool
}

// MembershipRepository 学习小组成员数据访问接口
//
// GetByUserAndStudy 不过滤 is_withdraw：(user, study) 唯一行含已退出状态，
// 重新加入走既有行复活；需要仅活跃成员时使用 ListActiveByStudy
type MembershipRepository interface {
	Create(ctx context.Context, membership *model.StudyMembership) error
	GetByID(ctx context.Context, id string) (*model.StudyMembership, error)
	GetByUserAndStudy(ctx context.Context, userID, studyID string) (*model.StudyMembership, error)
	Update(ctx context.Context, membership *model.StudyMembership) error
	List(ctx context.Context, filter MembershipFilter) ([]model.StudyMembership, error)
	// ListActiveByStudy 返回指定小组的未退出成员
	ListActiveByStudy(ctx context.Context, studyID string) ([]model.StudyMembership, error)
	// ListByStudyCreatedBefore 返回 created_at <= cutoff 的小组成员（含边界，回填资格判定）
	ListByStudyCreatedBefore(ctx context.Context, studyID string, cutoff time.Time) ([]model.StudyMembership, error)
}

// membershipRepo MembershipRepository 的 GORM 实现
type membershipRepo struct {
	db *gorm.DB
}

// NewMembershipRepo 创建 MembershipRepository 实例
func NewMembershipRepo(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, membership *model.StudyMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepo) GetByID(ctx context.Context, id string) (*model.StudyMembership, error) {
	var membership model.StudyMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Study").
		Where("membership_id = ?", id).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepo) GetByUserAndStudy(ctx context.Context, userID, studyID string) (*model.StudyMembership, error) {
	var membership model.StudyMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND study_id = ?", userID, studyID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepo) Update(ctx context.Context, membership *model.StudyMembership) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

func (r *membershipRepo) List(ctx context.Context, filter MembershipFilter) ([]model.StudyMembership, error) {
	db := r.db.WithContext(ctx).Model(&model.StudyMembership{})
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.StudyID != nil {
		db = db.Where("study_id = ?", *filter.StudyID)
	}
	if filter.IsWithdraw != nil {
		db = db.Where("is_withdraw = ?", *filter.IsWithdraw)
	}

	var memberships []model.StudyMembership
	err := db.Preload("User").
		Order("created_at DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepo) ListActiveByStudy(ctx context.Context, studyID string) ([]model.StudyMembership, error) {
	var memberships []model.StudyMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("study_id = ? AND is_withdraw = false", studyID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepo) ListByStudyCreatedBefore(ctx context.Context, studyID string, cutoff time.Time) ([]model.StudyMembership, error) {
	var memberships []model.StudyMembership
	err := r.db.WithContext(ctx).
		Where("study_id = ? AND created_at <= ?", studyID, cutoff).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
