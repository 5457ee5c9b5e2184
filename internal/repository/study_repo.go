package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
)

// StudyCategoryRepository 学习小组分类数据访问接口
type StudyCategoryRepository interface {
	Create(ctx context.Context, category *model.StudyCategory) error
	GetByID(ctx context.Context, id string) (*model.StudyCategory, error)
	GetByName(ctx context.Context, name string) (*model.StudyCategory, error)
	List(ctx context.Context) ([]model.StudyCategory, error)
}

type studyCategoryRepo struct {
	db *gorm.DB
}

// NewStudyCategoryRepo 创建 StudyCategoryRepository 实例
func NewStudyCategoryRepo(db *gorm.DB) StudyCategoryRepository {
	return &studyCategoryRepo{db: db}
}

func (r *studyCategoryRepo) Create(ctx context.Context, category *model.StudyCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *studyCategoryRepo) GetByID(ctx context.Context, id string) (*model.StudyCategory, error) {
	var category model.StudyCategory
	err := r.db.WithContext(ctx).
		Where("category_id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *studyCategoryRepo) GetByName(ctx context.Context, name string) (*model.StudyCategory, error) {
	var category model.StudyCategory
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *studyCategoryRepo) List(ctx context.Context) ([]model.StudyCategory, error) {
	var categories []model.StudyCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// ── 图标 ──

// StudyIconRepository 学习小组图标数据访问接口
type StudyIconRepository interface {
	Create(ctx context.Context, icon *model.StudyIcon) error
	GetByID(ctx context.Context, id string) (*model.StudyIcon, error)
	GetByName(ctx context.Context, name string) (*model.StudyIcon, error)
	List(ctx context.Context) ([]model.StudyIcon, error)
}

type studyIconRepo struct {
	db *gorm.DB
}

// NewStudyIconRepo 创建 StudyIconRepository 实例
func NewStudyIconRepo(db *gorm.DB) StudyIconRepository {
	return &studyIconRepo{db: db}
}

func (r *studyIconRepo) Create(ctx context.Context, icon *model.StudyIcon) error {
	return r.db.WithContext(ctx).Create(icon).Error
}

func (r *studyIconRepo) GetByID(ctx context.Context, id string) (*model.StudyIcon, error) {
	var icon model.StudyIcon
	err := r.db.WithContext(ctx).
		Where("icon_id = ?", id).
		First(&icon).Error
	if err != nil {
		return nil, err
	}
	return &icon, nil
}

func (r *studyIconRepo) GetByName(ctx context.Context, name string) (*model.StudyIcon, error) {
	var icon model.StudyIcon
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&icon).Error
	if err != nil {
		return nil, err
	}
	return &icon, nil
}

func (r *studyIconRepo) List(ctx context.Context) ([]model.StudyIcon, error) {
	var icons []model.StudyIcon
	err := r.db.WithContext(ctx).Order("name ASC").Find(&icons).Error
	if err != nil {
		return nil, err
	}
	return icons, nil
}

// ── 学习小组 ──

// StudyRepository 学习小组数据访问接口
type StudyRepository interface {
	Create(ctx context.Context, study *model.Study) error
	GetByID(ctx context.Context, id string) (*model.Study, error)
	Update(ctx context.Context, study *model.Study) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]model.Study, int64, error)
}

type studyRepo struct {
	db *gorm.DB
}

// NewStudyRepo 创建 StudyRepository 实例
func NewStudyRepo(db *gorm.DB) StudyRepository {
	return &studyRepo{db: db}
}

func (r *studyRepo) Create(ctx context.Context, study *model.Study) error {
	return r.db.WithContext(ctx).Create(study).Error
}

func (r *studyRepo) GetByID(ctx context.Context, id string) (*model.Study, error) {
	var study model.Study
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Icon").
		Where("study_id = ?", id).
		First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

func (r *studyRepo) Update(ctx context.Context, study *model.Study) error {
	return r.db.WithContext(ctx).Save(study).Error
}

// Delete 硬删除（级联删除由外键 ON DELETE CASCADE 负责）
func (r *studyRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("study_id = ?", id).
		Delete(&model.Study{}).Error
}

func (r *studyRepo) List(ctx context.Context, offset, limit int) ([]model.Study, int64, error) {
	var studies []model.Study
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Study{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Category").
		Preload("Author").
		Preload("Icon").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&studies).Error; err != nil {
		return nil, 0, err
	}

	return studies, total, nil
}
