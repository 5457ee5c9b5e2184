package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
)

// UserRepository 用户数据访问接口
//
// GetByEmail / ExistsByEmail 只查未注销用户（邮箱唯一性仅约束未注销账号）；
// 需要连同注销墓碑一起查询时使用 ListRetired / GetByLoginIDAny
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByLoginID(ctx context.Context, loginID string) (*model.User, error)
	// GetByLoginIDAny 不过滤注销状态的 login_id 查询（注销占位符碰撞检测用）
	GetByLoginIDAny(ctx context.Context, loginID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
	// ListRetired 返回全部已注销用户，按 orderBy 排序
	// （"login_id"，或 "created_at" 按创建时间升序、user_id 破平）
	ListRetired(ctx context.Context, orderBy string) ([]model.User, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByLoginID(ctx context.Context, loginID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("login_id = ? AND retired = false", loginID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByLoginIDAny(ctx context.Context, loginID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("login_id = ?", loginID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND retired = false", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ? AND retired = false", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{}).Where("retired = false")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) ListRetired(ctx context.Context, orderBy string) ([]model.User, error) {
	order := "created_at ASC, user_id ASC"
	if orderBy == "login_id" {
		order = "login_id ASC"
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("retired = true").
		Order(order).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ── 邮箱验证码 ──

// EmailValidationRepository 邮箱验证码数据访问接口
type EmailValidationRepository interface {
	Create(ctx context.Context, v *model.EmailValidation) error
	GetByEmail(ctx context.Context, email string) (*model.EmailValidation, error)
}

type emailValidationRepo struct {
	db *gorm.DB
}

// NewEmailValidationRepo 创建 EmailValidationRepository 实例
func NewEmailValidationRepo(db *gorm.DB) EmailValidationRepository {
	return &emailValidationRepo{db: db}
}

func (r *emailValidationRepo) Create(ctx context.Context, v *model.EmailValidation) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *emailValidationRepo) GetByEmail(ctx context.Context, email string) (*model.EmailValidation, error) {
	var v model.EmailValidation
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
