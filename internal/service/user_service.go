package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
	"github.com/LeeHanYeong/StudyWatson/pkg/apperr"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound     = apperr.NotFound("userNotFound", "用户不存在")
	ErrUserRetired      = apperr.NotFound("userRetired", "用户已注销")
	ErrEmailExists      = apperr.Conflict("emailAlreadyExists", "该邮箱已被未注销账号使用")
	ErrLoginIDExists    = apperr.Conflict("loginIdAlreadyExists", "该登录标识已被使用")
	ErrLoginIDRequired  = apperr.InvalidInput("loginIdRequired", "社交账号类型必须提供登录标识")
	ErrInvalidUserType  = apperr.InvalidInput("invalidUserType", "非法的账号类型")
	ErrPasswordMismatch = apperr.InvalidInput("passwordMismatch", "两次输入的密码不一致")
	ErrPasswordRequired = apperr.InvalidInput("passwordRequired", "email 类型账号必须设置密码")
)

// retiredLoginIDPrefix 注销占位符前缀，编号格式 deleted_%05d
const retiredLoginIDPrefix = "deleted_"

// UserService 用户身份业务接口（身份存储 + 身份注销）
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, userID string) (*dto.UserResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	// Retire 注销账号：身份字段改写为不碰撞的匿名占位符，
	// 行保留为墓碑，历史成员/出勤外键不受影响。这是用户实体的终态变更
	Retire(ctx context.Context, userID string) error
	// IssueEmailValidation 为邮箱签发 6 位数字验证码（发送属外部层职责）
	IssueEmailValidation(ctx context.Context, email string) (*model.EmailValidation, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	userType := req.Type
	if userType == "" {
		userType = model.UserTypeEmail
	}
	if !model.ValidUserType(userType) {
		return nil, ErrInvalidUserType
	}

	// email 类型以邮箱作为登录标识；社交类型必须显式提供
	loginID := req.LoginID
	if userType == model.UserTypeEmail {
		loginID = req.Email
	} else if loginID == "" {
		return nil, ErrLoginIDRequired
	}

	var passwordHash string
	if userType == model.UserTypeEmail {
		if req.Password1 == "" {
			return nil, ErrPasswordRequired
		}
		if req.Password1 != req.Password2 {
			return nil, ErrPasswordMismatch
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		passwordHash = string(hash)
	}

	// 先行校验（快速失败，不产生部分写入）；唯一索引兜底并发竞争
	exists, err := s.repo.User.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	email := req.Email
	user := &model.User{
		LoginID:      loginID,
		Name:         req.Name,
		Type:         userType,
		Email:        &email,
		PhoneNumber:  req.PhoneNumber,
		ImgProfile:   req.ImgProfile,
		PasswordHash: passwordHash,
	}
	if req.Nickname != "" {
		nickname := req.Nickname
		user.Nickname = &nickname
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLoginIDExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── 查询 / 更新 ──────────────────────

func (s *userService) GetByID(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Retired {
		return nil, ErrUserRetired
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Nickname != nil {
		user.Nickname = req.Nickname
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.ImgProfile != nil {
		user.ImgProfile = *req.ImgProfile
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Retire ──────────────────────

func (s *userService) Retire(ctx context.Context, userID string) error {
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Retired {
			return ErrUserRetired
		}
		return retireTx(ctx, tx, user)
	})
	if err != nil {
		return err
	}

	s.logger.Info("用户已注销", zap.String("user_id", userID))
	return nil
}

// retireTx 在事务内执行注销：
//  1. 把当前 login_id / email 备份进墓碑字段
//  2. 计算下一个占位符编号：已注销账号按 login_id 排序取末位编号 + 1，无则 0
//  3. login_id 改为占位符、email 清空（邮箱唯一性仅约束未注销账号）
//  4. 碰撞修复：占位符已存在（并发注销读到过期编号）时，
//     按创建时间序对全部已注销账号自 0 起稠密重编号，再取下一个空位
func retireTx(ctx context.Context, tx *repository.Repository, user *model.User) error {
	user.RetiredLoginID = user.LoginID
	if user.Email != nil {
		user.RetiredEmail = *user.Email
	}

	retired, err := tx.User.ListRetired(ctx, "login_id")
	if err != nil {
		return err
	}
	number := 0
	if len(retired) > 0 {
		last := retired[len(retired)-1]
		number = retiredNumber(last.LoginID) + 1
	}
	placeholder := retiredLoginID(number)

	// 碰撞守卫：朴素的"末位 + 1"在并发注销下不安全，发现碰撞即全量稠密重编号。
	// 重编号按创建时间序（注销越早编号越小，管理后台可读），
	// 分两阶段：先改临时名再落最终名，避免中途命中 login_id 唯一约束
	if _, err := tx.User.GetByLoginIDAny(ctx, placeholder); err == nil {
		byCreated, err := tx.User.ListRetired(ctx, "created_at")
		if err != nil {
			return err
		}
		for i := range byCreated {
			byCreated[i].LoginID = fmt.Sprintf("%srenum_%05d", retiredLoginIDPrefix, i)
			if err := tx.User.Update(ctx, &byCreated[i]); err != nil {
				return err
			}
		}
		for i := range byCreated {
			byCreated[i].LoginID = retiredLoginID(i)
			if err := tx.User.Update(ctx, &byCreated[i]); err != nil {
				return err
			}
		}
		placeholder = retiredLoginID(len(byCreated))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user.LoginID = placeholder
	user.Email = nil
	user.Retired = true
	return tx.User.Update(ctx, user)
}

// retiredLoginID 生成编号占位符，零填充保证字符串排序与数值排序一致
func retiredLoginID(n int) string {
	return fmt.Sprintf("%s%05d", retiredLoginIDPrefix, n)
}

// retiredNumber 取占位符末段数字；无法解析时返回 -1（+1 后从 0 起编）
func retiredNumber(loginID string) int {
	idx := strings.LastIndex(loginID, "_")
	if idx < 0 {
		return -1
	}
	n, err := strconv.Atoi(loginID[idx+1:])
	if err != nil {
		return -1
	}
	return n
}

// ────────────────────── IssueEmailValidation ──────────────────────

func (s *userService) IssueEmailValidation(ctx context.Context, email string) (*model.EmailValidation, error) {
	code, err := randomDigits(6)
	if err != nil {
		return nil, err
	}
	validation := &model.EmailValidation{
		Email: email,
		Code:  code,
	}
	if err := s.repo.EmailValidation.Create(ctx, validation); err != nil {
		return nil, err
	}
	return validation, nil
}

// randomDigits 以加密随机源生成 n 位数字验证码
func randomDigits(n int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		v, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = digits[v.Int64()]
	}
	return string(buf), nil
}

// ────────────────────── 响应转换 ──────────────────────

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:      u.UserID,
		LoginID:     u.LoginID,
		Name:        u.Name,
		Type:        u.Type,
		PhoneNumber: u.PhoneNumber,
		ImgProfile:  u.ImgProfile,
		Retired:     u.Retired,
	}
	if u.Nickname != nil {
		resp.Nickname = *u.Nickname
	}
	if u.Email != nil {
		resp.Email = *u.Email
	}
	return resp
}
