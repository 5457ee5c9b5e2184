package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
	"github.com/LeeHanYeong/StudyWatson/pkg/apperr"
)

// ── 邀请令牌模块业务错误 ──

var (
	ErrInviteTokenNotFound = apperr.NotFound("studyInviteTokenInvalid", "邀请令牌不存在或无效")
	ErrInviteTokenExpired  = apperr.ExpiredToken("studyInviteTokenExpired", "邀请令牌已过期")
)

// 令牌 key 字符集与长度（62 字符字母表，10 位，碰撞概率极低；
// 但合同要求确定性的查重-重试循环而非概率假设）
const (
	inviteKeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteKeyLength  = 10
	// 防御性上限：仅在随机源异常时触发
	inviteKeyMaxRetries = 100
)

// InviteService 邀请令牌业务接口
//
// 令牌多次可用、不可撤销；有效窗口自签发时刻起按小时计
type InviteService interface {
	// Issue 为小组签发唯一 key 的邀请令牌；durationHours <= 0 时取默认 24 小时
	Issue(ctx context.Context, studyID string, durationHours int) (*dto.InviteTokenResponse, error)
	// Validate 令牌在 now 时刻是否有效（now - created < duration）
	Validate(ctx context.Context, key string, now time.Time) (bool, error)
	// Redeem 以普通成员身份兑换令牌；未知 key 返回 NotFound，
	// 过期返回 ExpiredToken，已是活跃成员返回 Conflict
	Redeem(ctx context.Context, key, userID string) (*model.StudyMembership, error)
	// StudyByKey 按令牌取回小组信息（入组前预览）
	StudyByKey(ctx context.Context, key string) (*model.Study, error)
}

type inviteService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewInviteService 创建 InviteService 实例
func NewInviteService(repo *repository.Repository, logger *zap.Logger) InviteService {
	return &inviteService{repo: repo, now: time.Now, logger: logger}
}

// ────────────────────── Issue ──────────────────────

func (s *inviteService) Issue(ctx context.Context, studyID string, durationHours int) (*dto.InviteTokenResponse, error) {
	if _, err := s.repo.Study.GetByID(ctx, studyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	if durationHours <= 0 {
		durationHours = model.DefaultInviteDurationHours
	}

	token := &model.StudyInviteToken{
		StudyID:  studyID,
		Duration: durationHours,
	}

	// 查重-重试循环保证 key 全表唯一；并发签发由 key 唯一约束兜底，
	// 命中约束时重新生成
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		for i := 0; i < inviteKeyMaxRetries; i++ {
			key, err := randomInviteKey()
			if err != nil {
				return err
			}
			exists, err := tx.InviteToken.ExistsByKey(ctx, key)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			token.Key = key
			if err := tx.InviteToken.Create(ctx, token); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return err
			}
			return nil
		}
		return errors.New("邀请令牌 key 生成重试次数耗尽")
	})
	if err != nil {
		s.logger.Error("签发邀请令牌失败", zap.String("study_id", studyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("邀请令牌已签发",
		zap.String("study_id", studyID),
		zap.Int("duration_hours", durationHours),
	)
	return &dto.InviteTokenResponse{Key: token.Key}, nil
}

// randomInviteKey 以加密随机源生成 10 位字母数字 key
func randomInviteKey() (string, error) {
	buf := make([]byte, inviteKeyLength)
	charsetLen := big.NewInt(int64(len(inviteKeyCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		buf[i] = inviteKeyCharset[n.Int64()]
	}
	return string(buf), nil
}

// ────────────────────── Validate ──────────────────────

func (s *inviteService) Validate(ctx context.Context, key string, now time.Time) (bool, error) {
	token, err := s.repo.InviteToken.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrInviteTokenNotFound
		}
		return false, err
	}
	return token.IsValid(now), nil
}

// ────────────────────── Redeem ──────────────────────

func (s *inviteService) Redeem(ctx context.Context, key, userID string) (*model.StudyMembership, error) {
	var result *model.StudyMembership
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		token, err := tx.InviteToken.GetByKeyForUpdate(ctx, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteTokenNotFound
			}
			return err
		}
		if !token.IsValid(s.now()) {
			return ErrInviteTokenExpired
		}

		m, err := createOrReactivateTx(ctx, tx, userID, token.StudyID, model.RoleNormal)
		if err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("邀请令牌已兑换",
		zap.String("user_id", userID),
		zap.String("study_id", result.StudyID),
	)
	return result, nil
}

// ────────────────────── StudyByKey ──────────────────────

func (s *inviteService) StudyByKey(ctx context.Context, key string) (*model.Study, error) {
	token, err := s.repo.InviteToken.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteTokenNotFound
		}
		return nil, err
	}
	study, err := s.repo.Study.GetByID(ctx, token.StudyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	return study, nil
}
