package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
	"github.com/LeeHanYeong/StudyWatson/pkg/apperr"
)

// ── 成员模块业务错误 ──

var (
	ErrMembershipExists   = apperr.Conflict("membershipAlreadyExists", "该用户已是小组的活跃成员")
	ErrMembershipNotFound = apperr.NotFound("membershipNotFound", "成员关系不存在")
	ErrInvalidRole        = apperr.InvalidInput("invalidRole", "非法的成员角色")
)

// MembershipService 成员账本业务接口
//
// (user, study) 全表唯一（含已退出行）是本模块的核心不变量：
// 重新加入复活既有行，绝不新建第二行
type MembershipService interface {
	// CreateOrReactivate 创建成员关系；若存在已退出行则复活（角色保持不变），
	// 若存在活跃行则返回 ErrMembershipExists
	CreateOrReactivate(ctx context.Context, userID, studyID, role string) (*model.StudyMembership, error)
	// Withdraw 软退出：置 is_withdraw=true，历史出勤记录保持归属
	Withdraw(ctx context.Context, membershipID string) error
	UpdateRole(ctx context.Context, membershipID, role string) (*dto.MembershipResponse, error)
	GetByID(ctx context.Context, membershipID string) (*dto.MembershipDetailResponse, error)
	List(ctx context.Context, req *dto.MembershipListRequest) ([]dto.MembershipResponse, error)
	// AttendanceHistory 成员在所属小组全部日程下的出勤历史（派生视图，按创建时间倒序）
	AttendanceHistory(ctx context.Context, membershipID string) ([]model.Attendance, error)
}

type membershipService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMembershipService 创建 MembershipService 实例
func NewMembershipService(repo *repository.Repository, logger *zap.Logger) MembershipService {
	return &membershipService{repo: repo, logger: logger}
}

// ────────────────────── CreateOrReactivate ──────────────────────

func (s *membershipService) CreateOrReactivate(ctx context.Context, userID, studyID, role string) (*model.StudyMembership, error) {
	if role == "" {
		role = model.RoleNormal
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	var result *model.StudyMembership
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		m, err := createOrReactivateTx(ctx, tx, userID, studyID, role)
		if err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createOrReactivateTx 在已有事务内执行创建或复活。
// 并发兜底：同时两个事务插入同一 (user, study) 时，后完成者命中唯一约束，
// 重新读取既有行后在"复活"与"冲突"之间裁决
func createOrReactivateTx(ctx context.Context, tx *repository.Repository, userID, studyID, role string) (*model.StudyMembership, error) {
	existing, err := tx.Membership.GetByUserAndStudy(ctx, userID, studyID)
	switch {
	case err == nil:
		return reactivateOrConflict(ctx, tx, existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 继续创建
	default:
		return nil, err
	}

	membership := &model.StudyMembership{
		UserID:  userID,
		StudyID: studyID,
		Role:    role,
	}
	if err := tx.Membership.Create(ctx, membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 唯一约束竞争失败：重读既有行再裁决
			existing, rerr := tx.Membership.GetByUserAndStudy(ctx, userID, studyID)
			if rerr != nil {
				return nil, rerr
			}
			return reactivateOrConflict(ctx, tx, existing)
		}
		return nil, err
	}
	return membership, nil
}

// reactivateOrConflict 既有行已退出则复活（角色不重置），活跃则报冲突
func reactivateOrConflict(ctx context.Context, tx *repository.Repository, m *model.StudyMembership) (*model.StudyMembership, error) {
	if !m.IsWithdraw {
		return nil, ErrMembershipExists
	}
	m.IsWithdraw = false
	if err := tx.Membership.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ────────────────────── Withdraw ──────────────────────

func (s *membershipService) Withdraw(ctx context.Context, membershipID string) error {
	membership, err := s.repo.Membership.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}

	membership.IsWithdraw = true
	if err := s.repo.Membership.Update(ctx, membership); err != nil {
		s.logger.Error("成员退出失败", zap.String("membership_id", membershipID), zap.Error(err))
		return err
	}

	s.logger.Info("成员已退出小组",
		zap.String("membership_id", membershipID),
		zap.String("study_id", membership.StudyID),
	)
	return nil
}

// ────────────────────── UpdateRole ──────────────────────

func (s *membershipService) UpdateRole(ctx context.Context, membershipID, role string) (*dto.MembershipResponse, error) {
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	membership, err := s.repo.Membership.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	membership.Role = role
	if err := s.repo.Membership.Update(ctx, membership); err != nil {
		return nil, err
	}

	resp := toMembershipResponse(membership)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *membershipService) GetByID(ctx context.Context, membershipID string) (*dto.MembershipDetailResponse, error) {
	membership, err := s.repo.Membership.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	attendances, err := s.repo.Attendance.ListByUserAndStudy(ctx, membership.UserID, membership.StudyID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MembershipDetailResponse{
		MembershipResponse: toMembershipResponse(membership),
		Attendances:        make([]dto.AttendanceResponse, 0, len(attendances)),
	}
	for i := range attendances {
		resp.Attendances = append(resp.Attendances, toAttendanceResponse(&attendances[i]))
	}
	return resp, nil
}

func (s *membershipService) List(ctx context.Context, req *dto.MembershipListRequest) ([]dto.MembershipResponse, error) {
	filter := repository.MembershipFilter{IsWithdraw: req.IsWithdraw}
	if req.UserID != "" {
		filter.UserID = &req.UserID
	}
	if req.StudyID != "" {
		filter.StudyID = &req.StudyID
	}

	memberships, err := s.repo.Membership.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]dto.MembershipResponse, 0, len(memberships))
	for i := range memberships {
		result = append(result, toMembershipResponse(&memberships[i]))
	}
	return result, nil
}

func (s *membershipService) AttendanceHistory(ctx context.Context, membershipID string) ([]model.Attendance, error) {
	membership, err := s.repo.Membership.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return s.repo.Attendance.ListByUserAndStudy(ctx, membership.UserID, membership.StudyID)
}

// ────────────────────── 响应转换 ──────────────────────

func toMembershipResponse(m *model.StudyMembership) dto.MembershipResponse {
	resp := dto.MembershipResponse{
		MembershipID: m.MembershipID,
		StudyID:      m.StudyID,
		Role:         m.Role,
		IsWithdraw:   m.IsWithdraw,
		CreatedAt:    m.CreatedAt.Format(timeLayout),
	}
	if m.User != nil {
		u := toUserResponse(m.User)
		resp.User = &u
	}
	return resp
}
