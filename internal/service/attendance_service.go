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

// ── 出勤模块业务错误 ──

var (
	ErrAttendanceNotFound = apperr.NotFound("attendanceNotFound", "出勤记录不存在")
	ErrAttendanceExists   = apperr.Conflict("attendanceAlreadyExists", "该用户在此日程下已有出勤记录")
	ErrInvalidVote        = apperr.InvalidInput("invalidVoteChoice", "非法的出勤状态")
)

// AttendanceService 出勤记录业务接口
type AttendanceService interface {
	Create(ctx context.Context, req *dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error)
	GetByID(ctx context.Context, attendanceID string) (*dto.AttendanceResponse, error)
	// Update 更新会前投票（vote）与实际结果（att）
	Update(ctx context.Context, attendanceID string, req *dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error)
	Delete(ctx context.Context, attendanceID string) error
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *attendanceService) Create(ctx context.Context, req *dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error) {
	if !model.ValidVote(req.Vote) || !model.ValidVote(req.Att) {
		return nil, ErrInvalidVote
	}
	if _, err := s.repo.Schedule.GetByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	attendance := &model.Attendance{
		UserID:     req.UserID,
		ScheduleID: req.ScheduleID,
		Vote:       req.Vote,
		Att:        req.Att,
	}
	if err := s.repo.Attendance.Create(ctx, attendance); err != nil {
		// (user, schedule) 唯一约束兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAttendanceExists
		}
		s.logger.Error("创建出勤记录失败", zap.Error(err))
		return nil, err
	}

	resp := toAttendanceResponse(attendance)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *attendanceService) GetByID(ctx context.Context, attendanceID string) (*dto.AttendanceResponse, error) {
	attendance, err := s.repo.Attendance.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	resp := toAttendanceResponse(attendance)
	return &resp, nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error) {
	filter := repository.AttendanceFilter{}
	if req.UserID != "" {
		filter.UserID = &req.UserID
	}
	if req.ScheduleID != "" {
		filter.ScheduleID = &req.ScheduleID
	}
	if req.Vote != "" {
		filter.Vote = &req.Vote
	}
	if req.Att != "" {
		filter.Att = &req.Att
	}

	attendances, err := s.repo.Attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(attendances))
	for i := range attendances {
		result = append(result, toAttendanceResponse(&attendances[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *attendanceService) Update(ctx context.Context, attendanceID string, req *dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error) {
	attendance, err := s.repo.Attendance.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}

	if req.Vote != nil {
		if !model.ValidVote(*req.Vote) {
			return nil, ErrInvalidVote
		}
		attendance.Vote = *req.Vote
	}
	if req.Att != nil {
		if !model.ValidVote(*req.Att) {
			return nil, ErrInvalidVote
		}
		attendance.Att = *req.Att
	}

	if err := s.repo.Attendance.Update(ctx, attendance); err != nil {
		return nil, err
	}

	resp := toAttendanceResponse(attendance)
	return &resp, nil
}

func (s *attendanceService) Delete(ctx context.Context, attendanceID string) error {
	if _, err := s.repo.Attendance.GetByID(ctx, attendanceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		return err
	}
	return s.repo.Attendance.Delete(ctx, attendanceID)
}

// ────────────────────── 响应转换 ──────────────────────

func toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		AttendanceID: a.AttendanceID,
		ScheduleID:   a.ScheduleID,
		Vote:         a.Vote,
		Att:          a.Att,
		CreatedAt:    a.CreatedAt.Format(timeLayout),
	}
	if a.User != nil {
		u := toUserResponse(a.User)
		resp.User = &u
	}
	return resp
}
