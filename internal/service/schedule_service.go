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

// ── 日程模块业务错误 ──

var (
	ErrScheduleNotFound = apperr.NotFound("scheduleNotFound", "学习日程不存在")
)

// ScheduleService 日程-出勤同步业务接口
//
// 核心不变量：日程创建后，所有 membership.created_at <= schedule.created_at 的成员
// 恰好各有一条空白出勤行；回填幂等，重试不产生重复行
type ScheduleService interface {
	// Create 创建日程并在同一事务内回填出勤行
	Create(ctx context.Context, req *dto.CreateScheduleRequest, viewerID string) (*dto.ScheduleResponse, error)
	// SyncAttendances 对既有日程执行（或重试）出勤回填，幂等
	SyncAttendances(ctx context.Context, scheduleID string) error
	GetByID(ctx context.Context, scheduleID, viewerID string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest, viewerID string) ([]dto.ScheduleResponse, int64, error)
	Update(ctx context.Context, scheduleID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, scheduleID string) error
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, viewerID string) (*dto.ScheduleResponse, error) {
	if _, err := s.repo.Study.GetByID(ctx, req.StudyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	schedule := &model.Schedule{
		StudyID:      req.StudyID,
		Location:     req.Location,
		Subject:      req.Subject,
		Description:  req.Description,
		VoteEndAt:    req.VoteEndAt,
		StartAt:      req.StartAt,
		StudyingTime: req.StudyingTime,
	}

	// 日程写入与出勤回填在同一事务内：任一失败整体回滚，不暴露部分回填
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		if err := tx.Schedule.Create(ctx, schedule); err != nil {
			return err
		}
		return backfillAttendances(ctx, tx, schedule, s.logger)
	})
	if err != nil {
		s.logger.Error("创建日程失败", zap.String("study_id", req.StudyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("日程已创建",
		zap.String("schedule_id", schedule.ScheduleID),
		zap.String("study_id", schedule.StudyID),
	)

	return s.GetByID(ctx, schedule.ScheduleID, viewerID)
}

// backfillAttendances 为加入时间不晚于日程创建时间的全部成员幂等补建空白出勤行。
// 资格判定使用 created_at <= schedule.created_at（含边界）；
// 并发退组的成员只是少回填几行，不报错
func backfillAttendances(ctx context.Context, tx *repository.Repository, schedule *model.Schedule, logger *zap.Logger) error {
	memberships, err := tx.Membership.ListByStudyCreatedBefore(ctx, schedule.StudyID, schedule.CreatedAt)
	if err != nil {
		return err
	}

	created := 0
	for i := range memberships {
		_, isNew, err := tx.Attendance.GetOrCreate(ctx, memberships[i].UserID, schedule.ScheduleID)
		if err != nil {
			return err
		}
		if isNew {
			created++
		}
	}

	logger.Info("出勤回填完成",
		zap.String("schedule_id", schedule.ScheduleID),
		zap.Int("members", len(memberships)),
		zap.Int("created", created),
	)
	return nil
}

// ────────────────────── SyncAttendances ──────────────────────

func (s *scheduleService) SyncAttendances(ctx context.Context, scheduleID string) error {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	return s.repo.Transaction(func(tx *repository.Repository) error {
		return backfillAttendances(ctx, tx, schedule, s.logger)
	})
}

// ────────────────────── 查询 ──────────────────────

func (s *scheduleService) GetByID(ctx context.Context, scheduleID, viewerID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	selfByID, err := s.prefetchSelfAttendance(ctx, viewerID, []string{scheduleID})
	if err != nil {
		return nil, err
	}

	resp := toScheduleResponse(schedule, SelfAttendance(selfByID, scheduleID))
	return &resp, nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest, viewerID string) ([]dto.ScheduleResponse, int64, error) {
	var (
		schedules []model.Schedule
		total     int64
		err       error
	)
	if req.StudyID != "" {
		schedules, err = s.repo.Schedule.ListByStudy(ctx, req.StudyID)
		total = int64(len(schedules))
	} else {
		schedules, total, err = s.repo.Schedule.List(ctx, req.GetOffset(), req.GetPageSize())
	}
	if err != nil {
		return nil, 0, err
	}

	// 观察者出勤行一次性批量预取，避免逐行查询
	scheduleIDs := make([]string, 0, len(schedules))
	for i := range schedules {
		scheduleIDs = append(scheduleIDs, schedules[i].ScheduleID)
	}
	selfByID, err := s.prefetchSelfAttendance(ctx, viewerID, scheduleIDs)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, toScheduleResponse(&schedules[i], SelfAttendance(selfByID, schedules[i].ScheduleID)))
	}
	return result, total, nil
}

// prefetchSelfAttendance 构建观察者范围的出勤预取映射；未认证观察者返回空映射
func (s *scheduleService) prefetchSelfAttendance(ctx context.Context, viewerID string, scheduleIDs []string) (map[string]*model.Attendance, error) {
	if viewerID == "" || len(scheduleIDs) == 0 {
		return nil, nil
	}
	attendances, err := s.repo.Attendance.ListByUserAndSchedules(ctx, viewerID, scheduleIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Attendance, len(attendances))
	for i := range attendances {
		byID[attendances[i].ScheduleID] = &attendances[i]
	}
	return byID, nil
}

// SelfAttendance 观察者出勤投影：纯函数，只在预取映射上查找。
// (user, schedule) 唯一，故至多一行；观察者在日程创建后才加入、或未认证时为 nil
func SelfAttendance(prefetched map[string]*model.Attendance, scheduleID string) *model.Attendance {
	if prefetched == nil {
		return nil
	}
	return prefetched[scheduleID]
}

// ────────────────────── Update / Delete ──────────────────────

func (s *scheduleService) Update(ctx context.Context, scheduleID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	if req.Location != nil {
		schedule.Location = *req.Location
	}
	if req.Subject != nil {
		schedule.Subject = *req.Subject
	}
	if req.Description != nil {
		schedule.Description = *req.Description
	}
	if req.VoteEndAt != nil {
		schedule.VoteEndAt = req.VoteEndAt
	}
	if req.StartAt != nil {
		schedule.StartAt = req.StartAt
	}
	if req.StudyingTime != nil {
		schedule.StudyingTime = req.StudyingTime
	}

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		return nil, err
	}

	resp := toScheduleResponse(schedule, nil)
	return &resp, nil
}

func (s *scheduleService) Delete(ctx context.Context, scheduleID string) error {
	if _, err := s.repo.Schedule.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return s.repo.Schedule.Delete(ctx, scheduleID)
}

// ────────────────────── 响应转换 ──────────────────────

func toScheduleResponse(sch *model.Schedule, self *model.Attendance) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ScheduleID:   sch.ScheduleID,
		StudyID:      sch.StudyID,
		Location:     sch.Location,
		Subject:      sch.Subject,
		Description:  sch.Description,
		VoteEndAt:    sch.VoteEndAt,
		StartAt:      sch.StartAt,
		StudyingTime: sch.StudyingTime,
		CreatedAt:    sch.CreatedAt.Format(timeLayout),
	}
	if self != nil {
		a := toAttendanceResponse(self)
		resp.SelfAttendance = &a
	}
	return resp
}
