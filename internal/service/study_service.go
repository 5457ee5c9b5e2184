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

// ── 学习小组模块业务错误 ──

var (
	ErrStudyNotFound    = apperr.NotFound("studyNotFound", "学习小组不存在")
	ErrCategoryNotFound = apperr.NotFound("studyCategoryNotFound", "学习小组分类不存在")
	ErrIconNotFound     = apperr.NotFound("studyIconNotFound", "学习小组图标不存在")
)

// StudyService 学习小组业务接口
type StudyService interface {
	// Create 创建小组；创建者的 manager 成员关系在同一事务内写入
	Create(ctx context.Context, req *dto.CreateStudyRequest, authorID string) (*dto.StudyResponse, error)
	GetByID(ctx context.Context, studyID, viewerID string) (*dto.StudyResponse, error)
	// GetByInviteToken 按邀请令牌取回小组详情（入组前预览）
	GetByInviteToken(ctx context.Context, key, viewerID string) (*dto.StudyResponse, error)
	List(ctx context.Context, page *dto.PaginationRequest, viewerID string) ([]dto.StudyResponse, int64, error)
	Update(ctx context.Context, studyID string, req *dto.UpdateStudyRequest) (*dto.StudyResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListIcons(ctx context.Context) ([]dto.IconResponse, error)
}

type studyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudyService 创建 StudyService 实例
func NewStudyService(repo *repository.Repository, logger *zap.Logger) StudyService {
	return &studyService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *studyService) Create(ctx context.Context, req *dto.CreateStudyRequest, authorID string) (*dto.StudyResponse, error) {
	if _, err := s.repo.Category.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if req.IconID != "" {
		if _, err := s.repo.Icon.GetByID(ctx, req.IconID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIconNotFound
			}
			return nil, err
		}
	}

	study := &model.Study{
		CategoryID:  req.CategoryID,
		AuthorID:    &authorID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.IconID != "" {
		iconID := req.IconID
		study.IconID = &iconID
	}

	// 小组与创建者 manager 成员关系在同一事务内写入
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		if err := tx.Study.Create(ctx, study); err != nil {
			return err
		}
		_, err := createOrReactivateTx(ctx, tx, authorID, study.StudyID, model.RoleMainManager)
		return err
	})
	if err != nil {
		s.logger.Error("创建学习小组失败", zap.String("author_id", authorID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学习小组已创建",
		zap.String("study_id", study.StudyID),
		zap.String("author_id", authorID),
	)
	return s.GetByID(ctx, study.StudyID, authorID)
}

// ────────────────────── 查询 ──────────────────────

func (s *studyService) GetByID(ctx context.Context, studyID, viewerID string) (*dto.StudyResponse, error) {
	study, err := s.repo.Study.GetByID(ctx, studyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	return s.buildStudyResponse(ctx, study, viewerID)
}

func (s *studyService) GetByInviteToken(ctx context.Context, key, viewerID string) (*dto.StudyResponse, error) {
	token, err := s.repo.InviteToken.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteTokenNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, token.StudyID, viewerID)
}

func (s *studyService) List(ctx context.Context, page *dto.PaginationRequest, viewerID string) ([]dto.StudyResponse, int64, error) {
	studies, total, err := s.repo.Study.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.StudyResponse, 0, len(studies))
	for i := range studies {
		resp, err := s.buildStudyResponse(ctx, &studies[i], viewerID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *resp)
	}
	return result, total, nil
}

// buildStudyResponse 组装小组响应；日程列表带观察者出勤投影（一次批量预取）
func (s *studyService) buildStudyResponse(ctx context.Context, study *model.Study, viewerID string) (*dto.StudyResponse, error) {
	resp := &dto.StudyResponse{
		StudyID:     study.StudyID,
		Name:        study.Name,
		Description: study.Description,
		CreatedAt:   study.CreatedAt.Format(timeLayout),
	}
	if study.Category != nil {
		resp.Category = &dto.CategoryResponse{
			CategoryID: study.Category.CategoryID,
			Name:       study.Category.Name,
		}
	}
	if study.Icon != nil {
		resp.Icon = &dto.IconResponse{
			IconID: study.Icon.IconID,
			Name:   study.Icon.Name,
			Image:  study.Icon.Image,
		}
	}
	if study.Author != nil {
		author := toUserResponse(study.Author)
		resp.Author = &author
	}

	schedules, err := s.repo.Schedule.ListByStudy(ctx, study.StudyID)
	if err != nil {
		return nil, err
	}

	var selfByID map[string]*model.Attendance
	if viewerID != "" && len(schedules) > 0 {
		scheduleIDs := make([]string, 0, len(schedules))
		for i := range schedules {
			scheduleIDs = append(scheduleIDs, schedules[i].ScheduleID)
		}
		attendances, err := s.repo.Attendance.ListByUserAndSchedules(ctx, viewerID, scheduleIDs)
		if err != nil {
			return nil, err
		}
		selfByID = make(map[string]*model.Attendance, len(attendances))
		for i := range attendances {
			selfByID[attendances[i].ScheduleID] = &attendances[i]
		}
	}

	resp.Schedules = make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		resp.Schedules = append(resp.Schedules,
			toScheduleResponse(&schedules[i], SelfAttendance(selfByID, schedules[i].ScheduleID)))
	}
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *studyService) Update(ctx context.Context, studyID string, req *dto.UpdateStudyRequest) (*dto.StudyResponse, error) {
	study, err := s.repo.Study.GetByID(ctx, studyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.repo.Category.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		study.CategoryID = *req.CategoryID
	}
	if req.IconID != nil {
		if _, err := s.repo.Icon.GetByID(ctx, *req.IconID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIconNotFound
			}
			return nil, err
		}
		study.IconID = req.IconID
	}
	if req.Name != nil {
		study.Name = *req.Name
	}
	if req.Description != nil {
		study.Description = *req.Description
	}

	if err := s.repo.Study.Update(ctx, study); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, studyID, "")
}

// ────────────────────── 分类 / 图标 ──────────────────────

func (s *studyService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, dto.CategoryResponse{CategoryID: c.CategoryID, Name: c.Name})
	}
	return result, nil
}

func (s *studyService) ListIcons(ctx context.Context) ([]dto.IconResponse, error) {
	icons, err := s.repo.Icon.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.IconResponse, 0, len(icons))
	for _, ic := range icons {
		result = append(result, dto.IconResponse{IconID: ic.IconID, Name: ic.Name, Image: ic.Image})
	}
	return result, nil
}
