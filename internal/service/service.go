package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/LeeHanYeong/StudyWatson/config"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
	"github.com/LeeHanYeong/StudyWatson/pkg/jwt"
)

// timeLayout 响应中时间字段的统一格式
const timeLayout = time.RFC3339

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Study      StudyService
	Membership MembershipService
	Schedule   ScheduleService
	Attendance AttendanceService
	Invite     InviteService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:       NewUserService(repo, logger),
		Study:      NewStudyService(repo, logger),
		Membership: NewMembershipService(repo, logger),
		Schedule:   NewScheduleService(repo, logger),
		Attendance: NewAttendanceService(repo, logger),
		Invite:     NewInviteService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
