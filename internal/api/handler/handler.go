package handler

import "github.com/LeeHanYeong/StudyWatson/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Study      *StudyHandler
	Membership *MembershipHandler
	Schedule   *ScheduleHandler
	Attendance *AttendanceHandler
	Invite     *InviteHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, svc.User),
		User:       NewUserHandler(svc.User),
		Study:      NewStudyHandler(svc.Study),
		Membership: NewMembershipHandler(svc.Membership),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Invite:     NewInviteHandler(svc.Invite, svc.Study),
		Export:     NewExportHandler(svc.Export),
	}
}
