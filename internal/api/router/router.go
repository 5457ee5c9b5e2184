package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LeeHanYeong/StudyWatson/config"
	"github.com/LeeHanYeong/StudyWatson/internal/api/handler"
	"github.com/LeeHanYeong/StudyWatson/internal/api/middleware"
	"github.com/LeeHanYeong/StudyWatson/pkg/jwt"
	"github.com/LeeHanYeong/StudyWatson/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公开只读路由
		v1.GET("/study-categories", h.Study.ListCategories)
		v1.GET("/study-icons", h.Study.ListIcons)
		v1.GET("/invite-tokens/:key", h.Invite.ValidateInviteToken)
		v1.GET("/invite-tokens/:key/study", h.Invite.GetStudyByToken)
		v1.GET("/studies/:id/schedule.ics", h.Export.ScheduleICS)
		v1.POST("/users/email-validation", middleware.RateLimit(rdb, 5, time.Minute), h.User.SendEmailValidation)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.PATCH("/me", h.User.UpdateCurrentUser)
				users.DELETE("/me", h.User.RetireCurrentUser)
				users.GET("/:id", h.User.GetUser)
			}

			// 学习小组模块
			studies := authorized.Group("/studies")
			{
				studies.GET("", h.Study.ListStudies)
				studies.GET("/:id", h.Study.GetStudy)
				studies.POST("", h.Study.CreateStudy)
				studies.PATCH("/:id", h.Study.UpdateStudy)
				studies.GET("/:id/export/attendance", h.Export.ExportAttendance)
			}

			// 成员模块
			memberships := authorized.Group("/memberships")
			{
				memberships.GET("", h.Membership.ListMemberships)
				memberships.GET("/:id", h.Membership.GetMembership)
				memberships.POST("", h.Membership.CreateMembership)
				memberships.PATCH("/:id", h.Membership.UpdateMembership)
				memberships.DELETE("/:id", h.Membership.WithdrawMembership)
			}

			// 日程模块
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("", h.Schedule.ListSchedules)
				schedules.GET("/:id", h.Schedule.GetSchedule)
				schedules.POST("", h.Schedule.CreateSchedule)
				schedules.PATCH("/:id", h.Schedule.UpdateSchedule)
				schedules.DELETE("/:id", h.Schedule.DeleteSchedule)
				schedules.POST("/:id/sync-attendances", h.Schedule.SyncAttendances)
			}

			// 出勤模块
			attendances := authorized.Group("/attendances")
			{
				attendances.GET("", h.Attendance.ListAttendances)
				attendances.GET("/:id", h.Attendance.GetAttendance)
				attendances.POST("", h.Attendance.CreateAttendance)
				attendances.PATCH("/:id", h.Attendance.UpdateAttendance)
				attendances.DELETE("/:id", h.Attendance.DeleteAttendance)
			}

			// 邀请令牌模块
			authorized.POST("/invite-tokens", h.Invite.CreateInviteToken)
			authorized.POST("/invite-tokens/redeem", h.Invite.RedeemInviteToken)
		}
	}

	return r
}
