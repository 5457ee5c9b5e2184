package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/pkg/apperr"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "unauthorized", "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "unauthorized", "未认证")
		return "", false
	}
	return s, true
}

// GetViewerID 提取可选的观察者 user_id（公开接口允许匿名访问）
func GetViewerID(c *gin.Context) string {
	if v, exists := c.Get("user_id"); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// fail 将 Service 层业务错误映射为 HTTP 响应
func fail(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case apperr.KindNotFound:
			response.NotFound(c, e.Code, e.Message)
		case apperr.KindConflict:
			response.Conflict(c, e.Code, e.Message)
		case apperr.KindInvalidInput:
			response.BadRequest(c, e.Code, e.Message)
		case apperr.KindExpiredToken:
			response.Error(c, http.StatusGone, e.Code, e.Message)
		default:
			response.InternalError(c)
		}
		return
	}
	response.InternalError(c)
}
