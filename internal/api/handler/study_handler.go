package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/service"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// StudyHandler 学习小组模块 HTTP 处理器
type StudyHandler struct {
	studySvc service.StudyService
}

// NewStudyHandler 创建 StudyHandler
func NewStudyHandler(studySvc service.StudyService) *StudyHandler {
	return &StudyHandler{studySvc: studySvc}
}

// CreateStudy 创建学习小组（创建者自动成为 manager）
// POST /api/v1/studies
func (h *StudyHandler) CreateStudy(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	study, err := h.studySvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, study)
}

// GetStudy 小组详情（日程携带观察者自己的出勤投影）
// GET /api/v1/studies/:id
func (h *StudyHandler) GetStudy(c *gin.Context) {
	study, err := h.studySvc.GetByID(c.Request.Context(), c.Param("id"), GetViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, study)
}

// ListStudies 小组列表
// GET /api/v1/studies
func (h *StudyHandler) ListStudies(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	studies, total, err := h.studySvc.List(c.Request.Context(), &page, GetViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.OKPage(c, studies, total, page.GetPage(), page.GetPageSize())
}

// UpdateStudy 更新小组信息
// PATCH /api/v1/studies/:id
func (h *StudyHandler) UpdateStudy(c *gin.Context) {
	var req dto.UpdateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	study, err := h.studySvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, study)
}

// ListCategories 分类列表
// GET /api/v1/study-categories
func (h *StudyHandler) ListCategories(c *gin.Context) {
	categories, err := h.studySvc.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, categories)
}

// ListIcons 图标列表
// GET /api/v1/study-icons
func (h *StudyHandler) ListIcons(c *gin.Context) {
	icons, err := h.studySvc.ListIcons(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, icons)
}
