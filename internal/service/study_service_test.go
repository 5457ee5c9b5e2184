package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/model"
)

// ── 测试辅助 ──

func setupTestStudyService() (StudyService, *mockRepos) {
	repo, mocks := newTestRepository()
	svc := NewStudyService(repo, zap.NewNop())
	mocks.category.categories["cat-001"] = &model.StudyCategory{
		CategoryID: "cat-001",
		Name:       "编程开发",
	}
	mocks.icon.icons["icon-001"] = &model.StudyIcon{
		IconID: "icon-001",
		Name:   "book",
	}
	return svc, mocks
}

// ── Create 测试 ──

func TestStudyService_Create_Success(t *testing.T) {
	svc, mocks := setupTestStudyService()

	resp, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID:  "cat-001",
		IconID:      "icon-001",
		Name:        "Go 学习小组",
		Description: "每周两次",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Name != "Go 学习小组" {
		t.Errorf("期望Name=Go 学习小组，实际=%s", resp.Name)
	}

	// 创建者 manager 成员关系在同一事务内写入
	if len(mocks.membership.memberships) != 1 {
		t.Fatalf("期望 1 行成员记录，实际=%d", len(mocks.membership.memberships))
	}
	for _, m := range mocks.membership.memberships {
		if m.UserID != "user-001" || m.StudyID != resp.StudyID {
			t.Errorf("成员关系应指向创建者与新小组，实际 user=%s study=%s", m.UserID, m.StudyID)
		}
		if m.Role != model.RoleMainManager {
			t.Errorf("创建者角色应为 manager，实际=%s", m.Role)
		}
	}
}

func TestStudyService_Create_CategoryNotFound(t *testing.T) {
	svc, _ := setupTestStudyService()

	_, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID: "cat-missing",
		Name:       "小组",
	}, "user-001")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}

func TestStudyService_Create_IconNotFound(t *testing.T) {
	svc, _ := setupTestStudyService()

	_, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID: "cat-001",
		IconID:     "icon-missing",
		Name:       "小组",
	}, "user-001")
	if !errors.Is(err, ErrIconNotFound) {
		t.Errorf("期望 ErrIconNotFound，实际: %v", err)
	}
}

// ── 查询 测试 ──

func TestStudyService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestStudyService()

	_, err := svc.GetByID(context.Background(), "study-missing", "")
	if !errors.Is(err, ErrStudyNotFound) {
		t.Errorf("期望 ErrStudyNotFound，实际: %v", err)
	}
}

func TestStudyService_GetByID_SchedulesWithSelfAttendance(t *testing.T) {
	svc, mocks := setupTestStudyService()

	resp, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID: "cat-001",
		Name:       "小组",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	mocks.schedule.schedules["sch-001"] = &model.Schedule{
		ScheduleID: "sch-001",
		StudyID:    resp.StudyID,
		BaseModel:  model.BaseModel{CreatedAt: time.Now()},
	}
	mocks.attendance.attendances["att-001"] = &model.Attendance{
		AttendanceID: "att-001",
		UserID:       "user-001",
		ScheduleID:   "sch-001",
		Vote:         model.VoteAttend,
	}

	got, err := svc.GetByID(context.Background(), resp.StudyID, "user-001")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if len(got.Schedules) != 1 {
		t.Fatalf("期望 1 条日程，实际=%d", len(got.Schedules))
	}
	if got.Schedules[0].SelfAttendance == nil {
		t.Fatal("观察者有出勤行，SelfAttendance 不应为 nil")
	}
	if got.Schedules[0].SelfAttendance.Vote != model.VoteAttend {
		t.Errorf("期望Vote=attend，实际=%s", got.Schedules[0].SelfAttendance.Vote)
	}

	// 另一观察者无出勤行
	got, err = svc.GetByID(context.Background(), resp.StudyID, "user-999")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.Schedules[0].SelfAttendance != nil {
		t.Error("无出勤行的观察者 SelfAttendance 应为 nil")
	}
}

func TestStudyService_GetByInviteToken(t *testing.T) {
	svc, mocks := setupTestStudyService()

	resp, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID: "cat-001",
		Name:       "小组",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	mocks.inviteToken.tokens["invite-key"] = &model.StudyInviteToken{
		TokenID:   "tok-001",
		StudyID:   resp.StudyID,
		Key:       "invite-key",
		Duration:  24,
		BaseModel: model.BaseModel{CreatedAt: time.Now()},
	}

	got, err := svc.GetByInviteToken(context.Background(), "invite-key", "")
	if err != nil {
		t.Fatalf("GetByInviteToken 应成功: %v", err)
	}
	if got.StudyID != resp.StudyID {
		t.Errorf("期望StudyID=%s，实际=%s", resp.StudyID, got.StudyID)
	}

	if _, err := svc.GetByInviteToken(context.Background(), "no-such-key", ""); !errors.Is(err, ErrInviteTokenNotFound) {
		t.Errorf("期望 ErrInviteTokenNotFound，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestStudyService_Update_Success(t *testing.T) {
	svc, _ := setupTestStudyService()

	resp, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID: "cat-001",
		Name:       "旧名字",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	name := "新名字"
	got, err := svc.Update(context.Background(), resp.StudyID, &dto.UpdateStudyRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got.Name != "新名字" {
		t.Errorf("期望Name=新名字，实际=%s", got.Name)
	}
}

func TestStudyService_Update_CategoryNotFound(t *testing.T) {
	svc, _ := setupTestStudyService()

	resp, err := svc.Create(context.Background(), &dto.CreateStudyRequest{
		CategoryID: "cat-001",
		Name:       "小组",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	missing := "cat-missing"
	_, err = svc.Update(context.Background(), resp.StudyID, &dto.UpdateStudyRequest{CategoryID: &missing})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}

// ── 分类 / 图标 测试 ──

func TestStudyService_ListCategoriesAndIcons(t *testing.T) {
	svc, _ := setupTestStudyService()

	categories, err := svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories 应成功: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "编程开发" {
		t.Errorf("期望 1 个分类 编程开发，实际=%v", categories)
	}

	icons, err := svc.ListIcons(context.Background())
	if err != nil {
		t.Fatalf("ListIcons 应成功: %v", err)
	}
	if len(icons) != 1 || icons[0].Name != "book" {
		t.Errorf("期望 1 个图标 book，实际=%v", icons)
	}
}
