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

func setupTestAttendanceService() (AttendanceService, *mockRepos) {
	repo, mocks := newTestRepository()
	svc := NewAttendanceService(repo, zap.NewNop())
	mocks.schedule.schedules["sch-001"] = &model.Schedule{
		ScheduleID: "sch-001",
		StudyID:    "study-001",
		BaseModel:  model.BaseModel{CreatedAt: time.Now()},
	}
	return svc, mocks
}

// ── Create 测试 ──

func TestAttendanceService_Create_Success(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	resp, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID:     "user-001",
		ScheduleID: "sch-001",
		Vote:       model.VoteAttend,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Vote != model.VoteAttend {
		t.Errorf("期望Vote=attend，实际=%s", resp.Vote)
	}
	if resp.Att != model.VoteBlank {
		t.Errorf("实际出勤未填时应为空串，实际=%q", resp.Att)
	}
}

func TestAttendanceService_Create_Duplicate(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	req := &dto.CreateAttendanceRequest{UserID: "user-001", ScheduleID: "sch-001"}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrAttendanceExists) {
		t.Errorf("(user, schedule) 重复期望 ErrAttendanceExists，实际: %v", err)
	}
}

func TestAttendanceService_Create_ScheduleNotFound(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	_, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID:     "user-001",
		ScheduleID: "sch-missing",
	})
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

func TestAttendanceService_Create_InvalidVote(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	_, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID:     "user-001",
		ScheduleID: "sch-001",
		Vote:       "maybe",
	})
	if !errors.Is(err, ErrInvalidVote) {
		t.Errorf("期望 ErrInvalidVote，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestAttendanceService_Update_VoteAndAtt(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	created, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID:     "user-001",
		ScheduleID: "sch-001",
		Vote:       model.VoteAttend,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 会后记录实际结果：投了出席实际迟到
	att := model.VoteLate
	got, err := svc.Update(context.Background(), created.AttendanceID, &dto.UpdateAttendanceRequest{Att: &att})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got.Vote != model.VoteAttend {
		t.Errorf("更新 att 不应触碰 vote，实际=%s", got.Vote)
	}
	if got.Att != model.VoteLate {
		t.Errorf("期望Att=late，实际=%s", got.Att)
	}
}

func TestAttendanceService_Update_InvalidVote(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	created, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID:     "user-001",
		ScheduleID: "sch-001",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	bad := "maybe"
	_, err = svc.Update(context.Background(), created.AttendanceID, &dto.UpdateAttendanceRequest{Vote: &bad})
	if !errors.Is(err, ErrInvalidVote) {
		t.Errorf("期望 ErrInvalidVote，实际: %v", err)
	}
}

func TestAttendanceService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	vote := model.VoteAttend
	_, err := svc.Update(context.Background(), "att-missing", &dto.UpdateAttendanceRequest{Vote: &vote})
	if !errors.Is(err, ErrAttendanceNotFound) {
		t.Errorf("期望 ErrAttendanceNotFound，实际: %v", err)
	}
}

// ── List / Delete 测试 ──

func TestAttendanceService_List_FilterByVote(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.schedule.schedules["sch-002"] = &model.Schedule{
		ScheduleID: "sch-002",
		StudyID:    "study-001",
		BaseModel:  model.BaseModel{CreatedAt: time.Now()},
	}

	if _, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID: "user-001", ScheduleID: "sch-001", Vote: model.VoteAttend,
	}); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID: "user-001", ScheduleID: "sch-002", Vote: model.VoteAbsent,
	}); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	result, err := svc.List(context.Background(), &dto.AttendanceListRequest{
		UserID: "user-001",
		Vote:   model.VoteAbsent,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望过滤出 1 条记录，实际=%d", len(result))
	}
	if result[0].Vote != model.VoteAbsent {
		t.Errorf("期望Vote=absent，实际=%s", result[0].Vote)
	}
}

func TestAttendanceService_Delete(t *testing.T) {
	svc, mocks := setupTestAttendanceService()

	created, err := svc.Create(context.Background(), &dto.CreateAttendanceRequest{
		UserID:     "user-001",
		ScheduleID: "sch-001",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), created.AttendanceID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(mocks.attendance.attendances) != 0 {
		t.Errorf("删除后不应残留记录，实际=%d", len(mocks.attendance.attendances))
	}

	if err := svc.Delete(context.Background(), created.AttendanceID); !errors.Is(err, ErrAttendanceNotFound) {
		t.Errorf("期望 ErrAttendanceNotFound，实际: %v", err)
	}
}
