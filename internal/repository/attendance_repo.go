package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
)

// AttendanceFilter 出勤列表过滤条件（nil 字段表示不过滤）
type AttendanceFilter struct {
	UserID     *string
	ScheduleID *string
	Vote       *string
	Att        *string
}

// AttendanceRepository 出勤记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	// GetOrCreate 按 (user_id, schedule_id) 幂等取回或创建空白出勤行。
	// 依赖唯一约束：并发或重试下的重复插入被忽略后重新读取，绝不产生第二行
	GetOrCreate(ctx context.Context, userID, scheduleID string) (*model.Attendance, bool, error)
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	GetByUserAndSchedule(ctx context.Context, userID, scheduleID string) (*model.Attendance, error)
	Update(ctx context.Context, attendance *model.Attendance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error)
	// ListByUserAndSchedules 按观察者批量拉取出勤行（self attendance 投影的预取输入）
	ListByUserAndSchedules(ctx context.Context, userID string, scheduleIDs []string) ([]model.Attendance, error)
	// ListByUserAndStudy 用户在某小组全部日程下的出勤历史（按创建时间倒序）
	ListByUserAndStudy(ctx context.Context, userID, studyID string) ([]model.Attendance, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.Attendance, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *attendanceRepo) GetOrCreate(ctx context.Context, userID, scheduleID string) (*model.Attendance, bool, error) {
	// INSERT ... ON CONFLICT DO NOTHING，随后读取唯一行
	attendance := &model.Attendance{
		UserID:     userID,
		ScheduleID: scheduleID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "schedule_id"}},
			DoNothing: true,
		}).
		Create(attendance)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0
	if created {
		return attendance, true, nil
	}

	existing, err := r.GetByUserAndSchedule(ctx, userID, scheduleID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Schedule").
		Where("attendance_id = ?", id).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepo) GetByUserAndSchedule(ctx context.Context, userID, scheduleID string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND schedule_id = ?", userID, scheduleID).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepo) Update(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Save(attendance).Error
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("attendance_id = ?", id).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error) {
	db := r.db.WithContext(ctx).Model(&model.Attendance{})
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.ScheduleID != nil {
		db = db.Where("schedule_id = ?", *filter.ScheduleID)
	}
	if filter.Vote != nil {
		db = db.Where("vote = ?", *filter.Vote)
	}
	if filter.Att != nil {
		db = db.Where("att = ?", *filter.Att)
	}

	var attendances []model.Attendance
	err := db.Preload("User").
		Order("created_at DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}

func (r *attendanceRepo) ListByUserAndSchedules(ctx context.Context, userID string, scheduleIDs []string) ([]model.Attendance, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	var attendances []model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND schedule_id IN ?", userID, scheduleIDs).
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}

func (r *attendanceRepo) ListByUserAndStudy(ctx context.Context, userID, studyID string) ([]model.Attendance, error) {
	var attendances []model.Attendance
	err := r.db.WithContext(ctx).
		Joins("JOIN schedules ON schedules.schedule_id = attendances.schedule_id").
		Where("attendances.user_id = ? AND schedules.study_id = ?", userID, studyID).
		Order("attendances.created_at DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}

func (r *attendanceRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]model.Attendance, error) {
	var attendances []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("schedule_id = ?", scheduleID).
		Order("created_at ASC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}
