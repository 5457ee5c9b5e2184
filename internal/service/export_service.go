package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
	"github.com/LeeHanYeong/StudyWatson/pkg/apperr"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedule   = apperr.InvalidInput("exportEmpty", "该小组暂无日程")
	ErrExportNoMembers    = apperr.InvalidInput("exportEmpty", "该小组暂无在组成员")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 出勤表导出为 Excel (.xlsx)：行 = 在组成员，列 = 日程，单元格 = 实际出勤结果
//   - 日程导出为 iCalendar (.ics)：供成员订阅到日历客户端
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendance 导出指定小组的出勤表为 Excel
	ExportAttendance(ctx context.Context, studyID string) (*bytes.Buffer, string, error)
	// ScheduleICS 生成指定小组的 iCalendar 日程订阅内容
	ScheduleICS(ctx context.Context, studyID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 出勤状态在导出表格中的显示文本
var attLabels = map[string]string{
	model.VoteAttend: "出席",
	model.VoteLate:   "迟到",
	model.VoteAbsent: "缺席",
	model.VoteBlank:  "-",
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance — 导出出勤表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 表头: | 成员 | 日程1 | 日程2 | ... |（日程按开始时间排序）
//   - 单元格: 实际出勤结果（att），未填时退回会前投票（vote）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAttendance(ctx context.Context, studyID string) (*bytes.Buffer, string, error) {
	// 1. 查询小组
	study, err := s.repo.Study.GetByID(ctx, studyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrStudyNotFound
		}
		s.logger.Error("查询小组失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询日程与在组成员
	schedules, err := s.repo.Schedule.ListByStudy(ctx, studyID)
	if err != nil {
		s.logger.Error("查询日程失败", zap.Error(err))
		return nil, "", err
	}
	if len(schedules) == 0 {
		return nil, "", ErrExportNoSchedule
	}

	memberships, err := s.repo.Membership.ListActiveByStudy(ctx, studyID)
	if err != nil {
		s.logger.Error("查询成员失败", zap.Error(err))
		return nil, "", err
	}
	if len(memberships) == 0 {
		return nil, "", ErrExportNoMembers
	}

	// 3. 日程按开始时间排序（无开始时间的按创建时间排在末尾）
	sort.SliceStable(schedules, func(i, j int) bool {
		ti, tj := scheduleSortTime(&schedules[i]), scheduleSortTime(&schedules[j])
		return ti.Before(tj)
	})

	// 4. 构建出勤索引: "userID:scheduleID" → Attendance
	attIndex := make(map[string]*model.Attendance)
	for i := range schedules {
		attendances, err := s.repo.Attendance.ListBySchedule(ctx, schedules[i].ScheduleID)
		if err != nil {
			s.logger.Error("查询出勤记录失败", zap.Error(err))
			return nil, "", err
		}
		for j := range attendances {
			a := &attendances[j]
			attIndex[a.UserID+":"+a.ScheduleID] = a
		}
	}

	// 5. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "出勤表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 16)
	for i := range schedules {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetColWidth(sheetName, col, col, 14)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 出勤表", study.Name))
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", colName(len(schedules))))
	titleCell, _ := excelize.CoordinatesToCellName(1, 1)
	f.SetCellStyle(sheetName, titleCell, titleCell, headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "成员")
	for i := range schedules {
		header := schedules[i].Subject
		if header == "" {
			header = scheduleSortTime(&schedules[i]).Format("01-02")
		}
		f.SetCellValue(sheetName, cell(colName(1+i), row), header)
	}

	// 数据行
	row = 3
	for i := range memberships {
		m := &memberships[i]
		memberName := m.UserID
		if m.User != nil {
			memberName = m.User.Name
		}
		f.SetCellValue(sheetName, cell("A", row), memberName)

		for j := range schedules {
			text := attLabels[model.VoteBlank]
			if a, ok := attIndex[m.UserID+":"+schedules[j].ScheduleID]; ok {
				// 实际结果优先，未记录时退回会前投票
				if a.Att != model.VoteBlank {
					text = attLabels[a.Att]
				} else if a.Vote != model.VoteBlank {
					text = attLabels[a.Vote]
				}
			}
			f.SetCellValue(sheetName, cell(colName(1+j), row), text)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("出勤表_%s.xlsx", study.Name)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ScheduleICS — 生成 iCalendar 日程订阅内容
// ═══════════════════════════════════════════════════════════

func (s *exportService) ScheduleICS(ctx context.Context, studyID string) (*bytes.Buffer, string, error) {
	study, err := s.repo.Study.GetByID(ctx, studyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrStudyNotFound
		}
		s.logger.Error("查询小组失败", zap.Error(err))
		return nil, "", err
	}

	schedules, err := s.repo.Schedule.ListByStudy(ctx, studyID)
	if err != nil {
		s.logger.Error("查询日程失败", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//StudyWatson//Schedule//EN")
	cal.SetName(study.Name)

	for i := range schedules {
		sch := &schedules[i]
		// 无开始时间的日程尚未排期，不进入订阅
		if sch.StartAt == nil {
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("%s@studywatson", sch.ScheduleID))
		evt.SetDtStampTime(sch.CreatedAt)
		evt.SetStartAt(*sch.StartAt)

		// 结束时间 = 开始时间 + 学习时长（分钟），缺省 1 小时
		end := sch.StartAt.Add(time.Hour)
		if sch.StudyingTime != nil {
			end = sch.StartAt.Add(time.Duration(*sch.StudyingTime) * time.Minute)
		}
		evt.SetEndAt(end)

		summary := sch.Subject
		if summary == "" {
			summary = study.Name
		}
		evt.SetSummary(summary)
		if sch.Location != "" {
			evt.SetLocation(sch.Location)
		}
		if sch.Description != "" {
			evt.SetDescription(sch.Description)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s.ics", study.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// scheduleSortTime 日程排序锚点：优先开始时间，缺省用创建时间
func scheduleSortTime(sch *model.Schedule) time.Time {
	if sch.StartAt != nil {
		return *sch.StartAt
	}
	return sch.CreatedAt
}
