package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
)

// touchTimes 模拟 GORM 自动时间戳：CreatedAt 为零值时补当前时间
func touchTimes(b *model.BaseModel) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = time.Now()
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.LoginID == user.LoginID {
			return gorm.ErrDuplicatedKey
		}
		if user.Email != nil && u.Email != nil && !u.Retired && *u.Email == *user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	touchTimes(&user.BaseModel)
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLoginID(_ context.Context, loginID string) (*model.User, error) {
	for _, u := range m.users {
		if u.LoginID == loginID && !u.Retired {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLoginIDAny(_ context.Context, loginID string) (*model.User, error) {
	for _, u := range m.users {
		if u.LoginID == loginID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email != nil && *u.Email == email && !u.Retired {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email != nil && *u.Email == email && !u.Retired {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if !u.Retired {
			all = append(all, *u)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListRetired(_ context.Context, orderBy string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Retired {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if orderBy == "login_id" {
			return result[i].LoginID < result[j].LoginID
		}
		// 默认创建时间序，user_id 破平
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

// ── Mock EmailValidationRepository ──

type mockEmailValidationRepo struct {
	validations []*model.EmailValidation
}

func newMockEmailValidationRepo() *mockEmailValidationRepo {
	return &mockEmailValidationRepo{}
}

func (m *mockEmailValidationRepo) Create(_ context.Context, v *model.EmailValidation) error {
	if v.EmailValidationID == "" {
		v.EmailValidationID = fmt.Sprintf("ev-%03d", len(m.validations)+1)
	}
	touchTimes(&v.BaseModel)
	m.validations = append(m.validations, v)
	return nil
}

func (m *mockEmailValidationRepo) GetByEmail(_ context.Context, email string) (*model.EmailValidation, error) {
	// 与真实实现一致：返回该邮箱最新一条
	for i := len(m.validations) - 1; i >= 0; i-- {
		if m.validations[i].Email == email {
			return m.validations[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock StudyCategoryRepository / StudyIconRepository ──

type mockCategoryRepo struct {
	categories map[string]*model.StudyCategory
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.StudyCategory)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.StudyCategory) error {
	if category.CategoryID == "" {
		category.CategoryID = "cat-" + category.Name
	}
	m.categories[category.CategoryID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.StudyCategory, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.StudyCategory, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.StudyCategory, error) {
	var result []model.StudyCategory
	for _, c := range m.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type mockIconRepo struct {
	icons map[string]*model.StudyIcon
}

func newMockIconRepo() *mockIconRepo {
	return &mockIconRepo{icons: make(map[string]*model.StudyIcon)}
}

func (m *mockIconRepo) Create(_ context.Context, icon *model.StudyIcon) error {
	if icon.IconID == "" {
		icon.IconID = "icon-" + icon.Name
	}
	m.icons[icon.IconID] = icon
	return nil
}

func (m *mockIconRepo) GetByID(_ context.Context, id string) (*model.StudyIcon, error) {
	if ic, ok := m.icons[id]; ok {
		return ic, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIconRepo) GetByName(_ context.Context, name string) (*model.StudyIcon, error) {
	for _, ic := range m.icons {
		if ic.Name == name {
			return ic, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIconRepo) List(_ context.Context) ([]model.StudyIcon, error) {
	var result []model.StudyIcon
	for _, ic := range m.icons {
		result = append(result, *ic)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock StudyRepository ──

type mockStudyRepo struct {
	studies map[string]*model.Study
	seq     int
}

func newMockStudyRepo() *mockStudyRepo {
	return &mockStudyRepo{studies: make(map[string]*model.Study)}
}

func (m *mockStudyRepo) Create(_ context.Context, study *model.Study) error {
	if study.StudyID == "" {
		m.seq++
		study.StudyID = fmt.Sprintf("study-%03d", m.seq)
	}
	touchTimes(&study.BaseModel)
	m.studies[study.StudyID] = study
	return nil
}

func (m *mockStudyRepo) GetByID(_ context.Context, id string) (*model.Study, error) {
	if s, ok := m.studies[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudyRepo) Update(_ context.Context, study *model.Study) error {
	study.UpdatedAt = time.Now()
	m.studies[study.StudyID] = study
	return nil
}

func (m *mockStudyRepo) Delete(_ context.Context, id string) error {
	delete(m.studies, id)
	return nil
}

func (m *mockStudyRepo) List(_ context.Context, offset, limit int) ([]model.Study, int64, error) {
	var all []model.Study
	for _, s := range m.studies {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock MembershipRepository ──

type mockMembershipRepo struct {
	memberships map[string]*model.StudyMembership
	seq         int
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{memberships: make(map[string]*model.StudyMembership)}
}

func (m *mockMembershipRepo) Create(_ context.Context, membership *model.StudyMembership) error {
	// (user_id, study_id) 唯一约束，含已退出行
	for _, e := range m.memberships {
		if e.UserID == membership.UserID && e.StudyID == membership.StudyID {
			return gorm.ErrDuplicatedKey
		}
	}
	if membership.MembershipID == "" {
		m.seq++
		membership.MembershipID = fmt.Sprintf("mem-%03d", m.seq)
	}
	touchTimes(&membership.BaseModel)
	m.memberships[membership.MembershipID] = membership
	return nil
}

func (m *mockMembershipRepo) GetByID(_ context.Context, id string) (*model.StudyMembership, error) {
	if e, ok := m.memberships[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembershipRepo) GetByUserAndStudy(_ context.Context, userID, studyID string) (*model.StudyMembership, error) {
	for _, e := range m.memberships {
		if e.UserID == userID && e.StudyID == studyID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembershipRepo) Update(_ context.Context, membership *model.StudyMembership) error {
	membership.UpdatedAt = time.Now()
	m.memberships[membership.MembershipID] = membership
	return nil
}

func (m *mockMembershipRepo) List(_ context.Context, filter repository.MembershipFilter) ([]model.StudyMembership, error) {
	var result []model.StudyMembership
	for _, e := range m.memberships {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.StudyID != nil && e.StudyID != *filter.StudyID {
			continue
		}
		if filter.IsWithdraw != nil && e.IsWithdraw != *filter.IsWithdraw {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockMembershipRepo) ListActiveByStudy(_ context.Context, studyID string) ([]model.StudyMembership, error) {
	var result []model.StudyMembership
	for _, e := range m.memberships {
		if e.StudyID == studyID && !e.IsWithdraw {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockMembershipRepo) ListByStudyCreatedBefore(_ context.Context, studyID string, cutoff time.Time) ([]model.StudyMembership, error) {
	var result []model.StudyMembership
	for _, e := range m.memberships {
		if e.StudyID == studyID && !e.CreatedAt.After(cutoff) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
	seq       int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.Schedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sch-%03d", m.seq)
	}
	touchTimes(&schedule.BaseModel)
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.Schedule) error {
	schedule.UpdatedAt = time.Now()
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

func (m *mockScheduleRepo) ListByStudy(_ context.Context, studyID string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if s.StudyID == studyID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockScheduleRepo) List(_ context.Context, offset, limit int) ([]model.Schedule, int64, error) {
	var all []model.Schedule
	for _, s := range m.schedules {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	attendances map[string]*model.Attendance
	// 连到日程 mock 用于 ListByUserAndStudy 的按小组过滤
	schedules *mockScheduleRepo
	seq       int
}

func newMockAttendanceRepo(schedules *mockScheduleRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		attendances: make(map[string]*model.Attendance),
		schedules:   schedules,
	}
}

func (m *mockAttendanceRepo) Create(_ context.Context, attendance *model.Attendance) error {
	// (user_id, schedule_id) 唯一约束
	for _, e := range m.attendances {
		if e.UserID == attendance.UserID && e.ScheduleID == attendance.ScheduleID {
			return gorm.ErrDuplicatedKey
		}
	}
	if attendance.AttendanceID == "" {
		m.seq++
		attendance.AttendanceID = fmt.Sprintf("att-%03d", m.seq)
	}
	touchTimes(&attendance.BaseModel)
	m.attendances[attendance.AttendanceID] = attendance
	return nil
}

func (m *mockAttendanceRepo) GetOrCreate(ctx context.Context, userID, scheduleID string) (*model.Attendance, bool, error) {
	for _, e := range m.attendances {
		if e.UserID == userID && e.ScheduleID == scheduleID {
			return e, false, nil
		}
	}
	attendance := &model.Attendance{UserID: userID, ScheduleID: scheduleID}
	if err := m.Create(ctx, attendance); err != nil {
		return nil, false, err
	}
	return attendance, true, nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if e, ok := m.attendances[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetByUserAndSchedule(_ context.Context, userID, scheduleID string) (*model.Attendance, error) {
	for _, e := range m.attendances {
		if e.UserID == userID && e.ScheduleID == scheduleID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, attendance *model.Attendance) error {
	attendance.UpdatedAt = time.Now()
	m.attendances[attendance.AttendanceID] = attendance
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.attendances, id)
	return nil
}

func (m *mockAttendanceRepo) List(_ context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, e := range m.attendances {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.ScheduleID != nil && e.ScheduleID != *filter.ScheduleID {
			continue
		}
		if filter.Vote != nil && e.Vote != *filter.Vote {
			continue
		}
		if filter.Att != nil && e.Att != *filter.Att {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByUserAndSchedules(_ context.Context, userID string, scheduleIDs []string) ([]model.Attendance, error) {
	idSet := make(map[string]struct{}, len(scheduleIDs))
	for _, id := range scheduleIDs {
		idSet[id] = struct{}{}
	}
	var result []model.Attendance
	for _, e := range m.attendances {
		if e.UserID != userID {
			continue
		}
		if _, ok := idSet[e.ScheduleID]; ok {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByUserAndStudy(_ context.Context, userID, studyID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, e := range m.attendances {
		if e.UserID != userID {
			continue
		}
		if s, ok := m.schedules.schedules[e.ScheduleID]; !ok || s.StudyID != studyID {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockAttendanceRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, e := range m.attendances {
		if e.ScheduleID == scheduleID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// ── Mock InviteTokenRepository ──

type mockInviteTokenRepo struct {
	tokens map[string]*model.StudyInviteToken // key 索引
	seq    int
}

func newMockInviteTokenRepo() *mockInviteTokenRepo {
	return &mockInviteTokenRepo{tokens: make(map[string]*model.StudyInviteToken)}
}

func (m *mockInviteTokenRepo) Create(_ context.Context, token *model.StudyInviteToken) error {
	if _, ok := m.tokens[token.Key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if token.TokenID == "" {
		m.seq++
		token.TokenID = fmt.Sprintf("tok-%03d", m.seq)
	}
	touchTimes(&token.BaseModel)
	m.tokens[token.Key] = token
	return nil
}

func (m *mockInviteTokenRepo) GetByKey(_ context.Context, key string) (*model.StudyInviteToken, error) {
	if t, ok := m.tokens[key]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteTokenRepo) GetByKeyForUpdate(ctx context.Context, key string) (*model.StudyInviteToken, error) {
	return m.GetByKey(ctx, key)
}

func (m *mockInviteTokenRepo) ExistsByKey(_ context.Context, key string) (bool, error) {
	_, ok := m.tokens[key]
	return ok, nil
}

func (m *mockInviteTokenRepo) ListByStudy(_ context.Context, studyID string) ([]model.StudyInviteToken, error) {
	var result []model.StudyInviteToken
	for _, t := range m.tokens {
		if t.StudyID == studyID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ── 测试仓储聚合 ──

// mockRepos 各 mock 的直接引用，测试用于播种数据与断言内部状态
type mockRepos struct {
	user            *mockUserRepo
	emailValidation *mockEmailValidationRepo
	category        *mockCategoryRepo
	icon            *mockIconRepo
	study           *mockStudyRepo
	membership      *mockMembershipRepo
	schedule        *mockScheduleRepo
	attendance      *mockAttendanceRepo
	inviteToken     *mockInviteTokenRepo
}

// newTestRepository 构造全 mock 仓储聚合；db 为 nil，Transaction 直接执行
func newTestRepository() (*repository.Repository, *mockRepos) {
	schedules := newMockScheduleRepo()
	mocks := &mockRepos{
		user:            newMockUserRepo(),
		emailValidation: newMockEmailValidationRepo(),
		category:        newMockCategoryRepo(),
		icon:            newMockIconRepo(),
		study:           newMockStudyRepo(),
		membership:      newMockMembershipRepo(),
		schedule:        schedules,
		attendance:      newMockAttendanceRepo(schedules),
		inviteToken:     newMockInviteTokenRepo(),
	}
	repo := &repository.Repository{
		User:            mocks.user,
		EmailValidation: mocks.emailValidation,
		Category:        mocks.category,
		Icon:            mocks.icon,
		Study:           mocks.study,
		Membership:      mocks.membership,
		Schedule:        mocks.schedule,
		Attendance:      mocks.attendance,
		InviteToken:     mocks.inviteToken,
	}
	return repo, mocks
}
