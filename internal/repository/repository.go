package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	EmailValidation EmailValidationRepository
	Category        StudyCategoryRepository
	Icon            StudyIconRepository
	Study           StudyRepository
	Membership      MembershipRepository
	Schedule        ScheduleRepository
	Attendance      AttendanceRepository
	InviteToken     InviteTokenRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		EmailValidation: NewEmailValidationRepo(db),
		Category:        NewStudyCategoryRepo(db),
		Icon:            NewStudyIconRepo(db),
		Study:           NewStudyRepo(db),
		Membership:      NewMembershipRepo(db),
		Schedule:        NewScheduleRepo(db),
		Attendance:      NewAttendanceRepo(db),
		InviteToken:     NewInviteTokenRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn，fn 收到绑定事务连接的 Repository。
// 核心操作均在调用方事务内执行：fn 返回错误时整体回滚，
// 保证出勤回填、用户注销等多行写入不会出现部分可见状态
func (r *Repository) Transaction(fn func(txRepo *Repository) error) error {
	// 无底层连接时（内存仓储）直接执行，事务语义由调用方用例保证
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
