package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/repository"
)

// 部署初始数据；Seed 幂等，重复执行只补齐缺失项
var (
	seedCategories = []string{
		"编程开发",
		"外语学习",
		"考试认证",
		"读书会",
		"求职面试",
		"其他",
	}

	seedIcons = []model.StudyIcon{
		{Name: "book", Image: "static/study/icon/book.png"},
		{Name: "computer", Image: "static/study/icon/computer.png"},
		{Name: "pencil", Image: "static/study/icon/pencil.png"},
		{Name: "globe", Image: "static/study/icon/globe.png"},
		{Name: "coffee", Image: "static/study/icon/coffee.png"},
		{Name: "calendar", Image: "static/study/icon/calendar.png"},
	}
)

// Seed 写入分类与图标种子数据
func Seed(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	created := 0

	for _, name := range seedCategories {
		_, err := repo.Category.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.Category.Create(ctx, &model.StudyCategory{Name: name}); err != nil {
			// 并发启动时的唯一冲突视为已存在
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
		created++
	}

	for i := range seedIcons {
		icon := seedIcons[i]
		_, err := repo.Icon.GetByName(ctx, icon.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.Icon.Create(ctx, &icon); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info("种子数据写入完成", zap.Int("created", created))
	}
	return nil
}
