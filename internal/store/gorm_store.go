package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linkwrap-platform/internal/model"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 的持久化实现, 生产使用 MySQL, 本地和测试使用 SQLite
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建存储实例
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, link *model.WrappedLink) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateShortID
		}
		return fmt.Errorf("create wrapped link: %w", err)
	}
	return nil
}

func (s *GormStore) FindByShortID(ctx context.Context, shortID string) (*model.WrappedLink, error) {
	var link model.WrappedLink
	if err := s.db.WithContext(ctx).Where("short_id = ?", shortID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find wrapped link: %w", err)
	}
	return &link, nil
}

func (s *GormStore) Exists(ctx context.Context, shortID string) (bool, error) {
	var count int64
	// Unscoped 保证即使以后引入软删除, 已删除的短码也不会被复用
	if err := s.db.WithContext(ctx).Unscoped().Model(&model.WrappedLink{}).Where("short_id = ?", shortID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check short id: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) IncrementClickCount(ctx context.Context, shortID string) error {
	res := s.db.WithContext(ctx).Model(&model.WrappedLink{}).
		Where("short_id = ?", shortID).
		UpdateColumn("click_count", gorm.Expr("click_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("increment click count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) RecordClick(ctx context.Context, record *model.ClickRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicate 兼容未开启 TranslateError 的连接
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
