// Package store 定义短链记录的存取契约及其 gorm / 缓存实现
package store

import (
	"context"
	"errors"

	"linkwrap-platform/internal/model"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("wrapped link not found")
	// ErrDuplicateShortID 短码唯一约束冲突, 调用方应换一个短码重试
	ErrDuplicateShortID = errors.New("short id already exists")
)

// LinkStore 短链存储. 过期判断不在存储层, FindByShortID 对过期记录照常返回
type LinkStore interface {
	Create(ctx context.Context, link *model.WrappedLink) error
	FindByShortID(ctx context.Context, shortID string) (*model.WrappedLink, error)
	// Exists 包含已过期的记录, 短码一经发放永不复用
	Exists(ctx context.Context, shortID string) (bool, error)
	IncrementClickCount(ctx context.Context, shortID string) error
	RecordClick(ctx context.Context, record *model.ClickRecord) error
	Ping(ctx context.Context) error
}
