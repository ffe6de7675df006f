package model

import (
	"time"
)

// LinkKind 链接分类
type LinkKind string

const (
	// KindNormal 可以从 /go 直接跳转
	KindNormal LinkKind = "normal"
	// KindSensitive 必须经过 /out 中间页
	KindSensitive LinkKind = "sensitive"
)

// WrappedLink 包装后的短链接, 创建后除点击数外不再修改
type WrappedLink struct {
	ID          uint       `gorm:"primarykey" json:"-"`
	ShortID     string     `gorm:"size:20;uniqueIndex;not null" json:"shortId"`
	OriginalURL string     `gorm:"type:text;not null" json:"originalUrl"`
	Kind        LinkKind   `gorm:"size:16;not null;default:'sensitive'" json:"kind"`
	Domain      string     `gorm:"size:255" json:"domain"`
	Category    string     `gorm:"size:64" json:"category"`
	TitleAlias  string     `gorm:"size:255" json:"titleAlias"`
	OwnerUserID *string    `gorm:"size:64;index" json:"ownerUserId,omitempty"`
	CustomAlias *string    `gorm:"size:20" json:"customAlias,omitempty"`
	ClickCount  int64      `gorm:"default:0" json:"clickCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `gorm:"index" json:"expiresAt"`
}

// TableName 指定表名
func (WrappedLink) TableName() string {
	return "wrapped_links"
}

// IsExpired 在读取时判断是否过期, 没有后台清理任务
func (l *WrappedLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// IsSensitive 是否需要中间页
func (l *WrappedLink) IsSensitive() bool {
	return l.Kind != KindNormal
}
