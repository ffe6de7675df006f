package model

import (
	"time"
)

// ClickRecord 每次成功解析后的一条点击事件
type ClickRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ShortID     string    `gorm:"size:20;not null;index" json:"short_id"`
	Route       string    `gorm:"size:16" json:"route"`
	IsBot       bool      `json:"is_bot"`
	BotCategory string    `gorm:"size:32" json:"bot_category"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`
	Referer     string    `gorm:"type:text" json:"referer"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ClickRecord) TableName() string {
	return "click_records"
}
