package model

import (
	"time"
)

// WebhookEventModel 服务商webhook事件记录，用于跨重启去重
type WebhookEventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Provider  string `json:"provider" gorm:"not null;uniqueIndex:ux_webhook_event_provider_event,priority:1"`
	EventId   string `json:"event_id" gorm:"not null;uniqueIndex:ux_webhook_event_provider_event,priority:2"`
	EventType string `json:"event_type" gorm:"not null;index"`
	Payload   string `json:"payload" gorm:"type:text"`
	Processed bool   `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (WebhookEventModel) TableName() string {
	return "webhook_event"
}
