package logic

import (
	"errors"
	"fmt"

	"github.com/blues/cfm/internal/model"
	"gorm.io/gorm"
)

// WebhookEventLogic webhook事件记录业务逻辑
type WebhookEventLogic struct {
	db *gorm.DB
}

// NewWebhookEventLogic 创建webhook事件业务逻辑
func NewWebhookEventLogic(db *gorm.DB) *WebhookEventLogic {
	return &WebhookEventLogic{db: db}
}

// FindEvent 按来源和事件ID查找事件记录，不存在时返回nil。
// 去重判断由调用方基于Processed标志完成：已记录但未处理完成的事件
// 是上次投递失败后的重试，必须继续处理而不是短路。
func (l *WebhookEventLogic) FindEvent(provider, eventId string) (*model.WebhookEventModel, error) {
	var event model.WebhookEventModel
	err := l.db.Where("provider = ? AND event_id = ?", provider, eventId).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询事件记录失败: %w", err)
	}
	return &event, nil
}

// CreateEvent 创建事件记录
func (l *WebhookEventLogic) CreateEvent(event *model.WebhookEventModel) error {
	if event.Provider == "" || event.EventId == "" {
		return NewValidationError("事件来源和事件ID不能为空")
	}

	if err := l.db.Create(event).Error; err != nil {
		return fmt.Errorf("创建事件记录失败: %w", err)
	}

	return nil
}

// MarkProcessed 标记事件为已处理
func (l *WebhookEventLogic) MarkProcessed(id int64) error {
	if err := l.db.Model(&model.WebhookEventModel{}).
		Where("id = ?", id).
		Update("processed", true).Error; err != nil {
		return fmt.Errorf("标记事件已处理失败: %w", err)
	}

	return nil
}
