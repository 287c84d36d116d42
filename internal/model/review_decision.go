package model

import (
	"time"
)

// ReviewDecisionModel 审核决定记录（审计用途）
type ReviewDecisionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId int64  `json:"campaign_id" gorm:"not null;index"`
	ReviewerId int64  `json:"reviewer_id" gorm:"not null"`
	Action     string `json:"action" gorm:"not null"` // approve, reject, needs_revision
	Reason     string `json:"reason" gorm:"type:text"`
}

// TableName 自定义表名
func (ReviewDecisionModel) TableName() string {
	return "review_decision"
}
