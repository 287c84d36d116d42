package model

import (
	"time"
)

// SupporterModel 支持记录（一次支持意向）
type SupporterModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId int64 `json:"campaign_id" gorm:"not null;index"`
	RewardId   int64 `json:"reward_id" gorm:"not null"`
	UserId     int64 `json:"user_id" gorm:"not null;index"`

	Amount int64 `json:"amount" gorm:"not null"`

	// 支付状态：pending为非终态，completed/failed为终态
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"default:'pending';index"`

	// 支付服务商会话ID
	CheckoutSessionId string `json:"checkout_session_id" gorm:"index"`
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // 待支付
	PaymentStatusCompleted PaymentStatus = "completed" // 支付成功
	PaymentStatusFailed    PaymentStatus = "failed"    // 支付失败
)

// TableName 自定义表名
func (SupporterModel) TableName() string {
	return "supporter"
}
