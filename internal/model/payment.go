package model

import (
	"time"
)

// PaymentModel 支付记录，与支持记录一一对应。
// 单独保存服务商侧标识，容忍webhook重复投递。
type PaymentModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SupporterId int64 `json:"supporter_id" gorm:"not null;uniqueIndex"`

	// 服务商侧标识
	CheckoutSessionId string `json:"checkout_session_id" gorm:"index"`
	PaymentIntentId   string `json:"payment_intent_id" gorm:"index"`

	Amount int64         `json:"amount" gorm:"not null"`
	Status PaymentStatus `json:"status" gorm:"default:'pending'"`
}

// TableName 自定义表名
func (PaymentModel) TableName() string {
	return "payment"
}
