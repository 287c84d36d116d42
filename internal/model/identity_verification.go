package model

import (
	"time"
)

// IdentityVerificationModel 身份认证记录
type IdentityVerificationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId     int64 `json:"user_id" gorm:"not null;index"`
	CampaignId int64 `json:"campaign_id" gorm:"index"` // 0表示未关联活动

	// 服务商会话ID
	SessionId string `json:"session_id" gorm:"uniqueIndex;not null"`

	// 认证状态：succeeded为终态，不会被后续事件降级
	Status VerificationStatus `json:"verification_status" gorm:"default:'pending'"`

	// 认证通过后一次性写入，之后不再变更
	VerifiedData string     `json:"verified_data" gorm:"type:text"`
	VerifiedAt   *time.Time `json:"verified_at"`

	ErrorMessage string     `json:"error_message" gorm:"type:text"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// VerificationStatus 认证状态
type VerificationStatus string

const (
	VerificationStatusPending       VerificationStatus = "pending"        // 处理中
	VerificationStatusRequiresInput VerificationStatus = "requires_input" // 等待用户补充
	VerificationStatusSucceeded     VerificationStatus = "succeeded"      // 认证成功
	VerificationStatusFailed        VerificationStatus = "failed"         // 认证失败
	VerificationStatusCanceled      VerificationStatus = "canceled"       // 已取消
)

// TableName 自定义表名
func (IdentityVerificationModel) TableName() string {
	return "identity_verification"
}
