package model

import (
	"time"
)

// CampaignModel 众筹活动模型
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`

	// 所属频道信息
	ChannelId int64 `json:"channel_id" gorm:"not null;index"`
	OwnerId   int64 `json:"owner_id" gorm:"not null"`

	// 众筹信息
	TargetAmount  int64 `json:"target_amount" gorm:"not null" binding:"required,min=0"`
	CurrentAmount int64 `json:"current_amount" gorm:"default:0"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// 状态
	Status CampaignStatus `json:"status" gorm:"default:'draft';index"`

	// 发布信息
	ScheduledPublishAt *time.Time `json:"scheduled_publish_at"`
	AutoPublishEnabled bool       `json:"auto_publish_enabled" gorm:"default:false"`
	PublishedAt        *time.Time `json:"published_at"`

	// 身份认证状态（由认证记录派生）
	IdentityStatus CampaignIdentityStatus `json:"identity_verification_status" gorm:"default:'pending'"`
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusDraft         CampaignStatus = "draft"          // 草稿
	CampaignStatusUnderReview   CampaignStatus = "under_review"   // 审核中
	CampaignStatusApproved      CampaignStatus = "approved"       // 审核通过
	CampaignStatusNeedsRevision CampaignStatus = "needs_revision" // 需要修改
	CampaignStatusRejected      CampaignStatus = "rejected"       // 审核拒绝
	CampaignStatusScheduled     CampaignStatus = "scheduled"      // 定时发布
	CampaignStatusActive        CampaignStatus = "active"         // 进行中
	CampaignStatusCompleted     CampaignStatus = "completed"      // 已结束
)

// CampaignIdentityStatus 活动级身份认证状态
type CampaignIdentityStatus string

const (
	CampaignIdentityVerified CampaignIdentityStatus = "verified" // 已认证
	CampaignIdentityPending  CampaignIdentityStatus = "pending"  // 认证中
	CampaignIdentityFailed   CampaignIdentityStatus = "failed"   // 认证失败
)

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}
