package model

import (
	"time"
)

// RewardModel 回报档位
type RewardModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId  int64  `json:"campaign_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`

	// 档位金额（最低支持金额）
	Amount int64 `json:"amount" gorm:"not null" binding:"required,min=1"`

	// 库存信息
	Quantity          int  `json:"quantity" gorm:"default:0"`
	RemainingQuantity int  `json:"remaining_quantity" gorm:"default:0"`
	IsUnlimited       bool `json:"is_unlimited" gorm:"default:false"`
}

// TableName 自定义表名
func (RewardModel) TableName() string {
	return "reward"
}
