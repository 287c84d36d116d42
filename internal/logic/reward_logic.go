package logic

import (
	"errors"
	"fmt"

	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/model"
	"gorm.io/gorm"
)

// RewardLogic 回报档位业务逻辑，持有库存账本
type RewardLogic struct {
	db *gorm.DB
}

// NewRewardLogic 创建回报档位业务逻辑
func NewRewardLogic(db *gorm.DB) *RewardLogic {
	return &RewardLogic{db: db}
}

// CreateReward 创建回报档位
func (l *RewardLogic) CreateReward(reward *model.RewardModel) error {
	// 验证档位数据
	if err := l.validateReward(reward); err != nil {
		return err
	}

	// 检查活动是否存在
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, reward.CampaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}

	// 初始化剩余库存
	if reward.IsUnlimited {
		reward.Quantity = 0
		reward.RemainingQuantity = 0
	} else {
		reward.RemainingQuantity = reward.Quantity
	}

	if err := l.db.Create(reward).Error; err != nil {
		return fmt.Errorf("创建回报档位失败: %w", err)
	}

	return nil
}

// GetReward 获取回报档位
func (l *RewardLogic) GetReward(id int64) (*model.RewardModel, error) {
	var reward model.RewardModel
	if err := l.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("获取回报档位失败: %w", err)
	}

	return &reward, nil
}

// GetCampaignRewards 获取活动的回报档位列表
func (l *RewardLogic) GetCampaignRewards(campaignId int64) ([]model.RewardModel, error) {
	var rewards []model.RewardModel
	if err := l.db.Where("campaign_id = ?", campaignId).
		Order("amount ASC").
		Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("获取回报档位列表失败: %w", err)
	}

	return rewards, nil
}

// DecrementRemaining 扣减回报档位剩余库存。
// 扣减通过单条条件更新完成：仅当 remaining_quantity > 0 时减一，
// 并发确认同一档位最后一件时恰好一个请求命中。
// 库存为软限制：扣减未命中只记录日志，支付已完成的支持不受影响。
func (l *RewardLogic) DecrementRemaining(rewardId int64) error {
	reward, err := l.GetReward(rewardId)
	if err != nil {
		return err
	}

	// 不限量档位无需扣减
	if reward.IsUnlimited {
		return nil
	}

	result := l.db.Model(&model.RewardModel{}).
		Where("id = ? AND remaining_quantity > 0", rewardId).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - 1"))

	if result.Error != nil {
		return fmt.Errorf("扣减库存失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Warn("Reward %d is sold out, skipping inventory decrement", rewardId)
	}

	return nil
}

// validateReward 验证档位数据
func (l *RewardLogic) validateReward(reward *model.RewardModel) error {
	if reward.CampaignId == 0 {
		return NewValidationError("档位必须关联活动")
	}
	if reward.Title == "" {
		return NewValidationError("档位标题不能为空")
	}
	if reward.Amount <= 0 {
		return NewValidationError("档位金额必须大于0")
	}
	if !reward.IsUnlimited && reward.Quantity <= 0 {
		return NewValidationError("限量档位数量必须大于0")
	}
	return nil
}
