package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupporterLogic 支持记录业务逻辑
type SupporterLogic struct {
	db            *gorm.DB
	campaignLogic *CampaignLogic
}

// NewSupporterLogic 创建支持记录业务逻辑
func NewSupporterLogic(db *gorm.DB) *SupporterLogic {
	return &SupporterLogic{
		db:            db,
		campaignLogic: NewCampaignLogic(db),
	}
}

// InitiateCheckout 发起支持：创建待支付的支持记录和支付记录
func (l *SupporterLogic) InitiateCheckout(supporter *model.SupporterModel) error {
	// 验证支持数据
	if err := l.validateSupporter(supporter); err != nil {
		return err
	}

	// 检查活动是否存在且进行中
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, supporter.CampaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}
	if campaign.Status != model.CampaignStatusActive {
		return NewValidationError("活动不在进行中，无法支持")
	}

	// 检查档位是否属于该活动且金额达到门槛
	var reward model.RewardModel
	if err := l.db.First(&reward, supporter.RewardId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRewardNotFound
		}
		return err
	}
	if reward.CampaignId != supporter.CampaignId {
		return NewValidationError("回报档位不属于该活动")
	}
	if supporter.Amount < reward.Amount {
		return NewValidationError("支持金额低于档位门槛")
	}

	// 生成服务商会话ID
	supporter.PaymentStatus = model.PaymentStatusPending
	supporter.CheckoutSessionId = "cs_" + uuid.NewString()

	// 在同一事务内创建支持记录和支付记录
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(supporter).Error; err != nil {
			return fmt.Errorf("创建支持记录失败: %w", err)
		}

		payment := model.PaymentModel{
			SupporterId:       supporter.Id,
			CheckoutSessionId: supporter.CheckoutSessionId,
			Amount:            supporter.Amount,
			Status:            model.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("创建支付记录失败: %w", err)
		}

		return nil
	})
}

// GetSupporter 获取支持记录
func (l *SupporterLogic) GetSupporter(id int64) (*model.SupporterModel, error) {
	var supporter model.SupporterModel
	if err := l.db.First(&supporter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupporterNotFound
		}
		return nil, fmt.Errorf("获取支持记录失败: %w", err)
	}

	return &supporter, nil
}

// FindPending 按活动、用户、档位查找待支付的支持记录。
// checkout会话流程的事件不带支持记录ID，使用此路径回查。
func (l *SupporterLogic) FindPending(campaignId, userId, rewardId int64) (*model.SupporterModel, error) {
	var supporter model.SupporterModel
	err := l.db.Where("campaign_id = ? AND user_id = ? AND reward_id = ? AND payment_status = ?",
		campaignId, userId, rewardId, model.PaymentStatusPending).
		Order("created_at DESC").
		First(&supporter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupporterNotFound
		}
		return nil, fmt.Errorf("查找支持记录失败: %w", err)
	}

	return &supporter, nil
}

// Finalize 将支持记录和支付记录置为终态。
// 通过条件更新保证幂等：已处于终态的记录不会被再次更新，
// 返回值标识本次调用是否实际发生了状态变更。
// 支付成功时在同一事务内累加活动已筹金额。
func (l *SupporterLogic) Finalize(supporterId int64, succeeded bool, providerRef string) (bool, error) {
	newStatus := model.PaymentStatusFailed
	if succeeded {
		newStatus = model.PaymentStatusCompleted
	}

	updated := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.SupporterModel{}).
			Where("id = ? AND payment_status = ?", supporterId, model.PaymentStatusPending).
			Update("payment_status", newStatus)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 已是终态，重复投递的事件按无操作处理
			return nil
		}
		updated = true

		// 同步支付记录状态和服务商侧标识，
		// 按标识前缀写入对应的列
		paymentUpdates := map[string]interface{}{"status": newStatus}
		switch {
		case providerRef == "":
		case strings.HasPrefix(providerRef, "cs_"):
			paymentUpdates["checkout_session_id"] = providerRef
		default:
			paymentUpdates["payment_intent_id"] = providerRef
		}
		if err := tx.Model(&model.PaymentModel{}).
			Where("supporter_id = ?", supporterId).
			Updates(paymentUpdates).Error; err != nil {
			return err
		}

		// 支付成功时累加活动已筹金额
		if succeeded {
			var supporter model.SupporterModel
			if err := tx.First(&supporter, supporterId).Error; err != nil {
				return err
			}
			if err := l.campaignLogic.AddCurrentAmount(tx, supporter.CampaignId, supporter.Amount); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("更新支持记录状态失败: %w", err)
	}

	if updated {
		logger.Info("Supporter %d finalized as %s", supporterId, newStatus)
	}
	return updated, nil
}

// GetCampaignSupporters 获取活动的支持记录列表
func (l *SupporterLogic) GetCampaignSupporters(campaignId int64, page, pageSize int) ([]model.SupporterModel, int64, error) {
	var supporters []model.SupporterModel
	var total int64

	// 获取总数
	if err := l.db.Model(&model.SupporterModel{}).Where("campaign_id = ?", campaignId).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 获取数据
	offset := (page - 1) * pageSize
	if err := l.db.Where("campaign_id = ?", campaignId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&supporters).Error; err != nil {
		return nil, 0, err
	}

	return supporters, total, nil
}

// GetCampaignStats 获取活动支持统计信息
func (l *SupporterLogic) GetCampaignStats(campaignId int64) (map[string]interface{}, error) {
	campaign, err := l.campaignLogic.GetCampaign(campaignId)
	if err != nil {
		return nil, err
	}

	// 已完成支付的支持人数（去重）
	var supporterCount int64
	if err := l.db.Model(&model.SupporterModel{}).
		Where("campaign_id = ? AND payment_status = ?", campaignId, model.PaymentStatusCompleted).
		Distinct("user_id").
		Count(&supporterCount).Error; err != nil {
		return nil, fmt.Errorf("获取支持人数失败: %w", err)
	}

	// 已完成支付的支持笔数
	var pledgeCount int64
	if err := l.db.Model(&model.SupporterModel{}).
		Where("campaign_id = ? AND payment_status = ?", campaignId, model.PaymentStatusCompleted).
		Count(&pledgeCount).Error; err != nil {
		return nil, fmt.Errorf("获取支持笔数失败: %w", err)
	}

	// 计算完成百分比
	completionPercentage := float64(0)
	if campaign.TargetAmount > 0 {
		completionPercentage = float64(campaign.CurrentAmount) / float64(campaign.TargetAmount) * 100
	}

	return map[string]interface{}{
		"campaign_id":           campaign.Id,
		"current_amount":        campaign.CurrentAmount,
		"target_amount":         campaign.TargetAmount,
		"completion_percentage": completionPercentage,
		"supporter_count":       supporterCount,
		"pledge_count":          pledgeCount,
		"status":                campaign.Status,
	}, nil
}

// validateSupporter 验证支持数据
func (l *SupporterLogic) validateSupporter(supporter *model.SupporterModel) error {
	if supporter.CampaignId == 0 {
		return NewValidationError("活动ID不能为空")
	}
	if supporter.RewardId == 0 {
		return NewValidationError("回报档位ID不能为空")
	}
	if supporter.UserId == 0 {
		return NewValidationError("用户ID不能为空")
	}
	if supporter.Amount <= 0 {
		return NewValidationError("支持金额必须大于0")
	}
	return nil
}
