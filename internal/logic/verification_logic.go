package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/model"
	"github.com/blues/cfm/internal/retry"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// webhook可能先于认证会话的本地写入到达，查找时做有限次重试
const (
	lookupRetryAttempts = 3
	lookupRetryDelay    = 500 * time.Millisecond
)

// VerificationLogic 身份认证业务逻辑，合并服务商状态与本地状态
type VerificationLogic struct {
	db            *gorm.DB
	campaignLogic *CampaignLogic
}

// NewVerificationLogic 创建身份认证业务逻辑
func NewVerificationLogic(db *gorm.DB) *VerificationLogic {
	return &VerificationLogic{
		db:            db,
		campaignLogic: NewCampaignLogic(db),
	}
}

// BeginVerification 创建认证记录，生成服务商会话ID
func (l *VerificationLogic) BeginVerification(verification *model.IdentityVerificationModel) error {
	if verification.UserId == 0 {
		return NewValidationError("用户ID不能为空")
	}

	verification.Status = model.VerificationStatusPending
	if verification.SessionId == "" {
		verification.SessionId = "vs_" + uuid.NewString()
	}

	if err := l.db.Create(verification).Error; err != nil {
		return fmt.Errorf("创建认证记录失败: %w", err)
	}

	return nil
}

// GetBySessionId 按服务商会话ID获取认证记录
func (l *VerificationLogic) GetBySessionId(sessionId string) (*model.IdentityVerificationModel, error) {
	var verification model.IdentityVerificationModel
	err := l.db.Where("session_id = ?", sessionId).First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("获取认证记录失败: %w", err)
	}

	return &verification, nil
}

// MapProviderStatus 服务商状态到本地状态的映射
func MapProviderStatus(providerStatus string) model.VerificationStatus {
	switch providerStatus {
	case "verified":
		return model.VerificationStatusSucceeded
	case "canceled":
		return model.VerificationStatusCanceled
	case "failed":
		return model.VerificationStatusFailed
	case "requires_input", "processing":
		return model.VerificationStatusPending
	default:
		return model.VerificationStatusPending
	}
}

// ApplyProviderStatus 处理服务商推送的认证状态（webhook路径）。
// 合并规则：
//   - 本地已succeeded的记录不会被任何后续事件降级（succeeded是终态）；
//   - failed事件总是覆盖pending并记录服务商错误原因；
//   - 目标记录可能尚未提交，查找带有限次重试。
func (l *VerificationLogic) ApplyProviderStatus(sessionId, providerStatus, verifiedData, errorMessage string) error {
	verification, err := retry.Find(lookupRetryAttempts, lookupRetryDelay,
		func() (*model.IdentityVerificationModel, error) {
			return l.GetBySessionId(sessionId)
		})
	if err != nil {
		if errors.Is(err, ErrVerificationNotFound) {
			// 重试后仍未找到，按无操作处理
			logger.Warn("Verification session %s not found after %d attempts, skipping", sessionId, lookupRetryAttempts)
			return nil
		}
		return err
	}

	newStatus := MapProviderStatus(providerStatus)
	if err := l.persistStatus(verification, newStatus, verifiedData, errorMessage); err != nil {
		return err
	}

	return l.propagateToCampaign(verification.CampaignId, sessionId)
}

// Reconcile 按服务商当前状态校正本地状态（拉取路径）。
// 仅在状态有差异时写库，认证失败时记录服务商侧原因，返回最新的认证记录。
func (l *VerificationLogic) Reconcile(sessionId, providerStatus, errorMessage string) (*model.IdentityVerificationModel, error) {
	verification, err := l.GetBySessionId(sessionId)
	if err != nil {
		return nil, err
	}

	newStatus := MapProviderStatus(providerStatus)
	if newStatus == verification.Status {
		return verification, nil
	}

	if err := l.persistStatus(verification, newStatus, "", errorMessage); err != nil {
		return nil, err
	}
	if err := l.propagateToCampaign(verification.CampaignId, sessionId); err != nil {
		return nil, err
	}

	return l.GetBySessionId(sessionId)
}

// persistStatus 持久化状态变更。
// 条件更新过滤已succeeded的记录，终态保护不依赖先读后写。
func (l *VerificationLogic) persistStatus(verification *model.IdentityVerificationModel, newStatus model.VerificationStatus, verifiedData, errorMessage string) error {
	updates := map[string]interface{}{"status": newStatus}

	switch newStatus {
	case model.VerificationStatusSucceeded:
		now := time.Now()
		updates["verified_at"] = now
		// 认证数据只捕获一次
		if verification.VerifiedData == "" && verifiedData != "" {
			updates["verified_data"] = verifiedData
		}
	case model.VerificationStatusFailed:
		// 空原因不覆盖已记录的失败原因
		if errorMessage != "" {
			updates["error_message"] = errorMessage
		}
	}

	result := l.db.Model(&model.IdentityVerificationModel{}).
		Where("session_id = ? AND status <> ?", verification.SessionId, model.VerificationStatusSucceeded).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新认证状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// 已是succeeded终态，后到的降级事件按无操作处理
		logger.Info("Verification %s already succeeded, ignoring %s event", verification.SessionId, newStatus)
	}

	return nil
}

// propagateToCampaign 将派生的活动级认证状态写回所属活动
func (l *VerificationLogic) propagateToCampaign(campaignId int64, sessionId string) error {
	if campaignId == 0 {
		return nil
	}

	verification, err := l.GetBySessionId(sessionId)
	if err != nil {
		return err
	}

	if err := l.campaignLogic.SetIdentityStatus(campaignId, DeriveCampaignStatus(verification.Status)); err != nil {
		return fmt.Errorf("回写活动认证状态失败: %w", err)
	}

	return nil
}

// DeriveCampaignStatus 认证状态到活动级状态的派生
func DeriveCampaignStatus(status model.VerificationStatus) model.CampaignIdentityStatus {
	switch status {
	case model.VerificationStatusSucceeded:
		return model.CampaignIdentityVerified
	case model.VerificationStatusFailed, model.VerificationStatusCanceled:
		return model.CampaignIdentityFailed
	default:
		return model.CampaignIdentityPending
	}
}
