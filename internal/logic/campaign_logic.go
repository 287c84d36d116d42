package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/model"
	"gorm.io/gorm"
)

// CampaignLogic 众筹活动业务逻辑，持有活动状态机
type CampaignLogic struct {
	db *gorm.DB
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB) *CampaignLogic {
	return &CampaignLogic{db: db}
}

// CreateCampaign 创建活动
func (l *CampaignLogic) CreateCampaign(campaign *model.CampaignModel) error {
	// 验证活动数据
	if err := l.validateCampaign(campaign); err != nil {
		return err
	}

	// 设置默认值
	campaign.Status = model.CampaignStatusDraft
	campaign.CurrentAmount = 0
	campaign.IdentityStatus = model.CampaignIdentityPending

	if err := l.db.Create(campaign).Error; err != nil {
		return fmt.Errorf("创建活动失败: %w", err)
	}

	return nil
}

// GetCampaign 获取活动详情
func (l *CampaignLogic) GetCampaign(id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("获取活动详情失败: %w", err)
	}

	return &campaign, nil
}

// GetCampaigns 获取活动列表
func (l *CampaignLogic) GetCampaigns(status, category string, channelId int64, page, pageSize int) ([]model.CampaignModel, int64, error) {
	var campaigns []model.CampaignModel
	var total int64

	// 构建查询条件
	query := l.db.Model(&model.CampaignModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if channelId > 0 {
		query = query.Where("channel_id = ?", channelId)
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动总数失败: %w", err)
	}

	// 获取数据
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动列表失败: %w", err)
	}

	return campaigns, total, nil
}

// UpdateCampaign 更新活动基本信息，仅草稿和需要修改状态允许
func (l *CampaignLogic) UpdateCampaign(id int64, updates map[string]interface{}) error {
	result := l.db.Model(&model.CampaignModel{}).
		Where("id = ? AND status IN ?", id, []model.CampaignStatus{
			model.CampaignStatusDraft,
			model.CampaignStatusNeedsRevision,
		}).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("更新活动失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return l.transitionError(id, "update")
	}

	return nil
}

// SubmitForReview 提交审核：draft -> under_review
func (l *CampaignLogic) SubmitForReview(id int64) error {
	result := l.db.Model(&model.CampaignModel{}).
		Where("id = ? AND status = ?", id, model.CampaignStatusDraft).
		Update("status", model.CampaignStatusUnderReview)

	if result.Error != nil {
		return fmt.Errorf("提交审核失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return l.transitionError(id, "submit_for_review")
	}

	return nil
}

// 审核动作
const (
	ReviewActionApprove       = "approve"
	ReviewActionReject        = "reject"
	ReviewActionNeedsRevision = "needs_revision"
)

// AdminDecide 管理员审核决定：under_review -> approved/rejected/needs_revision。
// 状态更新和审计记录在同一事务内完成。
func (l *CampaignLogic) AdminDecide(id, reviewerId int64, action, reason string) error {
	var newStatus model.CampaignStatus
	switch action {
	case ReviewActionApprove:
		newStatus = model.CampaignStatusApproved
	case ReviewActionReject:
		newStatus = model.CampaignStatusRejected
	case ReviewActionNeedsRevision:
		newStatus = model.CampaignStatusNeedsRevision
	default:
		return NewValidationError(fmt.Sprintf("无效的审核动作: %s", action))
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.CampaignModel{}).
			Where("id = ? AND status = ?", id, model.CampaignStatusUnderReview).
			Update("status", newStatus)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return l.transitionError(id, "admin_decide")
		}

		// 记录审核决定
		decision := model.ReviewDecisionModel{
			CampaignId: id,
			ReviewerId: reviewerId,
			Action:     action,
			Reason:     reason,
		}
		return tx.Create(&decision).Error
	})
	if err != nil {
		return err
	}

	logger.Info("Campaign %d reviewed by %d: %s", id, reviewerId, action)
	return nil
}

// PublishNow 立即发布：approved/scheduled -> active
func (l *CampaignLogic) PublishNow(id, callerId int64) error {
	if err := l.checkOwner(id, callerId); err != nil {
		return err
	}

	now := time.Now()
	result := l.db.Model(&model.CampaignModel{}).
		Where("id = ? AND status IN ?", id, []model.CampaignStatus{
			model.CampaignStatusApproved,
			model.CampaignStatusScheduled,
		}).
		Updates(map[string]interface{}{
			"status":               model.CampaignStatusActive,
			"published_at":         now,
			"scheduled_publish_at": nil,
			"auto_publish_enabled": false,
		})

	if result.Error != nil {
		return fmt.Errorf("发布活动失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return l.transitionError(id, "publish_now")
	}

	logger.Info("Campaign %d published", id)
	return nil
}

// SchedulePublish 定时发布：approved -> scheduled，要求发布时间晚于当前时间
func (l *CampaignLogic) SchedulePublish(id, callerId int64, at time.Time) error {
	if err := l.checkOwner(id, callerId); err != nil {
		return err
	}

	if !at.After(time.Now()) {
		return ErrScheduleTimeInPast
	}

	result := l.db.Model(&model.CampaignModel{}).
		Where("id = ? AND status = ?", id, model.CampaignStatusApproved).
		Updates(map[string]interface{}{
			"status":               model.CampaignStatusScheduled,
			"scheduled_publish_at": at,
			"auto_publish_enabled": true,
		})

	if result.Error != nil {
		return fmt.Errorf("设置定时发布失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return l.transitionError(id, "schedule_publish")
	}

	logger.Info("Campaign %d scheduled to publish at %s", id, at.Format(time.RFC3339))
	return nil
}

// CancelSchedule 取消定时发布：scheduled -> approved
func (l *CampaignLogic) CancelSchedule(id, callerId int64) error {
	if err := l.checkOwner(id, callerId); err != nil {
		return err
	}

	result := l.db.Model(&model.CampaignModel{}).
		Where("id = ? AND status = ?", id, model.CampaignStatusScheduled).
		Updates(map[string]interface{}{
			"status":               model.CampaignStatusApproved,
			"scheduled_publish_at": nil,
			"auto_publish_enabled": false,
		})

	if result.Error != nil {
		return fmt.Errorf("取消定时发布失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return l.transitionError(id, "cancel_schedule")
	}

	return nil
}

// PromoteScheduled 批量发布到期的定时活动，返回发布成功的数量。
// 单个活动失败不影响其余活动；状态条件保证重复调用是幂等的。
func (l *CampaignLogic) PromoteScheduled(now time.Time) (int, error) {
	var campaigns []model.CampaignModel
	err := l.db.Where("status = ? AND auto_publish_enabled = ? AND scheduled_publish_at <= ?",
		model.CampaignStatusScheduled, true, now).Find(&campaigns).Error
	if err != nil {
		return 0, fmt.Errorf("查询到期活动失败: %w", err)
	}

	promoted := 0
	for _, campaign := range campaigns {
		result := l.db.Model(&model.CampaignModel{}).
			Where("id = ? AND status = ?", campaign.Id, model.CampaignStatusScheduled).
			Updates(map[string]interface{}{
				"status":               model.CampaignStatusActive,
				"published_at":         now,
				"scheduled_publish_at": nil,
				"auto_publish_enabled": false,
			})
		if result.Error != nil {
			logger.Error("Failed to promote campaign %d: %v", campaign.Id, result.Error)
			continue
		}
		if result.RowsAffected == 0 {
			// 已被并发操作发布，跳过
			continue
		}

		logger.Info("Promoted scheduled campaign %d to active", campaign.Id)
		promoted++
	}

	return promoted, nil
}

// FinishExpired 将已过结束时间的进行中活动置为已结束，返回处理数量
func (l *CampaignLogic) FinishExpired(now time.Time) (int, error) {
	result := l.db.Model(&model.CampaignModel{}).
		Where("status = ? AND end_time <= ?", model.CampaignStatusActive, now).
		Update("status", model.CampaignStatusCompleted)
	if result.Error != nil {
		return 0, fmt.Errorf("结束到期活动失败: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}

// SetIdentityStatus 更新活动级身份认证状态，由认证记录派生
func (l *CampaignLogic) SetIdentityStatus(id int64, status model.CampaignIdentityStatus) error {
	result := l.db.Model(&model.CampaignModel{}).
		Where("id = ?", id).
		Update("identity_status", status)
	if result.Error != nil {
		return fmt.Errorf("更新活动认证状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCampaignNotFound
	}

	return nil
}

// AddCurrentAmount 累加活动已筹金额，只增不减
func (l *CampaignLogic) AddCurrentAmount(tx *gorm.DB, id, amount int64) error {
	return tx.Model(&model.CampaignModel{}).
		Where("id = ?", id).
		Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error
}

// checkOwner 校验调用者是否为活动所属频道的所有者
func (l *CampaignLogic) checkOwner(id, callerId int64) error {
	campaign, err := l.GetCampaign(id)
	if err != nil {
		return err
	}
	if campaign.OwnerId != callerId {
		return ErrNotOwner
	}
	return nil
}

// transitionError 条件更新未命中时，重新读取当前状态构造错误
func (l *CampaignLogic) transitionError(id int64, op string) error {
	campaign, err := l.GetCampaign(id)
	if err != nil {
		return err
	}
	return NewTransitionError(op, campaign.Status)
}

// validateCampaign 验证活动数据
func (l *CampaignLogic) validateCampaign(campaign *model.CampaignModel) error {
	if campaign.Title == "" {
		return NewValidationError("活动标题不能为空")
	}
	if campaign.TargetAmount <= 0 {
		return NewValidationError("目标金额必须大于0")
	}
	if campaign.ChannelId == 0 {
		return NewValidationError("活动必须关联频道")
	}
	if !campaign.EndTime.IsZero() && !campaign.StartTime.IsZero() && campaign.StartTime.After(campaign.EndTime) {
		return NewValidationError("开始时间不能晚于结束时间")
	}
	return nil
}
