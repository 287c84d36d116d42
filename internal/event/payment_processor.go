package event

import (
	"errors"

	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
)

// PaymentProcessor 支付事件处理器。
// 将服务商投递的支付事件转换为支持记录、支付记录和库存的幂等状态变更。
type PaymentProcessor struct {
	supporterLogic *logic.SupporterLogic
	rewardLogic    *logic.RewardLogic
}

// NewPaymentProcessor 创建支付事件处理器
func NewPaymentProcessor(supporterLogic *logic.SupporterLogic, rewardLogic *logic.RewardLogic) *PaymentProcessor {
	return &PaymentProcessor{
		supporterLogic: supporterLogic,
		rewardLogic:    rewardLogic,
	}
}

// Process 处理支付事件
func (p *PaymentProcessor) Process(ev Event) error {
	switch e := ev.(type) {
	case CheckoutCompleted:
		return p.finalize(e.Meta, e.SessionId, true)
	case CheckoutAsyncSucceeded:
		return p.finalize(e.Meta, e.SessionId, true)
	case CheckoutAsyncFailed:
		return p.finalize(e.Meta, e.SessionId, false)
	case PaymentSucceeded:
		return p.finalize(e.Meta, e.IntentId, true)
	case PaymentFailed:
		return p.finalize(e.Meta, e.IntentId, false)
	default:
		// 支付处理器只消费支付事件
		return nil
	}
}

// finalize 定位目标支持记录并置为终态，成功时扣减库存。
// 找不到记录不视为错误：事件可能是记录终态化之后的重复投递。
func (p *PaymentProcessor) finalize(meta Metadata, providerRef string, succeeded bool) error {
	supporter, err := p.resolveSupporter(meta)
	if err != nil {
		if errors.Is(err, logic.ErrSupporterNotFound) {
			logger.Warn("No matching supporter for payment event (ref %s), skipping", providerRef)
			return nil
		}
		return err
	}

	updated, err := p.supporterLogic.Finalize(supporter.Id, succeeded, providerRef)
	if err != nil {
		return err
	}
	if !updated {
		// 重复投递，终态检查已短路
		logger.Info("Supporter %d already finalized, ignoring duplicate event (ref %s)", supporter.Id, providerRef)
		return nil
	}

	// 仅支付成功时扣减库存
	if succeeded {
		if err := p.rewardLogic.DecrementRemaining(supporter.RewardId); err != nil {
			return err
		}
	}

	return nil
}

// resolveSupporter 定位目标支持记录。
// 优先使用事件携带的supporter_id；checkout会话流程的事件不带该字段，
// 退化为按(活动, 用户, 档位, 待支付)查找。
func (p *PaymentProcessor) resolveSupporter(meta Metadata) (*model.SupporterModel, error) {
	if meta.SupporterId > 0 {
		return p.supporterLogic.GetSupporter(meta.SupporterId)
	}
	return p.supporterLogic.FindPending(meta.CampaignId, meta.UserId, meta.RewardId)
}
