package handler

import (
	"net/http"

	"github.com/blues/cfm/internal/event"
	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/blues/cfm/internal/provider"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 签名头名称
const signatureHeader = "X-Provider-Signature"

const providerName = "payment"

// WebhookHandler 服务商webhook端点。
// 验签 -> 解析 -> 去重 -> 分发到对应处理器。
// 处理失败返回非2xx触发服务商重试，处理逻辑本身保证重试安全。
type WebhookHandler struct {
	secret                string
	webhookEventLogic     *logic.WebhookEventLogic
	paymentProcessor      *event.PaymentProcessor
	verificationProcessor *event.VerificationProcessor
}

func NewWebhookHandler(db *gorm.DB, secret string) *WebhookHandler {
	supporterLogic := logic.NewSupporterLogic(db)
	rewardLogic := logic.NewRewardLogic(db)
	verificationLogic := logic.NewVerificationLogic(db)

	return &WebhookHandler{
		secret:                secret,
		webhookEventLogic:     logic.NewWebhookEventLogic(db),
		paymentProcessor:      event.NewPaymentProcessor(supporterLogic, rewardLogic),
		verificationProcessor: event.NewVerificationProcessor(verificationLogic),
	}
}

// HandleWebhook 处理服务商回调
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "读取请求体失败")
		return
	}

	// 验签通过之前不做任何状态变更
	if err := provider.VerifySignature(body, c.GetHeader(signatureHeader), h.secret); err != nil {
		logger.Warn("Webhook signature verification failed: %v", err)
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	eventId, ev, err := event.Parse(body)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 跨重启去重：只有处理成功的事件才短路。
	// 记录存在但Processed为false说明上次投递在分发阶段失败，
	// 服务商重试时必须重新处理，处理逻辑本身保证重入安全。
	record, err := h.webhookEventLogic.FindEvent(providerName, eventId)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if record != nil && record.Processed {
		logger.Info("Webhook event %s already processed, skipping", eventId)
		SuccessResponse(c, http.StatusOK, "事件已处理", nil)
		return
	}

	if record == nil {
		record = &model.WebhookEventModel{
			Provider:  providerName,
			EventId:   eventId,
			EventType: eventType(ev),
			Payload:   string(body),
		}
		if err := h.webhookEventLogic.CreateEvent(record); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	// 分发事件
	if err := h.dispatch(ev); err != nil {
		// 持久化错误返回5xx，服务商会重试投递
		logger.Error("Failed to process webhook event %s: %v", eventId, err)
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.webhookEventLogic.MarkProcessed(record.Id); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "事件处理成功", nil)
}

// dispatch 按事件种类分发到处理器
func (h *WebhookHandler) dispatch(ev event.Event) error {
	switch ev.(type) {
	case event.CheckoutCompleted, event.CheckoutAsyncSucceeded, event.CheckoutAsyncFailed,
		event.PaymentSucceeded, event.PaymentFailed:
		return h.paymentProcessor.Process(ev)
	case event.VerificationUpdated:
		return h.verificationProcessor.Process(ev)
	case event.Ignored:
		return nil
	default:
		return nil
	}
}

// eventType 事件记录用的类型标签
func eventType(ev event.Event) string {
	switch e := ev.(type) {
	case event.CheckoutCompleted:
		return "checkout.session.completed"
	case event.CheckoutAsyncSucceeded:
		return "checkout.session.async_payment_succeeded"
	case event.CheckoutAsyncFailed:
		return "checkout.session.async_payment_failed"
	case event.PaymentSucceeded:
		return "payment_intent.succeeded"
	case event.PaymentFailed:
		return "payment_intent.payment_failed"
	case event.VerificationUpdated:
		return "identity.verification_session." + e.ProviderStatus
	case event.Ignored:
		return e.Type
	default:
		return "unknown"
	}
}
