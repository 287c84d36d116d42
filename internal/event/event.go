package event

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Event webhook事件的封闭类型集合。
// 新增事件种类时编译器强制所有分发点补全处理分支。
type Event interface {
	isEvent()
}

// Metadata 发起支付时附带的业务标识，由服务商原样回传
type Metadata struct {
	CampaignId  int64
	RewardId    int64
	UserId      int64
	SupporterId int64
}

// CheckoutCompleted checkout会话支付完成
type CheckoutCompleted struct {
	SessionId string
	Meta      Metadata
}

// CheckoutAsyncSucceeded checkout会话异步支付成功
type CheckoutAsyncSucceeded struct {
	SessionId string
	Meta      Metadata
}

// CheckoutAsyncFailed checkout会话异步支付失败
type CheckoutAsyncFailed struct {
	SessionId string
	Meta      Metadata
}

// PaymentSucceeded 支付意向成功
type PaymentSucceeded struct {
	IntentId string
	Meta     Metadata
}

// PaymentFailed 支付意向失败
type PaymentFailed struct {
	IntentId string
	Meta     Metadata
}

// VerificationUpdated 身份认证会话状态变更
type VerificationUpdated struct {
	SessionId      string
	ProviderStatus string
	VerifiedData   string
	ErrorMessage   string
}

// Ignored 本系统不处理的事件种类
type Ignored struct {
	Type string
}

func (CheckoutCompleted) isEvent()      {}
func (CheckoutAsyncSucceeded) isEvent() {}
func (CheckoutAsyncFailed) isEvent()    {}
func (PaymentSucceeded) isEvent()       {}
func (PaymentFailed) isEvent()          {}
func (VerificationUpdated) isEvent()    {}
func (Ignored) isEvent()                {}

// Envelope 服务商事件信封
type Envelope struct {
	Id   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// 服务商负载对象，各事件种类共用字段的超集
type payloadObject struct {
	Id              string            `json:"id"`
	Status          string            `json:"status"`
	Metadata        map[string]string `json:"metadata"`
	VerifiedOutputs json.RawMessage   `json:"verified_outputs"`
	LastError       *struct {
		Message string `json:"message"`
	} `json:"last_error"`
}

// Parse 解析服务商事件负载为类型化事件。
// 未知事件种类返回Ignored而不是错误，服务商新增事件不应导致投递失败。
func Parse(body []byte) (string, Event, error) {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", nil, fmt.Errorf("解析事件信封失败: %w", err)
	}

	var object payloadObject
	if len(envelope.Data.Object) > 0 {
		if err := json.Unmarshal(envelope.Data.Object, &object); err != nil {
			return envelope.Id, nil, fmt.Errorf("解析事件对象失败: %w", err)
		}
	}

	meta := parseMetadata(object.Metadata)

	switch envelope.Type {
	case "checkout.session.completed":
		return envelope.Id, CheckoutCompleted{SessionId: object.Id, Meta: meta}, nil
	case "checkout.session.async_payment_succeeded":
		return envelope.Id, CheckoutAsyncSucceeded{SessionId: object.Id, Meta: meta}, nil
	case "checkout.session.async_payment_failed":
		return envelope.Id, CheckoutAsyncFailed{SessionId: object.Id, Meta: meta}, nil
	case "payment_intent.succeeded":
		return envelope.Id, PaymentSucceeded{IntentId: object.Id, Meta: meta}, nil
	case "payment_intent.payment_failed":
		return envelope.Id, PaymentFailed{IntentId: object.Id, Meta: meta}, nil
	case "identity.verification_session.verified",
		"identity.verification_session.processing",
		"identity.verification_session.requires_input",
		"identity.verification_session.canceled":
		ev := VerificationUpdated{
			SessionId:      object.Id,
			ProviderStatus: object.Status,
			VerifiedData:   string(object.VerifiedOutputs),
		}
		if object.LastError != nil {
			ev.ErrorMessage = object.LastError.Message
			ev.ProviderStatus = "failed"
		}
		return envelope.Id, ev, nil
	default:
		return envelope.Id, Ignored{Type: envelope.Type}, nil
	}
}

// parseMetadata 解析服务商回传的业务标识，字段缺失或非法时留零值
func parseMetadata(raw map[string]string) Metadata {
	var meta Metadata
	meta.CampaignId = parseId(raw, "campaign_id")
	meta.RewardId = parseId(raw, "reward_id")
	meta.UserId = parseId(raw, "user_id")
	meta.SupporterId = parseId(raw, "supporter_id")
	return meta
}

func parseId(raw map[string]string, key string) int64 {
	if raw == nil {
		return 0
	}
	id, err := strconv.ParseInt(raw[key], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
