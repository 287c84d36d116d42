package event

import (
	"github.com/blues/cfm/internal/logic"
)

// VerificationProcessor 身份认证事件处理器
type VerificationProcessor struct {
	verificationLogic *logic.VerificationLogic
}

// NewVerificationProcessor 创建身份认证事件处理器
func NewVerificationProcessor(verificationLogic *logic.VerificationLogic) *VerificationProcessor {
	return &VerificationProcessor{
		verificationLogic: verificationLogic,
	}
}

// Process 处理身份认证事件
func (p *VerificationProcessor) Process(ev Event) error {
	e, ok := ev.(VerificationUpdated)
	if !ok {
		return nil
	}

	return p.verificationLogic.ApplyProviderStatus(e.SessionId, e.ProviderStatus, e.VerifiedData, e.ErrorMessage)
}
