package logic

import (
	"errors"
	"fmt"

	"github.com/blues/cfm/internal/model"
)

var (
	ErrCampaignNotFound     = errors.New("活动不存在")
	ErrRewardNotFound       = errors.New("回报档位不存在")
	ErrSupporterNotFound    = errors.New("支持记录不存在")
	ErrVerificationNotFound = errors.New("认证记录不存在")
	ErrNotOwner             = errors.New("只有活动所属频道的所有者可以操作")
	ErrScheduleTimeInPast   = errors.New("定时发布时间必须晚于当前时间")
)

// ValidationError 请求数据校验错误，映射为4xx，不触发重试
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError 创建校验错误
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// TransitionError 非法状态流转错误，携带当前状态和请求的操作
type TransitionError struct {
	Op     string
	Status model.CampaignStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("当前状态 %s 不允许执行 %s 操作", e.Status, e.Op)
}

// NewTransitionError 创建状态流转错误
func NewTransitionError(op string, status model.CampaignStatus) error {
	return &TransitionError{Op: op, Status: status}
}
