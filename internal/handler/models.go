package handler

import (
	"time"

	"github.com/blues/cfm/internal/model"
)

// 活动相关响应模型

// CampaignResponse 活动响应模型
type CampaignResponse struct {
	Id                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	ImageURL           string     `json:"imageUrl"`
	Category           string     `json:"category"`
	ChannelId          int64      `json:"channelId"`
	TargetAmount       int64      `json:"targetAmount"`
	CurrentAmount      int64      `json:"currentAmount"`
	Status             string     `json:"status"`
	ScheduledPublishAt *time.Time `json:"scheduledPublishAt"`
	AutoPublishEnabled bool       `json:"autoPublishEnabled"`
	PublishedAt        *time.Time `json:"publishedAt"`
	IdentityStatus     string     `json:"identityVerificationStatus"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// RewardResponse 回报档位响应模型
type RewardResponse struct {
	Id                int64  `json:"id"`
	CampaignId        int64  `json:"campaignId"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Amount            int64  `json:"amount"`
	Quantity          int    `json:"quantity"`
	RemainingQuantity int    `json:"remainingQuantity"`
	IsUnlimited       bool   `json:"isUnlimited"`
}

// SupporterResponse 支持记录响应模型
type SupporterResponse struct {
	Id                int64     `json:"id"`
	CampaignId        int64     `json:"campaignId"`
	RewardId          int64     `json:"rewardId"`
	Amount            int64     `json:"amount"`
	PaymentStatus     string    `json:"paymentStatus"`
	CheckoutSessionId string    `json:"checkoutSessionId"`
	CreatedAt         time.Time `json:"createdAt"`
}

// VerificationResponse 认证状态合并视图：本地记录 + 服务商侧实时会话
type VerificationResponse struct {
	SessionId    string     `json:"sessionId"`
	Status       string     `json:"status"`
	VerifiedAt   *time.Time `json:"verifiedAt"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	ProviderUrl  string     `json:"providerUrl,omitempty"`
	ClientSecret string     `json:"clientSecret,omitempty"`
}

// 转换函数

// ToCampaignResponse 将数据库模型转换为响应模型
func ToCampaignResponse(campaign *model.CampaignModel) CampaignResponse {
	return CampaignResponse{
		Id:                 campaign.Id,
		Title:              campaign.Title,
		Description:        campaign.Description,
		ImageURL:           campaign.ImageURL,
		Category:           campaign.Category,
		ChannelId:          campaign.ChannelId,
		TargetAmount:       campaign.TargetAmount,
		CurrentAmount:      campaign.CurrentAmount,
		Status:             string(campaign.Status),
		ScheduledPublishAt: campaign.ScheduledPublishAt,
		AutoPublishEnabled: campaign.AutoPublishEnabled,
		PublishedAt:        campaign.PublishedAt,
		IdentityStatus:     string(campaign.IdentityStatus),
		StartTime:          campaign.StartTime,
		EndTime:            campaign.EndTime,
		CreatedAt:          campaign.CreatedAt,
		UpdatedAt:          campaign.UpdatedAt,
	}
}

// ToRewardResponse 将数据库模型转换为响应模型
func ToRewardResponse(reward *model.RewardModel) RewardResponse {
	return RewardResponse{
		Id:                reward.Id,
		CampaignId:        reward.CampaignId,
		Title:             reward.Title,
		Description:       reward.Description,
		Amount:            reward.Amount,
		Quantity:          reward.Quantity,
		RemainingQuantity: reward.RemainingQuantity,
		IsUnlimited:       reward.IsUnlimited,
	}
}

// ToSupporterResponse 将数据库模型转换为响应模型
func ToSupporterResponse(supporter *model.SupporterModel) SupporterResponse {
	return SupporterResponse{
		Id:                supporter.Id,
		CampaignId:        supporter.CampaignId,
		RewardId:          supporter.RewardId,
		Amount:            supporter.Amount,
		PaymentStatus:     string(supporter.PaymentStatus),
		CheckoutSessionId: supporter.CheckoutSessionId,
		CreatedAt:         supporter.CreatedAt,
	}
}
