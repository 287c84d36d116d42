package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RewardHandler struct {
	rewardLogic *logic.RewardLogic
}

func NewRewardHandler(db *gorm.DB) *RewardHandler {
	return &RewardHandler{
		rewardLogic: logic.NewRewardLogic(db),
	}
}

// CreateReward 创建回报档位
func (h *RewardHandler) CreateReward(c *gin.Context) {
	campaignId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var reward model.RewardModel
	if err := c.ShouldBindJSON(&reward); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	reward.CampaignId = campaignId

	// 调用logic层创建回报档位
	if err := h.rewardLogic.CreateReward(&reward); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "回报档位创建成功", ToRewardResponse(&reward))
}

// GetCampaignRewards 获取活动的回报档位列表
func (h *RewardHandler) GetCampaignRewards(c *gin.Context) {
	campaignId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	rewards, err := h.rewardLogic.GetCampaignRewards(campaignId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	responses := make([]RewardResponse, 0, len(rewards))
	for i := range rewards {
		responses = append(responses, ToRewardResponse(&rewards[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": responses,
	})
}
