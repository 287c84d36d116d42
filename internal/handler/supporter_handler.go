package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SupporterHandler struct {
	supporterLogic *logic.SupporterLogic
}

func NewSupporterHandler(db *gorm.DB) *SupporterHandler {
	return &SupporterHandler{
		supporterLogic: logic.NewSupporterLogic(db),
	}
}

// InitiateCheckout 发起支持，创建待支付的支持记录并返回服务商会话ID
func (h *SupporterHandler) InitiateCheckout(c *gin.Context) {
	campaignId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var req struct {
		RewardId int64 `json:"rewardId" binding:"required"`
		Amount   int64 `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	supporter := model.SupporterModel{
		CampaignId: campaignId,
		RewardId:   req.RewardId,
		UserId:     callerId(c),
		Amount:     req.Amount,
	}

	// 调用logic层创建支持记录
	if err := h.supporterLogic.InitiateCheckout(&supporter); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "支持已发起", ToSupporterResponse(&supporter))
}

// GetCampaignSupporters 获取活动支持记录
func (h *SupporterHandler) GetCampaignSupporters(c *gin.Context) {
	campaignId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	supporters, total, err := h.supporterLogic.GetCampaignSupporters(campaignId, page, pageSize)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	responses := make([]SupporterResponse, 0, len(supporters))
	for i := range supporters {
		responses = append(responses, ToSupporterResponse(&supporters[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"supporters": responses,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}
