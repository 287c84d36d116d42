package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignLogic  *logic.CampaignLogic
	supporterLogic *logic.SupporterLogic
}

func NewCampaignHandler(db *gorm.DB) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic:  logic.NewCampaignLogic(db),
		supporterLogic: logic.NewSupporterLogic(db),
	}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var campaign model.CampaignModel
	if err := c.ShouldBindJSON(&campaign); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	campaign.OwnerId = callerId(c)

	// 调用logic层创建活动
	if err := h.campaignLogic.CreateCampaign(&campaign); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", ToCampaignResponse(&campaign))
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	// 获取查询参数
	status := c.Query("status")
	category := c.Query("category")
	channelId, _ := strconv.ParseInt(c.Query("channel_id"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	// 调用logic层获取活动列表
	campaigns, total, err := h.campaignLogic.GetCampaigns(status, category, channelId, page, pageSize)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	responses := make([]CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		responses = append(responses, ToCampaignResponse(&campaigns[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": responses,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCampaign 获取单个活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 调用logic层获取活动详情
	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToCampaignResponse(campaign))
}

// UpdateCampaign 更新活动
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 只允许更新特定字段
	var updateData struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
		Category    *string `json:"category"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 更新字段
	updates := make(map[string]interface{})
	if updateData.Title != nil {
		updates["title"] = *updateData.Title
	}
	if updateData.Description != nil {
		updates["description"] = *updateData.Description
	}
	if updateData.ImageURL != nil {
		updates["image_url"] = *updateData.ImageURL
	}
	if updateData.Category != nil {
		updates["category"] = *updateData.Category
	}

	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "没有要更新的字段")
		return
	}

	// 调用logic层更新活动
	if err := h.campaignLogic.UpdateCampaign(id, updates); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动更新成功", nil)
}

// SubmitForReview 提交审核
func (h *CampaignHandler) SubmitForReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	if err := h.campaignLogic.SubmitForReview(id); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动已提交审核", nil)
}

// 发布控制动作
const (
	publishActionNow            = "publish_now"
	publishActionSchedule       = "schedule_publish"
	publishActionCancelSchedule = "cancel_schedule"
)

// PublishControl 发布控制：立即发布、定时发布、取消定时
func (h *CampaignHandler) PublishControl(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var req struct {
		Action             string     `json:"action" binding:"required"`
		ScheduledPublishAt *time.Time `json:"scheduledPublishAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	caller := callerId(c)

	switch req.Action {
	case publishActionNow:
		err = h.campaignLogic.PublishNow(id, caller)
	case publishActionSchedule:
		if req.ScheduledPublishAt == nil {
			ErrorResponse(c, http.StatusBadRequest, "定时发布必须指定发布时间")
			return
		}
		err = h.campaignLogic.SchedulePublish(id, caller, *req.ScheduledPublishAt)
	case publishActionCancelSchedule:
		err = h.campaignLogic.CancelSchedule(id, caller)
	default:
		ErrorResponse(c, http.StatusBadRequest, "无效的发布动作: "+req.Action)
		return
	}

	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "操作成功", nil)
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 调用logic层获取活动统计信息
	stats, err := h.supporterLogic.GetCampaignStats(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}
