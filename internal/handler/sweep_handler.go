package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/blues/cfm/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SweepHandler 定时发布扫描端点，供外部调度器调用
type SweepHandler struct {
	campaignLogic *logic.CampaignLogic
	token         string
}

func NewSweepHandler(db *gorm.DB, token string) *SweepHandler {
	return &SweepHandler{
		campaignLogic: logic.NewCampaignLogic(db),
		token:         token,
	}
}

// RunPublishSweep 发布到期的定时活动，返回发布数量
func (h *SweepHandler) RunPublishSweep(c *gin.Context) {
	if !h.authorized(c) {
		ErrorResponse(c, http.StatusUnauthorized, "无效的访问令牌")
		return
	}

	promoted, err := h.campaignLogic.PromoteScheduled(time.Now())
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promoted": promoted,
	})
}

// authorized 校验调度器共享令牌
func (h *SweepHandler) authorized(c *gin.Context) bool {
	if h.token == "" {
		return false
	}
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ") == h.token
}
