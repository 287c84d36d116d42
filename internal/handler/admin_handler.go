package handler

import (
	"net/http"

	"github.com/blues/cfm/internal/auth"
	"github.com/blues/cfm/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	campaignLogic *logic.CampaignLogic
	roleChecker   auth.RoleChecker
}

func NewAdminHandler(db *gorm.DB, roleChecker auth.RoleChecker) *AdminHandler {
	return &AdminHandler{
		campaignLogic: logic.NewCampaignLogic(db),
		roleChecker:   roleChecker,
	}
}

// DecideCampaign 管理员审核决定
func (h *AdminHandler) DecideCampaign(c *gin.Context) {
	caller := callerId(c)
	if !h.roleChecker.HasRole(caller, auth.RoleCampaignReviewer) {
		ErrorResponse(c, http.StatusForbidden, "没有审核权限")
		return
	}

	var req struct {
		CampaignId int64  `json:"campaign_id" binding:"required"`
		Action     string `json:"action" binding:"required"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 调用logic层执行审核决定
	if err := h.campaignLogic.AdminDecide(req.CampaignId, caller, req.Action, req.Reason); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "审核决定已记录", nil)
}
