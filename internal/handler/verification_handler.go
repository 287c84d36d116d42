package handler

import (
	"net/http"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/blues/cfm/internal/provider"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VerificationHandler struct {
	verificationLogic *logic.VerificationLogic
	identityClient    provider.IdentityClient
}

func NewVerificationHandler(db *gorm.DB, identityClient provider.IdentityClient) *VerificationHandler {
	return &VerificationHandler{
		verificationLogic: logic.NewVerificationLogic(db),
		identityClient:    identityClient,
	}
}

// BeginVerification 发起身份认证会话
func (h *VerificationHandler) BeginVerification(c *gin.Context) {
	var req struct {
		CampaignId int64 `json:"campaignId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	verification := model.IdentityVerificationModel{
		UserId:     callerId(c),
		CampaignId: req.CampaignId,
	}

	if err := h.verificationLogic.BeginVerification(&verification); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "认证会话已创建", VerificationResponse{
		SessionId: verification.SessionId,
		Status:    string(verification.Status),
	})
}

// GetVerificationStatus 获取认证状态合并视图。
// 读取服务商侧实时会话，与本地记录有差异时顺带做一次校正写入。
func (h *VerificationHandler) GetVerificationStatus(c *gin.Context) {
	sessionId := c.Param("session_id")
	if sessionId == "" {
		ErrorResponse(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	session, err := h.identityClient.GetSession(c.Request.Context(), sessionId)
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, "获取服务商会话失败: "+err.Error())
		return
	}

	verification, err := h.verificationLogic.Reconcile(sessionId, session.Status, session.ErrorMessage)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", VerificationResponse{
		SessionId:    verification.SessionId,
		Status:       string(verification.Status),
		VerifiedAt:   verification.VerifiedAt,
		ErrorMessage: verification.ErrorMessage,
		ProviderUrl:  session.Url,
		ClientSecret: session.ClientSecret,
	})
}
