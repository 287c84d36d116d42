package router

import (
	"github.com/blues/cfm/internal/auth"
	"github.com/blues/cfm/internal/config"
	"github.com/blues/cfm/internal/handler"
	"github.com/blues/cfm/internal/provider"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, identityClient provider.IdentityClient, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "crowdfunding-marketplace",
		})
	})

	roleChecker := auth.NewStaticRoleChecker(cfg.Admin.UserIds)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动相关路由
		campaignHandler := handler.NewCampaignHandler(db)
		rewardHandler := handler.NewRewardHandler(db)
		supporterHandler := handler.NewSupporterHandler(db)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id", campaignHandler.UpdateCampaign)
			campaigns.POST("/:id/submit", campaignHandler.SubmitForReview)
			campaigns.POST("/:id/publish", campaignHandler.PublishControl)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.POST("/:id/rewards", rewardHandler.CreateReward)
			campaigns.GET("/:id/rewards", rewardHandler.GetCampaignRewards)
			campaigns.POST("/:id/supporters", supporterHandler.InitiateCheckout)
			campaigns.GET("/:id/supporters", supporterHandler.GetCampaignSupporters)
		}

		// 管理员审核路由
		adminHandler := handler.NewAdminHandler(db, roleChecker)
		admin := v1.Group("/admin")
		{
			admin.POST("/campaigns/decision", adminHandler.DecideCampaign)
		}

		// 身份认证路由
		verificationHandler := handler.NewVerificationHandler(db, identityClient)
		verifications := v1.Group("/verifications")
		{
			verifications.POST("", verificationHandler.BeginVerification)
			verifications.GET("/:session_id", verificationHandler.GetVerificationStatus)
		}

		// webhook路由
		webhookHandler := handler.NewWebhookHandler(db, cfg.Payment.WebhookSecret)
		v1.POST("/webhooks/payment", webhookHandler.HandleWebhook)

		// 定时发布扫描路由，供外部调度器调用
		sweepHandler := handler.NewSweepHandler(db, cfg.Sweep.Token)
		v1.POST("/internal/sweep/publish", sweepHandler.RunPublishSweep)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-User-Id")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
