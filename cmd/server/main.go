package main

import (
	"log"

	"github.com/blues/cfm/internal/config"
	"github.com/blues/cfm/internal/database"
	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/provider"
	"github.com/blues/cfm/internal/router"
	"github.com/blues/cfm/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 身份认证服务商客户端
	// 未配置服务商时使用占位实现
	var identityClient provider.IdentityClient = provider.StubIdentityClient{}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, identityClient, cfg)

	// 启动定时任务
	task.Start(db, cfg)

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
