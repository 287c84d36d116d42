package task

import (
	"time"

	"github.com/blues/cfm/internal/config"
	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// PublishSweepJob 定时发布扫描任务。
// 将到期且开启自动发布的定时活动批量置为进行中，重复执行安全。
type PublishSweepJob struct {
	campaignLogic *logic.CampaignLogic
	config        *config.Config
}

// NewPublishSweepJob 创建定时发布扫描任务
func NewPublishSweepJob(db *gorm.DB, cfg *config.Config) *PublishSweepJob {
	return &PublishSweepJob{
		campaignLogic: logic.NewCampaignLogic(db),
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *PublishSweepJob) GetName() string {
	return "campaign_publish_sweeper"
}

// GetSchedule 获取调度配置
func (j *PublishSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Sweep.Interval) * time.Second)
}

// Execute 执行任务
func (j *PublishSweepJob) Execute() {
	logger.Info("Starting campaign publish sweep")

	promoted, err := j.campaignLogic.PromoteScheduled(time.Now())
	if err != nil {
		logger.Error("Campaign publish sweep failed: %v", err)
		return
	}

	logger.Info("Campaign publish sweep completed. Promoted %d campaigns", promoted)
}
