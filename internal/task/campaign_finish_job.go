package task

import (
	"time"

	"github.com/blues/cfm/internal/config"
	"github.com/blues/cfm/internal/logger"
	"github.com/blues/cfm/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignFinishJob 活动结束扫描任务，将已过结束时间的进行中活动置为已结束
type CampaignFinishJob struct {
	campaignLogic *logic.CampaignLogic
	config        *config.Config
}

// NewCampaignFinishJob 创建活动结束扫描任务
func NewCampaignFinishJob(db *gorm.DB, cfg *config.Config) *CampaignFinishJob {
	return &CampaignFinishJob{
		campaignLogic: logic.NewCampaignLogic(db),
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignFinishJob) GetName() string {
	return "campaign_finish_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignFinishJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Sweep.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignFinishJob) Execute() {
	logger.Info("Starting campaign finish task")

	finished, err := j.campaignLogic.FinishExpired(time.Now())
	if err != nil {
		logger.Error("Campaign finish task failed: %v", err)
		return
	}

	logger.Info("Campaign finish task completed. Finished %d campaigns", finished)
}
