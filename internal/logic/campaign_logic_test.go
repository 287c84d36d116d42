package logic_test

import (
	"testing"
	"time"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/blues/cfm/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testOwnerId = int64(42)

func newCampaign(t *testing.T, db *gorm.DB, status model.CampaignStatus) *model.CampaignModel {
	t.Helper()

	campaign := &model.CampaignModel{
		Title:          "测试活动",
		ChannelId:      1,
		OwnerId:        testOwnerId,
		TargetAmount:   100000,
		Status:         status,
		IdentityStatus: model.CampaignIdentityPending,
		StartTime:      time.Now(),
		EndTime:        time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func TestCreateCampaignDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	campaign := &model.CampaignModel{
		Title:         "新活动",
		ChannelId:     1,
		OwnerId:       testOwnerId,
		TargetAmount:  5000,
		CurrentAmount: 999, // 客户端传入的金额应被忽略
		StartTime:     time.Now(),
		EndTime:       time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, l.CreateCampaign(campaign))
	require.Equal(t, model.CampaignStatusDraft, campaign.Status)
	require.Equal(t, int64(0), campaign.CurrentAmount)
}

func TestCreateCampaignValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	err := l.CreateCampaign(&model.CampaignModel{ChannelId: 1, TargetAmount: 100})
	require.Error(t, err)

	var validationErr *logic.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSubmitForReview(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)

	require.NoError(t, l.SubmitForReview(campaign.Id))

	got, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusUnderReview, got.Status)

	// 重复提交被拒绝
	err = l.SubmitForReview(campaign.Id)
	var transitionErr *logic.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	require.Equal(t, model.CampaignStatusUnderReview, transitionErr.Status)
}

func TestAdminDecide(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	cases := []struct {
		action string
		want   model.CampaignStatus
	}{
		{logic.ReviewActionApprove, model.CampaignStatusApproved},
		{logic.ReviewActionReject, model.CampaignStatusRejected},
		{logic.ReviewActionNeedsRevision, model.CampaignStatusNeedsRevision},
	}

	for _, tc := range cases {
		campaign := newCampaign(t, db, model.CampaignStatusUnderReview)
		require.NoError(t, l.AdminDecide(campaign.Id, 7, tc.action, "测试理由"))

		got, err := l.GetCampaign(campaign.Id)
		require.NoError(t, err)
		require.Equal(t, tc.want, got.Status)

		// 审核决定被记录
		var decision model.ReviewDecisionModel
		require.NoError(t, db.Where("campaign_id = ?", campaign.Id).First(&decision).Error)
		require.Equal(t, int64(7), decision.ReviewerId)
		require.Equal(t, tc.action, decision.Action)
	}
}

func TestAdminDecideRejectsWrongState(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	// 已审核通过的活动不能再被审核
	campaign := newCampaign(t, db, model.CampaignStatusApproved)
	err := l.AdminDecide(campaign.Id, 7, logic.ReviewActionReject, "")

	var transitionErr *logic.TransitionError
	require.ErrorAs(t, err, &transitionErr)

	got, getErr := l.GetCampaign(campaign.Id)
	require.NoError(t, getErr)
	require.Equal(t, model.CampaignStatusApproved, got.Status)
}

func TestAdminDecideInvalidAction(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusUnderReview)

	err := l.AdminDecide(campaign.Id, 7, "explode", "")
	var validationErr *logic.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestPublishNow(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusApproved)

	require.NoError(t, l.PublishNow(campaign.Id, testOwnerId))

	got, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusActive, got.Status)
	require.NotNil(t, got.PublishedAt)
	require.Nil(t, got.ScheduledPublishAt)
}

func TestPublishNowFromScheduled(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusScheduled)

	require.NoError(t, l.PublishNow(campaign.Id, testOwnerId))

	got, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusActive, got.Status)
}

func TestPublishNowRejectedFromDraft(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)

	err := l.PublishNow(campaign.Id, testOwnerId)
	var transitionErr *logic.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	require.Equal(t, model.CampaignStatusDraft, transitionErr.Status)

	got, getErr := l.GetCampaign(campaign.Id)
	require.NoError(t, getErr)
	require.Equal(t, model.CampaignStatusDraft, got.Status)
}

func TestPublishNowRejectsNonOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusApproved)

	require.ErrorIs(t, l.PublishNow(campaign.Id, testOwnerId+1), logic.ErrNotOwner)
}

func TestSchedulePublish(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusApproved)

	at := time.Now().Add(2 * time.Hour)
	require.NoError(t, l.SchedulePublish(campaign.Id, testOwnerId, at))

	got, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusScheduled, got.Status)
	require.True(t, got.AutoPublishEnabled)
	require.NotNil(t, got.ScheduledPublishAt)
}

func TestSchedulePublishRejectsPastTime(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusApproved)

	err := l.SchedulePublish(campaign.Id, testOwnerId, time.Now().Add(-time.Minute))
	require.ErrorIs(t, err, logic.ErrScheduleTimeInPast)

	got, getErr := l.GetCampaign(campaign.Id)
	require.NoError(t, getErr)
	require.Equal(t, model.CampaignStatusApproved, got.Status)
}

func TestSchedulePublishRejectedFromDraft(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)

	err := l.SchedulePublish(campaign.Id, testOwnerId, time.Now().Add(time.Hour))
	var transitionErr *logic.TransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestCancelSchedule(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusApproved)

	require.NoError(t, l.SchedulePublish(campaign.Id, testOwnerId, time.Now().Add(time.Hour)))
	require.NoError(t, l.CancelSchedule(campaign.Id, testOwnerId))

	got, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusApproved, got.Status)
	require.Nil(t, got.ScheduledPublishAt)
	require.False(t, got.AutoPublishEnabled)
}

func TestPromoteScheduled(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	now := time.Now()

	// 到期的定时活动
	due := newCampaign(t, db, model.CampaignStatusScheduled)
	dueAt := now.Add(-time.Hour)
	require.NoError(t, db.Model(due).Updates(map[string]interface{}{
		"scheduled_publish_at": dueAt,
		"auto_publish_enabled": true,
	}).Error)

	// 未到期的定时活动
	future := newCampaign(t, db, model.CampaignStatusScheduled)
	futureAt := now.Add(time.Hour)
	require.NoError(t, db.Model(future).Updates(map[string]interface{}{
		"scheduled_publish_at": futureAt,
		"auto_publish_enabled": true,
	}).Error)

	promoted, err := l.PromoteScheduled(now)
	require.NoError(t, err)
	require.Equal(t, 1, promoted)

	gotDue, err := l.GetCampaign(due.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusActive, gotDue.Status)
	require.NotNil(t, gotDue.PublishedAt)

	gotFuture, err := l.GetCampaign(future.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusScheduled, gotFuture.Status)

	// 重复执行是幂等的
	promoted, err = l.PromoteScheduled(now)
	require.NoError(t, err)
	require.Equal(t, 0, promoted)
}

func TestPromoteScheduledSkipsAutoPublishDisabled(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	now := time.Now()
	campaign := newCampaign(t, db, model.CampaignStatusScheduled)
	at := now.Add(-time.Hour)
	require.NoError(t, db.Model(campaign).Updates(map[string]interface{}{
		"scheduled_publish_at": at,
		"auto_publish_enabled": false,
	}).Error)

	promoted, err := l.PromoteScheduled(now)
	require.NoError(t, err)
	require.Equal(t, 0, promoted)
}

func TestFinishExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewCampaignLogic(db)

	now := time.Now()
	expired := newCampaign(t, db, model.CampaignStatusActive)
	require.NoError(t, db.Model(expired).Update("end_time", now.Add(-time.Hour)).Error)

	running := newCampaign(t, db, model.CampaignStatusActive)
	require.NoError(t, db.Model(running).Update("end_time", now.Add(time.Hour)).Error)

	finished, err := l.FinishExpired(now)
	require.NoError(t, err)
	require.Equal(t, 1, finished)

	got, err := l.GetCampaign(expired.Id)
	require.NoError(t, err)
	require.Equal(t, model.CampaignStatusCompleted, got.Status)
}
