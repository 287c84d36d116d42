package logic_test

import (
	"strings"
	"testing"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/blues/cfm/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSupporter(t *testing.T, db *gorm.DB, campaignId, rewardId int64, amount int64) *model.SupporterModel {
	t.Helper()

	l := logic.NewSupporterLogic(db)
	supporter := &model.SupporterModel{
		CampaignId: campaignId,
		RewardId:   rewardId,
		UserId:     100,
		Amount:     amount,
	}
	require.NoError(t, l.InitiateCheckout(supporter))
	return supporter
}

func TestInitiateCheckout(t *testing.T) {
	db := testutil.NewTestDB(t)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)

	supporter := newSupporter(t, db, campaign.Id, reward.Id, 3000)
	require.Equal(t, model.PaymentStatusPending, supporter.PaymentStatus)
	require.True(t, strings.HasPrefix(supporter.CheckoutSessionId, "cs_"))

	// 同一事务内创建了配套的支付记录
	var payment model.PaymentModel
	require.NoError(t, db.Where("supporter_id = ?", supporter.Id).First(&payment).Error)
	require.Equal(t, supporter.CheckoutSessionId, payment.CheckoutSessionId)
	require.Equal(t, model.PaymentStatusPending, payment.Status)
	require.Equal(t, supporter.Amount, payment.Amount)
}

func TestInitiateCheckoutRejectsInactiveCampaign(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)
	reward := newReward(t, db, campaign.Id, 10)

	err := l.InitiateCheckout(&model.SupporterModel{
		CampaignId: campaign.Id,
		RewardId:   reward.Id,
		UserId:     100,
		Amount:     3000,
	})
	var validationErr *logic.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestInitiateCheckoutRejectsForeignReward(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	other := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, other.Id, 10)

	err := l.InitiateCheckout(&model.SupporterModel{
		CampaignId: campaign.Id,
		RewardId:   reward.Id,
		UserId:     100,
		Amount:     3000,
	})
	var validationErr *logic.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestInitiateCheckoutRejectsAmountBelowReward(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10) // 档位金额3000

	err := l.InitiateCheckout(&model.SupporterModel{
		CampaignId: campaign.Id,
		RewardId:   reward.Id,
		UserId:     100,
		Amount:     2999,
	})
	var validationErr *logic.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestFinalizeSucceeded(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)
	supporter := newSupporter(t, db, campaign.Id, reward.Id, 3000)

	updated, err := l.Finalize(supporter.Id, true, "pi_test_123")
	require.NoError(t, err)
	require.True(t, updated)

	got, err := l.GetSupporter(supporter.Id)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCompleted, got.PaymentStatus)

	// 支付记录同步为终态并记录服务商侧标识
	var payment model.PaymentModel
	require.NoError(t, db.Where("supporter_id = ?", supporter.Id).First(&payment).Error)
	require.Equal(t, model.PaymentStatusCompleted, payment.Status)
	require.Equal(t, "pi_test_123", payment.PaymentIntentId)

	// 活动已筹金额被累加
	var gotCampaign model.CampaignModel
	require.NoError(t, db.First(&gotCampaign, campaign.Id).Error)
	require.Equal(t, int64(3000), gotCampaign.CurrentAmount)
}

func TestFinalizeFailed(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)
	supporter := newSupporter(t, db, campaign.Id, reward.Id, 3000)

	updated, err := l.Finalize(supporter.Id, false, "pi_test_456")
	require.NoError(t, err)
	require.True(t, updated)

	got, err := l.GetSupporter(supporter.Id)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusFailed, got.PaymentStatus)

	// 失败的支付不累加已筹金额
	var gotCampaign model.CampaignModel
	require.NoError(t, db.First(&gotCampaign, campaign.Id).Error)
	require.Equal(t, int64(0), gotCampaign.CurrentAmount)
}

func TestFinalizeRoutesProviderRef(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)
	supporter := newSupporter(t, db, campaign.Id, reward.Id, 3000)

	// checkout会话标识写入会话列，支付意向列保持为空
	updated, err := l.Finalize(supporter.Id, true, supporter.CheckoutSessionId)
	require.NoError(t, err)
	require.True(t, updated)

	var payment model.PaymentModel
	require.NoError(t, db.Where("supporter_id = ?", supporter.Id).First(&payment).Error)
	require.Equal(t, supporter.CheckoutSessionId, payment.CheckoutSessionId)
	require.Empty(t, payment.PaymentIntentId)
}

func TestFinalizeIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)
	supporter := newSupporter(t, db, campaign.Id, reward.Id, 3000)

	updated, err := l.Finalize(supporter.Id, true, "pi_test_789")
	require.NoError(t, err)
	require.True(t, updated)

	// 重复投递按无操作处理，已筹金额只累加一次
	updated, err = l.Finalize(supporter.Id, true, "pi_test_789")
	require.NoError(t, err)
	require.False(t, updated)

	// 终态不会被相反的结果覆盖
	updated, err = l.Finalize(supporter.Id, false, "pi_test_789")
	require.NoError(t, err)
	require.False(t, updated)

	got, err := l.GetSupporter(supporter.Id)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCompleted, got.PaymentStatus)

	var gotCampaign model.CampaignModel
	require.NoError(t, db.First(&gotCampaign, campaign.Id).Error)
	require.Equal(t, int64(3000), gotCampaign.CurrentAmount)
}

func TestFindPending(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)
	supporter := newSupporter(t, db, campaign.Id, reward.Id, 3000)

	found, err := l.FindPending(campaign.Id, 100, reward.Id)
	require.NoError(t, err)
	require.Equal(t, supporter.Id, found.Id)

	// 已终态的记录不再被回查命中
	_, err = l.Finalize(supporter.Id, true, "")
	require.NoError(t, err)

	_, err = l.FindPending(campaign.Id, 100, reward.Id)
	require.ErrorIs(t, err, logic.ErrSupporterNotFound)
}

func TestGetCampaignStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewSupporterLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 10)

	first := newSupporter(t, db, campaign.Id, reward.Id, 3000)
	_, err := l.Finalize(first.Id, true, "")
	require.NoError(t, err)

	// 同一用户的第二笔支持
	second := newSupporter(t, db, campaign.Id, reward.Id, 5000)
	_, err = l.Finalize(second.Id, true, "")
	require.NoError(t, err)

	stats, err := l.GetCampaignStats(campaign.Id)
	require.NoError(t, err)
	require.Equal(t, int64(8000), stats["current_amount"])
	require.Equal(t, int64(1), stats["supporter_count"])
	require.Equal(t, int64(2), stats["pledge_count"])
	require.Equal(t, float64(8), stats["completion_percentage"])
}
