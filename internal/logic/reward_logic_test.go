package logic_test

import (
	"sync"
	"testing"

	"github.com/blues/cfm/internal/logic"
	"github.com/blues/cfm/internal/model"
	"github.com/blues/cfm/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReward(t *testing.T, db *gorm.DB, campaignId int64, quantity int) *model.RewardModel {
	t.Helper()

	reward := &model.RewardModel{
		CampaignId:        campaignId,
		Title:             "测试档位",
		Amount:            3000,
		Quantity:          quantity,
		RemainingQuantity: quantity,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func TestCreateReward(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)

	reward := &model.RewardModel{
		CampaignId: campaign.Id,
		Title:      "早鸟档",
		Amount:     1000,
		Quantity:   50,
	}
	require.NoError(t, l.CreateReward(reward))
	require.Equal(t, 50, reward.RemainingQuantity)
}

func TestCreateRewardUnlimited(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)

	reward := &model.RewardModel{
		CampaignId:  campaign.Id,
		Title:       "不限量档",
		Amount:      500,
		Quantity:    99, // 不限量档位忽略传入的数量
		IsUnlimited: true,
	}
	require.NoError(t, l.CreateReward(reward))
	require.Equal(t, 0, reward.Quantity)
	require.Equal(t, 0, reward.RemainingQuantity)
}

func TestCreateRewardValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusDraft)

	cases := []*model.RewardModel{
		{Title: "无活动", Amount: 100, Quantity: 1},
		{CampaignId: campaign.Id, Amount: 100, Quantity: 1},
		{CampaignId: campaign.Id, Title: "零金额", Quantity: 1},
		{CampaignId: campaign.Id, Title: "限量零库存", Amount: 100},
	}
	for _, reward := range cases {
		err := l.CreateReward(reward)
		var validationErr *logic.ValidationError
		require.ErrorAs(t, err, &validationErr)
	}
}

func TestCreateRewardCampaignNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)

	err := l.CreateReward(&model.RewardModel{
		CampaignId: 9999,
		Title:      "孤儿档位",
		Amount:     100,
		Quantity:   1,
	})
	require.ErrorIs(t, err, logic.ErrCampaignNotFound)
}

func TestDecrementRemaining(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 3)

	require.NoError(t, l.DecrementRemaining(reward.Id))

	got, err := l.GetReward(reward.Id)
	require.NoError(t, err)
	require.Equal(t, 2, got.RemainingQuantity)
	require.Equal(t, 3, got.Quantity)
}

func TestDecrementRemainingSoldOut(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 1)

	// 最后一件被扣减
	require.NoError(t, l.DecrementRemaining(reward.Id))

	got, err := l.GetReward(reward.Id)
	require.NoError(t, err)
	require.Equal(t, 0, got.RemainingQuantity)

	// 库存为软限制：售罄后的扣减不报错，库存不会变为负数
	require.NoError(t, l.DecrementRemaining(reward.Id))

	got, err = l.GetReward(reward.Id)
	require.NoError(t, err)
	require.Equal(t, 0, got.RemainingQuantity)
}

func TestDecrementRemainingConcurrentLastUnit(t *testing.T) {
	// 文件数据库允许多连接，两个并发扣减真正竞争同一行
	db := testutil.NewTestFileDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)
	reward := newReward(t, db, campaign.Id, 1)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.DecrementRemaining(reward.Id)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// 恰好一个扣减命中最后一件，库存不会变为负数
	got, err := l.GetReward(reward.Id)
	require.NoError(t, err)
	require.Equal(t, 0, got.RemainingQuantity)
	require.Equal(t, 1, got.Quantity)
}

func TestDecrementRemainingUnlimited(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)
	campaign := newCampaign(t, db, model.CampaignStatusActive)

	reward := &model.RewardModel{
		CampaignId:  campaign.Id,
		Title:       "不限量档",
		Amount:      500,
		IsUnlimited: true,
	}
	require.NoError(t, db.Create(reward).Error)

	require.NoError(t, l.DecrementRemaining(reward.Id))

	got, err := l.GetReward(reward.Id)
	require.NoError(t, err)
	require.Equal(t, 0, got.RemainingQuantity)
}

func TestDecrementRemainingNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	l := logic.NewRewardLogic(db)

	require.ErrorIs(t, l.DecrementRemaining(9999), logic.ErrRewardNotFound)
}
