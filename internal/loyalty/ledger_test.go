package loyalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/airline-booking/internal/model"
)

type seqIDs struct{ n int }

func (s *seqIDs) New(prefix string) string {
	s.n++
	return prefix + "-" + string(rune('0'+s.n))
}

func newTestLedger() *Ledger {
	l := NewLedger(&seqIDs{})
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func enrolled(t *testing.T, l *Ledger) *model.Customer {
	t.Helper()
	c := &model.Customer{UserID: "C1"}
	require.NoError(t, l.Enroll(c))
	return c
}

func TestEnroll(t *testing.T) {
	l := newTestLedger()
	c := &model.Customer{UserID: "C1"}

	require.NoError(t, l.Enroll(c))
	require.NotNil(t, c.Loyalty)
	assert.Equal(t, model.TierBasic, c.Loyalty.Tier)
	assert.Equal(t, 1.0, c.Loyalty.PointsPerDollar)
	assert.Equal(t, int64(0), c.LoyaltyPoints)
	assert.False(t, c.Loyalty.DateJoined.IsZero())

	assert.ErrorIs(t, l.Enroll(c), model.ErrAlreadyEnrolled)
}

func TestRecordSpend_BasicCustomer(t *testing.T) {
	l := newTestLedger()
	c := enrolled(t, l)

	res, err := l.RecordSpend(c, 200)
	require.NoError(t, err)

	assert.Equal(t, int64(200), res.PointsEarned)
	assert.False(t, res.TierUpgraded)
	assert.Equal(t, int64(200), c.LoyaltyPoints)
	assert.Equal(t, 200.0, c.TotalSpent)
	assert.Equal(t, model.TierBasic, c.Loyalty.Tier)
}

func TestRecordSpend_UpgradeAppliesFromNextSpend(t *testing.T) {
	l := newTestLedger()
	c := enrolled(t, l)

	_, err := l.RecordSpend(c, 900)
	require.NoError(t, err)

	res, err := l.RecordSpend(c, 200)
	require.NoError(t, err)
	// Баллы за покупку, пересёкшую порог, начисляются по старой ставке.
	assert.Equal(t, int64(200), res.PointsEarned)
	assert.True(t, res.TierUpgraded)
	assert.Equal(t, model.TierSilver, res.NewTier)
	assert.Equal(t, 2.0, c.Loyalty.PointsPerDollar)
	require.NotNil(t, c.Loyalty.LastUpgradeAt)

	res, err = l.RecordSpend(c, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.PointsEarned)
	assert.False(t, res.TierUpgraded)
	assert.Equal(t, int64(1300), c.LoyaltyPoints)
}

func TestRecordSpend_SkipsTiers(t *testing.T) {
	l := newTestLedger()
	c := enrolled(t, l)

	res, err := l.RecordSpend(c, 2500)
	require.NoError(t, err)
	assert.Equal(t, model.TierPlatinum, res.NewTier)
	assert.Equal(t, 3.0, c.Loyalty.PointsPerDollar)
}

func TestRecordSpend_GoldRateFloors(t *testing.T) {
	l := newTestLedger()
	c := enrolled(t, l)
	_, err := l.RecordSpend(c, 1500)
	require.NoError(t, err)
	require.Equal(t, model.TierGold, c.Loyalty.Tier)

	res, err := l.RecordSpend(c, 99.99)
	require.NoError(t, err)
	assert.Equal(t, int64(249), res.PointsEarned)
}

func TestRecordSpend_TierNeverDecreases(t *testing.T) {
	l := newTestLedger()
	c := enrolled(t, l)
	c.Loyalty.Tier = model.TierGold
	c.Loyalty.PointsPerDollar = 2.5

	for _, amount := range []float64{10, 0, 5, 1200} {
		_, err := l.RecordSpend(c, amount)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.Loyalty.Tier.Rank(), model.TierGold.Rank())
	}
}

func TestRecordSpend_NotEnrolled(t *testing.T) {
	l := newTestLedger()
	_, err := l.RecordSpend(&model.Customer{}, 10)
	assert.ErrorIs(t, err, model.ErrNotEnrolled)
}

func TestRedeem(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		points    int64
		reward    model.RewardType
		wantErr   error
		wantValue float64
		wantCost  int64
		wantUnit  string
	}{
		{name: "lounge days", balance: 60000, points: 50000, reward: model.RewardLounge, wantValue: 100, wantCost: 50000, wantUnit: "days"},
		{name: "free flight credit", balance: 1000, points: 1000, reward: model.RewardFreeFlight, wantValue: 10, wantCost: 1000, wantUnit: "USD"},
		{name: "baggage kg floor", balance: 1000, points: 999, reward: model.RewardBaggage, wantValue: 4, wantCost: 999, wantUnit: "kg"},
		{name: "upgrade fixed cost", balance: 7000, points: 1, reward: model.RewardUpgrade, wantValue: 1, wantCost: 5000, wantUnit: "upgrade"},
		{name: "upgrade insufficient", balance: 4999, points: 5000, reward: model.RewardUpgrade, wantErr: model.ErrInsufficientPoints},
		{name: "insufficient", balance: 10, points: 11, reward: model.RewardLounge, wantErr: model.ErrInsufficientPoints},
		{name: "invalid reward", balance: 1000, points: 100, reward: "spa", wantErr: model.ErrInvalidRewardType},
		{name: "non-positive points", balance: 1000, points: 0, reward: model.RewardLounge, wantErr: model.ErrInvalidPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			c := &model.Customer{LoyaltyPoints: tt.balance}

			r, err := l.Redeem(c, tt.points, tt.reward)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.balance, c.LoyaltyPoints)
				assert.Empty(t, c.Redemptions)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, r.RewardValue)
			assert.Equal(t, tt.wantCost, r.PointsRedeemed)
			assert.Equal(t, tt.wantUnit, r.RewardUnit)
			assert.Equal(t, tt.balance-tt.wantCost, c.LoyaltyPoints)
			assert.NotEmpty(t, r.RedemptionID)
			assert.Len(t, c.Redemptions, 1)
		})
	}
}

func TestStatus(t *testing.T) {
	l := newTestLedger()

	st := l.Status(&model.Customer{LoyaltyPoints: 5})
	assert.False(t, st.Enrolled)

	c := enrolled(t, l)
	_, err := l.RecordSpend(c, 1200)
	require.NoError(t, err)

	st = l.Status(c)
	assert.True(t, st.Enrolled)
	assert.Equal(t, model.TierSilver, st.Tier)
	assert.Equal(t, model.TierGold, st.NextTier)
	assert.Equal(t, 300.0, st.SpendToNextTier)
}

func TestTierForSpend(t *testing.T) {
	assert.Equal(t, model.TierBasic, TierForSpend(999.99).Tier)
	assert.Equal(t, model.TierSilver, TierForSpend(1000).Tier)
	assert.Equal(t, model.TierGold, TierForSpend(1500).Tier)
	assert.Equal(t, model.TierPlatinum, TierForSpend(10000).Tier)

	_, ok := NextTier(model.TierPlatinum)
	assert.False(t, ok)
}
