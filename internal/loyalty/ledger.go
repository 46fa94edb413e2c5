package loyalty

import (
	"time"

	"github.com/mmeshcher/airline-booking/internal/idgen"
	"github.com/mmeshcher/airline-booking/internal/model"
)

const redemptionCompleted = "Completed"

// Ledger изменяет счёт лояльности клиента. Методы работают с загруженной
// записью клиента; атомарность обеспечивает вызывающий код через хранилище.
type Ledger struct {
	ids idgen.Generator
	now func() time.Time
}

// NewLedger создаёт журнал лояльности.
func NewLedger(ids idgen.Generator) *Ledger {
	return &Ledger{ids: ids, now: time.Now}
}

// Enroll подключает клиента к программе на базовом уровне.
func (l *Ledger) Enroll(c *model.Customer) error {
	if c.Loyalty != nil {
		return model.ErrAlreadyEnrolled
	}

	basic := Tiers[0]
	c.Loyalty = &model.LoyaltyMembership{
		Tier:            basic.Tier,
		PointsPerDollar: basic.PointsPerDollar,
		DateJoined:      l.now().UTC(),
	}
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
	return nil
}

// RecordSpend учитывает покупку: увеличивает сумму трат, начисляет баллы по
// текущей ставке и повышает уровень, если пройден порог. Уровень не понижается.
func (l *Ledger) RecordSpend(c *model.Customer, amount float64) (model.SpendResult, error) {
	if c.Loyalty == nil {
		return model.SpendResult{}, model.ErrNotEnrolled
	}

	c.TotalSpent = model.Round2(c.TotalSpent + amount)

	earned := PointsFor(amount, c.Loyalty.PointsPerDollar)
	c.LoyaltyPoints += earned

	res := model.SpendResult{PointsEarned: earned}

	target := TierForSpend(c.TotalSpent)
	if target.Tier.Rank() > c.Loyalty.Tier.Rank() {
		now := l.now().UTC()
		c.Loyalty.Tier = target.Tier
		c.Loyalty.PointsPerDollar = target.PointsPerDollar
		c.Loyalty.LastUpgradeAt = &now

		res.TierUpgraded = true
		res.NewTier = target.Tier
	}

	return res, nil
}

// Redeem списывает баллы в обмен на вознаграждение и сохраняет запись о списании.
func (l *Ledger) Redeem(c *model.Customer, points int64, rt model.RewardType) (*model.Redemption, error) {
	if points <= 0 && rt != model.RewardUpgrade {
		return nil, model.ErrInvalidPoints
	}

	reward, err := RewardFor(rt, points)
	if err != nil {
		return nil, err
	}

	if reward.Cost > c.LoyaltyPoints {
		return nil, model.ErrInsufficientPoints
	}

	c.LoyaltyPoints -= reward.Cost

	r := model.Redemption{
		RedemptionID:   l.ids.New(idgen.PrefixRedemption),
		PointsRedeemed: reward.Cost,
		RewardType:     rt,
		RewardValue:    reward.Value,
		RewardUnit:     reward.Unit,
		Status:         redemptionCompleted,
		RedeemedAt:     l.now().UTC(),
	}
	c.Redemptions = append(c.Redemptions, r)

	return &r, nil
}

// Status возвращает сводку по счёту лояльности клиента.
func (l *Ledger) Status(c *model.Customer) model.LoyaltyStatus {
	st := model.LoyaltyStatus{
		LoyaltyPoints: c.LoyaltyPoints,
		TotalSpent:    c.TotalSpent,
	}
	if c.Loyalty == nil {
		return st
	}

	st.Enrolled = true
	st.Tier = c.Loyalty.Tier
	st.PointsPerDollar = c.Loyalty.PointsPerDollar
	st.DateJoined = c.Loyalty.DateJoined

	if next, ok := NextTier(c.Loyalty.Tier); ok {
		st.NextTier = next.Tier
		if remaining := next.Threshold - c.TotalSpent; remaining > 0 {
			st.SpendToNextTier = model.Round2(remaining)
		}
	}
	return st
}
