// Package loyalty реализует правила программы лояльности: уровни, начисление
// и списание баллов.
package loyalty

import (
	"math"

	"github.com/mmeshcher/airline-booking/internal/model"
)

// TierRule связывает уровень с порогом суммарных трат и ставкой начисления.
type TierRule struct {
	Tier            model.Tier
	Threshold       float64
	PointsPerDollar float64
}

// Tiers содержит уровни по возрастанию порога.
var Tiers = []TierRule{
	{Tier: model.TierBasic, Threshold: 0, PointsPerDollar: 1},
	{Tier: model.TierSilver, Threshold: 1000, PointsPerDollar: 2},
	{Tier: model.TierGold, Threshold: 1500, PointsPerDollar: 2.5},
	{Tier: model.TierPlatinum, Threshold: 2000, PointsPerDollar: 3},
}

// RuleFor возвращает правило для уровня; для неизвестного уровня возвращается базовое.
func RuleFor(t model.Tier) TierRule {
	for _, r := range Tiers {
		if r.Tier == t {
			return r
		}
	}
	return Tiers[0]
}

// TierForSpend возвращает наивысший уровень, порог которого не превышает сумму трат.
func TierForSpend(totalSpent float64) TierRule {
	res := Tiers[0]
	for _, r := range Tiers {
		if totalSpent >= r.Threshold {
			res = r
		}
	}
	return res
}

// NextTier возвращает следующий уровень после t. Второе значение false для высшего уровня.
func NextTier(t model.Tier) (TierRule, bool) {
	for i, r := range Tiers {
		if r.Tier == t && i+1 < len(Tiers) {
			return Tiers[i+1], true
		}
	}
	return TierRule{}, false
}

// PointsFor возвращает количество баллов за покупку на сумму amount по ставке rate.
func PointsFor(amount, rate float64) int64 {
	// Сумма в центах убирает погрешность float при умножении на дробную ставку.
	return int64(math.Floor(float64(model.ToCents(amount)) * rate / 100))
}
