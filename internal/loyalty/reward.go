package loyalty

import "github.com/mmeshcher/airline-booking/internal/model"

// UpgradeCost задаёт фиксированную стоимость повышения класса обслуживания в баллах.
const UpgradeCost = 5000

const (
	pointsPerDollarCredit = 100
	pointsPerLoungeDay    = 500
	pointsPerBaggageKg    = 200
)

// Reward описывает рассчитанное вознаграждение.
type Reward struct {
	Cost  int64
	Value float64
	Unit  string
}

// RewardFor рассчитывает вознаграждение за points баллов указанного типа.
// Для повышения класса стоимость фиксирована и не зависит от points.
func RewardFor(rt model.RewardType, points int64) (Reward, error) {
	switch rt {
	case model.RewardFreeFlight:
		return Reward{
			Cost:  points,
			Value: model.Round2(float64(points) / pointsPerDollarCredit),
			Unit:  "USD",
		}, nil
	case model.RewardUpgrade:
		return Reward{Cost: UpgradeCost, Value: 1, Unit: "upgrade"}, nil
	case model.RewardLounge:
		return Reward{Cost: points, Value: float64(points / pointsPerLoungeDay), Unit: "days"}, nil
	case model.RewardBaggage:
		return Reward{Cost: points, Value: float64(points / pointsPerBaggageKg), Unit: "kg"}, nil
	}
	return Reward{}, model.ErrInvalidRewardType
}
