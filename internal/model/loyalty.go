package model

import "time"

// Tier описывает уровень участника программы лояльности.
type Tier string

const (
	TierBasic    Tier = "Basic"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// Rank возвращает порядковый номер уровня; неизвестный уровень считается базовым.
func (t Tier) Rank() int {
	switch t {
	case TierSilver:
		return 1
	case TierGold:
		return 2
	case TierPlatinum:
		return 3
	}
	return 0
}

// LoyaltyMembership описывает участие клиента в программе лояльности.
type LoyaltyMembership struct {
	Tier            Tier       `json:"tier"`
	PointsPerDollar float64    `json:"pointsPerDollar"`
	DateJoined      time.Time  `json:"dateJoined"`
	LastUpgradeAt   *time.Time `json:"lastUpgradeAt,omitempty"`
}

// LoyaltyProgram описывает программу лояльности, которой управляет администратор.
type LoyaltyProgram struct {
	ProgramID   string    `json:"programId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Benefits    []string  `json:"benefits"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RewardType описывает вид вознаграждения за баллы.
type RewardType string

const (
	RewardFreeFlight RewardType = "freeFlight"
	RewardUpgrade    RewardType = "upgrade"
	RewardLounge     RewardType = "lounge"
	RewardBaggage    RewardType = "baggage"
)

// Redemption фиксирует списание баллов в обмен на вознаграждение.
type Redemption struct {
	RedemptionID   string     `json:"redemptionId"`
	PointsRedeemed int64      `json:"pointsRedeemed"`
	RewardType     RewardType `json:"rewardType"`
	RewardValue    float64    `json:"rewardValue"`
	RewardUnit     string     `json:"rewardUnit"`
	Status         string     `json:"status"`
	RedeemedAt     time.Time  `json:"redeemedAt"`
}

// SpendResult описывает результат начисления баллов за покупку.
type SpendResult struct {
	PointsEarned int64 `json:"pointsEarned"`
	TierUpgraded bool  `json:"tierUpgraded"`
	NewTier      Tier  `json:"newTier,omitempty"`
}

// LoyaltyStatus описывает текущее состояние счёта лояльности клиента.
type LoyaltyStatus struct {
	Enrolled        bool      `json:"enrolled"`
	Tier            Tier      `json:"tier,omitempty"`
	PointsPerDollar float64   `json:"pointsPerDollar,omitempty"`
	LoyaltyPoints   int64     `json:"loyaltyPoints"`
	TotalSpent      float64   `json:"totalSpent"`
	DateJoined      time.Time `json:"dateJoined,omitempty"`
	NextTier        Tier      `json:"nextTier,omitempty"`
	SpendToNextTier float64   `json:"spendToNextTier,omitempty"`
}
