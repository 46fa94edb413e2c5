package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/loyalty"
	"github.com/mmeshcher/airline-booking/internal/model"
)

// LoyaltyService управляет участием клиентов в программе лояльности
// и списанием баллов.
type LoyaltyService struct {
	customers CustomerStore
	ledger    *loyalty.Ledger
	logger    *zap.Logger
}

// NewLoyaltyService создаёт сервис лояльности.
func NewLoyaltyService(customers CustomerStore, ledger *loyalty.Ledger, logger *zap.Logger) *LoyaltyService {
	return &LoyaltyService{customers: customers, ledger: ledger, logger: logger}
}

// Enroll подключает клиента к программе лояльности на базовом уровне.
func (s *LoyaltyService) Enroll(ctx context.Context, customerID string) (*model.LoyaltyMembership, error) {
	c, err := s.customers.UpdateCustomer(ctx, customerID, s.ledger.Enroll)
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer enrolled", zap.String("customer", customerID))
	return c.Loyalty, nil
}

// Status возвращает сводку по счёту лояльности клиента.
func (s *LoyaltyService) Status(ctx context.Context, customerID string) (*model.LoyaltyStatus, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	st := s.ledger.Status(c)
	return &st, nil
}

// Redeem обменивает баллы клиента на вознаграждение.
func (s *LoyaltyService) Redeem(ctx context.Context, customerID string, points int64, rewardType model.RewardType) (*model.Redemption, error) {
	var r *model.Redemption
	_, err := s.customers.UpdateCustomer(ctx, customerID, func(c *model.Customer) error {
		var err error
		r, err = s.ledger.Redeem(c, points, rewardType)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("points redeemed",
		zap.String("customer", customerID),
		zap.String("reward", string(r.RewardType)),
		zap.Int64("points", r.PointsRedeemed),
	)
	return r, nil
}

// ListRedemptions возвращает историю списаний баллов клиента.
func (s *LoyaltyService) ListRedemptions(ctx context.Context, customerID string) ([]model.Redemption, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return c.Redemptions, nil
}
