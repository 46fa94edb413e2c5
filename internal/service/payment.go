package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/idgen"
	"github.com/mmeshcher/airline-booking/internal/loyalty"
	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/validation"
)

// RefundRate задаёт долю оплаты, возвращаемую при отмене.
const RefundRate = 0.8

const cardPaymentMethod = "card"

// PaymentRequest содержит данные оплаты рейса.
type PaymentRequest struct {
	FlightNumber string
	Amount       float64
	CardNumber   string
	CVV          string
}

// PaymentResult содержит подтверждение оплаты и изменение счёта лояльности.
type PaymentResult struct {
	Payment model.Payment      `json:"payment"`
	Loyalty *model.SpendResult `json:"loyalty,omitempty"`
}

// PaymentService проверяет оплату, начисляет баллы и рассчитывает возвраты.
type PaymentService struct {
	customers CustomerStore
	flights   FlightStore
	ledger    *loyalty.Ledger
	notifier  Notifier
	ids       idgen.Generator
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService создаёт сервис оплаты.
func NewPaymentService(
	customers CustomerStore,
	flights FlightStore,
	ledger *loyalty.Ledger,
	notifier Notifier,
	ids idgen.Generator,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		customers: customers,
		flights:   flights,
		ledger:    ledger,
		notifier:  notifierOrNop(notifier),
		ids:       ids,
		logger:    logger,
		now:       time.Now,
	}
}

// Pay оплачивает действующее бронирование. Сумма должна в точности совпадать
// с ценой рейса. Если клиент участвует в программе лояльности, в той же
// операции ему начисляются баллы.
func (s *PaymentService) Pay(ctx context.Context, customerID string, req PaymentRequest) (*PaymentResult, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	f, err := s.flights.GetFlight(ctx, req.FlightNumber)
	if err != nil {
		return nil, err
	}

	if c.ActiveBooking(req.FlightNumber) == nil {
		return nil, model.ErrNotBooked
	}

	if model.ToCents(req.Amount) != model.ToCents(f.Price) {
		return nil, fmt.Errorf("%w: got %.2f, want %.2f", model.ErrAmountMismatch, req.Amount, f.Price)
	}

	if !validation.IsValidCardNumber(req.CardNumber) {
		return nil, model.ErrInvalidCardNumber
	}
	if !validation.IsValidCVV(req.CVV) {
		return nil, model.ErrInvalidCvv
	}

	now := s.now().UTC()
	var res PaymentResult
	_, err = s.customers.UpdateCustomer(ctx, customerID, func(c *model.Customer) error {
		b := c.ActiveBooking(req.FlightNumber)
		if b == nil {
			return model.ErrNotBooked
		}
		if c.PaymentFor(b.BookingID) != nil {
			return model.ErrAlreadyPaid
		}

		p := model.Payment{
			TransactionID: s.ids.New(idgen.PrefixTxn),
			BookingID:     b.BookingID,
			FlightNumber:  req.FlightNumber,
			Amount:        model.Round2(req.Amount),
			Method:        cardPaymentMethod,
			CardLast4:     req.CardNumber[len(req.CardNumber)-4:],
			Status:        model.PaymentStatusCompleted,
			Timestamp:     now,
		}
		c.Payments = append(c.Payments, p)
		res = PaymentResult{Payment: p}

		if c.Loyalty != nil {
			spend, err := s.ledger.RecordSpend(c, p.Amount)
			if err != nil {
				return fmt.Errorf("record spend: %w", err)
			}
			res.Loyalty = &spend
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("transaction", res.Payment.TransactionID),
		zap.String("customer", customerID),
		zap.String("flight", req.FlightNumber),
		zap.Float64("amount", res.Payment.Amount),
	)

	s.notifier.Notify(ctx, model.BookingEvent{
		Type:         model.EventPaymentCompleted,
		CustomerID:   customerID,
		BookingID:    res.Payment.BookingID,
		FlightNumber: req.FlightNumber,
		Amount:       res.Payment.Amount,
		At:           now,
	})

	if res.Loyalty != nil && res.Loyalty.TierUpgraded {
		s.logger.Info("loyalty tier upgraded",
			zap.String("customer", customerID),
			zap.String("tier", string(res.Loyalty.NewTier)),
		)
		s.notifier.Notify(ctx, model.BookingEvent{
			Type:       model.EventTierUpgraded,
			CustomerID: customerID,
			Tier:       res.Loyalty.NewTier,
			At:         now,
		})
	}

	return &res, nil
}

// ComputeRefund возвращает 80% суммы оплаты бронирования, а при отсутствии
// оплаты 80% текущей цены рейса. Удалённый рейс без оплаты даёт нулевой возврат.
func (s *PaymentService) ComputeRefund(ctx context.Context, c *model.Customer, b *model.Booking) (float64, error) {
	if p := c.PaymentFor(b.BookingID); p != nil {
		return RefundAmount(p.Amount), nil
	}

	f, err := s.flights.GetFlight(ctx, b.FlightNumber)
	if err != nil {
		if errors.Is(err, model.ErrFlightNotFound) {
			s.logger.Warn("refund base unavailable, flight removed",
				zap.String("booking", b.BookingID),
				zap.String("flight", b.FlightNumber),
			)
			return 0, nil
		}
		return 0, err
	}
	return RefundAmount(f.Price), nil
}

// RefundAmount округляет до центов 80% от базовой суммы.
func RefundAmount(base float64) float64 {
	return model.FromCents(model.ToCents(base * RefundRate))
}

// ListPayments возвращает платежи клиента.
func (s *PaymentService) ListPayments(ctx context.Context, customerID string) ([]model.Payment, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return c.Payments, nil
}

// ListRefunds возвращает возвраты клиента.
func (s *PaymentService) ListRefunds(ctx context.Context, customerID string) ([]model.Refund, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return c.Refunds, nil
}
