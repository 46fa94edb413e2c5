package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/idgen"
	"github.com/mmeshcher/airline-booking/internal/model"
)

// SeatInventory описывает операции инвентаря, нужные бронированию.
type SeatInventory interface {
	GetFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
	ReserveSeat(ctx context.Context, flightNumber, seatNumber string) (model.Seat, error)
	ReleaseSeat(ctx context.Context, flightNumber, seatNumber string) error
}

// RefundCalculator рассчитывает сумму возврата при отмене бронирования.
type RefundCalculator interface {
	ComputeRefund(ctx context.Context, c *model.Customer, b *model.Booking) (float64, error)
}

// BookingOptions содержит необязательные параметры бронирования.
type BookingOptions struct {
	SeatNumber         string
	SeatClass          model.SeatClass
	MealType           string
	SpecialRequestType string
	SpecialRequestNote string
	BoardingPassURL    string
	Baggage            []model.Baggage
}

// BookingFilter задаёт фильтрацию и сортировку списка бронирований.
type BookingFilter struct {
	Status string
	SortBy string
}

// Ключи сортировки бронирований.
const (
	SortByDate   = "date"
	SortByFlight = "flight"
	SortByStatus = "status"
)

// CancelResult содержит отменённое бронирование и созданный возврат.
type CancelResult struct {
	Booking model.Booking `json:"booking"`
	Refund  model.Refund  `json:"refund"`
}

// BookingService управляет жизненным циклом бронирований.
type BookingService struct {
	customers CustomerStore
	inventory SeatInventory
	refunds   RefundCalculator
	notifier  Notifier
	ids       idgen.Generator
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService создаёт сервис бронирований.
func NewBookingService(
	customers CustomerStore,
	inventory SeatInventory,
	refunds RefundCalculator,
	notifier Notifier,
	ids idgen.Generator,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		customers: customers,
		inventory: inventory,
		refunds:   refunds,
		notifier:  notifierOrNop(notifier),
		ids:       ids,
		logger:    logger,
		now:       time.Now,
	}
}

// BookFlight создаёт бронирование. У клиента может быть только одно действующее
// бронирование на рейс. Если указано место, оно резервируется; при ошибке
// сохранения бронирования резерв места снимается.
func (s *BookingService) BookFlight(ctx context.Context, customerID, flightNumber string, opts BookingOptions) (*model.Booking, error) {
	if opts.SeatClass != "" && !opts.SeatClass.Valid() {
		return nil, model.ErrInvalidSeatClass
	}

	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.inventory.GetFlight(ctx, flightNumber); err != nil {
		return nil, err
	}

	if c.ActiveBooking(flightNumber) != nil {
		return nil, model.ErrDuplicateBooking
	}

	now := s.now().UTC()
	b := model.Booking{
		BookingID:    s.ids.New(idgen.PrefixBooking),
		CustomerID:   customerID,
		FlightNumber: flightNumber,
		SeatClass:    opts.SeatClass,
		Baggage:      append([]model.Baggage(nil), opts.Baggage...),
		Status:       model.BookingStatusConfirmed,
		BookingDate:  now,
	}
	if opts.MealType != "" {
		b.Meal = &model.Meal{Type: opts.MealType}
	}
	if opts.SpecialRequestType != "" {
		b.SpecialRequest = &model.SpecialRequest{Type: opts.SpecialRequestType, Note: opts.SpecialRequestNote}
	}
	if opts.BoardingPassURL != "" {
		b.Ticket = &model.Ticket{
			TicketID:        s.ids.New(idgen.PrefixTicket),
			BoardingPassURL: opts.BoardingPassURL,
			IssuedAt:        now,
		}
	}

	if opts.SeatNumber != "" {
		seat, err := s.inventory.ReserveSeat(ctx, flightNumber, opts.SeatNumber)
		if err != nil {
			return nil, err
		}
		b.SeatNumber = seat.SeatNumber
		if b.SeatClass == "" {
			b.SeatClass = seat.Class
		}
	}

	_, err = s.customers.UpdateCustomer(ctx, customerID, func(c *model.Customer) error {
		if c.ActiveBooking(flightNumber) != nil {
			return model.ErrDuplicateBooking
		}
		c.Bookings = append(c.Bookings, b)
		return nil
	})
	if err != nil {
		if b.SeatNumber != "" {
			if relErr := s.inventory.ReleaseSeat(ctx, flightNumber, b.SeatNumber); relErr != nil {
				s.logger.Error("rollback seat reservation failed",
					zap.Error(relErr),
					zap.String("flight", flightNumber),
					zap.String("seat", b.SeatNumber),
				)
			}
		}
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking", b.BookingID),
		zap.String("customer", customerID),
		zap.String("flight", flightNumber),
		zap.String("seat", b.SeatNumber),
	)

	s.notifier.Notify(ctx, model.BookingEvent{
		Type:         model.EventBookingCreated,
		CustomerID:   customerID,
		BookingID:    b.BookingID,
		FlightNumber: flightNumber,
		At:           now,
	})

	return &b, nil
}

// BookSeatOnly бронирует только место на рейсе. Действует то же правило
// «одно действующее бронирование на рейс», что и для BookFlight.
func (s *BookingService) BookSeatOnly(ctx context.Context, customerID, flightNumber, seatNumber string) (*model.Booking, error) {
	if strings.TrimSpace(seatNumber) == "" {
		return nil, model.ErrSeatNotFound
	}
	return s.BookFlight(ctx, customerID, flightNumber, BookingOptions{SeatNumber: seatNumber})
}

// AddBaggage добавляет багаж к действующему бронированию клиента на рейс.
func (s *BookingService) AddBaggage(ctx context.Context, customerID, flightNumber string, items []model.Baggage) (*model.Booking, error) {
	if len(items) == 0 {
		return nil, model.ErrNoBaggage
	}

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if _, err := s.inventory.GetFlight(ctx, flightNumber); err != nil {
		return nil, err
	}

	var updated model.Booking
	_, err := s.customers.UpdateCustomer(ctx, customerID, func(c *model.Customer) error {
		b := c.ActiveBooking(flightNumber)
		if b == nil {
			return model.ErrBookingNotFound
		}
		b.Baggage = append(b.Baggage, items...)
		updated = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("baggage added",
		zap.String("booking", updated.BookingID),
		zap.Int("items", len(items)),
	)
	return &updated, nil
}

// CancelBooking отменяет бронирование, оформляет возврат и освобождает место.
// Ошибка освобождения места не отменяет операцию.
func (s *BookingService) CancelBooking(ctx context.Context, customerID, bookingID, reason string) (*CancelResult, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	current := c.Booking(bookingID)
	if current == nil {
		return nil, model.ErrBookingNotFound
	}
	if !current.Active() {
		return nil, model.ErrBookingAlreadyCancelled
	}

	amount, err := s.refunds.ComputeRefund(ctx, c, current)
	if err != nil {
		return nil, fmt.Errorf("compute refund: %w", err)
	}

	if reason == "" {
		reason = "Customer requested cancellation"
	}

	now := s.now().UTC()
	var res CancelResult
	_, err = s.customers.UpdateCustomer(ctx, customerID, func(c *model.Customer) error {
		b := c.Booking(bookingID)
		if b == nil {
			return model.ErrBookingNotFound
		}
		if !b.Active() {
			return model.ErrBookingAlreadyCancelled
		}

		refund := model.Refund{
			RefundID:     s.ids.New(idgen.PrefixRefund),
			BookingID:    b.BookingID,
			FlightNumber: b.FlightNumber,
			Amount:       amount,
			Status:       model.RefundStatusPending,
			Reason:       reason,
			RequestDate:  now,
		}

		b.Status = model.BookingStatusCancelled
		b.CancelledAt = &now
		b.CancellationReason = reason
		b.RefundID = refund.RefundID
		c.Refunds = append(c.Refunds, refund)

		res = CancelResult{Booking: *b, Refund: refund}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Booking.SeatNumber != "" {
		if err := s.inventory.ReleaseSeat(ctx, res.Booking.FlightNumber, res.Booking.SeatNumber); err != nil {
			s.logger.Warn("release seat on cancellation failed",
				zap.Error(err),
				zap.String("booking", bookingID),
				zap.String("flight", res.Booking.FlightNumber),
				zap.String("seat", res.Booking.SeatNumber),
			)
		}
	}

	s.logger.Info("booking cancelled",
		zap.String("booking", bookingID),
		zap.String("customer", customerID),
		zap.Float64("refund", res.Refund.Amount),
	)

	s.notifier.Notify(ctx, model.BookingEvent{
		Type:         model.EventBookingCancelled,
		CustomerID:   customerID,
		BookingID:    bookingID,
		FlightNumber: res.Booking.FlightNumber,
		Amount:       res.Refund.Amount,
		At:           now,
	})

	return &res, nil
}

// ListBookings возвращает бронирования клиента с данными рейса на момент чтения.
// Фильтр по статусу не зависит от регистра; «active» соответствует всем
// неотменённым бронированиям.
func (s *BookingService) ListBookings(ctx context.Context, customerID string, filter BookingFilter) ([]model.BookingView, error) {
	switch filter.SortBy {
	case "", SortByDate, SortByFlight, SortByStatus:
	default:
		return nil, model.ErrInvalidSortKey
	}

	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	res := make([]model.BookingView, 0, len(c.Bookings))
	for _, b := range c.Bookings {
		if !matchStatus(&b, filter.Status) {
			continue
		}
		res = append(res, model.BookingView{Booking: b})
	}

	switch filter.SortBy {
	case SortByDate:
		sort.SliceStable(res, func(i, j int) bool {
			return res[i].BookingDate.After(res[j].BookingDate)
		})
	case SortByFlight:
		sort.SliceStable(res, func(i, j int) bool {
			return res[i].FlightNumber < res[j].FlightNumber
		})
	case SortByStatus:
		sort.SliceStable(res, func(i, j int) bool {
			return res[i].EffectiveStatus() < res[j].EffectiveStatus()
		})
	}

	snapshots := make(map[string]*model.FlightSnapshot)
	for i := range res {
		number := res[i].FlightNumber
		snap, ok := snapshots[number]
		if !ok {
			snap, err = s.snapshot(ctx, number)
			if err != nil {
				return nil, err
			}
			snapshots[number] = snap
		}
		res[i].Flight = snap
	}

	return res, nil
}

func (s *BookingService) snapshot(ctx context.Context, flightNumber string) (*model.FlightSnapshot, error) {
	f, err := s.inventory.GetFlight(ctx, flightNumber)
	if err != nil {
		if errors.Is(err, model.ErrFlightNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load flight %s: %w", flightNumber, err)
	}
	return &model.FlightSnapshot{
		Origin:        f.Origin,
		Destination:   f.Destination,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Airline:       f.Airline,
		Price:         f.Price,
	}, nil
}

func matchStatus(b *model.Booking, status string) bool {
	if status == "" {
		return true
	}
	if strings.EqualFold(status, string(model.BookingStatusActive)) {
		return b.Active()
	}
	return strings.EqualFold(status, string(b.EffectiveStatus()))
}
