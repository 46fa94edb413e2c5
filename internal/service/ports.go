// Package service реализует бизнес-логику сервиса бронирования авиабилетов:
// инвентарь рейсов, бронирования, оплату, возвраты и программу лояльности.
package service

import (
	"context"

	"github.com/mmeshcher/airline-booking/internal/model"
)

// FlightStore описывает хранилище рейсов.
type FlightStore interface {
	// GetFlight возвращает рейс либо model.ErrFlightNotFound.
	GetFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
	ListFlights(ctx context.Context) ([]model.Flight, error)
	// CreateFlight сохраняет новый рейс либо возвращает model.ErrDuplicateFlightNumber.
	CreateFlight(ctx context.Context, f *model.Flight) error
	// UpdateFlight атомарно изменяет рейс: никакая другая операция над этим рейсом
	// не выполняется между чтением и записью. Ошибка fn отменяет изменения.
	UpdateFlight(ctx context.Context, flightNumber string, fn func(f *model.Flight) error) (*model.Flight, error)
	DeleteFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
}

// CustomerStore описывает хранилище клиентов вместе с принадлежащими им записями.
type CustomerStore interface {
	GetCustomer(ctx context.Context, userID string) (*model.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	// CreateCustomer сохраняет клиента либо возвращает model.ErrEmailTaken.
	CreateCustomer(ctx context.Context, c *model.Customer) error
	// UpdateCustomer атомарно изменяет запись клиента. Ошибка fn отменяет изменения.
	UpdateCustomer(ctx context.Context, userID string, fn func(c *model.Customer) error) (*model.Customer, error)
}

// ProgramStore описывает хранилище программ лояльности.
type ProgramStore interface {
	ListPrograms(ctx context.Context) ([]model.LoyaltyProgram, error)
	GetProgram(ctx context.Context, programID string) (*model.LoyaltyProgram, error)
	CreateProgram(ctx context.Context, p *model.LoyaltyProgram) error
	UpdateProgram(ctx context.Context, programID string, fn func(p *model.LoyaltyProgram) error) (*model.LoyaltyProgram, error)
	DeleteProgram(ctx context.Context, programID string) error
}

// Notifier доставляет события бронирования во внешние системы.
// Реализация не должна блокировать вызывающий код.
type Notifier interface {
	Notify(ctx context.Context, event model.BookingEvent)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.BookingEvent) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
