package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/loyalty"
	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/repository"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event model.BookingEvent) {
	m.Called(ctx, event)
}

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) New(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}

type testEnv struct {
	repo     *repository.MemoryRepository
	notifier *mockNotifier
	flights  *FlightService
	accounts *AccountService
	bookings *BookingService
	payments *PaymentService
	loyalty  *LoyaltyService
	programs *ProgramService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.NewMemoryRepository()
	logger := zap.NewNop()
	ids := &seqIDs{}
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything).Return().Maybe()

	ledger := loyalty.NewLedger(ids)
	flights := NewFlightService(repo, repo, logger)
	payments := NewPaymentService(repo, repo, ledger, notifier, ids, logger)

	return &testEnv{
		repo:     repo,
		notifier: notifier,
		flights:  flights,
		accounts: NewAccountService(repo, ids, logger),
		bookings: NewBookingService(repo, flights, payments, notifier, ids, logger),
		payments: payments,
		loyalty:  NewLoyaltyService(repo, ledger, logger),
		programs: NewProgramService(repo, ids, logger),
	}
}

var testDeparture = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

func flightInput(number string, price float64, seats ...string) FlightInput {
	in := FlightInput{
		FlightNumber:  number,
		Origin:        "New York",
		Destination:   "London",
		DepartureTime: testDeparture,
		ArrivalTime:   testDeparture.Add(7 * time.Hour),
		Price:         price,
		Airline:       "Oceanic",
	}
	for _, s := range seats {
		in.Seats = append(in.Seats, SeatInput{SeatNumber: s, Class: model.SeatClassEconomy})
	}
	return in
}

func (e *testEnv) addFlight(t *testing.T, number string, price float64, seats ...string) *model.Flight {
	t.Helper()
	f, err := e.flights.AddFlight(context.Background(), flightInput(number, price, seats...))
	require.NoError(t, err)
	return f
}

func (e *testEnv) addCustomer(t *testing.T, id string) *model.Customer {
	t.Helper()
	c := &model.Customer{UserID: id, Name: "Customer " + id, Email: id + "@example.com", PasswordHash: "secret", Role: model.RoleCustomer}
	require.NoError(t, e.repo.CreateCustomer(context.Background(), c))
	return c
}

func (e *testEnv) customer(t *testing.T, id string) *model.Customer {
	t.Helper()
	c, err := e.repo.GetCustomer(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (e *testEnv) seat(t *testing.T, flightNumber, seatNumber string) model.Seat {
	t.Helper()
	f, err := e.repo.GetFlight(context.Background(), flightNumber)
	require.NoError(t, err)
	s := f.Seat(seatNumber)
	require.NotNil(t, s)
	return *s
}
