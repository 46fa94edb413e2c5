package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/validation"
)

// SeatInput описывает место во входных данных. Occupied равен nil, если флаг не передан.
type SeatInput struct {
	SeatNumber string
	Class      model.SeatClass
	Occupied   *bool
}

// FlightInput содержит данные для создания рейса.
type FlightInput struct {
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         float64
	Airline       string
	Seats         []SeatInput
}

// FlightPatch содержит изменяемые поля рейса; nil означает «не менять».
type FlightPatch struct {
	FlightNumber  *string
	Origin        *string
	Destination   *string
	DepartureTime *time.Time
	ArrivalTime   *time.Time
	Price         *float64
	Airline       *string
	Seats         *[]SeatInput
}

// FlightFilter задаёт условия поиска рейсов.
type FlightFilter struct {
	Origin      string
	Destination string
}

// FlightService управляет инвентарём рейсов и картами мест.
type FlightService struct {
	store     FlightStore
	customers CustomerStore
	logger    *zap.Logger
}

// NewFlightService создаёт сервис инвентаря рейсов. Хранилище клиентов нужно,
// чтобы не переименовывать рейс, на который есть действующие бронирования.
func NewFlightService(store FlightStore, customers CustomerStore, logger *zap.Logger) *FlightService {
	return &FlightService{store: store, customers: customers, logger: logger}
}

// AddFlight проверяет и сохраняет новый рейс.
func (s *FlightService) AddFlight(ctx context.Context, in FlightInput) (*model.Flight, error) {
	if _, err := s.store.GetFlight(ctx, strings.TrimSpace(in.FlightNumber)); err == nil {
		return nil, model.ErrDuplicateFlightNumber
	} else if !errors.Is(err, model.ErrFlightNotFound) {
		return nil, fmt.Errorf("check flight: %w", err)
	}

	seats, err := buildSeats(in.Seats, nil)
	if err != nil {
		return nil, err
	}

	f := &model.Flight{
		FlightNumber:  strings.TrimSpace(in.FlightNumber),
		Origin:        strings.TrimSpace(in.Origin),
		Destination:   strings.TrimSpace(in.Destination),
		DepartureTime: in.DepartureTime.UTC(),
		ArrivalTime:   in.ArrivalTime.UTC(),
		Price:         model.Round2(in.Price),
		Airline:       strings.TrimSpace(in.Airline),
		Seats:         seats,
	}
	if err := validateFlight(f); err != nil {
		return nil, err
	}

	if err := s.store.CreateFlight(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("flight added", zap.String("flight", f.FlightNumber), zap.Int("seats", len(f.Seats)))
	return f, nil
}

// UpdateFlight применяет частичное изменение рейса. Рейс с занятыми местами
// или действующими бронированиями переименовать нельзя: бронирования ссылаются
// на рейс по номеру.
func (s *FlightService) UpdateFlight(ctx context.Context, flightNumber string, patch FlightPatch) (*model.Flight, error) {
	rename := patch.FlightNumber != nil && strings.TrimSpace(*patch.FlightNumber) != flightNumber
	if rename {
		booked, err := s.hasActiveBookings(ctx, flightNumber)
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, model.ErrFlightInUse
		}
	}

	updated, err := s.store.UpdateFlight(ctx, flightNumber, func(f *model.Flight) error {
		if rename {
			for _, seat := range f.Seats {
				if seat.Occupied {
					return model.ErrFlightInUse
				}
			}
			f.FlightNumber = strings.TrimSpace(*patch.FlightNumber)
		}
		if patch.Origin != nil {
			f.Origin = strings.TrimSpace(*patch.Origin)
		}
		if patch.Destination != nil {
			f.Destination = strings.TrimSpace(*patch.Destination)
		}
		if patch.DepartureTime != nil {
			f.DepartureTime = patch.DepartureTime.UTC()
		}
		if patch.ArrivalTime != nil {
			f.ArrivalTime = patch.ArrivalTime.UTC()
		}
		if patch.Price != nil {
			f.Price = model.Round2(*patch.Price)
		}
		if patch.Airline != nil {
			f.Airline = strings.TrimSpace(*patch.Airline)
		}
		if patch.Seats != nil {
			seats, err := buildSeats(*patch.Seats, f)
			if err != nil {
				return err
			}
			f.Seats = seats
		}
		return validateFlight(f)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flight updated", zap.String("flight", flightNumber), zap.String("number", updated.FlightNumber))
	return updated, nil
}

func (s *FlightService) hasActiveBookings(ctx context.Context, flightNumber string) (bool, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return false, fmt.Errorf("list customers: %w", err)
	}
	for i := range customers {
		if customers[i].ActiveBooking(flightNumber) != nil {
			return true, nil
		}
	}
	return false, nil
}

// DeleteFlight удаляет рейс и возвращает удалённую запись.
func (s *FlightService) DeleteFlight(ctx context.Context, flightNumber string) (*model.Flight, error) {
	f, err := s.store.DeleteFlight(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	s.logger.Info("flight deleted", zap.String("flight", flightNumber))
	return f, nil
}

// GetFlight возвращает рейс по номеру.
func (s *FlightService) GetFlight(ctx context.Context, flightNumber string) (*model.Flight, error) {
	return s.store.GetFlight(ctx, flightNumber)
}

// FindFlights возвращает рейсы, совпадающие с фильтром без учёта регистра и пробелов.
func (s *FlightService) FindFlights(ctx context.Context, filter FlightFilter) ([]model.Flight, error) {
	flights, err := s.store.ListFlights(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}

	origin := validation.NormalizeLocation(filter.Origin)
	destination := validation.NormalizeLocation(filter.Destination)

	res := make([]model.Flight, 0, len(flights))
	for _, f := range flights {
		if origin != "" && validation.NormalizeLocation(f.Origin) != origin {
			continue
		}
		if destination != "" && validation.NormalizeLocation(f.Destination) != destination {
			continue
		}
		res = append(res, f)
	}
	return res, nil
}

// ReserveSeat помечает место занятым. Повторное бронирование занятого места
// завершается ошибкой model.ErrSeatOccupied.
func (s *FlightService) ReserveSeat(ctx context.Context, flightNumber, seatNumber string) (model.Seat, error) {
	var reserved model.Seat
	_, err := s.store.UpdateFlight(ctx, flightNumber, func(f *model.Flight) error {
		seat := f.Seat(seatNumber)
		if seat == nil {
			return model.ErrSeatNotFound
		}
		if seat.Occupied {
			return model.ErrSeatOccupied
		}
		seat.Occupied = true
		reserved = *seat
		return nil
	})
	if err != nil {
		return model.Seat{}, err
	}

	s.logger.Debug("seat reserved", zap.String("flight", flightNumber), zap.String("seat", seatNumber))
	return reserved, nil
}

// ReleaseSeat освобождает место. Отсутствующий рейс или место, а также уже
// свободное место не считаются ошибкой.
func (s *FlightService) ReleaseSeat(ctx context.Context, flightNumber, seatNumber string) error {
	_, err := s.store.UpdateFlight(ctx, flightNumber, func(f *model.Flight) error {
		if seat := f.Seat(seatNumber); seat != nil {
			seat.Occupied = false
		}
		return nil
	})
	if err != nil && !errors.Is(err, model.ErrFlightNotFound) {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

// buildSeats нормализует места: класс по умолчанию Economy, отсутствующий флаг
// занятости берётся из прежней карты мест prev, а для нового рейса равен false.
func buildSeats(in []SeatInput, prev *model.Flight) ([]model.Seat, error) {
	seats := make([]model.Seat, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, si := range in {
		number := strings.TrimSpace(si.SeatNumber)
		if number == "" {
			return nil, fmt.Errorf("%w: empty seat number", model.ErrInvalidFlight)
		}
		if _, ok := seen[number]; ok {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateSeat, number)
		}
		seen[number] = struct{}{}

		class := si.Class
		if class == "" {
			class = model.SeatClassEconomy
		}
		if !class.Valid() {
			return nil, fmt.Errorf("%w: %s", model.ErrInvalidSeatClass, class)
		}

		occupied := false
		if si.Occupied != nil {
			occupied = *si.Occupied
		} else if prev != nil {
			if old := prev.Seat(number); old != nil {
				occupied = old.Occupied
			}
		}

		seats = append(seats, model.Seat{SeatNumber: number, Class: class, Occupied: occupied})
	}
	return seats, nil
}

func validateFlight(f *model.Flight) error {
	if f.FlightNumber == "" || f.Origin == "" || f.Destination == "" {
		return fmt.Errorf("%w: flight number, origin and destination are required", model.ErrInvalidFlight)
	}
	if f.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", model.ErrInvalidFlight)
	}
	if !f.DepartureTime.Before(f.ArrivalTime) {
		return model.ErrInvalidTimeRange
	}
	seen := make(map[string]struct{}, len(f.Seats))
	for _, seat := range f.Seats {
		if _, ok := seen[seat.SeatNumber]; ok {
			return fmt.Errorf("%w: %s", model.ErrDuplicateSeat, seat.SeatNumber)
		}
		seen[seat.SeatNumber] = struct{}{}
	}
	return nil
}
