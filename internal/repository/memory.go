package repository

import (
	"context"
	"sync"

	"github.com/mmeshcher/airline-booking/internal/model"
)

// MemoryRepository хранит данные в памяти процесса. Все изменения
// сериализуются одним мьютексом, поэтому чтение-изменение-запись рейса или
// клиента атомарны.
type MemoryRepository struct {
	mu sync.Mutex

	flights     map[string]*model.Flight
	flightOrder []string

	customers     map[string]*model.Customer
	customerOrder []string
	emails        map[string]string

	programs     map[string]*model.LoyaltyProgram
	programOrder []string
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		flights:   make(map[string]*model.Flight),
		customers: make(map[string]*model.Customer),
		emails:    make(map[string]string),
		programs:  make(map[string]*model.LoyaltyProgram),
	}
}

// Close ничего не делает и нужен для совместимости с PostgresRepository.
func (r *MemoryRepository) Close() error { return nil }

// GetFlight возвращает копию рейса.
func (r *MemoryRepository) GetFlight(_ context.Context, flightNumber string) (*model.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[flightNumber]
	if !ok {
		return nil, model.ErrFlightNotFound
	}
	return f.Clone(), nil
}

// ListFlights возвращает рейсы в порядке добавления.
func (r *MemoryRepository) ListFlights(_ context.Context) ([]model.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]model.Flight, 0, len(r.flightOrder))
	for _, number := range r.flightOrder {
		res = append(res, *r.flights[number].Clone())
	}
	return res, nil
}

// CreateFlight сохраняет новый рейс.
func (r *MemoryRepository) CreateFlight(_ context.Context, f *model.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flights[f.FlightNumber]; ok {
		return model.ErrDuplicateFlightNumber
	}
	r.flights[f.FlightNumber] = f.Clone()
	r.flightOrder = append(r.flightOrder, f.FlightNumber)
	return nil
}

// UpdateFlight атомарно изменяет рейс, в том числе переименовывает его.
func (r *MemoryRepository) UpdateFlight(_ context.Context, flightNumber string, fn func(f *model.Flight) error) (*model.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.flights[flightNumber]
	if !ok {
		return nil, model.ErrFlightNotFound
	}

	f := current.Clone()
	if err := fn(f); err != nil {
		return nil, err
	}

	if f.FlightNumber != flightNumber {
		if _, taken := r.flights[f.FlightNumber]; taken {
			return nil, model.ErrDuplicateFlightNumber
		}
		delete(r.flights, flightNumber)
		for i, n := range r.flightOrder {
			if n == flightNumber {
				r.flightOrder[i] = f.FlightNumber
				break
			}
		}
	}
	r.flights[f.FlightNumber] = f
	return f.Clone(), nil
}

// DeleteFlight удаляет рейс и возвращает удалённую запись.
func (r *MemoryRepository) DeleteFlight(_ context.Context, flightNumber string) (*model.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[flightNumber]
	if !ok {
		return nil, model.ErrFlightNotFound
	}
	delete(r.flights, flightNumber)
	r.flightOrder = removeKey(r.flightOrder, flightNumber)
	return f, nil
}

// GetCustomer возвращает копию клиента.
func (r *MemoryRepository) GetCustomer(_ context.Context, userID string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[userID]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return c.Clone(), nil
}

// GetCustomerByEmail возвращает клиента по адресу почты.
func (r *MemoryRepository) GetCustomerByEmail(_ context.Context, email string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return r.customers[id].Clone(), nil
}

// ListCustomers возвращает клиентов в порядке регистрации.
func (r *MemoryRepository) ListCustomers(_ context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]model.Customer, 0, len(r.customerOrder))
	for _, id := range r.customerOrder {
		res = append(res, *r.customers[id].Clone())
	}
	return res, nil
}

// CreateCustomer сохраняет нового клиента.
func (r *MemoryRepository) CreateCustomer(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emails[c.Email]; ok {
		return model.ErrEmailTaken
	}
	r.customers[c.UserID] = c.Clone()
	r.emails[c.Email] = c.UserID
	r.customerOrder = append(r.customerOrder, c.UserID)
	return nil
}

// UpdateCustomer атомарно изменяет клиента.
func (r *MemoryRepository) UpdateCustomer(_ context.Context, userID string, fn func(c *model.Customer) error) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.customers[userID]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}

	c := current.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}

	if c.Email != current.Email {
		if _, taken := r.emails[c.Email]; taken {
			return nil, model.ErrEmailTaken
		}
		delete(r.emails, current.Email)
		r.emails[c.Email] = userID
	}
	r.customers[userID] = c
	return c.Clone(), nil
}

// ListPrograms возвращает программы лояльности.
func (r *MemoryRepository) ListPrograms(_ context.Context) ([]model.LoyaltyProgram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]model.LoyaltyProgram, 0, len(r.programOrder))
	for _, id := range r.programOrder {
		res = append(res, *r.programs[id])
	}
	return res, nil
}

// GetProgram возвращает программу лояльности.
func (r *MemoryRepository) GetProgram(_ context.Context, programID string) (*model.LoyaltyProgram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.programs[programID]
	if !ok {
		return nil, model.ErrProgramNotFound
	}
	cp := *p
	return &cp, nil
}

// CreateProgram сохраняет программу лояльности.
func (r *MemoryRepository) CreateProgram(_ context.Context, p *model.LoyaltyProgram) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.programs[p.ProgramID] = &cp
	r.programOrder = append(r.programOrder, p.ProgramID)
	return nil
}

// UpdateProgram атомарно изменяет программу лояльности.
func (r *MemoryRepository) UpdateProgram(_ context.Context, programID string, fn func(p *model.LoyaltyProgram) error) (*model.LoyaltyProgram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.programs[programID]
	if !ok {
		return nil, model.ErrProgramNotFound
	}
	p := *current
	if err := fn(&p); err != nil {
		return nil, err
	}
	r.programs[programID] = &p
	cp := p
	return &cp, nil
}

// DeleteProgram удаляет программу лояльности.
func (r *MemoryRepository) DeleteProgram(_ context.Context, programID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.programs[programID]; !ok {
		return model.ErrProgramNotFound
	}
	delete(r.programs, programID)
	r.programOrder = removeKey(r.programOrder, programID)
	return nil
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
