// Package model содержит доменные сущности сервиса бронирования авиабилетов.
package model

import (
	"math"
	"time"
)

// SeatClass описывает класс обслуживания места.
type SeatClass string

const (
	SeatClassEconomy  SeatClass = "Economy"
	SeatClassBusiness SeatClass = "Business"
	SeatClassFirst    SeatClass = "First"
)

// Valid сообщает, относится ли значение к известным классам.
func (c SeatClass) Valid() bool {
	switch c {
	case SeatClassEconomy, SeatClassBusiness, SeatClassFirst:
		return true
	}
	return false
}

// Seat описывает место в салоне конкретного рейса.
type Seat struct {
	SeatNumber string    `json:"seatNumber"`
	Class      SeatClass `json:"class"`
	Occupied   bool      `json:"occupied"`
}

// Flight описывает рейс вместе с картой мест.
type Flight struct {
	FlightNumber  string    `json:"flightNumber"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Price         float64   `json:"price"`
	Airline       string    `json:"airline"`
	Seats         []Seat    `json:"seats"`
}

// Seat возвращает указатель на место с указанным номером либо nil.
func (f *Flight) Seat(number string) *Seat {
	for i := range f.Seats {
		if f.Seats[i].SeatNumber == number {
			return &f.Seats[i]
		}
	}
	return nil
}

// Clone возвращает глубокую копию рейса.
func (f *Flight) Clone() *Flight {
	c := *f
	c.Seats = append([]Seat(nil), f.Seats...)
	return &c
}

// Role определяет набор полномочий учётной записи.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Customer представляет клиента авиакомпании. Клиент владеет своими бронированиями,
// платежами, возвратами и списаниями баллов.
type Customer struct {
	UserID        string             `json:"userId"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	PasswordHash  string             `json:"-"`
	Role          Role               `json:"role"`
	LoyaltyPoints int64              `json:"loyaltyPoints"`
	TotalSpent    float64            `json:"totalSpent"`
	Loyalty       *LoyaltyMembership `json:"loyaltyProgram,omitempty"`
	Bookings      []Booking          `json:"bookings"`
	Payments      []Payment          `json:"payments"`
	Refunds       []Refund           `json:"refunds"`
	Redemptions   []Redemption       `json:"redemptions"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// IsAdmin сообщает, обладает ли учётная запись правами администратора.
func (c *Customer) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ActiveBooking возвращает действующее бронирование клиента на рейс либо nil.
func (c *Customer) ActiveBooking(flightNumber string) *Booking {
	for i := range c.Bookings {
		b := &c.Bookings[i]
		if b.FlightNumber == flightNumber && b.Active() {
			return b
		}
	}
	return nil
}

// Booking возвращает бронирование по идентификатору либо nil.
func (c *Customer) Booking(bookingID string) *Booking {
	for i := range c.Bookings {
		if c.Bookings[i].BookingID == bookingID {
			return &c.Bookings[i]
		}
	}
	return nil
}

// PaymentFor возвращает последний платёж по бронированию либо nil.
func (c *Customer) PaymentFor(bookingID string) *Payment {
	for i := len(c.Payments) - 1; i >= 0; i-- {
		if c.Payments[i].BookingID == bookingID {
			return &c.Payments[i]
		}
	}
	return nil
}

// Clone возвращает глубокую копию клиента.
func (c *Customer) Clone() *Customer {
	cp := *c
	if c.Loyalty != nil {
		l := *c.Loyalty
		cp.Loyalty = &l
	}
	cp.Bookings = make([]Booking, len(c.Bookings))
	for i := range c.Bookings {
		cp.Bookings[i] = c.Bookings[i].clone()
	}
	cp.Payments = append([]Payment(nil), c.Payments...)
	cp.Refunds = append([]Refund(nil), c.Refunds...)
	cp.Redemptions = append([]Redemption(nil), c.Redemptions...)
	return &cp
}

// Round2 округляет денежную сумму до двух знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToCents переводит денежную сумму в центы.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromCents переводит центы в денежную сумму.
func FromCents(c int64) float64 {
	return float64(c) / 100
}
