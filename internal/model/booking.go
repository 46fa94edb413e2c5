package model

import (
	"strings"
	"time"
)

// BookingStatus описывает состояние бронирования.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// BookingStatusActive подставляется для записей без статуса.
const BookingStatusActive BookingStatus = "Active"

// Meal описывает выбранное питание.
type Meal struct {
	Type string `json:"type"`
}

// SpecialRequest описывает особый запрос пассажира.
type SpecialRequest struct {
	Type string `json:"type"`
	Note string `json:"note,omitempty"`
}

// Baggage описывает единицу багажа.
type Baggage struct {
	Type       string  `json:"type"`
	WeightKg   float64 `json:"weightKg"`
	Dimensions string  `json:"dimensions,omitempty"`
}

// Ticket выпускается вместе с бронированием, если передан посадочный талон.
type Ticket struct {
	TicketID        string    `json:"ticketId"`
	BoardingPassURL string    `json:"boardingPassUrl"`
	IssuedAt        time.Time `json:"issuedAt"`
}

// Booking описывает бронирование клиента на рейс. Отменённые бронирования
// не удаляются и остаются в истории.
type Booking struct {
	BookingID          string          `json:"bookingId"`
	CustomerID         string          `json:"customerId"`
	FlightNumber       string          `json:"flightNumber"`
	SeatNumber         string          `json:"seatNumber,omitempty"`
	SeatClass          SeatClass       `json:"seatClass,omitempty"`
	Meal               *Meal           `json:"meal,omitempty"`
	SpecialRequest     *SpecialRequest `json:"specialRequest,omitempty"`
	Baggage            []Baggage       `json:"baggage,omitempty"`
	Ticket             *Ticket         `json:"ticket,omitempty"`
	Status             BookingStatus   `json:"status"`
	BookingDate        time.Time       `json:"bookingDate"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	RefundID           string          `json:"refundId,omitempty"`
}

// EffectiveStatus возвращает статус, считая пустой статус активным.
func (b *Booking) EffectiveStatus() BookingStatus {
	if b.Status == "" {
		return BookingStatusActive
	}
	return b.Status
}

// Active сообщает, что бронирование не отменено.
func (b *Booking) Active() bool {
	return !strings.EqualFold(string(b.Status), string(BookingStatusCancelled))
}

func (b Booking) clone() Booking {
	b.Baggage = append([]Baggage(nil), b.Baggage...)
	if b.Meal != nil {
		m := *b.Meal
		b.Meal = &m
	}
	if b.SpecialRequest != nil {
		r := *b.SpecialRequest
		b.SpecialRequest = &r
	}
	if b.Ticket != nil {
		t := *b.Ticket
		b.Ticket = &t
	}
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		b.CancelledAt = &at
	}
	return b
}

// FlightSnapshot содержит сведения о рейсе на момент чтения бронирования.
type FlightSnapshot struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Airline       string    `json:"airline"`
	Price         float64   `json:"price"`
}

// BookingView объединяет бронирование со снимком данных рейса.
type BookingView struct {
	Booking
	Flight *FlightSnapshot `json:"flightDetails,omitempty"`
}

// PaymentStatus описывает состояние платежа.
type PaymentStatus string

const PaymentStatusCompleted PaymentStatus = "Completed"

// Payment описывает оплату бронирования.
type Payment struct {
	TransactionID string        `json:"transactionId"`
	BookingID     string        `json:"bookingId"`
	FlightNumber  string        `json:"flightNumber"`
	Amount        float64       `json:"amount"`
	Method        string        `json:"method"`
	CardLast4     string        `json:"cardLast4"`
	Status        PaymentStatus `json:"status"`
	Timestamp     time.Time     `json:"timestamp"`
}

// RefundStatus описывает состояние возврата.
type RefundStatus string

const RefundStatusPending RefundStatus = "Pending"

// Refund создаётся при отмене бронирования.
type Refund struct {
	RefundID     string       `json:"refundId"`
	BookingID    string       `json:"bookingId"`
	FlightNumber string       `json:"flightNumber"`
	Amount       float64      `json:"amount"`
	Status       RefundStatus `json:"status"`
	Reason       string       `json:"reason"`
	RequestDate  time.Time    `json:"requestDate"`
}
