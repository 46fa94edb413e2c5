package model

import "time"

// EventType описывает тип события бронирования.
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventPaymentCompleted EventType = "payment.completed"
	EventTierUpgraded     EventType = "loyalty.tier_upgraded"
)

// BookingEvent отправляется во внешнюю систему уведомлений.
type BookingEvent struct {
	Type         EventType `json:"type"`
	CustomerID   string    `json:"customerId"`
	BookingID    string    `json:"bookingId,omitempty"`
	FlightNumber string    `json:"flightNumber,omitempty"`
	Amount       float64   `json:"amount,omitempty"`
	Tier         Tier      `json:"tier,omitempty"`
	At           time.Time `json:"at"`
}
