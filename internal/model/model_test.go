package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrFlightNotFound, ErrNotFound},
		{ErrBookingNotFound, ErrNotFound},
		{ErrSeatOccupied, ErrConflict},
		{ErrDuplicateBooking, ErrConflict},
		{ErrAmountMismatch, ErrValidation},
		{ErrInsufficientPoints, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			wrapped := errors.Join(errors.New("context"), tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
		})
	}

	assert.NotErrorIs(t, ErrSeatOccupied, ErrNotFound)
	assert.NotErrorIs(t, ErrSeatOccupied, ErrDuplicateBooking)
}

func TestBookingEffectiveStatus(t *testing.T) {
	b := Booking{}
	assert.Equal(t, BookingStatusActive, b.EffectiveStatus())
	assert.True(t, b.Active())

	b.Status = "cancelled"
	assert.False(t, b.Active())
}

func TestCustomerCloneIsDeep(t *testing.T) {
	c := &Customer{
		UserID:   "C1",
		Loyalty:  &LoyaltyMembership{Tier: TierBasic},
		Bookings: []Booking{{BookingID: "B1", Baggage: []Baggage{{Type: "carry-on"}}}},
	}

	cp := c.Clone()
	cp.Loyalty.Tier = TierGold
	cp.Bookings[0].Baggage[0].Type = "checked"
	cp.Bookings[0].Status = BookingStatusCancelled

	assert.Equal(t, TierBasic, c.Loyalty.Tier)
	assert.Equal(t, "carry-on", c.Bookings[0].Baggage[0].Type)
	assert.True(t, c.Bookings[0].Active())
}

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, 240.0, Round2(0.8*300))
	assert.Equal(t, 159.99, Round2(159.989))
	assert.Equal(t, int64(19999), ToCents(199.99))
	assert.Equal(t, 199.99, FromCents(19999))
}

func TestTierRank(t *testing.T) {
	assert.Less(t, TierBasic.Rank(), TierSilver.Rank())
	assert.Less(t, TierSilver.Rank(), TierGold.Rank())
	assert.Less(t, TierGold.Rank(), TierPlatinum.Rank())
	assert.Equal(t, 0, Tier("").Rank())
}
