package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/repository"
	"github.com/mmeshcher/airline-booking/internal/service"
)

func TestLoad_YAML(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "flights.yaml"))
	require.NoError(t, err)
	require.Len(t, c.Flights, 2)

	f := c.Flights[0]
	assert.Equal(t, "F001", f.FlightNumber)
	assert.Equal(t, time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC), f.DepartureTime.UTC())
	require.Len(t, f.Seats, 2)
	assert.Nil(t, f.Seats[0].Occupied)
	require.NotNil(t, f.Seats[1].Occupied)
	assert.True(t, *f.Seats[1].Occupied)
	assert.Equal(t, 89.99, c.Flights[1].Price)
}

func TestLoad_JSON(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "flights.json"))
	require.NoError(t, err)
	require.Len(t, c.Flights, 1)
	assert.Equal(t, "Business", c.Flights[0].Seats[0].Class)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	txt := filepath.Join(dir, "flights.txt")
	require.NoError(t, os.WriteFile(txt, []byte("flights: []"), 0o600))
	_, err = Load(txt)
	assert.ErrorContains(t, err, "unsupported catalog format")

	bad := filepath.Join(dir, "flights.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("flights: [\n"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	flights := service.NewFlightService(repo, repo, zap.NewNop())

	c, err := Load(filepath.Join("testdata", "flights.yaml"))
	require.NoError(t, err)

	added, err := Apply(ctx, flights, c, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	f, err := repo.GetFlight(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, model.SeatClassFirst, f.Seat("1A").Class)
	assert.True(t, f.Seat("1A").Occupied)
	assert.False(t, f.Seat("12A").Occupied)

	added, err = Apply(ctx, flights, c, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestApply_InvalidFlight(t *testing.T) {
	repo := repository.NewMemoryRepository()
	flights := service.NewFlightService(repo, repo, zap.NewNop())

	c := &Catalog{Flights: []Flight{{
		FlightNumber:  "BAD",
		Origin:        "A",
		Destination:   "B",
		DepartureTime: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Price:         10,
	}}}

	_, err := Apply(context.Background(), flights, c, zap.NewNop())
	assert.ErrorIs(t, err, model.ErrInvalidTimeRange)
}
