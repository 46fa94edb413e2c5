// Package seed загружает начальный каталог рейсов из файла YAML или JSON.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/service"
)

// Catalog описывает содержимое файла с рейсами.
type Catalog struct {
	Flights []Flight `yaml:"flights" json:"flights"`
}

// Flight описывает рейс в файле каталога.
type Flight struct {
	FlightNumber  string    `yaml:"flightNumber" json:"flightNumber"`
	Origin        string    `yaml:"origin" json:"origin"`
	Destination   string    `yaml:"destination" json:"destination"`
	DepartureTime time.Time `yaml:"departureTime" json:"departureTime"`
	ArrivalTime   time.Time `yaml:"arrivalTime" json:"arrivalTime"`
	Price         float64   `yaml:"price" json:"price"`
	Airline       string    `yaml:"airline" json:"airline"`
	Seats         []Seat    `yaml:"seats" json:"seats"`
}

// Seat описывает место в файле каталога.
type Seat struct {
	SeatNumber string `yaml:"seatNumber" json:"seatNumber"`
	Class      string `yaml:"class" json:"class"`
	Occupied   *bool  `yaml:"occupied" json:"occupied"`
}

// FlightAdder добавляет рейс в инвентарь.
type FlightAdder interface {
	AddFlight(ctx context.Context, in service.FlightInput) (*model.Flight, error)
}

// Load читает каталог. Формат определяется по расширению файла.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var c Catalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	return &c, nil
}

// Apply добавляет рейсы каталога. Уже существующие рейсы пропускаются,
// поэтому повторный запуск с тем же файлом безопасен. Возвращает число
// добавленных рейсов.
func Apply(ctx context.Context, adder FlightAdder, c *Catalog, logger *zap.Logger) (int, error) {
	added := 0
	for _, f := range c.Flights {
		_, err := adder.AddFlight(ctx, f.input())
		if errors.Is(err, model.ErrDuplicateFlightNumber) {
			logger.Debug("seed flight already exists", zap.String("flight", f.FlightNumber))
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed flight %s: %w", f.FlightNumber, err)
		}
		added++
	}

	logger.Info("flight catalog seeded", zap.Int("added", added), zap.Int("total", len(c.Flights)))
	return added, nil
}

func (f Flight) input() service.FlightInput {
	in := service.FlightInput{
		FlightNumber:  f.FlightNumber,
		Origin:        f.Origin,
		Destination:   f.Destination,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Price:         f.Price,
		Airline:       f.Airline,
	}
	for _, s := range f.Seats {
		in.Seats = append(in.Seats, service.SeatInput{
			SeatNumber: s.SeatNumber,
			Class:      model.SeatClass(s.Class),
			Occupied:   s.Occupied,
		})
	}
	return in
}
