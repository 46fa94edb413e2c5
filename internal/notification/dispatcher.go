package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/model"
)

// DefaultQueueSize задаёт ёмкость очереди событий по умолчанию.
const DefaultQueueSize = 256

var errRateLimited = errors.New("rate limited")

// Sender отправляет одно событие во внешнюю систему.
type Sender interface {
	Send(ctx context.Context, event model.BookingEvent) (int, time.Duration, error)
}

// Dispatcher ставит события в очередь и доставляет их в фоне.
// Notify никогда не блокирует вызывающую операцию: при переполненной очереди
// событие отбрасывается.
type Dispatcher struct {
	sender  Sender
	queue   chan model.BookingEvent
	logger  *zap.Logger
	backoff func() retry.Backoff
}

// NewDispatcher создаёт диспетчер с очередью заданной ёмкости.
func NewDispatcher(sender Sender, size int, logger *zap.Logger) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Dispatcher{
		sender: sender,
		queue:  make(chan model.BookingEvent, size),
		logger: logger,
		backoff: func() retry.Backoff {
			b := retry.NewExponential(200 * time.Millisecond)
			b = retry.WithCappedDuration(5*time.Second, b)
			return retry.WithMaxRetries(3, b)
		},
	}
}

// Notify ставит событие в очередь на доставку.
func (d *Dispatcher) Notify(_ context.Context, event model.BookingEvent) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("notification queue full, event dropped",
			zap.String("type", string(event.Type)),
			zap.String("customer", event.CustomerID),
		)
	}
}

// Run доставляет события из очереди до отмены контекста.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event model.BookingEvent) {
	err := retry.Do(ctx, d.backoff(), func(ctx context.Context) error {
		code, retryAfter, err := d.sender.Send(ctx, event)
		if code == http.StatusTooManyRequests {
			if retryAfter > 0 {
				timer := time.NewTimer(retryAfter)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
			return retry.RetryableError(errRateLimited)
		}
		if err != nil {
			if code == 0 || code >= http.StatusInternalServerError {
				return retry.RetryableError(err)
			}
			return fmt.Errorf("rejected: %w", err)
		}
		return nil
	})
	if err != nil {
		d.logger.Warn("notification not delivered",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.String("customer", event.CustomerID),
		)
		return
	}

	d.logger.Debug("notification delivered", zap.String("type", string(event.Type)))
}
