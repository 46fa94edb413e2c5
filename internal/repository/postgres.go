// Package repository содержит реализации хранилищ рейсов, клиентов и программ
// лояльности: PostgreSQL и хранилище в памяти.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/airline-booking/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
// Карта мест рейса и принадлежащие клиенту записи хранятся в JSONB, суммы хранятся в центах.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при конфликте сериализации, взаимоблокировке или обрыве соединения.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil || i == len(r.delays) || !isRetryable(err) {
			return err
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const flightColumns = `flight_number, origin, destination, departure_time, arrival_time,
	price_cents, airline, COALESCE(seats, '[]'::jsonb)`

func scanFlight(row pgx.Row) (*model.Flight, error) {
	var (
		f          model.Flight
		priceCents int64
	)
	err := row.Scan(&f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime,
		&priceCents, &f.Airline, &f.Seats)
	if err != nil {
		return nil, err
	}
	f.Price = model.FromCents(priceCents)
	f.DepartureTime = f.DepartureTime.UTC()
	f.ArrivalTime = f.ArrivalTime.UTC()
	return &f, nil
}

// GetFlight возвращает рейс по номеру.
func (r *PostgresRepository) GetFlight(ctx context.Context, flightNumber string) (*model.Flight, error) {
	f, err := scanFlight(r.pool.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE flight_number = $1`,
		flightNumber,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return f, nil
}

// ListFlights возвращает рейсы в порядке добавления.
func (r *PostgresRepository) ListFlights(ctx context.Context) ([]model.Flight, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select flights: %w", err)
	}
	defer rows.Close()

	var flights []model.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return flights, nil
}

// CreateFlight сохраняет новый рейс.
func (r *PostgresRepository) CreateFlight(ctx context.Context, f *model.Flight) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO flights (flight_number, origin, destination, departure_time, arrival_time, price_cents, airline, seats)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime,
		model.ToCents(f.Price), f.Airline, nonNil(f.Seats),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateFlightNumber
		}
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

// UpdateFlight изменяет рейс под блокировкой строки, чтобы параллельные
// резервирования мест одного рейса выполнялись последовательно.
func (r *PostgresRepository) UpdateFlight(ctx context.Context, flightNumber string, fn func(f *model.Flight) error) (*model.Flight, error) {
	var updated *model.Flight
	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		f, err := scanFlight(tx.QueryRow(ctx,
			`SELECT `+flightColumns+` FROM flights WHERE flight_number = $1 FOR UPDATE`,
			flightNumber,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrFlightNotFound
			}
			return fmt.Errorf("lock flight for update: %w", err)
		}

		if err := fn(f); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE flights
			 SET flight_number = $2, origin = $3, destination = $4, departure_time = $5,
			     arrival_time = $6, price_cents = $7, airline = $8, seats = $9, updated_at = NOW()
			 WHERE flight_number = $1`,
			flightNumber, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime,
			f.ArrivalTime, model.ToCents(f.Price), f.Airline, nonNil(f.Seats),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return model.ErrDuplicateFlightNumber
			}
			return fmt.Errorf("update flight: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteFlight удаляет рейс и возвращает удалённую запись.
func (r *PostgresRepository) DeleteFlight(ctx context.Context, flightNumber string) (*model.Flight, error) {
	f, err := scanFlight(r.pool.QueryRow(ctx,
		`DELETE FROM flights WHERE flight_number = $1 RETURNING `+flightColumns,
		flightNumber,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrFlightNotFound
		}
		return nil, fmt.Errorf("delete flight: %w", err)
	}
	return f, nil
}

const customerColumns = `user_id, name, email, password_hash, role, loyalty_points, total_spent_cents, loyalty,
	COALESCE(bookings, '[]'::jsonb), COALESCE(payments, '[]'::jsonb),
	COALESCE(refunds, '[]'::jsonb), COALESCE(redemptions, '[]'::jsonb), created_at`

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var (
		c          model.Customer
		role       string
		spentCents int64
	)
	err := row.Scan(&c.UserID, &c.Name, &c.Email, &c.PasswordHash, &role, &c.LoyaltyPoints, &spentCents,
		&c.Loyalty, &c.Bookings, &c.Payments, &c.Refunds, &c.Redemptions, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Role = model.Role(role)
	c.TotalSpent = model.FromCents(spentCents)
	return &c, nil
}

// GetCustomer возвращает клиента по идентификатору.
func (r *PostgresRepository) GetCustomer(ctx context.Context, userID string) (*model.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetCustomerByEmail возвращает клиента по адресу почты.
func (r *PostgresRepository) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return c, nil
}

// ListCustomers возвращает клиентов в порядке регистрации.
func (r *PostgresRepository) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at, user_id`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var res []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		res = append(res, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateCustomer создаёт нового клиента.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, c *model.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (user_id, name, email, password_hash, role, loyalty_points, total_spent_cents,
		                        loyalty, bookings, payments, refunds, redemptions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.UserID, c.Name, c.Email, c.PasswordHash, string(c.Role), c.LoyaltyPoints, model.ToCents(c.TotalSpent),
		c.Loyalty, nonNil(c.Bookings), nonNil(c.Payments), nonNil(c.Refunds), nonNil(c.Redemptions), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", model.ErrEmailTaken, c.Email)
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// UpdateCustomer изменяет клиента под блокировкой строки. Баллы, сумма трат и
// уровень клиента не теряются при параллельных оплатах.
func (r *PostgresRepository) UpdateCustomer(ctx context.Context, userID string, fn func(c *model.Customer) error) (*model.Customer, error) {
	var updated *model.Customer
	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		c, err := scanCustomer(tx.QueryRow(ctx,
			`SELECT `+customerColumns+` FROM customers WHERE user_id = $1 FOR UPDATE`,
			userID,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrCustomerNotFound
			}
			return fmt.Errorf("lock customer for update: %w", err)
		}

		if err := fn(c); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE customers
			 SET name = $2, email = $3, password_hash = $4, role = $5, loyalty_points = $6, total_spent_cents = $7,
			     loyalty = $8, bookings = $9, payments = $10, refunds = $11, redemptions = $12
			 WHERE user_id = $1`,
			userID, c.Name, c.Email, c.PasswordHash, string(c.Role), c.LoyaltyPoints, model.ToCents(c.TotalSpent),
			c.Loyalty, nonNil(c.Bookings), nonNil(c.Payments), nonNil(c.Refunds), nonNil(c.Redemptions),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return model.ErrEmailTaken
			}
			return fmt.Errorf("update customer: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

const programColumns = `program_id, name, description, COALESCE(benefits, '[]'::jsonb), created_at`

func scanProgram(row pgx.Row) (*model.LoyaltyProgram, error) {
	var p model.LoyaltyProgram
	if err := row.Scan(&p.ProgramID, &p.Name, &p.Description, &p.Benefits, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPrograms возвращает программы лояльности.
func (r *PostgresRepository) ListPrograms(ctx context.Context) ([]model.LoyaltyProgram, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+programColumns+` FROM loyalty_programs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("select programs: %w", err)
	}
	defer rows.Close()

	var res []model.LoyaltyProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetProgram возвращает программу лояльности.
func (r *PostgresRepository) GetProgram(ctx context.Context, programID string) (*model.LoyaltyProgram, error) {
	p, err := scanProgram(r.pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM loyalty_programs WHERE program_id = $1`,
		programID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProgramNotFound
		}
		return nil, fmt.Errorf("get program: %w", err)
	}
	return p, nil
}

// CreateProgram сохраняет программу лояльности.
func (r *PostgresRepository) CreateProgram(ctx context.Context, p *model.LoyaltyProgram) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO loyalty_programs (program_id, name, description, benefits, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ProgramID, p.Name, p.Description, nonNil(p.Benefits), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert program: %w", err)
	}
	return nil
}

// UpdateProgram изменяет программу лояльности под блокировкой строки.
func (r *PostgresRepository) UpdateProgram(ctx context.Context, programID string, fn func(p *model.LoyaltyProgram) error) (*model.LoyaltyProgram, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanProgram(tx.QueryRow(ctx,
		`SELECT `+programColumns+` FROM loyalty_programs WHERE program_id = $1 FOR UPDATE`,
		programID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProgramNotFound
		}
		return nil, fmt.Errorf("lock program for update: %w", err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE loyalty_programs SET name = $2, description = $3, benefits = $4 WHERE program_id = $1`,
		programID, p.Name, p.Description, nonNil(p.Benefits),
	)
	if err != nil {
		return nil, fmt.Errorf("update program: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return p, nil
}

// DeleteProgram удаляет программу лояльности.
func (r *PostgresRepository) DeleteProgram(ctx context.Context, programID string) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM loyalty_programs WHERE program_id = $1`, programID)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrProgramNotFound
	}
	return nil
}

// nonNil гарантирует запись JSON-массива вместо null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
