package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/idgen"
	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/validation"
)

// AccountService регистрирует и аутентифицирует клиентов и администраторов.
type AccountService struct {
	customers CustomerStore
	ids       idgen.Generator
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccountService создаёт сервис учётных записей.
func NewAccountService(customers CustomerStore, ids idgen.Generator, logger *zap.Logger) *AccountService {
	return &AccountService{customers: customers, ids: ids, logger: logger, now: time.Now}
}

// Register создаёт учётную запись клиента.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*model.Customer, error) {
	return s.create(ctx, name, email, password, model.RoleCustomer)
}

// Authenticate проверяет пару почта/пароль по сохранённому хешу.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.Customer, error) {
	email = validation.NormalizeEmail(email)
	c, err := s.customers.GetCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if hashPassword(email, password) != c.PasswordHash {
		return nil, model.ErrInvalidCredentials
	}
	return c, nil
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) (*model.Customer, error) {
	existing, err := s.customers.GetCustomerByEmail(ctx, validation.NormalizeEmail(email))
	if err == nil {
		if !existing.IsAdmin() {
			return nil, fmt.Errorf("%w: %s belongs to a customer account", model.ErrEmailTaken, email)
		}
		return existing, nil
	}
	if !errors.Is(err, model.ErrCustomerNotFound) {
		return nil, err
	}

	admin, err := s.create(ctx, "Administrator", email, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("administrator account created", zap.String("user", admin.UserID))
	return admin, nil
}

// GetCustomer возвращает учётную запись по идентификатору.
func (s *AccountService) GetCustomer(ctx context.Context, userID string) (*model.Customer, error) {
	return s.customers.GetCustomer(ctx, userID)
}

// ListCustomers возвращает все учётные записи.
func (s *AccountService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

func (s *AccountService) create(ctx context.Context, name, email, password string, role model.Role) (*model.Customer, error) {
	name = strings.TrimSpace(name)
	email = validation.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, model.ErrInvalidCustomer
	}

	c := &model.Customer{
		UserID:       s.ids.New(idgen.PrefixUser),
		Name:         name,
		Email:        email,
		PasswordHash: hashPassword(email, password),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.customers.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func hashPassword(email, password string) string {
	sum := sha256.Sum256([]byte(email + ":" + password))
	return hex.EncodeToString(sum[:])
}
