package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/idgen"
	"github.com/mmeshcher/airline-booking/internal/model"
)

// ProgramInput содержит поля программы лояльности.
type ProgramInput struct {
	Name        string
	Description string
	Benefits    []string
}

// ProgramService управляет описаниями программ лояльности.
type ProgramService struct {
	store  ProgramStore
	ids    idgen.Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewProgramService создаёт сервис программ лояльности.
func NewProgramService(store ProgramStore, ids idgen.Generator, logger *zap.Logger) *ProgramService {
	return &ProgramService{store: store, ids: ids, logger: logger, now: time.Now}
}

// ListPrograms возвращает все программы.
func (s *ProgramService) ListPrograms(ctx context.Context) ([]model.LoyaltyProgram, error) {
	return s.store.ListPrograms(ctx)
}

// CreateProgram создаёт программу лояльности.
func (s *ProgramService) CreateProgram(ctx context.Context, in ProgramInput) (*model.LoyaltyProgram, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, model.ErrInvalidProgram
	}

	p := &model.LoyaltyProgram{
		ProgramID:   s.ids.New(idgen.PrefixProgram),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Benefits:    append([]string(nil), in.Benefits...),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateProgram(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("loyalty program created", zap.String("program", p.ProgramID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProgram заменяет поля программы.
func (s *ProgramService) UpdateProgram(ctx context.Context, programID string, in ProgramInput) (*model.LoyaltyProgram, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, model.ErrInvalidProgram
	}

	return s.store.UpdateProgram(ctx, programID, func(p *model.LoyaltyProgram) error {
		p.Name = name
		p.Description = strings.TrimSpace(in.Description)
		p.Benefits = append([]string(nil), in.Benefits...)
		return nil
	})
}

// DeleteProgram удаляет программу.
func (s *ProgramService) DeleteProgram(ctx context.Context, programID string) error {
	if err := s.store.DeleteProgram(ctx, programID); err != nil {
		return err
	}
	s.logger.Info("loyalty program deleted", zap.String("program", programID))
	return nil
}
