package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name       string
	Contact    string
	Address    string
	PetType    string
	Reason     string
	Experience string
	Notes      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Application, error) {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Contact) == "" ||
		strings.TrimSpace(in.Address) == "" ||
		strings.TrimSpace(in.PetType) == "" ||
		strings.TrimSpace(in.Reason) == "" {
		return Application{}, ErrInvalidInput
	}

	now := s.now()
	a := Application{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Contact:    strings.TrimSpace(in.Contact),
		Address:    strings.TrimSpace(in.Address),
		PetType:    strings.TrimSpace(in.PetType),
		Reason:     strings.TrimSpace(in.Reason),
		Experience: strings.TrimSpace(in.Experience),
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Application, error) {
	return s.repo.List(ctx)
}
