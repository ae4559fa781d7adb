package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
)

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

// CreateInput: todos los campos son opcionales, igual que el formulario
// público original. El status arranca en "reported".
type CreateInput struct {
	Date     string
	Name     string
	Breed    string
	Address  string
	Reporter string
	Remarks  string
	ImageURL string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	now := s.now()
	a := Animal{
		ID:        uuid.NewString(),
		Date:      strings.TrimSpace(in.Date),
		Name:      strings.TrimSpace(in.Name),
		Breed:     strings.TrimSpace(in.Breed),
		Address:   strings.TrimSpace(in.Address),
		Reporter:  strings.TrimSpace(in.Reporter),
		Remarks:   strings.TrimSpace(in.Remarks),
		ImageURL:  in.ImageURL,
		Status:    StatusReported,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

// UpdateInput con punteros para merge parcial: nil = no tocar.
type UpdateInput struct {
	Date     *string
	Name     *string
	Breed    *string
	Address  *string
	Reporter *string
	Remarks  *string
	Status   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if in.Date != nil {
		current.Date = strings.TrimSpace(*in.Date)
	}
	if in.Name != nil {
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Address != nil {
		current.Address = strings.TrimSpace(*in.Address)
	}
	if in.Reporter != nil {
		current.Reporter = strings.TrimSpace(*in.Reporter)
	}
	if in.Remarks != nil {
		current.Remarks = strings.TrimSpace(*in.Remarks)
	}
	if in.Status != nil {
		st := Status(strings.TrimSpace(*in.Status))
		switch st {
		case StatusReported, StatusSheltered, StatusAdopted:
			current.Status = st
		default:
			return Animal{}, ErrInvalidInput
		}
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Animal{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
