package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")
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

type CreateInput struct {
	Title       string
	Date        time.Time
	Time        string
	Location    string
	Description string
	Status      Status // vacío => pending
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	if strings.TrimSpace(in.Title) == "" ||
		in.Date.IsZero() ||
		strings.TrimSpace(in.Time) == "" ||
		strings.TrimSpace(in.Location) == "" ||
		strings.TrimSpace(in.Description) == "" {
		return Event{}, ErrInvalidInput
	}

	st := in.Status
	if st == "" {
		st = StatusPending
	}
	if !ValidStatus(st) {
		return Event{}, ErrInvalidInput
	}

	now := s.now()
	e := Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Date:        in.Date,
		Time:        strings.TrimSpace(in.Time),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		Status:      st,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// UpdateInput con punteros para merge parcial: nil = no tocar.
type UpdateInput struct {
	Title       *string
	Date        *time.Time
	Time        *string
	Location    *string
	Description *string
	Status      *Status
}

// Update aplica el merge y refresca UpdatedAt en cada guardado
// (equivalente al hook pre-save del esquema original).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Event, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return Event{}, ErrInvalidInput
		}
		current.Title = strings.TrimSpace(*in.Title)
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return Event{}, ErrInvalidInput
		}
		current.Date = *in.Date
	}
	if in.Time != nil {
		if strings.TrimSpace(*in.Time) == "" {
			return Event{}, ErrInvalidInput
		}
		current.Time = strings.TrimSpace(*in.Time)
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return Event{}, ErrInvalidInput
		}
		current.Location = strings.TrimSpace(*in.Location)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return Event{}, ErrInvalidInput
		}
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return Event{}, ErrInvalidInput
		}
		current.Status = *in.Status
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Event{}, err
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
