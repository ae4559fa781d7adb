package rescue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"taara-rescue/internal/validation"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

// emailRe es deliberadamente laxo: un @ con algo a cada lado y un punto
// en el dominio. El mail solo se usa para avisar al denunciante.
var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type Service struct {
	repo Repository
	now  func() time.Time
	rand func(n int) int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		rand: rand.Intn,
	}
}

type SubmitInput struct {
	FullName      string
	ContactNumber string
	Email         string
	Concern       string
	LocationNote  string

	// El formulario manda urgency; clientes del panel pueden mandar la
	// etiqueta directa (Lost/Missing no se derivan de urgencia).
	Urgency string
	Tag     string

	PhotoURL       string
	PhotoCType     string
	IdempotencyKey string
}

// Submit registra un pedido nuevo. Si la clave de idempotencia ya se usó,
// devuelve el pedido existente con replayed=true y no crea nada.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (req RescueRequest, replayed bool, err error) {
	if errs := s.validateSubmit(in); errs != nil {
		return RescueRequest{}, false, errs
	}

	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, key)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return RescueRequest{}, false, err
		}
	}

	tag := TagFromUrgency(strings.TrimSpace(in.Urgency))
	if t := Tag(strings.TrimSpace(in.Tag)); t != "" {
		tag = t
	}

	now := s.now()
	req = RescueRequest{
		ID: uuid.NewString(),

		FullName:      strings.TrimSpace(in.FullName),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Concern:       strings.TrimSpace(in.Concern),
		LocationNote:  strings.TrimSpace(in.LocationNote),
		Urgency:       strings.TrimSpace(in.Urgency),
		Tag:           tag,

		PhotoURL:         in.PhotoURL,
		PhotoContentType: in.PhotoCType,

		Status:         StatusPending,
		IdempotencyKey: strings.TrimSpace(in.IdempotencyKey),

		CreatedAt: now,
		UpdatedAt: now,
	}

	// Con 4 dígitos por año la colisión de código no es rara; si el repo
	// rechaza el código, se genera otro y se reintenta.
	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		req.TrackingCode = s.trackingCode(now)

		err := s.repo.Create(ctx, req)
		switch {
		case err == nil:
			return req, false, nil
		case errors.Is(err, ErrTrackingCodeTaken):
			continue
		case errors.Is(err, ErrIdempotencyKeyTaken):
			existing, kerr := s.repo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
			if kerr == nil {
				return existing, true, nil
			}
			return RescueRequest{}, false, err
		default:
			return RescueRequest{}, false, err
		}
	}
	return RescueRequest{}, false, fmt.Errorf("allocate tracking code: %w", ErrTrackingCodeTaken)
}

// validateSubmit replica los mensajes del formulario público campo por
// campo para que el front pueda pintarlos junto a cada input.
func (s *Service) validateSubmit(in SubmitInput) validation.Errors {
	errs := validation.Errors{}

	if strings.TrimSpace(in.FullName) == "" {
		errs["fullName"] = "Name is required"
	}
	if strings.TrimSpace(in.ContactNumber) == "" {
		errs["contactNumber"] = "Contact number is required"
	}
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}
	if strings.TrimSpace(in.Concern) == "" {
		errs["concern"] = "Description of the situation is required"
	}
	if strings.TrimSpace(in.LocationNote) == "" {
		errs["locationNote"] = "Location details are required"
	}
	if t := Tag(strings.TrimSpace(in.Tag)); t != "" && !ValidTag(t) {
		errs["tag"] = "Tag must be one of: Neglect, Accident, Cruelty, Lost, Missing"
	}
	if !ValidUrgency(strings.TrimSpace(in.Urgency)) {
		errs["urgency"] = "Urgency must be one of: normal, urgent, emergency"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// maxTrackingAttempts acota los reintentos de Submit cuando el código
// generado choca con el índice único.
const maxTrackingAttempts = 5

// trackingCode genera TAARA-<año>-<4 dígitos>.
func (s *Service) trackingCode(now time.Time) string {
	return fmt.Sprintf("TAARA-%d-%04d", now.Year(), s.rand(10000))
}

func (s *Service) Get(ctx context.Context, id string) (RescueRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// Track busca por código de seguimiento, el único dato que tiene el
// denunciante.
func (s *Service) Track(ctx context.Context, code string) (RescueRequest, error) {
	return s.repo.GetByTrackingCode(ctx, strings.TrimSpace(code))
}

func (s *Service) List(ctx context.Context) ([]RescueRequest, error) {
	return s.repo.List(ctx)
}

type StatusInput struct {
	Status     Status
	AssignedTo *string
}

func (s *Service) SetStatus(ctx context.Context, id string, in StatusInput) (RescueRequest, error) {
	if !ValidStatus(in.Status) {
		return RescueRequest{}, ErrInvalidInput
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return RescueRequest{}, err
	}

	req.Status = in.Status
	if in.AssignedTo != nil {
		req.AssignedTo = strings.TrimSpace(*in.AssignedTo)
	}
	req.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, req); err != nil {
		return RescueRequest{}, err
	}
	return req, nil
}

func (s *Service) AddNote(ctx context.Context, id, text, createdBy string) (RescueRequest, error) {
	if strings.TrimSpace(text) == "" {
		return RescueRequest{}, ErrInvalidInput
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return RescueRequest{}, err
	}

	req.Notes = append(req.Notes, Note{
		Text:      strings.TrimSpace(text),
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	})
	req.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, req); err != nil {
		return RescueRequest{}, err
	}
	return req, nil
}
