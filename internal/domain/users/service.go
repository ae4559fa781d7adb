package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	RoleAdmin = "admin"

	// activeWindow: último login dentro de esta ventana => status "active".
	activeWindow = 7 * 24 * time.Hour
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
	Username string
	Password string
	Role     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = RoleAdmin
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate valida credenciales y registra el login en el audit.
// Usuario inexistente y password incorrecta devuelven el mismo error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	rec := LoginRecord{
		ID:     uuid.NewString(),
		UserID: u.ID,
		At:     s.now(),
	}
	if err := s.repo.RecordLogin(ctx, rec); err != nil {
		// el login es válido aunque el audit falle; no bloqueamos al admin
		return u, nil
	}

	return u, nil
}

func (s *Service) GetView(ctx context.Context, id string) (View, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return View{}, err
	}
	return s.decorate(ctx, u)
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(items))
	for _, u := range items {
		v, err := s.decorate(ctx, u)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) decorate(ctx context.Context, u User) (View, error) {
	at, ok, err := s.repo.LastLogin(ctx, u.ID)
	if err != nil {
		return View{}, err
	}

	v := View{User: u, Status: "inactive"}
	if ok {
		t := at
		v.LastLogin = &t
		if s.now().Sub(at) <= activeWindow {
			v.Status = "active"
		}
	}
	return v, nil
}

type UpdateInput struct {
	Username *string
	Password *string
	Role     *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return User{}, ErrInvalidInput
		}
		current.Username = username
	}
	if in.Password != nil {
		if *in.Password == "" {
			return User{}, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		current.PasswordHash = string(hash)
	}
	if in.Role != nil {
		role := strings.TrimSpace(*in.Role)
		if role == "" {
			return User{}, ErrInvalidInput
		}
		current.Role = role
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return User{}, err
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

// SeedAccount es una cuenta fija que se asegura al arrancar.
type SeedAccount struct {
	Username string
	Password string
}

// EnsureSeedAdmins crea las cuentas que falten; las existentes quedan
// intactas (no se les pisa la password).
func (s *Service) EnsureSeedAdmins(ctx context.Context, accounts []SeedAccount) error {
	for _, acc := range accounts {
		_, err := s.Create(ctx, CreateInput{
			Username: acc.Username,
			Password: acc.Password,
			Role:     RoleAdmin,
		})
		if err != nil && !errors.Is(err, ErrUsernameTaken) {
			return err
		}
	}
	return nil
}
