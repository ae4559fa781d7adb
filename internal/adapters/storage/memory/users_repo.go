package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"taara-rescue/internal/domain/users"
)

type userRepo struct {
	mu         sync.RWMutex
	byID       map[string]users.User
	byUsername map[string]string
	logins     []users.LoginRecord
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID:       make(map[string]users.User),
		byUsername: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("user id required")
	}
	// Unicidad bajo el mismo lock que el insert; no hay ventana para
	// dos Create con el mismo username.
	if _, taken := r.byUsername[u.Username]; taken {
		return users.ErrUsernameTaken
	}

	r.byID[u.ID] = u
	r.byUsername[u.Username] = u.ID
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[u.ID]
	if !ok {
		return users.ErrNotFound
	}
	if u.Username != old.Username {
		if _, taken := r.byUsername[u.Username]; taken {
			return users.ErrUsernameTaken
		}
		delete(r.byUsername, old.Username)
		r.byUsername[u.Username] = u.ID
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byUsername, u.Username)
	return nil
}

func (r *userRepo) RecordLogin(ctx context.Context, rec users.LoginRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logins = append(r.logins, rec)
	return nil
}

func (r *userRepo) LastLogin(ctx context.Context, userID string) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last time.Time
	found := false
	for _, rec := range r.logins {
		if rec.UserID == userID && rec.At.After(last) {
			last = rec.At
			found = true
		}
	}
	return last, found, nil
}
