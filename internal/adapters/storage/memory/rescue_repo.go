package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"taara-rescue/internal/domain/rescue"
)

type rescueRepo struct {
	mu     sync.RWMutex
	byID   map[string]rescue.RescueRequest
	byCode map[string]string
	byKey  map[string]string
}

func NewRescueRepo() rescue.Repository {
	return &rescueRepo{
		byID:   make(map[string]rescue.RescueRequest),
		byCode: make(map[string]string),
		byKey:  make(map[string]string),
	}
}

func (r *rescueRepo) Create(ctx context.Context, req rescue.RescueRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		return errors.New("rescue request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return errors.New("rescue request already exists")
	}
	// Misma unicidad que los índices de Mongo, bajo el mismo lock que
	// el insert.
	if _, exists := r.byCode[req.TrackingCode]; exists {
		return rescue.ErrTrackingCodeTaken
	}
	if req.IdempotencyKey != "" {
		if _, exists := r.byKey[req.IdempotencyKey]; exists {
			return rescue.ErrIdempotencyKeyTaken
		}
	}

	r.byID[req.ID] = req
	r.byCode[req.TrackingCode] = req.ID
	if req.IdempotencyKey != "" {
		r.byKey[req.IdempotencyKey] = req.ID
	}
	return nil
}

func (r *rescueRepo) GetByID(ctx context.Context, id string) (rescue.RescueRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return rescue.RescueRequest{}, rescue.ErrNotFound
	}
	return req, nil
}

func (r *rescueRepo) GetByTrackingCode(ctx context.Context, code string) (rescue.RescueRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return rescue.RescueRequest{}, rescue.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *rescueRepo) GetByIdempotencyKey(ctx context.Context, key string) (rescue.RescueRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[key]
	if !ok {
		return rescue.RescueRequest{}, rescue.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *rescueRepo) List(ctx context.Context) ([]rescue.RescueRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rescue.RescueRequest, 0, len(r.byID))
	for _, req := range r.byID {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *rescueRepo) Update(ctx context.Context, req rescue.RescueRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; !ok {
		return rescue.ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}
