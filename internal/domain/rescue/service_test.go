package rescue

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"taara-rescue/internal/validation"
)

type testRepo struct {
	byID map[string]RescueRequest
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]RescueRequest{}}
}

func (r *testRepo) Create(ctx context.Context, req RescueRequest) error {
	for _, existing := range r.byID {
		if existing.TrackingCode == req.TrackingCode {
			return ErrTrackingCodeTaken
		}
		if req.IdempotencyKey != "" && existing.IdempotencyKey == req.IdempotencyKey {
			return ErrIdempotencyKeyTaken
		}
	}
	r.byID[req.ID] = req
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (RescueRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return RescueRequest{}, ErrNotFound
	}
	return req, nil
}

func (r *testRepo) GetByTrackingCode(ctx context.Context, code string) (RescueRequest, error) {
	for _, req := range r.byID {
		if req.TrackingCode == code {
			return req, nil
		}
	}
	return RescueRequest{}, ErrNotFound
}

func (r *testRepo) GetByIdempotencyKey(ctx context.Context, key string) (RescueRequest, error) {
	for _, req := range r.byID {
		if req.IdempotencyKey == key {
			return req, nil
		}
	}
	return RescueRequest{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context) ([]RescueRequest, error) {
	out := make([]RescueRequest, 0, len(r.byID))
	for _, req := range r.byID {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, req RescueRequest) error {
	if _, ok := r.byID[req.ID]; !ok {
		return ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func validInput() SubmitInput {
	return SubmitInput{
		FullName:      "Maria Santos",
		ContactNumber: "09171234567",
		Email:         "Maria@Example.com",
		Concern:       "Injured dog on the roadside",
		LocationNote:  "Near the public market, Tagum",
		Urgency:       "urgent",
	}
}

func TestService_Submit_MapsUrgencyToTag(t *testing.T) {
	cases := []struct {
		urgency string
		want    Tag
	}{
		{"emergency", TagCruelty},
		{"urgent", TagAccident},
		{"normal", TagNeglect},
		{"", TagNeglect},
	}

	for _, tc := range cases {
		repo := newTestRepo()
		svc := NewService(repo)

		in := validInput()
		in.Urgency = tc.urgency
		req, replayed, err := svc.Submit(context.Background(), in)
		if err != nil {
			t.Fatalf("Submit(%q) error: %v", tc.urgency, err)
		}
		if replayed {
			t.Fatalf("Submit(%q) unexpectedly replayed", tc.urgency)
		}
		if req.Tag != tc.want {
			t.Fatalf("Submit(%q) tag = %s, want %s", tc.urgency, req.Tag, tc.want)
		}
		if req.Status != StatusPending {
			t.Fatalf("Submit(%q) status = %s, want pending", tc.urgency, req.Status)
		}
	}
}

func TestService_Submit_ExplicitTagWinsOverUrgency(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	in := validInput()
	in.Tag = string(TagLost)
	req, _, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if req.Tag != TagLost {
		t.Fatalf("tag = %s, want Lost", req.Tag)
	}

	in = validInput()
	in.Tag = "Stolen"
	_, _, err = svc.Submit(context.Background(), in)
	var errs validation.Errors
	if !errors.As(err, &errs) || errs["tag"] == "" {
		t.Fatalf("expected tag validation error, got %v", err)
	}
}

func TestService_Submit_MissingFieldsListedPerField(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, _, err := svc.Submit(context.Background(), SubmitInput{})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %T", err)
	}

	want := map[string]string{
		"fullName":      "Name is required",
		"contactNumber": "Contact number is required",
		"email":         "Email is required",
		"concern":       "Description of the situation is required",
		"locationNote":  "Location details are required",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Fatalf("errs[%q] = %q, want %q", field, errs[field], msg)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected nothing persisted on validation failure")
	}
}

func TestService_Submit_RejectsUnknownUrgency(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	in := validInput()
	in.Urgency = "whatever"
	_, _, err := svc.Submit(context.Background(), in)

	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if errs["urgency"] != "Urgency must be one of: normal, urgent, emergency" {
		t.Fatalf("errs[urgency] = %q", errs["urgency"])
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected nothing persisted for unknown urgency")
	}

	// Sin urgencia y sin tag sigue siendo válido: cae en Neglect.
	in = validInput()
	in.Urgency = ""
	req, _, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit without urgency error: %v", err)
	}
	if req.Tag != TagNeglect {
		t.Fatalf("tag = %s, want Neglect", req.Tag)
	}
}

func TestService_Submit_RetriesTrackingCodeCollision(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	seq := []int{7, 7, 8} // primer submit usa 7; el segundo choca y reintenta con 8
	svc.rand = func(n int) int {
		v := seq[0]
		if len(seq) > 1 {
			seq = seq[1:]
		}
		return v
	}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first, _, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	if first.TrackingCode != "TAARA-2026-0007" {
		t.Fatalf("first tracking code = %q", first.TrackingCode)
	}

	second, _, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if second.TrackingCode != "TAARA-2026-0008" {
		t.Fatalf("second tracking code = %q, want TAARA-2026-0008", second.TrackingCode)
	}
	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 persisted requests, got %d", len(repo.byID))
	}
}

func TestService_Submit_TrackingCodeExhaustion(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	svc.rand = func(n int) int { return 7 }

	if _, _, err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	_, _, err := svc.Submit(context.Background(), validInput())
	if !errors.Is(err, ErrTrackingCodeTaken) {
		t.Fatalf("expected ErrTrackingCodeTaken after retries, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected only the first request persisted, got %d", len(repo.byID))
	}
}

func TestService_Submit_RejectsBadEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	in := validInput()
	in.Email = "not-an-email"
	_, _, err := svc.Submit(context.Background(), in)

	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if errs["email"] != "Please enter a valid email address" {
		t.Fatalf("errs[email] = %q", errs["email"])
	}
}

func TestService_Submit_TrackingCodePersistedAndTrackable(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.rand = func(n int) int { return 42 }

	req, _, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if req.TrackingCode != "TAARA-2026-0042" {
		t.Fatalf("tracking code = %q, want TAARA-2026-0042", req.TrackingCode)
	}
	if req.Email != "maria@example.com" {
		t.Fatalf("expected email lowercased, got %q", req.Email)
	}

	got, err := svc.Track(context.Background(), "TAARA-2026-0042")
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}
	if got.ID != req.ID {
		t.Fatalf("Track returned a different request")
	}
}

func TestService_Submit_IdempotencyKeyReplays(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	in := validInput()
	in.IdempotencyKey = "retry-abc-123"

	first, replayed, err := svc.Submit(context.Background(), in)
	if err != nil || replayed {
		t.Fatalf("first Submit: err=%v replayed=%v", err, replayed)
	}

	second, replayed, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if !replayed {
		t.Fatalf("expected second Submit replayed")
	}
	if second.ID != first.ID || second.TrackingCode != first.TrackingCode {
		t.Fatalf("expected same request on replay")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected one persisted request, got %d", len(repo.byID))
	}
}

func TestService_SetStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	req, _, _ := svc.Submit(context.Background(), validInput())

	later := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	assignee := "admin2"
	updated, err := svc.SetStatus(context.Background(), req.ID, StatusInput{
		Status:     StatusInProgress,
		AssignedTo: &assignee,
	})
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if updated.Status != StatusInProgress || updated.AssignedTo != "admin2" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("expected UpdatedAt refreshed")
	}

	if _, err := svc.SetStatus(context.Background(), req.ID, StatusInput{Status: "archived"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), "missing", StatusInput{Status: StatusResolved}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_AddNote(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	req, _, _ := svc.Submit(context.Background(), validInput())

	updated, err := svc.AddNote(context.Background(), req.ID, "  Called the reporter, rescue scheduled  ", "admin1")
	if err != nil {
		t.Fatalf("AddNote error: %v", err)
	}
	if len(updated.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(updated.Notes))
	}
	n := updated.Notes[0]
	if n.Text != "Called the reporter, rescue scheduled" || n.CreatedBy != "admin1" {
		t.Fatalf("unexpected note: %+v", n)
	}
	if strings.TrimSpace(n.Text) != n.Text {
		t.Fatalf("expected note text trimmed")
	}

	if _, err := svc.AddNote(context.Background(), req.ID, "   ", "admin1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty note, got %v", err)
	}
}
