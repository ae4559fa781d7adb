package validation

import "testing"

type sample struct {
	Title  string `json:"title" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,oneof=confirmed pending cancelled"`
}

func TestStruct_OK(t *testing.T) {
	errs := Struct(sample{Title: "Adoption Fair", Email: "a@b.co", Status: "confirmed"})
	if errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestStruct_ReportsEveryMissingField(t *testing.T) {
	errs := Struct(sample{})
	if errs == nil {
		t.Fatalf("expected errors")
	}
	if _, ok := errs["title"]; !ok {
		t.Fatalf("expected title error, got %v", errs)
	}
	if _, ok := errs["email"]; !ok {
		t.Fatalf("expected email error, got %v", errs)
	}
	if errs["title"] != "Title is required" {
		t.Fatalf("unexpected message: %q", errs["title"])
	}
}

func TestStruct_EnumAndEmail(t *testing.T) {
	errs := Struct(sample{Title: "x", Email: "not-an-email", Status: "maybe"})
	if errs == nil {
		t.Fatalf("expected errors")
	}
	if errs["email"] != "Please enter a valid email address" {
		t.Fatalf("unexpected email message: %q", errs["email"])
	}
	if _, ok := errs["status"]; !ok {
		t.Fatalf("expected status enum error, got %v", errs)
	}
}

func TestLabel_SplitsCamelCase(t *testing.T) {
	if got := label("contactNumber"); got != "Contact number" {
		t.Fatalf("expected 'Contact number', got %q", got)
	}
	if got := label("title"); got != "Title" {
		t.Fatalf("expected 'Title', got %q", got)
	}
}
