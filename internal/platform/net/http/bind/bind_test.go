package bind

import (
	"strings"
	"testing"

	perr "facegate/internal/platform/errors"
)

type record struct {
	Model    string    `json:"model_name" validate:"required"`
	Dim      int       `json:"embedding_dim" validate:"min=0"`
	Centroid []float64 `json:"authorized_centroid" validate:"required,min=1"`
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(record{Model: "Facenet", Dim: 3, Centroid: []float64{1, 0, 0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(record{Model: "Facenet"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "authorized_centroid") {
		t.Fatalf("message should name the json field: %q", err.Error())
	}
}

func TestStruct_ShortMin(t *testing.T) {
	err := Struct(record{Model: "Facenet", Dim: -1, Centroid: []float64{1}})
	if err == nil || !strings.Contains(err.Error(), "embedding_dim must be at least 0") {
		t.Fatalf("short min message expected, got %v", err)
	}
}

func TestStruct_InvalidTarget(t *testing.T) {
	if err := Struct(42); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("non-struct must map to a validation error, got %v", err)
	}
}

func TestVar_Email(t *testing.T) {
	if err := Var("owner@example.com", "required,email"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	if err := Var("not-an-address", "required,email"); err == nil {
		t.Fatalf("invalid email accepted")
	}
}
