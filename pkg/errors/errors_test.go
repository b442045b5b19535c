package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeStorage,
				Message: "write failed",
				Err:     errors.New("connection reset"),
			},
			expected: "STORAGE_ERROR: write failed (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestHelperStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad body"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slot taken"), CodeConflict, http.StatusConflict},
		{"insufficient funds", InsufficientFunds("balance too low"), CodePaymentRequired, http.StatusPaymentRequired},
		{"storage", Storage("write failed", errors.New("boom")), CodeStorage, http.StatusInternalServerError},
		{"internal", Internal("oops", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("booking")
	if got := AsAppError(appErr); got != appErr {
		t.Error("expected the same AppError back")
	}

	plain := errors.New("plain failure")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors wrapped as internal, got %s", got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("expected wrapped error to unwrap to the original")
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("slot taken").WithDetails(map[string]any{"conflicting_slots": []int{2}})
	if err.Details == nil {
		t.Fatal("expected details to be set")
	}
	if _, ok := err.Details["conflicting_slots"]; !ok {
		t.Error("expected conflicting_slots detail")
	}
}
