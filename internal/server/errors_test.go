package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kapu/mathsprint-site-go/internal/service/identity"
	apperrors "github.com/kapu/mathsprint-site-go/pkg/errors"
)

func TestMapAppErrorToHTTP(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.NewValidationError("score", "must not be negative"), http.StatusBadRequest, "INVALID_INPUT"},
		{"not found", apperrors.NewNotFoundError("user", "u-1"), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", apperrors.NewUnauthorizedError("missing user"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"persistence", apperrors.NewPersistenceError("insert session", fmt.Errorf("disk full")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"wrapped validation", fmt.Errorf("submit: %w", apperrors.NewValidationError("limit", "bad")), http.StatusBadRequest, "INVALID_INPUT"},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := mapAppErrorToHTTP(tc.err)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Fatalf("got (%d, %s), want (%d, %s)", status, code, tc.wantStatus, tc.wantCode)
			}
		})
	}
}

func TestMapIdentityErrorToHTTP(t *testing.T) {
	cases := []struct {
		code       identity.ErrorCode
		wantStatus int
	}{
		{identity.CodeInvalidInput, http.StatusBadRequest},
		{identity.CodeStateMismatch, http.StatusBadRequest},
		{identity.CodeUnauthorized, http.StatusUnauthorized},
		{identity.CodeProvider, http.StatusBadGateway},
		{identity.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			status, _ := mapIdentityErrorToHTTP(&identity.Error{Code: tc.code})
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", status, tc.wantStatus)
			}
		})
	}
}
