package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"client-gate/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"wrapped invalid input", fmt.Errorf("%w: uid missing", domain.ErrInvalidInput), http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"session not found", domain.ErrSessionNotFound, http.StatusUnauthorized},
		{"session expired", domain.ErrSessionExpired, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"provider down", domain.ErrProviderUnavailable, http.StatusBadGateway},
		{"directory down", domain.ErrDirectoryUnavailable, http.StatusInternalServerError},
		{"token generation", domain.ErrTokenGeneration, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := mapDomainError(tt.err)
			assert.Equal(t, tt.code, he.Code)
		})
	}
}

func TestMapDomainError_NeverLeaksCollaboratorDetail(t *testing.T) {
	err := fmt.Errorf("%w: kratos returned status 503", domain.ErrProviderUnavailable)

	he := mapDomainError(err)

	assert.Equal(t, "identity provider unavailable", he.Message)
}
