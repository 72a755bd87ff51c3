package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/auth"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("bad amount"), http.StatusBadRequest},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.Forbidden("not a member"), http.StatusForbidden},
		{apperrors.NotFound("group 1 not found"), http.StatusNotFound},
		{apperrors.Conflict("email exists"), http.StatusConflict},
		{fmt.Errorf("failed to list groups: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}
