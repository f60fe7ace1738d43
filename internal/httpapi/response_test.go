package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/bank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind     domain.ErrorKind
		expected int
	}{
		{domain.KindInvalidRequest, http.StatusBadRequest},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindInsufficientFunds, http.StatusBadRequest},
		{domain.KindIncorrectCredential, http.StatusForbidden},
		{domain.KindInvalidOperation, http.StatusBadRequest},
		{domain.KindUpstream, http.StatusBadGateway},
		{domain.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.kind))
		})
	}
}

func TestWriteError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("transaction failed: %w", domain.NotFound("account not found"))

	WriteError(w, zerolog.Nop(), err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Code: 404, Name: "Not Found", Description: "account not found"}, body)
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, zerolog.Nop(), errors.New("disk I/O error at /var/lib"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "/var/lib")
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Amount json.Number `json:"amount"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 12.50}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, json.Number("12.50"), dst.Amount)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":`))
	err := DecodeJSON(req, &dst)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
