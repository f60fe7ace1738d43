// Package httpapi holds the JSON response helpers shared by module handlers.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/bank/internal/domain"
	"github.com/rs/zerolog"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidRequest, domain.KindInsufficientFunds, domain.KindInvalidOperation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindIncorrectCredential:
		return http.StatusForbidden
	case domain.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes err as {code, name, description}.
// Errors without a domain kind are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Error().Err(err).Msg("Request failed")
		WriteStatus(w, log, http.StatusInternalServerError, "internal server error")
		return
	}

	status := StatusFor(derr.Kind)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
		WriteStatus(w, log, status, "internal server error")
		return
	}

	log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	WriteStatus(w, log, status, domain.MessageOf(err))
}

// WriteStatus writes an error body for an explicit status
func WriteStatus(w http.ResponseWriter, log zerolog.Logger, status int, description string) {
	WriteJSON(w, log, status, ErrorBody{
		Code:        status,
		Name:        http.StatusText(status),
		Description: description,
	})
}

// DecodeJSON decodes the request body into dst, reporting malformed bodies as InvalidRequest
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return domain.WrapError(domain.KindInvalidRequest, err, "invalid request body")
	}
	return nil
}
