// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vendio/machine-api/internal/machine"
	"github.com/vendio/machine-api/internal/store"
)

// jsonDetail is the error payload shape: every error body carries a single
// human-readable detail message.
type jsonDetail struct {
	Detail string `json:"detail"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonDetail{Detail: detail})
}

// writeDomainError maps a domain error to its HTTP status. Handlers that want
// an entity-specific message check store.ErrNotFound / store.ErrConflict
// themselves before falling through to this.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		ve *machine.ValidationError
		nf *machine.SlotNotFoundError
		ip *machine.InsufficientPaymentError
	)
	switch {
	case errors.As(err, &ve):
		WriteJSONError(w, http.StatusUnprocessableEntity, ve.Detail)
	case errors.As(err, &nf):
		WriteJSONError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ip):
		WriteJSONError(w, http.StatusPaymentRequired, ip.Error())
	case errors.Is(err, machine.ErrNoProduct), errors.Is(err, machine.ErrEmptySlot):
		WriteJSONError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, machine.ErrProductRequired):
		WriteJSONError(w, http.StatusNotAcceptable, err.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrConflict):
		WriteJSONError(w, http.StatusBadRequest, "Conflict")
	default:
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
