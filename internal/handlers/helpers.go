// Package handlers exposes the JSON API. Handlers decode, delegate to the
// services and translate service errors to HTTP statuses; business rules
// never live here.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lvasseur/factures/internal/auth"
	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/gate"
	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/services"
)

// idParam parses the {id} path value.
func idParam(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

func currentUser(r *http.Request) uint {
	uid, _ := auth.UserIDFromContext(r.Context())
	return uid
}

// writeServiceError maps the service sentinels to HTTP statuses with their
// machine-readable codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrNotDraft),
		errors.Is(err, services.ErrNumberedImmutable),
		errors.Is(err, services.ErrAlreadyConfigured),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrClientInUse),
		errors.Is(err, billing.ErrAlreadyTransformed),
		errors.Is(err, billing.ErrDocumentLocked),
		errors.Is(err, billing.ErrSourceNotIssued):
		httpx.JSONError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, billing.ErrInvalidTransition),
		errors.Is(err, billing.ErrPaymentRequired),
		errors.Is(err, billing.ErrDepositUnresolved),
		errors.Is(err, billing.ErrWrongDocumentType),
		errors.Is(err, services.ErrEmptyDocument),
		errors.Is(err, services.ErrMissingClient),
		errors.Is(err, services.ErrUnknownDocType),
		errors.Is(err, services.ErrNotAnInvoice),
		errors.Is(err, services.ErrInvoiceNotIssued),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrFutureDated),
		errors.Is(err, services.ErrClientValidation):
		httpx.JSONError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, gate.ErrForbidden):
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
