package handlers

import (
	"net/http"

	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/models"
	"github.com/lvasseur/factures/internal/services"
)

// SetupHandler exposes the first-run company configuration and the
// numbering rules.
type SetupHandler struct {
	Setup *services.SetupService
}

func NewSetupHandler(s *services.SetupService) *SetupHandler { return &SetupHandler{Setup: s} }

type setupRequest struct {
	Company    string `json:"company"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
	SIRET      string `json:"siret"`
	TVAIntra   string `json:"tva_intra"`
	VATEnabled bool   `json:"vat_enabled"`
	IBAN       string `json:"iban"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
}

func (h *SetupHandler) Run(w http.ResponseWriter, r *http.Request) {
	var in setupRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Company == "" {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"company": "required"})
		return
	}
	cs, err := h.Setup.Run(services.SetupInput{
		Company: in.Company, Address1: in.Address1, Address2: in.Address2,
		PostalCode: in.PostalCode, City: in.City, Country: in.Country,
		SIRET: in.SIRET, TVAIntra: in.TVAIntra, VATEnabled: in.VATEnabled,
		IBAN: in.IBAN, Email: in.Email, Telephone: in.Telephone,
		UserID: currentUser(r),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cs)
}

func (h *SetupHandler) Get(w http.ResponseWriter, _ *http.Request) {
	cs, err := h.Setup.Get()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if cs == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"configured": false})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"configured": true, "company": cs})
}

type numberingRequest struct {
	DocType       string `json:"doc_type"`
	Prefix        string `json:"prefix"`
	YearInNumber  bool   `json:"year_in_number"`
	MonthInNumber bool   `json:"month_in_number"`
	ResetYearly   bool   `json:"reset_yearly"`
}

// UpdateNumbering changes the format of future numbers only; assigned
// numbers are immutable.
func (h *SetupHandler) UpdateNumbering(w http.ResponseWriter, r *http.Request) {
	var in numberingRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	switch in.DocType {
	case models.DocTypeQuote, models.DocTypeInvoice, models.DocTypeCredit:
	default:
		httpx.JSONError(w, http.StatusUnprocessableEntity, "unknown_document_type", nil)
		return
	}
	cs, err := h.Setup.Get()
	if err != nil || cs == nil {
		httpx.JSONError(w, http.StatusConflict, "company_not_configured", nil)
		return
	}
	rule, err := h.Setup.UpdateNumbering(cs.ID, in.DocType, in.Prefix, in.YearInNumber, in.MonthInNumber, in.ResetYearly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rule)
}
