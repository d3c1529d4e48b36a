package handlers

import (
	"net/http"

	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/services"
)

// ClientHandler exposes client and contact management.
type ClientHandler struct {
	Clients *services.ClientService
	Setup   *services.SetupService
}

func NewClientHandler(clients *services.ClientService, setup *services.SetupService) *ClientHandler {
	return &ClientHandler{Clients: clients, Setup: setup}
}

func (h *ClientHandler) companyID(w http.ResponseWriter) (uint, bool) {
	cs, err := h.Setup.Get()
	if err != nil {
		writeServiceError(w, err)
		return 0, false
	}
	if cs == nil {
		httpx.JSONError(w, http.StatusConflict, "company_not_configured", nil)
		return 0, false
	}
	return cs.ID, true
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w)
	if !ok {
		return
	}
	clients, err := h.Clients.List(companyID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w)
	if !ok {
		return
	}
	var in services.ClientInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.Validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	client, err := h.Clients.Create(companyID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	client, err := h.Clients.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.ClientInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.Validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	client, err := h.Clients.Update(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Clients.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type contactRequest struct {
	Kind      string `json:"kind"`
	Category  string `json:"category"`
	Value     string `json:"value"`
	IsPrimary bool   `json:"is_primary"`
}

func (h *ClientHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in contactRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	contact, err := h.Clients.AddContact(id, in.Kind, in.Category, in.Value, in.IsPrimary)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}
