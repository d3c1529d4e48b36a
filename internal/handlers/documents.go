package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/pdf"
	"github.com/lvasseur/factures/internal/services"
)

// DocumentHandler exposes the document lifecycle over HTTP.
type DocumentHandler struct {
	Documents *services.DocumentService
	Transform *services.TransformService
	Clients   *services.ClientService
	Setup     *services.SetupService
	Renderer  *pdf.Renderer
}

func NewDocumentHandler(docs *services.DocumentService, transform *services.TransformService, clients *services.ClientService, setup *services.SetupService, renderer *pdf.Renderer) *DocumentHandler {
	return &DocumentHandler{Documents: docs, Transform: transform, Clients: clients, Setup: setup, Renderer: renderer}
}

func (h *DocumentHandler) companyID(w http.ResponseWriter) (uint, bool) {
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

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	clientID, _ := strconv.ParseUint(q.Get("client_id"), 10, 64)
	docs, total, err := h.Documents.List(companyID, services.ListFilter{
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		ClientID: uint(clientID),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": docs, "total": total})
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w)
	if !ok {
		return
	}
	var in services.DocumentInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	doc, err := h.Documents.Create(companyID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	doc, err := h.Documents.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.DocumentInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	doc, err := h.Documents.UpdateDraft(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Documents.DeleteDraft(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Validate assigns the number and issues the document.
func (h *DocumentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	doc, err := h.Documents.Validate(id, currentUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *DocumentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in transitionRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	doc, err := h.Documents.Transition(id, currentUser(r), in.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	doc, err := h.Documents.Duplicate(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

// ToInvoice transforms a quote into a draft invoice (one-shot).
func (h *DocumentHandler) ToInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	invoice, err := h.Transform.QuoteToInvoice(id, currentUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

// ToCredit transforms an invoice into a draft credit note and cancels the
// source (one-shot).
func (h *DocumentHandler) ToCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	credit, err := h.Transform.InvoiceToCredit(id, currentUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, credit)
}

// PDF streams the rendered document; ?facturx=1 embeds the CII XML for
// numbered invoices and credit notes.
func (h *DocumentHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	doc, err := h.Documents.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cs, err := h.Setup.Get()
	if err != nil || cs == nil {
		httpx.JSONError(w, http.StatusConflict, "company_not_configured", nil)
		return
	}
	client, err := h.Clients.Get(doc.ClientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var out []byte
	if r.URL.Query().Get("facturx") == "1" {
		out, err = h.Renderer.RenderFacturX(doc, cs, client)
	} else {
		out, err = h.Renderer.Render(doc, cs, client)
	}
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "render_failed", err.Error())
		return
	}

	name := doc.Number
	if name == "" {
		name = "brouillon-" + doc.PublicID
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name+".pdf"))
	_, _ = w.Write(out)
}
