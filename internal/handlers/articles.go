package handlers

import (
	"net/http"

	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/services"
)

// ArticleHandler exposes the catalog.
type ArticleHandler struct {
	Articles *services.ArticleService
	Setup    *services.SetupService
}

func NewArticleHandler(articles *services.ArticleService, setup *services.SetupService) *ArticleHandler {
	return &ArticleHandler{Articles: articles, Setup: setup}
}

func (h *ArticleHandler) companyID(w http.ResponseWriter) (uint, bool) {
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

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w)
	if !ok {
		return
	}
	articles, err := h.Articles.List(companyID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"articles": articles})
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w)
	if !ok {
		return
	}
	var in services.ArticleInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	article, err := h.Articles.Create(companyID, currentUser(r), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, article)
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	article, err := h.Articles.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.ArticleInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	article, err := h.Articles.Update(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Articles.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
