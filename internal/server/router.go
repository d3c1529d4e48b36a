// Package server assembles the HTTP surface: routing, session middleware,
// permission checks, recovery and request logging.
package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/auth"
	"github.com/lvasseur/factures/internal/gate"
	"github.com/lvasseur/factures/internal/handlers"
	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/pdf"
	"github.com/lvasseur/factures/internal/services"
)

// Deps carries everything the router needs.
type Deps struct {
	DB   *gorm.DB
	Gate *gate.Gate
	Sync *services.SyncService
}

// NewRouter builds the full API handler.
func NewRouter(d Deps) http.Handler {
	setupSvc := services.NewSetupService(d.DB)
	numberingSvc := services.NewNumberingService(d.DB)
	docSvc := services.NewDocumentService(d.DB, numberingSvc)
	clientSvc := services.NewClientService(d.DB)
	articleSvc := services.NewArticleService(d.DB)
	paymentSvc := services.NewPaymentService(d.DB)
	transformSvc := services.NewTransformService(d.DB)
	renderer := pdf.NewRenderer()

	authH := handlers.NewAuthHandler(d.DB)
	setupH := handlers.NewSetupHandler(setupSvc)
	clientH := handlers.NewClientHandler(clientSvc, setupSvc)
	articleH := handlers.NewArticleHandler(articleSvc, setupSvc)
	docH := handlers.NewDocumentHandler(docSvc, transformSvc, clientSvc, setupSvc, renderer)
	paymentH := handlers.NewPaymentHandler(paymentSvc)
	syncH := handlers.NewSyncHandler(d.Sync)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	// healthz includes a database ping.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(r.Context()) != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "storage_unavailable", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints stay outside the permission gate.
	mux.HandleFunc("POST /api/auth/signup", authH.Signup)
	mux.HandleFunc("POST /api/auth/login", authH.Login)
	mux.HandleFunc("POST /api/auth/logout", authH.Logout)
	mux.Handle("GET /api/auth/me", auth.RequireAuth(http.HandlerFunc(authH.Me)))

	// guard wraps a handler with authentication plus a permission check.
	guard := func(resource, action string, h http.HandlerFunc) http.Handler {
		perm := gate.NewPermission(resource, action)
		checked := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, _ := auth.UserIDFromContext(r.Context())
			if err := d.Gate.Authorize(r.Context(), uid, perm); err != nil {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			h(w, r)
		})
		return auth.RequireAuth(checked)
	}

	mux.Handle("GET /api/company", guard("company", "view", setupH.Get))
	mux.Handle("POST /api/setup", guard("company", "update", setupH.Run))
	mux.Handle("PUT /api/company/numbering", guard("company", "update", setupH.UpdateNumbering))

	mux.Handle("GET /api/clients", guard("client", "view", clientH.List))
	mux.Handle("POST /api/clients", guard("client", "create", clientH.Create))
	mux.Handle("GET /api/clients/{id}", guard("client", "view", clientH.Get))
	mux.Handle("PUT /api/clients/{id}", guard("client", "update", clientH.Update))
	mux.Handle("DELETE /api/clients/{id}", guard("client", "delete", clientH.Delete))
	mux.Handle("POST /api/clients/{id}/contacts", guard("client", "update", clientH.AddContact))

	mux.Handle("GET /api/articles", guard("article", "view", articleH.List))
	mux.Handle("POST /api/articles", guard("article", "create", articleH.Create))
	mux.Handle("GET /api/articles/{id}", guard("article", "view", articleH.Get))
	mux.Handle("PUT /api/articles/{id}", guard("article", "update", articleH.Update))
	mux.Handle("DELETE /api/articles/{id}", guard("article", "delete", articleH.Delete))

	mux.Handle("GET /api/documents", guard("document", "view", docH.List))
	mux.Handle("POST /api/documents", guard("document", "create", docH.Create))
	mux.Handle("GET /api/documents/{id}", guard("document", "view", docH.Get))
	mux.Handle("PUT /api/documents/{id}", guard("document", "update", docH.Update))
	mux.Handle("DELETE /api/documents/{id}", guard("document", "delete", docH.Delete))
	mux.Handle("POST /api/documents/{id}/validate", guard("document", "validate", docH.Validate))
	mux.Handle("POST /api/documents/{id}/transition", guard("document", "update", docH.Transition))
	mux.Handle("POST /api/documents/{id}/duplicate", guard("document", "create", docH.Duplicate))
	mux.Handle("POST /api/documents/{id}/to-invoice", guard("document", "transform", docH.ToInvoice))
	mux.Handle("POST /api/documents/{id}/to-credit", guard("document", "transform", docH.ToCredit))
	mux.Handle("GET /api/documents/{id}/pdf", guard("document", "view", docH.PDF))

	mux.Handle("GET /api/invoices/{id}/payments", guard("payment", "view", paymentH.List))
	mux.Handle("POST /api/invoices/{id}/payments", guard("payment", "create", paymentH.Record))
	mux.Handle("DELETE /api/payments/{id}", guard("payment", "delete", paymentH.Remove))

	mux.Handle("GET /api/sync/status", auth.RequireAuth(http.HandlerFunc(syncH.Status)))
	mux.Handle("POST /api/sync/run", auth.RequireAuth(http.HandlerFunc(syncH.Run)))

	return withRecover(withLogging(auth.Middleware(mux)))
}

// withLogging logs method, path, status and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// withRecover converts panics into 500 responses instead of killing the
// connection.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic on %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
