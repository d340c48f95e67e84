// Package handler is the HTTP surface of the evaluation pipeline: the
// submission endpoint plus the guarded administrative listing and export.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"guardpost/internal/access"
	"guardpost/internal/identity"
	"guardpost/internal/platform/middleware"
	"guardpost/internal/review/models"
	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/httputil"
)

// SessionCookieName is the cookie carrying the session credential.
const SessionCookieName = "guardpost_session"

// Service defines the intake operations the handler delegates to.
type Service interface {
	Submit(ctx context.Context, credential string, form url.Values) (*models.Evaluation, error)
	List(ctx context.Context) ([]models.Evaluation, error)
}

// Handler handles submission and admin endpoints.
type Handler struct {
	reviews Service
	guard   *access.Guard
	logger  *slog.Logger
}

// New creates a review Handler with the given service, access guard, and logger.
func New(reviews Service, guard *access.Guard, logger *slog.Logger) *Handler {
	return &Handler{
		reviews: reviews,
		guard:   guard,
		logger:  logger,
	}
}

// Register registers the review routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/submit", h.HandleSubmit)
	r.Get("/admin/evaluations", h.HandleList)
	r.Get("/admin/evaluations/export", h.HandleExport)
}

// SubmitResponse is the success envelope of the submission endpoint.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleSubmit implements POST /submit. The session credential is taken from
// the explicit reviewer_id form field when present, else from the session
// cookie; the explicit field wins so delegated submissions stay auditable.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "unparsable submission form",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form payload"))
		return
	}

	credential := r.PostForm.Get("reviewer_id")
	if credential == "" {
		credential = credentialFromCookie(r)
	}
	if credential == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadCredential, "session credential missing"))
		return
	}

	e, err := h.reviews.Submit(ctx, credential, r.PostForm)
	if err != nil {
		h.logger.WarnContext(ctx, "submission rejected",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "submission accepted",
		"evaluation_id", e.ID.String(),
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusOK, SubmitResponse{
		Success: true,
		Message: "evaluation submitted",
	})
}

// HandleList implements GET /admin/evaluations. A missing credential
// redirects home; a resolved reviewer outside the allow-list is denied.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeAdmin(w, r)
	if !ok {
		return
	}

	out, err := h.reviews.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "evaluation listing failed",
			"error", err,
			"reviewer_id", id.ID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleExport implements GET /admin/evaluations/export.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeAdmin(w, r)
	if !ok {
		return
	}

	out, err := h.reviews.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "evaluation export failed",
			"error", err,
			"reviewer_id", id.ID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=evaluations.csv`)
	if err := writeCSV(w, out); err != nil {
		// Headers are already written; all we can do is log.
		h.logger.ErrorContext(r.Context(), "csv export write failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
}

// authorizeAdmin resolves the cookie credential and checks the allow-list.
// It writes the response on failure and reports ok=false.
func (h *Handler) authorizeAdmin(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	credential := credentialFromCookie(r)
	if credential == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return identity.Identity{}, false
	}

	id, err := identity.DecodeCredential(credential)
	if err != nil {
		httputil.WriteError(w, err)
		return identity.Identity{}, false
	}

	if !h.guard.Authorize(id.ID) {
		h.logger.WarnContext(r.Context(), "admin access denied",
			"reviewer_id", id.ID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "reviewer is not an administrator"))
		return identity.Identity{}, false
	}
	return id, true
}

// credentialFromCookie reads the session cookie. The value is URL-escaped on
// write because the current credential format is a JSON object.
func credentialFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	if unescaped, err := url.QueryUnescape(cookie.Value); err == nil {
		return unescaped
	}
	return cookie.Value
}
