// Package login is the browser-facing sign-in surface. It drives the OAuth
// authorization-code flow and turns the resulting identity into the session
// cookie the rest of the service reads.
package login

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"guardpost/internal/platform/middleware"
	"guardpost/internal/review/handler"
	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/httputil"
)

// Handler handles the login, callback, and logout routes.
type Handler struct {
	oauth  *OAuthClient
	states *StateSigner
	logger *slog.Logger
	secure bool
}

// NewHandler creates a login Handler. secure controls the Secure attribute on
// the session cookie and should be true everywhere except local development.
func NewHandler(oauth *OAuthClient, states *StateSigner, logger *slog.Logger, secure bool) *Handler {
	return &Handler{
		oauth:  oauth,
		states: states,
		logger: logger,
		secure: secure,
	}
}

// Register registers the login routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/login/discord", h.HandleLogin)
	r.Get("/callback", h.HandleCallback)
	r.Get("/logout", h.HandleLogout)
}

// HandleLogin implements GET /login/discord. It mints a signed state and
// redirects to the authorization server.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.oauth.Configured() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "login is not configured"))
		return
	}

	state, err := h.states.Issue()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "oauth state issue failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	http.Redirect(w, r, h.oauth.AuthorizeURL(state), http.StatusFound)
}

// HandleCallback implements GET /callback: verify the state, trade the code
// for a token, resolve the identity, and establish the session cookie.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if !h.oauth.Configured() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "login is not configured"))
		return
	}

	if err := h.states.Verify(r.URL.Query().Get("state")); err != nil {
		h.logger.WarnContext(ctx, "oauth callback with bad state",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "authorization code missing"))
		return
	}

	accessToken, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "oauth code exchange failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	id, err := h.oauth.FetchIdentity(ctx, accessToken)
	if err != nil {
		h.logger.WarnContext(ctx, "oauth identity lookup failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	// The credential is a JSON object, so it is URL-escaped for cookie safety.
	http.SetCookie(w, &http.Cookie{
		Name:     handler.SessionCookieName,
		Value:    url.QueryEscape(id.EncodeCredential()),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(ctx, "reviewer signed in",
		"reviewer_id", id.ID,
		"request_id", requestID,
	)
	http.Redirect(w, r, "/admin/evaluations", http.StatusSeeOther)
}

// HandleLogout implements GET /logout by expiring the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     handler.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
