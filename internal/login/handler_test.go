package login

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"guardpost/internal/identity"
	"guardpost/internal/review/handler"
)

type LoginHandlerSuite struct {
	suite.Suite
}

func TestLoginHandlerSuite(t *testing.T) {
	suite.Run(t, new(LoginHandlerSuite))
}

// fakeDiscord stands in for the OAuth token and current-user endpoints.
func fakeDiscord(t *testing.T, wantCode string, id identity.Identity) *httptest.Server {
	t.Helper()
	const accessToken = "fake-access-token"

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != wantCode {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": accessToken,
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(id)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (s *LoginHandlerSuite) newRouter(baseURL string) (chi.Router, *StateSigner) {
	oauth := NewOAuthClient(OAuthConfig{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost/callback",
		Timeout:      2 * time.Second,
	})
	states := NewStateSigner("test-key")
	h := NewHandler(oauth, states, slog.New(slog.DiscardHandler), false)
	r := chi.NewRouter()
	h.Register(r)
	return r, states
}

func (s *LoginHandlerSuite) TestHandleLogin() {
	router, states := s.newRouter("https://example.test/api")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login/discord", nil))

	require.Equal(s.T(), http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "/api/oauth2/authorize", loc.Path)
	q := loc.Query()
	assert.Equal(s.T(), "client-id", q.Get("client_id"))
	assert.Equal(s.T(), "code", q.Get("response_type"))
	assert.Equal(s.T(), "identify", q.Get("scope"))
	assert.NoError(s.T(), states.Verify(q.Get("state")))
}

func (s *LoginHandlerSuite) TestHandleCallback() {
	id := identity.Identity{ID: "42", Username: "ana", GlobalName: "Ana"}
	discord := fakeDiscord(s.T(), "good-code", id)
	router, states := s.newRouter(discord.URL)

	state, err := states.Issue()
	require.NoError(s.T(), err)

	rec := httptest.NewRecorder()
	target := "/callback?code=good-code&state=" + url.QueryEscape(state)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(s.T(), http.StatusSeeOther, rec.Code)
	assert.Equal(s.T(), "/admin/evaluations", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(s.T(), cookies, 1)
	cookie := cookies[0]
	assert.Equal(s.T(), handler.SessionCookieName, cookie.Name)
	assert.True(s.T(), cookie.HttpOnly)

	raw, err := url.QueryUnescape(cookie.Value)
	require.NoError(s.T(), err)
	decoded, err := identity.DecodeCredential(raw)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, decoded)
}

func (s *LoginHandlerSuite) TestHandleCallback_BadState() {
	discord := fakeDiscord(s.T(), "good-code", identity.Identity{ID: "42"})
	router, _ := s.newRouter(discord.URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=good-code&state=forged", nil))

	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
	assert.Empty(s.T(), rec.Result().Cookies())
}

func (s *LoginHandlerSuite) TestHandleCallback_MissingCode() {
	discord := fakeDiscord(s.T(), "good-code", identity.Identity{ID: "42"})
	router, states := s.newRouter(discord.URL)

	state, err := states.Issue()
	require.NoError(s.T(), err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state="+url.QueryEscape(state), nil))

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *LoginHandlerSuite) TestHandleCallback_ExchangeRejected() {
	discord := fakeDiscord(s.T(), "good-code", identity.Identity{ID: "42"})
	router, states := s.newRouter(discord.URL)

	state, err := states.Issue()
	require.NoError(s.T(), err)

	rec := httptest.NewRecorder()
	target := "/callback?code=stolen-code&state=" + url.QueryEscape(state)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
	assert.Empty(s.T(), rec.Result().Cookies())
}

func (s *LoginHandlerSuite) TestHandleLogin_NotConfigured() {
	oauth := NewOAuthClient(OAuthConfig{BaseURL: "https://example.test"})
	h := NewHandler(oauth, NewStateSigner("test-key"), slog.New(slog.DiscardHandler), false)
	r := chi.NewRouter()
	h.Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login/discord", nil))

	assert.Equal(s.T(), http.StatusServiceUnavailable, rec.Code)
}

func (s *LoginHandlerSuite) TestHandleLogout() {
	router, _ := s.newRouter("https://example.test")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	require.Equal(s.T(), http.StatusSeeOther, rec.Code)
	assert.Equal(s.T(), "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(s.T(), cookies, 1)
	assert.Equal(s.T(), handler.SessionCookieName, cookies[0].Name)
	assert.Negative(s.T(), cookies[0].MaxAge)
}
