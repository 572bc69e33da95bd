package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/internal/account"
	"github.com/buslinehq/busline/internal/account/application"
	"github.com/buslinehq/busline/internal/account/domain"
	"github.com/buslinehq/busline/internal/account/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgInfra "github.com/buslinehq/busline/pkg/infrastructure"
)

func newAccountServer(t *testing.T) (*httptest.Server, *application.SessionRegistry) {
	t.Helper()

	logger := pkgApp.NopLogger{}
	repo := infrastructure.NewInMemoryUserRepository(logger)
	commandBus := pkgInfra.NewSimpleCommandBus(logger)
	queryBus := pkgInfra.NewSimpleQueryBus()
	eventBus := pkgInfra.NewSimpleEventBus(logger)

	tokens := 0
	sessions := application.NewSessionRegistry(func() string {
		tokens++
		return fmt.Sprintf("test-token-%d", tokens)
	})

	slice := account.NewAccountSlice(commandBus, queryBus, eventBus, sessions, repo, logger)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, sessions
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSignUpLoginLogoutFlow(t *testing.T) {
	server, sessions := newAccountServer(t)

	resp := postJSON(t, server.URL+"/signup", map[string]string{
		"name":     "Alex",
		"email":    "alex@example.com",
		"phone":    "555-0101",
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/login", map[string]string{
		"email":    "alex@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session application.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)

	_, ok := sessions.Resolve(session.Token)
	assert.True(t, ok)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	logoutResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logoutResp.Body.Close()
	assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

	_, ok = sessions.Resolve(session.Token)
	assert.False(t, ok, "logout must end the session")
}

func TestSignUpDuplicateEmailConflict(t *testing.T) {
	server, _ := newAccountServer(t)

	body := map[string]string{
		"name":     "Alex",
		"email":    "alex@example.com",
		"password": "hunter2",
	}
	resp := postJSON(t, server.URL+"/signup", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/signup", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	server, _ := newAccountServer(t)

	resp := postJSON(t, server.URL+"/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequireSessionRejectsAnonymous(t *testing.T) {
	sessions := application.NewSessionRegistry(func() string { return "t" })

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(infrastructure.RequireSession(sessions))
		r.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/protected")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	sessions := application.NewSessionRegistry(func() string { return "user-token" })
	session := sessions.Begin(domain.User{ID: 2, Email: "alex@example.com", Role: domain.RoleUser})

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(infrastructure.RequireSession(sessions))
		r.Use(infrastructure.RequireAdmin)
		r.Get("/admin-only", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	server := httptest.NewServer(router)
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/admin-only", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
