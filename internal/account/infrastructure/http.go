package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/buslinehq/busline/internal/account/application"
	accountdomain "github.com/buslinehq/busline/internal/account/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
	"github.com/buslinehq/busline/pkg/infrastructure"
	"github.com/buslinehq/busline/pkg/infrastructure/httpapi"
)

const requestTimeout = 10 * time.Second

type AccountHTTPHandler struct {
	commandBus pkgApp.CommandBus
	queryBus   pkgApp.QueryBus
	sessions   *application.SessionRegistry
}

func NewAccountHTTPHandler(commandBus pkgApp.CommandBus, queryBus pkgApp.QueryBus, sessions *application.SessionRegistry) *AccountHTTPHandler {
	return &AccountHTTPHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		sessions:   sessions,
	}
}

func (h *AccountHTTPHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var data application.SignUpData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		httpapi.WriteError(w, &pkgDomain.ValidationError{Reason: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, application.NewSignUpCommand(data)); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]string{"message": "signup successful"})
}

func (h *AccountHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var data application.CredentialsData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		httpapi.WriteError(w, &pkgDomain.ValidationError{Reason: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := infrastructure.DispatchQuery[accountdomain.User](ctx, h.queryBus, application.NewAuthenticateQuery(data))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	session := h.sessions.Begin(user)
	httpapi.WriteJSON(w, http.StatusOK, session)
}

func (h *AccountHTTPHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.End(token)
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AccountHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/signup", h.HandleSignUp)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}
