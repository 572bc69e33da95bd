package account

import (
	"github.com/go-chi/chi/v5"

	"github.com/buslinehq/busline/internal/account/application"
	"github.com/buslinehq/busline/internal/account/domain"
	"github.com/buslinehq/busline/internal/account/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
)

// AccountSlice wires registration, login and session handling.
type AccountSlice struct {
	httpHandler *infrastructure.AccountHTTPHandler
	sessions    *application.SessionRegistry
}

func NewAccountSlice(
	commandBus pkgApp.CommandBus,
	queryBus pkgApp.QueryBus,
	eventBus pkgApp.EventBus,
	sessions *application.SessionRegistry,
	repository domain.UserRepository,
	logger pkgApp.AppLogger,
) *AccountSlice {
	commandBus.RegisterHandler("SignUp", application.NewSignUpHandler(repository, eventBus, logger))
	queryBus.RegisterHandler("Authenticate", application.NewAuthenticateHandler(repository, logger))
	eventBus.RegisterHandler("UserRegistered", application.NewUserRegisteredEventHandler(logger))

	return &AccountSlice{
		httpHandler: infrastructure.NewAccountHTTPHandler(commandBus, queryBus, sessions),
		sessions:    sessions,
	}
}

func (s *AccountSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}

func (s *AccountSlice) Sessions() *application.SessionRegistry {
	return s.sessions
}
