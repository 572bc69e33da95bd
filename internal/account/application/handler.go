package application

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/buslinehq/busline/internal/account/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type signUpHandler struct {
	repository domain.UserRepository
	eventBus   pkgApp.EventBus
	logger     pkgApp.AppLogger
}

func NewSignUpHandler(repo domain.UserRepository, eventBus pkgApp.EventBus, logger pkgApp.AppLogger) pkgApp.CommandHandler {
	return &signUpHandler{
		repository: repo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

func (h *signUpHandler) Handle(ctx context.Context, command pkgDomain.Command) error {
	cmd, ok := command.(signUpCommand)
	if !ok {
		return &pkgDomain.ValidationError{Reason: "unexpected command type"}
	}
	data := cmd.Payload()

	if data.Email == "" {
		return &pkgDomain.ValidationError{Reason: "email is required"}
	}
	if data.Password == "" {
		return &pkgDomain.ValidationError{Reason: "password is required"}
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to hash password", err, nil)
		return err
	}

	user := domain.User{
		Name:         data.Name,
		Email:        data.Email,
		Phone:        data.Phone,
		PasswordHash: string(digest),
		Role:         domain.RoleUser,
	}

	if err := h.repository.Create(ctx, &user); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to create user", err, map[string]interface{}{
			"email": data.Email,
		})
		return err
	}

	event := NewUserRegisteredEvent(UserRegisteredData{UserID: user.ID, Email: user.Email})
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish event", err, nil)
	}

	pkgApp.LogInfo(ctx, h.logger, "user registered", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

type authenticateHandler struct {
	repository domain.UserRepository
	logger     pkgApp.AppLogger
}

func NewAuthenticateHandler(repo domain.UserRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler {
	return &authenticateHandler{
		repository: repo,
		logger:     logger,
	}
}

// Handle resolves the credentials to a user. A wrong password and an
// unknown email are the same NotFoundError to the caller.
func (h *authenticateHandler) Handle(ctx context.Context, query pkgDomain.Query) (any, error) {
	q, ok := query.(authenticateQuery)
	if !ok {
		return nil, &pkgDomain.ValidationError{Reason: "unexpected query type"}
	}
	data := q.Payload()

	user, err := h.repository.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password)); err != nil {
		return nil, &pkgDomain.NotFoundError{Entity: "user", Key: data.Email}
	}

	pkgApp.LogInfo(ctx, h.logger, "user authenticated", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

type userRegisteredEventHandler struct {
	logger pkgApp.AppLogger
}

func NewUserRegisteredEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler {
	return &userRegisteredEventHandler{logger: logger}
}

func (h *userRegisteredEventHandler) Handle(ctx context.Context, event pkgDomain.Event) error {
	pkgApp.LogInfo(ctx, h.logger, "event received", map[string]interface{}{
		"event_name": event.EventName(),
		"payload":    event.Payload(),
	})
	return nil
}
