package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/internal/account/application"
	"github.com/buslinehq/busline/internal/account/domain"
	"github.com/buslinehq/busline/internal/account/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
	pkgInfra "github.com/buslinehq/busline/pkg/infrastructure"
)

func newAccountFixture(t *testing.T) (pkgApp.CommandBus, pkgApp.QueryBus, *infrastructure.InMemoryUserRepository) {
	t.Helper()

	logger := pkgApp.NopLogger{}
	repo := infrastructure.NewInMemoryUserRepository(logger)
	commandBus := pkgInfra.NewSimpleCommandBus(logger)
	queryBus := pkgInfra.NewSimpleQueryBus()
	eventBus := pkgInfra.NewSimpleEventBus(logger)

	commandBus.RegisterHandler("SignUp", application.NewSignUpHandler(repo, eventBus, logger))
	queryBus.RegisterHandler("Authenticate", application.NewAuthenticateHandler(repo, logger))

	return commandBus, queryBus, repo
}

func signUp(t *testing.T, bus pkgApp.CommandBus, email, password string) {
	t.Helper()
	err := bus.Dispatch(context.Background(), application.NewSignUpCommand(application.SignUpData{
		Name:     "Alex",
		Email:    email,
		Phone:    "555-0101",
		Password: password,
	}))
	require.NoError(t, err)
}

func TestSignUpAndAuthenticate(t *testing.T) {
	commandBus, queryBus, _ := newAccountFixture(t)

	signUp(t, commandBus, "alex@example.com", "hunter2")

	user, err := pkgInfra.DispatchQuery[domain.User](
		context.Background(),
		queryBus,
		application.NewAuthenticateQuery(application.CredentialsData{
			Email:    "alex@example.com",
			Password: "hunter2",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "hunter2", user.PasswordHash, "password must be stored hashed")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	commandBus, _, repo := newAccountFixture(t)

	signUp(t, commandBus, "alex@example.com", "hunter2")
	require.Equal(t, 1, repo.Count())

	err := commandBus.Dispatch(context.Background(), application.NewSignUpCommand(application.SignUpData{
		Name:     "Imposter",
		Email:    "alex@example.com",
		Password: "different",
	}))
	require.Error(t, err)
	assert.True(t, pkgDomain.IsConflict(err))
	assert.Equal(t, 1, repo.Count(), "conflicting signup must not add a row")
}

func TestSignUpValidation(t *testing.T) {
	commandBus, _, repo := newAccountFixture(t)

	err := commandBus.Dispatch(context.Background(), application.NewSignUpCommand(application.SignUpData{
		Name:     "No Email",
		Password: "hunter2",
	}))
	assert.True(t, pkgDomain.IsValidation(err))

	err = commandBus.Dispatch(context.Background(), application.NewSignUpCommand(application.SignUpData{
		Name:  "No Password",
		Email: "nopass@example.com",
	}))
	assert.True(t, pkgDomain.IsValidation(err))

	assert.Equal(t, 0, repo.Count())
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	_, queryBus, _ := newAccountFixture(t)

	_, err := queryBus.Dispatch(context.Background(), application.NewAuthenticateQuery(application.CredentialsData{
		Email:    "nobody@example.com",
		Password: "whatever",
	}))
	assert.True(t, pkgDomain.IsNotFound(err))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	commandBus, queryBus, _ := newAccountFixture(t)

	signUp(t, commandBus, "alex@example.com", "hunter2")

	_, err := queryBus.Dispatch(context.Background(), application.NewAuthenticateQuery(application.CredentialsData{
		Email:    "alex@example.com",
		Password: "wrong",
	}))
	assert.True(t, pkgDomain.IsNotFound(err), "wrong password must look like an unknown user")
}
