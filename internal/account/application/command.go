package application

import (
	"github.com/buslinehq/busline/pkg/domain"
)

// SignUpData contains the fields collected at registration.
type SignUpData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type signUpCommand struct {
	data SignUpData
}

func (c signUpCommand) CommandName() string {
	return "SignUp"
}

func (c signUpCommand) Payload() SignUpData {
	return c.data
}

func NewSignUpCommand(data SignUpData) domain.Command {
	return signUpCommand{data: data}
}
