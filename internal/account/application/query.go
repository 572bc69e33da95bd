package application

import (
	"github.com/buslinehq/busline/pkg/domain"
)

type CredentialsData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticateQuery struct {
	data CredentialsData
}

func (q authenticateQuery) QueryName() string {
	return "Authenticate"
}

func (q authenticateQuery) Payload() CredentialsData {
	return q.data
}

func NewAuthenticateQuery(data CredentialsData) domain.Query {
	return authenticateQuery{data: data}
}
