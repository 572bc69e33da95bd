package application

import (
	"github.com/buslinehq/busline/pkg/domain"
)

type UserRegisteredData struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type userRegisteredEvent struct {
	data UserRegisteredData
}

func (e userRegisteredEvent) EventName() string {
	return "UserRegistered"
}

func (e userRegisteredEvent) Payload() any {
	return e.data
}

func NewUserRegisteredEvent(data UserRegisteredData) domain.Event {
	return userRegisteredEvent{data: data}
}
