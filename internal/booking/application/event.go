package application

import (
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type SeatsBookedData struct {
	UserID  int64    `json:"userId"`
	BusID   int64    `json:"busId"`
	SeatIDs []string `json:"seatIds"`
	Total   float64  `json:"total"`
}

type seatsBookedEvent struct {
	data SeatsBookedData
}

func (e seatsBookedEvent) EventName() string { return "SeatsBooked" }
func (e seatsBookedEvent) Payload() any      { return e.data }

func NewSeatsBookedEvent(data SeatsBookedData) pkgDomain.Event {
	return seatsBookedEvent{data: data}
}

type PrebookingConfirmedData struct {
	UserID      int64  `json:"userId"`
	BusID       int64  `json:"busId"`
	PrebookID   int64  `json:"prebookId"`
	PrebookDate string `json:"prebookDate"`
}

type prebookingConfirmedEvent struct {
	data PrebookingConfirmedData
}

func (e prebookingConfirmedEvent) EventName() string { return "PrebookingConfirmed" }
func (e prebookingConfirmedEvent) Payload() any      { return e.data }

func NewPrebookingConfirmedEvent(data PrebookingConfirmedData) pkgDomain.Event {
	return prebookingConfirmedEvent{data: data}
}
