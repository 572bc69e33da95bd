package application

import (
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type searchBusesQuery struct {
	term string
}

func (q searchBusesQuery) QueryName() string { return "SearchBuses" }

func NewSearchBusesQuery(term string) pkgDomain.Query {
	return searchBusesQuery{term: term}
}

type availableSeatsQuery struct {
	busID int64
}

func (q availableSeatsQuery) QueryName() string { return "AvailableSeats" }

func NewAvailableSeatsQuery(busID int64) pkgDomain.Query {
	return availableSeatsQuery{busID: busID}
}

type busSchedulesQuery struct {
	busID int64
}

func (q busSchedulesQuery) QueryName() string { return "BusSchedules" }

func NewBusSchedulesQuery(busID int64) pkgDomain.Query {
	return busSchedulesQuery{busID: busID}
}

type myTicketsQuery struct {
	userID int64
}

func (q myTicketsQuery) QueryName() string { return "MyTickets" }

func NewMyTicketsQuery(userID int64) pkgDomain.Query {
	return myTicketsQuery{userID: userID}
}

type myPrebookingsQuery struct {
	userID int64
}

func (q myPrebookingsQuery) QueryName() string { return "MyPrebookings" }

func NewMyPrebookingsQuery(userID int64) pkgDomain.Query {
	return myPrebookingsQuery{userID: userID}
}
