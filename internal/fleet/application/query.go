package application

import (
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type fleetReportQuery struct{}

func (q fleetReportQuery) QueryName() string { return "FleetReport" }

func NewFleetReportQuery() pkgDomain.Query {
	return fleetReportQuery{}
}

type listDriversQuery struct{}

func (q listDriversQuery) QueryName() string { return "ListDrivers" }

func NewListDriversQuery() pkgDomain.Query {
	return listDriversQuery{}
}

type listRoutesQuery struct{}

func (q listRoutesQuery) QueryName() string { return "ListRoutes" }

func NewListRoutesQuery() pkgDomain.Query {
	return listRoutesQuery{}
}

type listBusesQuery struct{}

func (q listBusesQuery) QueryName() string { return "ListBuses" }

func NewListBusesQuery() pkgDomain.Query {
	return listBusesQuery{}
}

type listSchedulesQuery struct {
	busID int64
}

func (q listSchedulesQuery) QueryName() string { return "ListSchedules" }

func NewListSchedulesQuery(busID int64) pkgDomain.Query {
	return listSchedulesQuery{busID: busID}
}

type listTicketsQuery struct{}

func (q listTicketsQuery) QueryName() string { return "ListTickets" }

func NewListTicketsQuery() pkgDomain.Query {
	return listTicketsQuery{}
}
