package fleet

import (
	"github.com/go-chi/chi/v5"

	"github.com/buslinehq/busline/internal/fleet/application"
	"github.com/buslinehq/busline/internal/fleet/domain"
	"github.com/buslinehq/busline/internal/fleet/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
)

// FleetSlice wires the admin CRUD over drivers, routes, buses, schedules
// and ticket inventory, plus the system report.
type FleetSlice struct {
	httpHandler *infrastructure.FleetHTTPHandler
}

func NewFleetSlice(
	commandBus pkgApp.CommandBus,
	queryBus pkgApp.QueryBus,
	repository domain.FleetRepository,
	logger pkgApp.AppLogger,
) *FleetSlice {
	commandHandler := application.NewFleetCommandHandler(repository, logger)
	for _, name := range []string{
		"CreateDriver", "UpdateDriver", "DeleteDriver",
		"CreateRoute", "UpdateRoute", "DeleteRoute",
		"RegisterBus", "UpdateBus", "RemoveBus",
		"CreateSchedule", "UpdateSchedule", "DeleteSchedule",
		"AddTicket", "UpdateTicket", "DeleteTicket",
	} {
		commandBus.RegisterHandler(name, commandHandler)
	}

	queryHandler := application.NewFleetQueryHandler(repository, logger)
	for _, name := range []string{
		"FleetReport", "ListDrivers", "ListRoutes", "ListBuses", "ListSchedules", "ListTickets",
	} {
		queryBus.RegisterHandler(name, queryHandler)
	}

	return &FleetSlice{
		httpHandler: infrastructure.NewFleetHTTPHandler(commandBus, queryBus),
	}
}

func (s *FleetSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
