package application

import (
	"context"
	"strings"

	"github.com/buslinehq/busline/internal/fleet/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

// fleetCommandHandler serves every fleet command; the repository does the
// per-entity work.
type fleetCommandHandler struct {
	repository domain.FleetRepository
	logger     pkgApp.AppLogger
}

func NewFleetCommandHandler(repo domain.FleetRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler {
	return &fleetCommandHandler{
		repository: repo,
		logger:     logger,
	}
}

func (h *fleetCommandHandler) Handle(ctx context.Context, command pkgDomain.Command) error {
	switch cmd := command.(type) {
	case createDriverCommand:
		data := cmd.Payload()
		if data.Name == "" || data.LicenseNumber == "" {
			return &pkgDomain.ValidationError{Reason: "driver name and license number are required"}
		}
		driver := domain.Driver{
			Name:          data.Name,
			LicenseNumber: data.LicenseNumber,
			Phone:         data.Phone,
			Address:       data.Address,
		}
		return h.logged(ctx, "driver created", h.repository.CreateDriver(ctx, &driver))

	case updateDriverCommand:
		data := cmd.Payload()
		driver := domain.Driver{
			ID:            cmd.id,
			Name:          data.Name,
			LicenseNumber: data.LicenseNumber,
			Phone:         data.Phone,
			Address:       data.Address,
		}
		return h.logged(ctx, "driver updated", h.repository.UpdateDriver(ctx, driver))

	case deleteDriverCommand:
		return h.logged(ctx, "driver deleted", h.repository.DeleteDriver(ctx, cmd.id))

	case createRouteCommand:
		data := cmd.Payload()
		if data.Name == "" {
			return &pkgDomain.ValidationError{Reason: "route name is required"}
		}
		route := domain.Route{
			Name:  data.Name,
			Stops: strings.Join(data.Stops, ","),
		}
		return h.logged(ctx, "route created", h.repository.CreateRoute(ctx, &route))

	case updateRouteCommand:
		data := cmd.Payload()
		route := domain.Route{
			ID:    cmd.id,
			Name:  data.Name,
			Stops: strings.Join(data.Stops, ","),
		}
		return h.logged(ctx, "route updated", h.repository.UpdateRoute(ctx, route))

	case deleteRouteCommand:
		return h.logged(ctx, "route deleted", h.repository.DeleteRoute(ctx, cmd.id))

	case *RegisterBusCommand:
		data := cmd.Payload()
		if data.Name == "" || data.RouteName == "" {
			return &pkgDomain.ValidationError{Reason: "bus name and route name are required"}
		}
		if data.Capacity <= 0 {
			return &pkgDomain.ValidationError{Reason: "capacity must be positive"}
		}
		bus, err := h.repository.RegisterBus(ctx, domain.BusRegistration{
			Name:          data.Name,
			Number:        data.Number,
			TicketPrice:   data.TicketPrice,
			Capacity:      data.Capacity,
			RouteName:     data.RouteName,
			Stops:         data.Stops,
			DriverID1:     data.DriverID1,
			DriverID2:     data.DriverID2,
			DepartureDate: data.DepartureDate,
			DepartureTime: data.DepartureTime,
			ArrivalTime:   data.ArrivalTime,
		})
		if err != nil {
			return err
		}
		cmd.bus = bus
		pkgApp.LogInfo(ctx, h.logger, "bus registered", map[string]interface{}{
			"bus_id": bus.ID,
		})
		return nil

	case updateBusCommand:
		data := cmd.Payload()
		bus := domain.Bus{
			ID:          cmd.id,
			Name:        data.Name,
			Number:      data.Number,
			RouteID:     data.RouteID,
			TicketPrice: data.TicketPrice,
			Capacity:    data.Capacity,
			DriverID1:   data.DriverID1,
			DriverID2:   data.DriverID2,
		}
		return h.logged(ctx, "bus updated", h.repository.UpdateBus(ctx, bus))

	case removeBusCommand:
		return h.logged(ctx, "bus removed", h.repository.RemoveBus(ctx, cmd.id))

	case createScheduleCommand:
		data := cmd.Payload()
		schedule := domain.Schedule{
			BusID:         data.BusID,
			RouteID:       data.RouteID,
			DepartureDate: data.DepartureDate,
			DepartureTime: data.DepartureTime,
			ArrivalTime:   data.ArrivalTime,
		}
		return h.logged(ctx, "schedule created", h.repository.CreateSchedule(ctx, &schedule))

	case updateScheduleCommand:
		data := cmd.Payload()
		schedule := domain.Schedule{
			ID:            cmd.id,
			BusID:         data.BusID,
			RouteID:       data.RouteID,
			DepartureDate: data.DepartureDate,
			DepartureTime: data.DepartureTime,
			ArrivalTime:   data.ArrivalTime,
		}
		return h.logged(ctx, "schedule updated", h.repository.UpdateSchedule(ctx, schedule))

	case deleteScheduleCommand:
		return h.logged(ctx, "schedule deleted", h.repository.DeleteSchedule(ctx, cmd.id))

	case addTicketCommand:
		data := cmd.Payload()
		if data.SeatNumber <= 0 {
			return &pkgDomain.ValidationError{Reason: "seat number must be positive"}
		}
		ticket := domain.Ticket{
			BusID:      data.BusID,
			SeatNumber: data.SeatNumber,
			Price:      data.Price,
			Status:     domain.TicketUnsold,
		}
		return h.logged(ctx, "ticket added", h.repository.AddTicket(ctx, &ticket))

	case updateTicketCommand:
		data := cmd.Payload()
		ticket := domain.Ticket{
			ID:         cmd.id,
			BusID:      data.BusID,
			SeatNumber: data.SeatNumber,
			Price:      data.Price,
		}
		return h.logged(ctx, "ticket updated", h.repository.UpdateTicket(ctx, ticket))

	case deleteTicketCommand:
		return h.logged(ctx, "ticket deleted", h.repository.DeleteTicket(ctx, cmd.id))
	}

	return &pkgDomain.ValidationError{Reason: "unexpected command type"}
}

func (h *fleetCommandHandler) logged(ctx context.Context, msg string, err error) error {
	if err != nil {
		pkgApp.LogError(ctx, h.logger, msg+" failed", err, nil)
		return err
	}
	pkgApp.LogInfo(ctx, h.logger, msg, nil)
	return nil
}

type fleetQueryHandler struct {
	repository domain.FleetRepository
	logger     pkgApp.AppLogger
}

func NewFleetQueryHandler(repo domain.FleetRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler {
	return &fleetQueryHandler{
		repository: repo,
		logger:     logger,
	}
}

func (h *fleetQueryHandler) Handle(ctx context.Context, query pkgDomain.Query) (any, error) {
	switch q := query.(type) {
	case fleetReportQuery:
		return h.repository.Report(ctx)
	case listDriversQuery:
		return h.repository.ListDrivers(ctx)
	case listRoutesQuery:
		return h.repository.ListRoutes(ctx)
	case listBusesQuery:
		return h.repository.ListBuses(ctx)
	case listSchedulesQuery:
		return h.repository.ListSchedules(ctx, q.busID)
	case listTicketsQuery:
		return h.repository.ListTickets(ctx)
	}
	return nil, &pkgDomain.ValidationError{Reason: "unexpected query type"}
}
