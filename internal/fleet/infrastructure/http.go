package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/buslinehq/busline/internal/fleet/application"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
	"github.com/buslinehq/busline/pkg/infrastructure/httpapi"
)

const requestTimeout = 10 * time.Second

// FleetHTTPHandler exposes the admin CRUD surface. Route registration
// assumes the router already enforces an admin session.
type FleetHTTPHandler struct {
	commandBus pkgApp.CommandBus
	queryBus   pkgApp.QueryBus
}

func NewFleetHTTPHandler(commandBus pkgApp.CommandBus, queryBus pkgApp.QueryBus) *FleetHTTPHandler {
	return &FleetHTTPHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

func (h *FleetHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/report", h.handleReport)

	router.Get("/drivers", h.handleListDrivers)
	router.Post("/drivers", h.handleCreateDriver)
	router.Put("/drivers/{driverID}", h.handleUpdateDriver)
	router.Delete("/drivers/{driverID}", h.handleDeleteDriver)

	router.Get("/routes", h.handleListRoutes)
	router.Post("/routes", h.handleCreateRoute)
	router.Put("/routes/{routeID}", h.handleUpdateRoute)
	router.Delete("/routes/{routeID}", h.handleDeleteRoute)

	router.Get("/buses", h.handleListBuses)
	router.Post("/buses", h.handleRegisterBus)
	router.Put("/buses/{busID}", h.handleUpdateBus)
	router.Delete("/buses/{busID}", h.handleRemoveBus)
	router.Get("/buses/{busID}/schedules", h.handleListSchedules)

	router.Post("/schedules", h.handleCreateSchedule)
	router.Put("/schedules/{scheduleID}", h.handleUpdateSchedule)
	router.Delete("/schedules/{scheduleID}", h.handleDeleteSchedule)

	router.Get("/tickets", h.handleListTickets)
	router.Post("/tickets", h.handleAddTicket)
	router.Put("/tickets/{ticketID}", h.handleUpdateTicket)
	router.Delete("/tickets/{ticketID}", h.handleDeleteTicket)
}

func (h *FleetHTTPHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, application.NewFleetReportQuery())
}

func (h *FleetHTTPHandler) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, application.NewListDriversQuery())
}

func (h *FleetHTTPHandler) handleCreateDriver(w http.ResponseWriter, r *http.Request) {
	var data application.DriverData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewCreateDriverCommand(data), http.StatusCreated)
}

func (h *FleetHTTPHandler) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "driverID")
	if !ok {
		return
	}
	var data application.DriverData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewUpdateDriverCommand(id, data), http.StatusOK)
}

func (h *FleetHTTPHandler) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "driverID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewDeleteDriverCommand(id), http.StatusOK)
}

func (h *FleetHTTPHandler) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, application.NewListRoutesQuery())
}

func (h *FleetHTTPHandler) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var data application.RouteData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewCreateRouteCommand(data), http.StatusCreated)
}

func (h *FleetHTTPHandler) handleUpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "routeID")
	if !ok {
		return
	}
	var data application.RouteData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewUpdateRouteCommand(id, data), http.StatusOK)
}

func (h *FleetHTTPHandler) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "routeID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewDeleteRouteCommand(id), http.StatusOK)
}

func (h *FleetHTTPHandler) handleListBuses(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, application.NewListBusesQuery())
}

func (h *FleetHTTPHandler) handleRegisterBus(w http.ResponseWriter, r *http.Request) {
	var data application.BusRegistrationData
	if !decode(w, r, &data) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	command := application.NewRegisterBusCommand(data)
	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, command.Bus())
}

func (h *FleetHTTPHandler) handleUpdateBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "busID")
	if !ok {
		return
	}
	var data application.BusData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewUpdateBusCommand(id, data), http.StatusOK)
}

func (h *FleetHTTPHandler) handleRemoveBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "busID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewRemoveBusCommand(id), http.StatusOK)
}

func (h *FleetHTTPHandler) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "busID")
	if !ok {
		return
	}
	h.respondQuery(w, r, application.NewListSchedulesQuery(id))
}

func (h *FleetHTTPHandler) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var data application.ScheduleData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewCreateScheduleCommand(data), http.StatusCreated)
}

func (h *FleetHTTPHandler) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "scheduleID")
	if !ok {
		return
	}
	var data application.ScheduleData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewUpdateScheduleCommand(id, data), http.StatusOK)
}

func (h *FleetHTTPHandler) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "scheduleID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewDeleteScheduleCommand(id), http.StatusOK)
}

func (h *FleetHTTPHandler) handleListTickets(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, application.NewListTicketsQuery())
}

func (h *FleetHTTPHandler) handleAddTicket(w http.ResponseWriter, r *http.Request) {
	var data application.TicketData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewAddTicketCommand(data), http.StatusCreated)
}

func (h *FleetHTTPHandler) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ticketID")
	if !ok {
		return
	}
	var data application.TicketData
	if !decode(w, r, &data) {
		return
	}
	h.respondCommand(w, r, application.NewUpdateTicketCommand(id, data), http.StatusOK)
}

func (h *FleetHTTPHandler) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ticketID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewDeleteTicketCommand(id), http.StatusOK)
}

func (h *FleetHTTPHandler) respondCommand(w http.ResponseWriter, r *http.Request, command pkgDomain.Command, status int) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, status, map[string]string{"message": "ok"})
}

func (h *FleetHTTPHandler) respondQuery(w http.ResponseWriter, r *http.Request, query pkgDomain.Query) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.queryBus.Dispatch(ctx, query)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpapi.WriteError(w, &pkgDomain.ValidationError{Reason: "invalid request body"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpapi.WriteError(w, &pkgDomain.ValidationError{Reason: name + " must be an integer"})
		return 0, false
	}
	return id, true
}
