package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	accountapp "github.com/buslinehq/busline/internal/account/application"
	accountinfra "github.com/buslinehq/busline/internal/account/infrastructure"
	"github.com/buslinehq/busline/internal/booking/application"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
	"github.com/buslinehq/busline/pkg/infrastructure/httpapi"
)

const requestTimeout = 10 * time.Second

// BookingHTTPHandler exposes search, seat booking, prebooking and the
// caller's dashboard. Route registration assumes the router already
// enforces a session, so the user id always comes from the context.
type BookingHTTPHandler struct {
	commandBus pkgApp.CommandBus
	queryBus   pkgApp.QueryBus
}

func NewBookingHTTPHandler(commandBus pkgApp.CommandBus, queryBus pkgApp.QueryBus) *BookingHTTPHandler {
	return &BookingHTTPHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

func (h *BookingHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/buses", h.handleSearchBuses)
	router.Get("/buses/{busID}/seats", h.handleAvailableSeats)
	router.Get("/buses/{busID}/schedules", h.handleBusSchedules)

	router.Post("/bookings", h.handleBookSeats)
	router.Post("/prebookings", h.handlePrebook)

	router.Get("/me/tickets", h.handleMyTickets)
	router.Delete("/me/tickets/{ticketID}", h.handleCancelTicket)
	router.Get("/me/prebookings", h.handleMyPrebookings)
	router.Delete("/me/prebookings/{prebookID}", h.handleCancelPrebooking)
}

func (h *BookingHTTPHandler) handleSearchBuses(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	h.respondQuery(w, r, application.NewSearchBusesQuery(term))
}

func (h *BookingHTTPHandler) handleAvailableSeats(w http.ResponseWriter, r *http.Request) {
	id, ok := busPathID(w, r, "busID")
	if !ok {
		return
	}
	h.respondQuery(w, r, application.NewAvailableSeatsQuery(id))
}

func (h *BookingHTTPHandler) handleBusSchedules(w http.ResponseWriter, r *http.Request) {
	id, ok := busPathID(w, r, "busID")
	if !ok {
		return
	}
	h.respondQuery(w, r, application.NewBusSchedulesQuery(id))
}

func (h *BookingHTTPHandler) handleBookSeats(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	var data application.BookSeatsData
	if !decodeBody(w, r, &data) {
		return
	}
	data.UserID = session.UserID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	command := application.NewBookSeatsCommand(data)
	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, command.Receipt())
}

func (h *BookingHTTPHandler) handlePrebook(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	var data application.PrebookData
	if !decodeBody(w, r, &data) {
		return
	}
	data.UserID = session.UserID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	command := application.NewPrebookCommand(data)
	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, command.Prebooking())
}

func (h *BookingHTTPHandler) handleMyTickets(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	h.respondQuery(w, r, application.NewMyTicketsQuery(session.UserID))
}

func (h *BookingHTTPHandler) handleCancelTicket(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := busPathID(w, r, "ticketID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewCancelTicketCommand(application.CancelTicketData{
		UserID:   session.UserID,
		TicketID: id,
	}))
}

func (h *BookingHTTPHandler) handleMyPrebookings(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	h.respondQuery(w, r, application.NewMyPrebookingsQuery(session.UserID))
}

func (h *BookingHTTPHandler) handleCancelPrebooking(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := busPathID(w, r, "prebookID")
	if !ok {
		return
	}
	h.respondCommand(w, r, application.NewCancelPrebookingCommand(application.CancelPrebookingData{
		UserID:    session.UserID,
		PrebookID: id,
	}))
}

func (h *BookingHTTPHandler) respondCommand(w http.ResponseWriter, r *http.Request, command pkgDomain.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (h *BookingHTTPHandler) respondQuery(w http.ResponseWriter, r *http.Request, query pkgDomain.Query) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.queryBus.Dispatch(ctx, query)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

func currentSession(w http.ResponseWriter, r *http.Request) (accountapp.Session, bool) {
	session, ok := accountinfra.SessionFromContext(r.Context())
	if !ok {
		httpapi.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return accountapp.Session{}, false
	}
	return session, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpapi.WriteError(w, &pkgDomain.ValidationError{Reason: "invalid request body"})
		return false
	}
	return true
}

func busPathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpapi.WriteError(w, &pkgDomain.ValidationError{Reason: name + " must be an integer"})
		return 0, false
	}
	return id, true
}
