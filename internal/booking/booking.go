package booking

import (
	"github.com/go-chi/chi/v5"

	"github.com/buslinehq/busline/internal/booking/application"
	"github.com/buslinehq/busline/internal/booking/domain"
	"github.com/buslinehq/busline/internal/booking/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
)

// BookingSlice wires bus search, seat booking, prebooking and the
// caller's dashboard.
type BookingSlice struct {
	httpHandler *infrastructure.BookingHTTPHandler
}

func NewBookingSlice(
	commandBus pkgApp.CommandBus,
	queryBus pkgApp.QueryBus,
	eventBus pkgApp.EventBus,
	repository domain.BookingRepository,
	logger pkgApp.AppLogger,
) *BookingSlice {
	commandBus.RegisterHandler("BookSeats", application.NewBookSeatsHandler(repository, eventBus, logger))
	commandBus.RegisterHandler("Prebook", application.NewPrebookHandler(repository, eventBus, logger))

	cancelHandler := application.NewCancelHandler(repository, logger)
	commandBus.RegisterHandler("CancelTicket", cancelHandler)
	commandBus.RegisterHandler("CancelPrebooking", cancelHandler)

	queryHandler := application.NewBookingQueryHandler(repository, logger)
	for _, name := range []string{
		"SearchBuses", "AvailableSeats", "BusSchedules", "MyTickets", "MyPrebookings",
	} {
		queryBus.RegisterHandler(name, queryHandler)
	}

	eventLogger := application.NewBookingEventLogger(logger)
	eventBus.RegisterHandler("SeatsBooked", eventLogger)
	eventBus.RegisterHandler("PrebookingConfirmed", eventLogger)

	return &BookingSlice{
		httpHandler: infrastructure.NewBookingHTTPHandler(commandBus, queryBus),
	}
}

func (s *BookingSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
