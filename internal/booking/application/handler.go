package application

import (
	"context"
	"strings"

	"github.com/buslinehq/busline/internal/booking/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type bookSeatsHandler struct {
	repository domain.BookingRepository
	eventBus   pkgApp.EventBus
	logger     pkgApp.AppLogger
}

func NewBookSeatsHandler(repo domain.BookingRepository, eventBus pkgApp.EventBus, logger pkgApp.AppLogger) pkgApp.CommandHandler {
	return &bookSeatsHandler{
		repository: repo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle validates the selection against the currently available seats,
// then claims them. The availability check here only narrows the race
// window; the repository's compare-and-set closes it.
func (h *bookSeatsHandler) Handle(ctx context.Context, command pkgDomain.Command) error {
	cmd, ok := command.(*BookSeatsCommand)
	if !ok {
		return &pkgDomain.ValidationError{Reason: "unexpected command type"}
	}
	data := cmd.Payload()

	if len(data.SeatIDs) == 0 {
		return &pkgDomain.ValidationError{Reason: "select at least one seat"}
	}

	available, err := h.repository.AvailableSeats(ctx, data.BusID)
	if err != nil {
		return err
	}
	availableSet := make(map[string]struct{}, len(available))
	for _, seatID := range available {
		availableSet[seatID] = struct{}{}
	}
	var unavailable []string
	for _, seatID := range data.SeatIDs {
		if _, ok := availableSet[seatID]; !ok {
			unavailable = append(unavailable, seatID)
		}
	}
	if len(unavailable) > 0 {
		return &pkgDomain.SeatUnavailableError{SeatIDs: unavailable}
	}

	receipt, err := h.repository.BookSeats(ctx, data.UserID, data.BusID, data.SeatIDs)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "booking failed", err, map[string]interface{}{
			"bus_id":   data.BusID,
			"seat_ids": strings.Join(data.SeatIDs, ","),
		})
		return err
	}
	cmd.receipt = receipt

	event := NewSeatsBookedEvent(SeatsBookedData{
		UserID:  data.UserID,
		BusID:   data.BusID,
		SeatIDs: receipt.SeatIDs,
		Total:   receipt.Total,
	})
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish event", err, nil)
	}

	pkgApp.LogInfo(ctx, h.logger, "seats booked", map[string]interface{}{
		"bus_id": data.BusID,
		"seats":  len(receipt.SeatIDs),
		"total":  receipt.Total,
	})
	return nil
}

type prebookHandler struct {
	repository domain.BookingRepository
	eventBus   pkgApp.EventBus
	logger     pkgApp.AppLogger
}

func NewPrebookHandler(repo domain.BookingRepository, eventBus pkgApp.EventBus, logger pkgApp.AppLogger) pkgApp.CommandHandler {
	return &prebookHandler{
		repository: repo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

func (h *prebookHandler) Handle(ctx context.Context, command pkgDomain.Command) error {
	cmd, ok := command.(*PrebookCommand)
	if !ok {
		return &pkgDomain.ValidationError{Reason: "unexpected command type"}
	}
	data := cmd.Payload()

	prebooking, err := h.repository.CreatePrebooking(ctx, data.UserID, data.BusID, data.ScheduleID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "prebooking failed", err, map[string]interface{}{
			"bus_id":      data.BusID,
			"schedule_id": data.ScheduleID,
		})
		return err
	}
	cmd.prebooking = prebooking

	event := NewPrebookingConfirmedEvent(PrebookingConfirmedData{
		UserID:      data.UserID,
		BusID:       data.BusID,
		PrebookID:   prebooking.ID,
		PrebookDate: prebooking.PrebookDate,
	})
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish event", err, nil)
	}

	pkgApp.LogInfo(ctx, h.logger, "prebooking confirmed", map[string]interface{}{
		"prebook_id": prebooking.ID,
	})
	return nil
}

type cancelHandler struct {
	repository domain.BookingRepository
	logger     pkgApp.AppLogger
}

func NewCancelHandler(repo domain.BookingRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler {
	return &cancelHandler{
		repository: repo,
		logger:     logger,
	}
}

func (h *cancelHandler) Handle(ctx context.Context, command pkgDomain.Command) error {
	switch cmd := command.(type) {
	case cancelTicketCommand:
		data := cmd.Payload()
		if err := h.repository.CancelTicket(ctx, data.UserID, data.TicketID); err != nil {
			return err
		}
		pkgApp.LogInfo(ctx, h.logger, "ticket cancelled", map[string]interface{}{
			"ticket_id": data.TicketID,
		})
		return nil

	case cancelPrebookingCommand:
		data := cmd.Payload()
		if err := h.repository.CancelPrebooking(ctx, data.UserID, data.PrebookID); err != nil {
			return err
		}
		pkgApp.LogInfo(ctx, h.logger, "prebooking cancelled", map[string]interface{}{
			"prebook_id": data.PrebookID,
		})
		return nil
	}
	return &pkgDomain.ValidationError{Reason: "unexpected command type"}
}

type bookingQueryHandler struct {
	repository domain.BookingRepository
	logger     pkgApp.AppLogger
}

func NewBookingQueryHandler(repo domain.BookingRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler {
	return &bookingQueryHandler{
		repository: repo,
		logger:     logger,
	}
}

func (h *bookingQueryHandler) Handle(ctx context.Context, query pkgDomain.Query) (any, error) {
	switch q := query.(type) {
	case searchBusesQuery:
		if strings.TrimSpace(q.term) == "" {
			return nil, &pkgDomain.ValidationError{Reason: "search term is required"}
		}
		return h.repository.SearchBuses(ctx, q.term)
	case availableSeatsQuery:
		return h.repository.AvailableSeats(ctx, q.busID)
	case busSchedulesQuery:
		return h.repository.SchedulesForBus(ctx, q.busID)
	case myTicketsQuery:
		return h.repository.TicketsForUser(ctx, q.userID)
	case myPrebookingsQuery:
		return h.repository.PrebookingsForUser(ctx, q.userID)
	}
	return nil, &pkgDomain.ValidationError{Reason: "unexpected query type"}
}

type bookingEventLogger struct {
	logger pkgApp.AppLogger
}

// NewBookingEventLogger subscribes to booking events purely to record
// them.
func NewBookingEventLogger(logger pkgApp.AppLogger) pkgApp.EventHandler {
	return &bookingEventLogger{logger: logger}
}

func (h *bookingEventLogger) Handle(ctx context.Context, event pkgDomain.Event) error {
	pkgApp.LogInfo(ctx, h.logger, "event received", map[string]interface{}{
		"event_name": event.EventName(),
		"payload":    event.Payload(),
	})
	return nil
}
