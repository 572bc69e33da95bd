package domain

import (
	"context"

	fleetdomain "github.com/buslinehq/busline/internal/fleet/domain"
)

// Prebooking reserves a future schedule of a bus without buying a seat.
type Prebooking struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	UserID      int64  `json:"userId" gorm:"index"`
	BusID       int64  `json:"busId" gorm:"index"`
	PrebookDate string `json:"prebookDate"`
}

// BusSummary is a search result row: the bus with its route name.
type BusSummary struct {
	BusID       int64   `json:"busId" gorm:"column:bus_id"`
	Name        string  `json:"name" gorm:"column:name"`
	Number      string  `json:"number" gorm:"column:number"`
	TicketPrice float64 `json:"ticketPrice" gorm:"column:ticket_price"`
	Capacity    int     `json:"capacity" gorm:"column:capacity"`
	RouteName   string  `json:"routeName" gorm:"column:route_name"`
}

// TicketSummary is a dashboard row for a purchased ticket.
type TicketSummary struct {
	TicketID   int64   `json:"ticketId" gorm:"column:ticket_id"`
	BusName    string  `json:"busName" gorm:"column:bus_name"`
	RouteName  string  `json:"routeName" gorm:"column:route_name"`
	SeatNumber int     `json:"seatNumber" gorm:"column:seat_number"`
	SeatID     string  `json:"seatId" gorm:"column:seat_id"`
	Price      float64 `json:"price" gorm:"column:price"`
}

// PrebookingSummary is a dashboard row for a prebooked bus.
type PrebookingSummary struct {
	PrebookID   int64  `json:"prebookId" gorm:"column:prebook_id"`
	BusName     string `json:"busName" gorm:"column:bus_name"`
	RouteName   string `json:"routeName" gorm:"column:route_name"`
	PrebookDate string `json:"prebookDate" gorm:"column:prebook_date"`
}

// Receipt is the outcome of a booking: the seats claimed and the total
// charged, count times the bus ticket price.
type Receipt struct {
	BusID   int64    `json:"busId"`
	SeatIDs []string `json:"seatIds"`
	Total   float64  `json:"total"`
}

type BookingRepository interface {
	// SearchBuses matches the term case-insensitively against bus names
	// and route names.
	SearchBuses(ctx context.Context, term string) ([]BusSummary, error)

	// AvailableSeats lists the seat ids still unsold on the bus.
	AvailableSeats(ctx context.Context, busID int64) ([]string, error)

	SchedulesForBus(ctx context.Context, busID int64) ([]fleetdomain.Schedule, error)

	// BookSeats claims every seat for the user in one transaction. Each
	// seat is compare-and-set from unsold to sold; a seat that is not
	// unsold anymore fails the whole booking with SeatUnavailableError.
	BookSeats(ctx context.Context, userID, busID int64, seatIDs []string) (Receipt, error)

	// CreatePrebooking records a prebooking for one of the bus's
	// schedules, dated with that schedule's departure date. A schedule
	// that does not belong to the bus is a NotFoundError.
	CreatePrebooking(ctx context.Context, userID, busID, scheduleID int64) (Prebooking, error)

	TicketsForUser(ctx context.Context, userID int64) ([]TicketSummary, error)
	PrebookingsForUser(ctx context.Context, userID int64) ([]PrebookingSummary, error)

	// CancelTicket deletes the ticket only when the caller owns it;
	// anything else is a NotFoundError and no row changes.
	CancelTicket(ctx context.Context, userID, ticketID int64) error
	CancelPrebooking(ctx context.Context, userID, prebookID int64) error
}
