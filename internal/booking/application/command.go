package application

import (
	"github.com/buslinehq/busline/internal/booking/domain"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

// BookSeatsData is a passenger's seat selection for one bus.
type BookSeatsData struct {
	UserID  int64    `json:"-"`
	BusID   int64    `json:"busId"`
	SeatIDs []string `json:"seatIds"`
}

// BookSeatsCommand is exported so the dispatcher can read the receipt back
// after a synchronous dispatch.
type BookSeatsCommand struct {
	data    BookSeatsData
	receipt domain.Receipt
}

func (c *BookSeatsCommand) CommandName() string     { return "BookSeats" }
func (c *BookSeatsCommand) Payload() BookSeatsData  { return c.data }
func (c *BookSeatsCommand) Receipt() domain.Receipt { return c.receipt }

func NewBookSeatsCommand(data BookSeatsData) *BookSeatsCommand {
	return &BookSeatsCommand{data: data}
}

type PrebookData struct {
	UserID     int64 `json:"-"`
	BusID      int64 `json:"busId"`
	ScheduleID int64 `json:"scheduleId"`
}

type PrebookCommand struct {
	data       PrebookData
	prebooking domain.Prebooking
}

func (c *PrebookCommand) CommandName() string           { return "Prebook" }
func (c *PrebookCommand) Payload() PrebookData          { return c.data }
func (c *PrebookCommand) Prebooking() domain.Prebooking { return c.prebooking }

func NewPrebookCommand(data PrebookData) *PrebookCommand {
	return &PrebookCommand{data: data}
}

type CancelTicketData struct {
	UserID   int64
	TicketID int64
}

type cancelTicketCommand struct {
	data CancelTicketData
}

func (c cancelTicketCommand) CommandName() string      { return "CancelTicket" }
func (c cancelTicketCommand) Payload() CancelTicketData { return c.data }

func NewCancelTicketCommand(data CancelTicketData) pkgDomain.Command {
	return cancelTicketCommand{data: data}
}

type CancelPrebookingData struct {
	UserID    int64
	PrebookID int64
}

type cancelPrebookingCommand struct {
	data CancelPrebookingData
}

func (c cancelPrebookingCommand) CommandName() string          { return "CancelPrebooking" }
func (c cancelPrebookingCommand) Payload() CancelPrebookingData { return c.data }

func NewCancelPrebookingCommand(data CancelPrebookingData) pkgDomain.Command {
	return cancelPrebookingCommand{data: data}
}
