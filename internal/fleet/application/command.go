package application

import (
	"github.com/buslinehq/busline/internal/fleet/domain"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

// DriverData carries the admin-supplied fields of a driver.
type DriverData struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"licenseNumber"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

type createDriverCommand struct {
	data DriverData
}

func (c createDriverCommand) CommandName() string { return "CreateDriver" }
func (c createDriverCommand) Payload() DriverData { return c.data }

func NewCreateDriverCommand(data DriverData) pkgDomain.Command {
	return createDriverCommand{data: data}
}

type updateDriverCommand struct {
	id   int64
	data DriverData
}

func (c updateDriverCommand) CommandName() string { return "UpdateDriver" }
func (c updateDriverCommand) Payload() DriverData { return c.data }

func NewUpdateDriverCommand(id int64, data DriverData) pkgDomain.Command {
	return updateDriverCommand{id: id, data: data}
}

type deleteDriverCommand struct {
	id int64
}

func (c deleteDriverCommand) CommandName() string { return "DeleteDriver" }

func NewDeleteDriverCommand(id int64) pkgDomain.Command {
	return deleteDriverCommand{id: id}
}

type RouteData struct {
	Name  string   `json:"name"`
	Stops []string `json:"stops"`
}

type createRouteCommand struct {
	data RouteData
}

func (c createRouteCommand) CommandName() string { return "CreateRoute" }
func (c createRouteCommand) Payload() RouteData  { return c.data }

func NewCreateRouteCommand(data RouteData) pkgDomain.Command {
	return createRouteCommand{data: data}
}

type updateRouteCommand struct {
	id   int64
	data RouteData
}

func (c updateRouteCommand) CommandName() string { return "UpdateRoute" }
func (c updateRouteCommand) Payload() RouteData  { return c.data }

func NewUpdateRouteCommand(id int64, data RouteData) pkgDomain.Command {
	return updateRouteCommand{id: id, data: data}
}

type deleteRouteCommand struct {
	id int64
}

func (c deleteRouteCommand) CommandName() string { return "DeleteRoute" }

func NewDeleteRouteCommand(id int64) pkgDomain.Command {
	return deleteRouteCommand{id: id}
}

// BusRegistrationData is the composite bus-creation input: the route, the
// first schedule and the driver assignments are created with the bus.
type BusRegistrationData struct {
	Name          string   `json:"name"`
	Number        string   `json:"number"`
	TicketPrice   float64  `json:"ticketPrice"`
	Capacity      int      `json:"capacity"`
	RouteName     string   `json:"routeName"`
	Stops         []string `json:"stops"`
	DriverID1     int64    `json:"driverId1"`
	DriverID2     *int64   `json:"driverId2,omitempty"`
	DepartureDate string   `json:"departureDate"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
}

// RegisterBusCommand is exported so the dispatcher can read the created
// bus back after a synchronous dispatch.
type RegisterBusCommand struct {
	data BusRegistrationData
	bus  domain.Bus
}

func (c *RegisterBusCommand) CommandName() string          { return "RegisterBus" }
func (c *RegisterBusCommand) Payload() BusRegistrationData { return c.data }
func (c *RegisterBusCommand) Bus() domain.Bus              { return c.bus }

func NewRegisterBusCommand(data BusRegistrationData) *RegisterBusCommand {
	return &RegisterBusCommand{data: data}
}

type BusData struct {
	Name        string  `json:"name"`
	Number      string  `json:"number"`
	RouteID     int64   `json:"routeId"`
	TicketPrice float64 `json:"ticketPrice"`
	Capacity    int     `json:"capacity"`
	DriverID1   int64   `json:"driverId1"`
	DriverID2   *int64  `json:"driverId2,omitempty"`
}

type updateBusCommand struct {
	id   int64
	data BusData
}

func (c updateBusCommand) CommandName() string { return "UpdateBus" }
func (c updateBusCommand) Payload() BusData    { return c.data }

func NewUpdateBusCommand(id int64, data BusData) pkgDomain.Command {
	return updateBusCommand{id: id, data: data}
}

type removeBusCommand struct {
	id int64
}

func (c removeBusCommand) CommandName() string { return "RemoveBus" }

func NewRemoveBusCommand(id int64) pkgDomain.Command {
	return removeBusCommand{id: id}
}

type ScheduleData struct {
	BusID         int64  `json:"busId"`
	RouteID       int64  `json:"routeId"`
	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

type createScheduleCommand struct {
	data ScheduleData
}

func (c createScheduleCommand) CommandName() string  { return "CreateSchedule" }
func (c createScheduleCommand) Payload() ScheduleData { return c.data }

func NewCreateScheduleCommand(data ScheduleData) pkgDomain.Command {
	return createScheduleCommand{data: data}
}

type updateScheduleCommand struct {
	id   int64
	data ScheduleData
}

func (c updateScheduleCommand) CommandName() string  { return "UpdateSchedule" }
func (c updateScheduleCommand) Payload() ScheduleData { return c.data }

func NewUpdateScheduleCommand(id int64, data ScheduleData) pkgDomain.Command {
	return updateScheduleCommand{id: id, data: data}
}

type deleteScheduleCommand struct {
	id int64
}

func (c deleteScheduleCommand) CommandName() string { return "DeleteSchedule" }

func NewDeleteScheduleCommand(id int64) pkgDomain.Command {
	return deleteScheduleCommand{id: id}
}

// TicketData creates unsold inventory; the seat identifier is derived from
// the bus id and seat number, never supplied.
type TicketData struct {
	BusID      int64   `json:"busId"`
	SeatNumber int     `json:"seatNumber"`
	Price      float64 `json:"price"`
}

type addTicketCommand struct {
	data TicketData
}

func (c addTicketCommand) CommandName() string { return "AddTicket" }
func (c addTicketCommand) Payload() TicketData { return c.data }

func NewAddTicketCommand(data TicketData) pkgDomain.Command {
	return addTicketCommand{data: data}
}

type updateTicketCommand struct {
	id   int64
	data TicketData
}

func (c updateTicketCommand) CommandName() string { return "UpdateTicket" }
func (c updateTicketCommand) Payload() TicketData { return c.data }

func NewUpdateTicketCommand(id int64, data TicketData) pkgDomain.Command {
	return updateTicketCommand{id: id, data: data}
}

type deleteTicketCommand struct {
	id int64
}

func (c deleteTicketCommand) CommandName() string { return "DeleteTicket" }

func NewDeleteTicketCommand(id int64) pkgDomain.Command {
	return deleteTicketCommand{id: id}
}
