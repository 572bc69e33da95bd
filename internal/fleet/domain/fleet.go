package domain

import (
	"context"
	"fmt"
	"strings"
)

type Driver struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	Name          string `json:"name"`
	LicenseNumber string `json:"licenseNumber" gorm:"index"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// Route holds an ordered stop list as one delimited string, the way the
// operator's legacy data has it.
type Route struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"column:route_name;index"`
	Stops string `json:"stops"`
}

func (r Route) StopList() []string {
	if r.Stops == "" {
		return nil
	}
	return strings.Split(r.Stops, ",")
}

type Bus struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"index"`
	Number      string  `json:"number"`
	RouteID     int64   `json:"routeId"`
	TicketPrice float64 `json:"ticketPrice"`
	Capacity    int     `json:"capacity"`
	DriverID1   int64   `json:"driverId1"`
	DriverID2   *int64  `json:"driverId2,omitempty"`
}

// DriverAssignment records which drivers serve which bus. Created with the
// bus, removed with it, never updated.
type DriverAssignment struct {
	ID       int64 `json:"id" gorm:"primaryKey"`
	BusID    int64 `json:"busId" gorm:"index"`
	DriverID int64 `json:"driverId"`
}

type Schedule struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	BusID         int64  `json:"busId" gorm:"index"`
	RouteID       int64  `json:"routeId"`
	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

const (
	TicketUnsold = "unsold"
	TicketSold   = "sold"
)

// Ticket is one seat's inventory row. SeatID is derived from the bus id
// and seat number, never supplied by callers, and unique per bus.
type Ticket struct {
	ID         int64   `json:"id" gorm:"primaryKey"`
	BusID      int64   `json:"busId" gorm:"uniqueIndex:idx_bus_seat"`
	SeatNumber int     `json:"seatNumber"`
	SeatID     string  `json:"seatId" gorm:"uniqueIndex:idx_bus_seat"`
	Price      float64 `json:"price"`
	Status     string  `json:"status" gorm:"default:unsold;index"`
	UserID     *int64  `json:"userId,omitempty" gorm:"index"`
}

// SeatLabel derives the seat identifier for a bus seat.
func SeatLabel(busID int64, seatNumber int) string {
	return fmt.Sprintf("%d-%d", busID, seatNumber)
}

// BusRegistration is the composite input for registering a bus: the route,
// the first schedule and the driver assignments are created with it in one
// unit of work.
type BusRegistration struct {
	Name        string
	Number      string
	TicketPrice float64
	Capacity    int

	RouteName string
	Stops     []string

	DriverID1 int64
	DriverID2 *int64

	DepartureDate string
	DepartureTime string
	ArrivalTime   string
}

// ReportRow is one line of the operator's system report: a bus with its
// route, drivers, unsold-ticket count and first schedule.
type ReportRow struct {
	BusID            int64  `json:"busId" gorm:"column:bus_id"`
	BusName          string `json:"busName" gorm:"column:bus_name"`
	RouteName        string `json:"routeName" gorm:"column:route_name"`
	DriverName       string `json:"driverName" gorm:"column:driver_name"`
	CoDriverName     string `json:"coDriverName" gorm:"column:co_driver_name"`
	AvailableTickets int    `json:"availableTickets" gorm:"column:available_tickets"`
	DepartureDate    string `json:"departureDate" gorm:"column:departure_date"`
	DepartureTime    string `json:"departureTime" gorm:"column:departure_time"`
	ArrivalTime      string `json:"arrivalTime" gorm:"column:arrival_time"`
}

type FleetRepository interface {
	CreateDriver(ctx context.Context, driver *Driver) error
	UpdateDriver(ctx context.Context, driver Driver) error
	DeleteDriver(ctx context.Context, id int64) error
	ListDrivers(ctx context.Context) ([]Driver, error)

	CreateRoute(ctx context.Context, route *Route) error
	UpdateRoute(ctx context.Context, route Route) error
	DeleteRoute(ctx context.Context, id int64) error
	ListRoutes(ctx context.Context) ([]Route, error)

	// RegisterBus creates the route, the bus, its first schedule and the
	// driver assignments atomically. A missing driver reference is a
	// ValidationError and nothing persists.
	RegisterBus(ctx context.Context, registration BusRegistration) (Bus, error)
	UpdateBus(ctx context.Context, bus Bus) error
	// RemoveBus deletes the bus together with its schedules, driver
	// assignments and unsold inventory tickets. It is rejected with a
	// ConflictError while sold tickets or prebookings reference the bus.
	RemoveBus(ctx context.Context, id int64) error
	FindBus(ctx context.Context, id int64) (Bus, error)
	ListBuses(ctx context.Context) ([]Bus, error)

	CreateSchedule(ctx context.Context, schedule *Schedule) error
	UpdateSchedule(ctx context.Context, schedule Schedule) error
	DeleteSchedule(ctx context.Context, id int64) error
	ListSchedules(ctx context.Context, busID int64) ([]Schedule, error)

	// AddTicket inserts an unsold inventory row; the seat id is derived
	// here. A duplicate seat on the same bus is a ConflictError.
	AddTicket(ctx context.Context, ticket *Ticket) error
	UpdateTicket(ctx context.Context, ticket Ticket) error
	DeleteTicket(ctx context.Context, id int64) error
	ListTickets(ctx context.Context) ([]Ticket, error)

	Report(ctx context.Context) ([]ReportRow, error)
}
