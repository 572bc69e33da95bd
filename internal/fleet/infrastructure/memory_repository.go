package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/buslinehq/busline/internal/fleet/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

// InMemoryFleetRepository mirrors the gorm repository's semantics,
// including the composite bus registration and the delete policy.
type InMemoryFleetRepository struct {
	mu sync.RWMutex

	drivers     map[int64]domain.Driver
	routes      map[int64]domain.Route
	buses       map[int64]domain.Bus
	schedules   map[int64]domain.Schedule
	assignments map[int64]domain.DriverAssignment
	tickets     map[int64]domain.Ticket
	prebookings map[int64]int64 // prebook id -> bus id

	nextID int64
	logger pkgApp.AppLogger
}

func NewInMemoryFleetRepository(logger pkgApp.AppLogger) *InMemoryFleetRepository {
	return &InMemoryFleetRepository{
		drivers:     make(map[int64]domain.Driver),
		routes:      make(map[int64]domain.Route),
		buses:       make(map[int64]domain.Bus),
		schedules:   make(map[int64]domain.Schedule),
		assignments: make(map[int64]domain.DriverAssignment),
		tickets:     make(map[int64]domain.Ticket),
		prebookings: make(map[int64]int64),
		logger:      logger,
	}
}

func (r *InMemoryFleetRepository) newID() int64 {
	r.nextID++
	return r.nextID
}

func (r *InMemoryFleetRepository) CreateDriver(ctx context.Context, driver *domain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver.ID = r.newID()
	r.drivers[driver.ID] = *driver
	return nil
}

func (r *InMemoryFleetRepository) UpdateDriver(ctx context.Context, driver domain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[driver.ID]; !ok {
		return &pkgDomain.NotFoundError{Entity: "driver", Key: driver.ID}
	}
	r.drivers[driver.ID] = driver
	return nil
}

func (r *InMemoryFleetRepository) DeleteDriver(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[id]; !ok {
		return &pkgDomain.NotFoundError{Entity: "driver", Key: id}
	}
	delete(r.drivers, id)
	return nil
}

func (r *InMemoryFleetRepository) ListDrivers(ctx context.Context) ([]domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	drivers := make([]domain.Driver, 0, len(r.drivers))
	for _, driver := range r.drivers {
		drivers = append(drivers, driver)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].ID < drivers[j].ID })
	return drivers, nil
}

func (r *InMemoryFleetRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	route.ID = r.newID()
	r.routes[route.ID] = *route
	return nil
}

func (r *InMemoryFleetRepository) UpdateRoute(ctx context.Context, route domain.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[route.ID]; !ok {
		return &pkgDomain.NotFoundError{Entity: "route", Key: route.ID}
	}
	r.routes[route.ID] = route
	return nil
}

func (r *InMemoryFleetRepository) DeleteRoute(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[id]; !ok {
		return &pkgDomain.NotFoundError{Entity: "route", Key: id}
	}
	delete(r.routes, id)
	return nil
}

func (r *InMemoryFleetRepository) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	routes := make([]domain.Route, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	return routes, nil
}

func (r *InMemoryFleetRepository) RegisterBus(ctx context.Context, registration domain.BusRegistration) (domain.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	driverIDs := []int64{registration.DriverID1}
	if registration.DriverID2 != nil {
		driverIDs = append(driverIDs, *registration.DriverID2)
	}
	for _, driverID := range driverIDs {
		if _, ok := r.drivers[driverID]; !ok {
			return domain.Bus{}, &pkgDomain.ValidationError{Reason: fmt.Sprintf("driver %d does not exist", driverID)}
		}
	}

	route := domain.Route{
		ID:    r.newID(),
		Name:  registration.RouteName,
		Stops: strings.Join(registration.Stops, ","),
	}
	r.routes[route.ID] = route

	bus := domain.Bus{
		ID:          r.newID(),
		Name:        registration.Name,
		Number:      registration.Number,
		RouteID:     route.ID,
		TicketPrice: registration.TicketPrice,
		Capacity:    registration.Capacity,
		DriverID1:   registration.DriverID1,
		DriverID2:   registration.DriverID2,
	}
	r.buses[bus.ID] = bus

	schedule := domain.Schedule{
		ID:            r.newID(),
		BusID:         bus.ID,
		RouteID:       route.ID,
		DepartureDate: registration.DepartureDate,
		DepartureTime: registration.DepartureTime,
		ArrivalTime:   registration.ArrivalTime,
	}
	r.schedules[schedule.ID] = schedule

	for _, driverID := range driverIDs {
		assignment := domain.DriverAssignment{ID: r.newID(), BusID: bus.ID, DriverID: driverID}
		r.assignments[assignment.ID] = assignment
	}

	pkgApp.LogInfo(ctx, r.logger, "bus registered", map[string]interface{}{
		"bus_id": bus.ID,
	})
	return bus, nil
}

func (r *InMemoryFleetRepository) UpdateBus(ctx context.Context, bus domain.Bus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buses[bus.ID]; !ok {
		return &pkgDomain.NotFoundError{Entity: "bus", Key: bus.ID}
	}
	r.buses[bus.ID] = bus
	return nil
}

func (r *InMemoryFleetRepository) RemoveBus(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.buses[id]; !ok {
		return &pkgDomain.NotFoundError{Entity: "bus", Key: id}
	}

	sold := 0
	for _, ticket := range r.tickets {
		if ticket.BusID == id && ticket.Status == domain.TicketSold {
			sold++
		}
	}
	if sold > 0 {
		return &pkgDomain.ConflictError{Reason: fmt.Sprintf("bus %d has %d sold tickets", id, sold)}
	}
	for _, busID := range r.prebookings {
		if busID == id {
			return &pkgDomain.ConflictError{Reason: fmt.Sprintf("bus %d has prebookings", id)}
		}
	}

	for scheduleID, schedule := range r.schedules {
		if schedule.BusID == id {
			delete(r.schedules, scheduleID)
		}
	}
	for assignmentID, assignment := range r.assignments {
		if assignment.BusID == id {
			delete(r.assignments, assignmentID)
		}
	}
	for ticketID, ticket := range r.tickets {
		if ticket.BusID == id {
			delete(r.tickets, ticketID)
		}
	}
	delete(r.buses, id)
	return nil
}

func (r *InMemoryFleetRepository) FindBus(ctx context.Context, id int64) (domain.Bus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bus, ok := r.buses[id]
	if !ok {
		return domain.Bus{}, &pkgDomain.NotFoundError{Entity: "bus", Key: id}
	}
	return bus, nil
}

func (r *InMemoryFleetRepository) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	buses := make([]domain.Bus, 0, len(r.buses))
	for _, bus := range r.buses {
		buses = append(buses, bus)
	}
	sort.Slice(buses, func(i, j int) bool { return buses[i].ID < buses[j].ID })
	return buses, nil
}

func (r *InMemoryFleetRepository) CreateSchedule(ctx context.Context, schedule *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule.ID = r.newID()
	r.schedules[schedule.ID] = *schedule
	return nil
}

func (r *InMemoryFleetRepository) UpdateSchedule(ctx context.Context, schedule domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[schedule.ID]; !ok {
		return &pkgDomain.NotFoundError{Entity: "schedule", Key: schedule.ID}
	}
	r.schedules[schedule.ID] = schedule
	return nil
}

func (r *InMemoryFleetRepository) DeleteSchedule(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[id]; !ok {
		return &pkgDomain.NotFoundError{Entity: "schedule", Key: id}
	}
	delete(r.schedules, id)
	return nil
}

func (r *InMemoryFleetRepository) ListSchedules(ctx context.Context, busID int64) ([]domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var schedules []domain.Schedule
	for _, schedule := range r.schedules {
		if schedule.BusID == busID {
			schedules = append(schedules, schedule)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].ID < schedules[j].ID })
	return schedules, nil
}

func (r *InMemoryFleetRepository) AddTicket(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket.SeatID = domain.SeatLabel(ticket.BusID, ticket.SeatNumber)
	for _, existing := range r.tickets {
		if existing.BusID == ticket.BusID && existing.SeatID == ticket.SeatID {
			return &pkgDomain.ConflictError{Reason: fmt.Sprintf("seat %s already exists on bus %d", ticket.SeatID, ticket.BusID)}
		}
	}

	ticket.ID = r.newID()
	if ticket.Status == "" {
		ticket.Status = domain.TicketUnsold
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *InMemoryFleetRepository) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tickets[ticket.ID]
	if !ok {
		return &pkgDomain.NotFoundError{Entity: "ticket", Key: ticket.ID}
	}
	existing.BusID = ticket.BusID
	existing.SeatNumber = ticket.SeatNumber
	existing.SeatID = domain.SeatLabel(ticket.BusID, ticket.SeatNumber)
	existing.Price = ticket.Price
	r.tickets[ticket.ID] = existing
	return nil
}

func (r *InMemoryFleetRepository) DeleteTicket(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return &pkgDomain.NotFoundError{Entity: "ticket", Key: id}
	}
	delete(r.tickets, id)
	return nil
}

func (r *InMemoryFleetRepository) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (r *InMemoryFleetRepository) Report(ctx context.Context) ([]domain.ReportRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []domain.ReportRow
	for _, bus := range r.buses {
		row := domain.ReportRow{
			BusID:   bus.ID,
			BusName: bus.Name,
		}
		if route, ok := r.routes[bus.RouteID]; ok {
			row.RouteName = route.Name
		}
		if driver, ok := r.drivers[bus.DriverID1]; ok {
			row.DriverName = driver.Name
		}
		if bus.DriverID2 != nil {
			if driver, ok := r.drivers[*bus.DriverID2]; ok {
				row.CoDriverName = driver.Name
			}
		}
		for _, ticket := range r.tickets {
			if ticket.BusID == bus.ID && ticket.Status == domain.TicketUnsold {
				row.AvailableTickets++
			}
		}
		// One row per schedule, like the grouped left join; a bus
		// without schedules still gets a row with blank times.
		var busSchedules []domain.Schedule
		for _, schedule := range r.schedules {
			if schedule.BusID == bus.ID {
				busSchedules = append(busSchedules, schedule)
			}
		}
		if len(busSchedules) == 0 {
			rows = append(rows, row)
			continue
		}
		sort.Slice(busSchedules, func(i, j int) bool { return busSchedules[i].ID < busSchedules[j].ID })
		for _, schedule := range busSchedules {
			scheduled := row
			scheduled.DepartureDate = schedule.DepartureDate
			scheduled.DepartureTime = schedule.DepartureTime
			scheduled.ArrivalTime = schedule.ArrivalTime
			rows = append(rows, scheduled)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].BusID < rows[j].BusID })
	return rows, nil
}

// SeedPrebooking marks a prebooking against a bus so delete-policy tests
// can exercise the conflict path.
func (r *InMemoryFleetRepository) SeedPrebooking(prebookID, busID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prebookings[prebookID] = busID
}

// MarkTicketSold flips an inventory ticket to sold for tests.
func (r *InMemoryFleetRepository) MarkTicketSold(ticketID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket, ok := r.tickets[ticketID]; ok {
		ticket.Status = domain.TicketSold
		ticket.UserID = &userID
		r.tickets[ticketID] = ticket
	}
}
