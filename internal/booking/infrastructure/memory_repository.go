package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/buslinehq/busline/internal/booking/domain"
	fleetdomain "github.com/buslinehq/busline/internal/fleet/domain"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type seededBus struct {
	bus       fleetdomain.Bus
	routeName string
}

// InMemoryBookingRepository mirrors the database repository's semantics
// with maps under one mutex, so booking flows can be exercised without
// a database.
type InMemoryBookingRepository struct {
	mu             sync.Mutex
	buses          map[int64]seededBus
	tickets        map[int64]fleetdomain.Ticket
	schedules      map[int64]fleetdomain.Schedule
	prebookings    map[int64]domain.Prebooking
	nextTicketID   int64
	nextPrebookID  int64
	nextScheduleID int64
}

func NewInMemoryBookingRepository() *InMemoryBookingRepository {
	return &InMemoryBookingRepository{
		buses:       make(map[int64]seededBus),
		tickets:     make(map[int64]fleetdomain.Ticket),
		schedules:   make(map[int64]fleetdomain.Schedule),
		prebookings: make(map[int64]domain.Prebooking),
	}
}

// SeedBus registers a bus with its route name so searches and bookings
// can find it.
func (r *InMemoryBookingRepository) SeedBus(bus fleetdomain.Bus, routeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buses[bus.ID] = seededBus{bus: bus, routeName: routeName}
}

// SeedTicket adds an unsold seat to a bus's inventory.
func (r *InMemoryBookingRepository) SeedTicket(busID int64, seatNumber int, price float64) fleetdomain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTicketID++
	ticket := fleetdomain.Ticket{
		ID:         r.nextTicketID,
		BusID:      busID,
		SeatNumber: seatNumber,
		SeatID:     fleetdomain.SeatLabel(busID, seatNumber),
		Price:      price,
		Status:     fleetdomain.TicketUnsold,
	}
	r.tickets[ticket.ID] = ticket
	return ticket
}

// SeedSchedule adds a departure for a bus.
func (r *InMemoryBookingRepository) SeedSchedule(busID int64, departureDate, departureTime, arrivalTime string) fleetdomain.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextScheduleID++
	schedule := fleetdomain.Schedule{
		ID:            r.nextScheduleID,
		BusID:         busID,
		DepartureDate: departureDate,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
	}
	r.schedules[schedule.ID] = schedule
	return schedule
}

// TicketByID exposes the stored row for assertions.
func (r *InMemoryBookingRepository) TicketByID(id int64) (fleetdomain.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	return ticket, ok
}

// SoldCount reports how many sold rows exist for the seat id.
func (r *InMemoryBookingRepository) SoldCount(busID int64, seatID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ticket := range r.tickets {
		if ticket.BusID == busID && ticket.SeatID == seatID && ticket.Status == fleetdomain.TicketSold {
			count++
		}
	}
	return count
}

func (r *InMemoryBookingRepository) SearchBuses(_ context.Context, term string) ([]domain.BusSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(term)
	var rows []domain.BusSummary
	for _, entry := range r.buses {
		if !strings.Contains(strings.ToLower(entry.bus.Name), needle) &&
			!strings.Contains(strings.ToLower(entry.routeName), needle) {
			continue
		}
		rows = append(rows, domain.BusSummary{
			BusID:       entry.bus.ID,
			Name:        entry.bus.Name,
			Number:      entry.bus.Number,
			TicketPrice: entry.bus.TicketPrice,
			Capacity:    entry.bus.Capacity,
			RouteName:   entry.routeName,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].BusID < rows[j].BusID })
	return rows, nil
}

func (r *InMemoryBookingRepository) AvailableSeats(_ context.Context, busID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var open []fleetdomain.Ticket
	for _, ticket := range r.tickets {
		if ticket.BusID == busID && ticket.Status == fleetdomain.TicketUnsold {
			open = append(open, ticket)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].SeatNumber < open[j].SeatNumber })
	seats := make([]string, 0, len(open))
	for _, ticket := range open {
		seats = append(seats, ticket.SeatID)
	}
	return seats, nil
}

func (r *InMemoryBookingRepository) SchedulesForBus(_ context.Context, busID int64) ([]fleetdomain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var schedules []fleetdomain.Schedule
	for _, schedule := range r.schedules {
		if schedule.BusID == busID {
			schedules = append(schedules, schedule)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].ID < schedules[j].ID })
	return schedules, nil
}

func (r *InMemoryBookingRepository) BookSeats(_ context.Context, userID, busID int64, seatIDs []string) (domain.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.buses[busID]
	if !ok {
		return domain.Receipt{}, &pkgDomain.NotFoundError{Entity: "bus", Key: busID}
	}

	// Resolve every seat before mutating anything so a losing seat
	// rolls the whole booking back. A ticket counts as taken once an
	// earlier seat in the same selection resolved to it, so a duplicate
	// seat id fails like a second compare-and-set on the sold row would.
	claimed := make([]int64, 0, len(seatIDs))
	claimedSet := make(map[int64]struct{}, len(seatIDs))
	for _, seatID := range seatIDs {
		var found *fleetdomain.Ticket
		for id := range r.tickets {
			ticket := r.tickets[id]
			if _, taken := claimedSet[ticket.ID]; taken {
				continue
			}
			if ticket.BusID == busID && ticket.SeatID == seatID && ticket.Status == fleetdomain.TicketUnsold {
				found = &ticket
				break
			}
		}
		if found == nil {
			return domain.Receipt{}, &pkgDomain.SeatUnavailableError{SeatIDs: []string{seatID}}
		}
		claimed = append(claimed, found.ID)
		claimedSet[found.ID] = struct{}{}
	}

	for _, id := range claimed {
		ticket := r.tickets[id]
		ticket.Status = fleetdomain.TicketSold
		owner := userID
		ticket.UserID = &owner
		r.tickets[id] = ticket
	}

	return domain.Receipt{
		BusID:   busID,
		SeatIDs: seatIDs,
		Total:   float64(len(seatIDs)) * entry.bus.TicketPrice,
	}, nil
}

func (r *InMemoryBookingRepository) CreatePrebooking(_ context.Context, userID, busID, scheduleID int64) (domain.Prebooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	schedule, ok := r.schedules[scheduleID]
	if !ok || schedule.BusID != busID {
		return domain.Prebooking{}, &pkgDomain.NotFoundError{Entity: "schedule", Key: scheduleID}
	}

	r.nextPrebookID++
	prebooking := domain.Prebooking{
		ID:          r.nextPrebookID,
		UserID:      userID,
		BusID:       busID,
		PrebookDate: schedule.DepartureDate,
	}
	r.prebookings[prebooking.ID] = prebooking
	return prebooking, nil
}

func (r *InMemoryBookingRepository) TicketsForUser(_ context.Context, userID int64) ([]domain.TicketSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []domain.TicketSummary
	for _, ticket := range r.tickets {
		if ticket.Status != fleetdomain.TicketSold || ticket.UserID == nil || *ticket.UserID != userID {
			continue
		}
		entry := r.buses[ticket.BusID]
		rows = append(rows, domain.TicketSummary{
			TicketID:   ticket.ID,
			BusName:    entry.bus.Name,
			RouteName:  entry.routeName,
			SeatNumber: ticket.SeatNumber,
			SeatID:     ticket.SeatID,
			Price:      ticket.Price,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TicketID < rows[j].TicketID })
	return rows, nil
}

func (r *InMemoryBookingRepository) PrebookingsForUser(_ context.Context, userID int64) ([]domain.PrebookingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []domain.PrebookingSummary
	for _, prebooking := range r.prebookings {
		if prebooking.UserID != userID {
			continue
		}
		entry := r.buses[prebooking.BusID]
		rows = append(rows, domain.PrebookingSummary{
			PrebookID:   prebooking.ID,
			BusName:     entry.bus.Name,
			RouteName:   entry.routeName,
			PrebookDate: prebooking.PrebookDate,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PrebookID < rows[j].PrebookID })
	return rows, nil
}

func (r *InMemoryBookingRepository) CancelTicket(_ context.Context, userID, ticketID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[ticketID]
	if !ok || ticket.UserID == nil || *ticket.UserID != userID {
		return &pkgDomain.NotFoundError{Entity: "ticket", Key: ticketID}
	}
	delete(r.tickets, ticketID)
	return nil
}

func (r *InMemoryBookingRepository) CancelPrebooking(_ context.Context, userID, prebookID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prebooking, ok := r.prebookings[prebookID]
	if !ok || prebooking.UserID != userID {
		return &pkgDomain.NotFoundError{Entity: "prebooking", Key: prebookID}
	}
	delete(r.prebookings, prebookID)
	return nil
}
