package infrastructure_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/internal/fleet/domain"
	"github.com/buslinehq/busline/internal/fleet/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

func newFleetRepo(t *testing.T) *infrastructure.InMemoryFleetRepository {
	t.Helper()
	return infrastructure.NewInMemoryFleetRepository(pkgApp.NopLogger{})
}

func seedDriver(t *testing.T, repo *infrastructure.InMemoryFleetRepository, name string) domain.Driver {
	t.Helper()
	driver := domain.Driver{Name: name, LicenseNumber: "DL-" + name}
	require.NoError(t, repo.CreateDriver(context.Background(), &driver))
	return driver
}

func registerBus(t *testing.T, repo *infrastructure.InMemoryFleetRepository, driverID int64) domain.Bus {
	t.Helper()
	bus, err := repo.RegisterBus(context.Background(), domain.BusRegistration{
		Name:          "Coastal Express",
		Number:        "CX-101",
		TicketPrice:   25.50,
		Capacity:      40,
		RouteName:     "Harbor - Uptown",
		Stops:         []string{"Harbor", "Midtown", "Uptown"},
		DriverID1:     driverID,
		DepartureDate: "2026-09-01",
		DepartureTime: "08:00",
		ArrivalTime:   "11:30",
	})
	require.NoError(t, err)
	return bus
}

func TestRegisterBusCreatesRouteScheduleAndAssignments(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")

	bus := registerBus(t, repo, driver.ID)

	assert.Equal(t, "Coastal Express", bus.Name)
	assert.Equal(t, "CX-101", bus.Number)
	assert.Equal(t, 25.50, bus.TicketPrice)
	assert.Equal(t, 40, bus.Capacity)

	routes, err := repo.ListRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Harbor - Uptown", routes[0].Name)
	assert.Equal(t, []string{"Harbor", "Midtown", "Uptown"}, routes[0].StopList())
	assert.Equal(t, routes[0].ID, bus.RouteID)

	schedules, err := repo.ListSchedules(ctx, bus.ID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "2026-09-01", schedules[0].DepartureDate)
	assert.Equal(t, "08:00", schedules[0].DepartureTime)
	assert.Equal(t, "11:30", schedules[0].ArrivalTime)
}

func TestRegisterBusUnknownDriver(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()

	_, err := repo.RegisterBus(ctx, domain.BusRegistration{
		Name:      "Ghost Bus",
		RouteName: "Nowhere",
		DriverID1: 99,
	})
	require.Error(t, err)
	assert.True(t, pkgDomain.IsValidation(err))

	// Nothing may persist from the failed registration.
	routes, err := repo.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Empty(t, routes)
	buses, err := repo.ListBuses(ctx)
	require.NoError(t, err)
	assert.Empty(t, buses)
}

func TestRemoveBusCascades(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	ticket := domain.Ticket{BusID: bus.ID, SeatNumber: 1, Price: bus.TicketPrice}
	require.NoError(t, repo.AddTicket(ctx, &ticket))

	require.NoError(t, repo.RemoveBus(ctx, bus.ID))

	_, err := repo.FindBus(ctx, bus.ID)
	assert.True(t, pkgDomain.IsNotFound(err))

	schedules, err := repo.ListSchedules(ctx, bus.ID)
	require.NoError(t, err)
	assert.Empty(t, schedules)

	tickets, err := repo.ListTickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets, "unsold inventory goes with the bus")
}

func TestRemoveBusRejectedWhileTicketsSold(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	ticket := domain.Ticket{BusID: bus.ID, SeatNumber: 1, Price: bus.TicketPrice}
	require.NoError(t, repo.AddTicket(ctx, &ticket))
	repo.MarkTicketSold(ticket.ID, 7)

	err := repo.RemoveBus(ctx, bus.ID)
	require.Error(t, err)
	assert.True(t, pkgDomain.IsConflict(err))

	_, err = repo.FindBus(ctx, bus.ID)
	assert.NoError(t, err, "rejected delete must leave the bus in place")
}

func TestRemoveBusRejectedWhilePrebooked(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	repo.SeedPrebooking(1, bus.ID)

	err := repo.RemoveBus(ctx, bus.ID)
	require.Error(t, err)
	assert.True(t, pkgDomain.IsConflict(err))
}

func TestAddTicketDerivesSeatID(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	ticket := domain.Ticket{BusID: bus.ID, SeatNumber: 12, Price: bus.TicketPrice}
	require.NoError(t, repo.AddTicket(ctx, &ticket))

	assert.Equal(t, domain.SeatLabel(bus.ID, 12), ticket.SeatID)
	assert.Equal(t, domain.TicketUnsold, ticket.Status)
}

func TestAddTicketDuplicateSeat(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	first := domain.Ticket{BusID: bus.ID, SeatNumber: 3, Price: bus.TicketPrice}
	require.NoError(t, repo.AddTicket(ctx, &first))

	second := domain.Ticket{BusID: bus.ID, SeatNumber: 3, Price: bus.TicketPrice}
	err := repo.AddTicket(ctx, &second)
	require.Error(t, err)
	assert.True(t, pkgDomain.IsConflict(err))
}

func TestReportAggregatesAvailability(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	for seat := 1; seat <= 3; seat++ {
		ticket := domain.Ticket{BusID: bus.ID, SeatNumber: seat, Price: bus.TicketPrice}
		require.NoError(t, repo.AddTicket(ctx, &ticket))
		if seat == 1 {
			repo.MarkTicketSold(ticket.ID, 7)
		}
	}

	rows, err := repo.Report(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, bus.ID, row.BusID)
	assert.Equal(t, "Coastal Express", row.BusName)
	assert.Equal(t, "Harbor - Uptown", row.RouteName)
	assert.Equal(t, "Sam", row.DriverName)
	assert.Equal(t, 2, row.AvailableTickets)
	assert.Equal(t, "2026-09-01", row.DepartureDate)
}

func TestReportOneRowPerSchedule(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()
	driver := seedDriver(t, repo, "Sam")
	bus := registerBus(t, repo, driver.ID)

	second := domain.Schedule{
		BusID:         bus.ID,
		RouteID:       bus.RouteID,
		DepartureDate: "2026-09-02",
		DepartureTime: "18:00",
		ArrivalTime:   "21:30",
	}
	require.NoError(t, repo.CreateSchedule(ctx, &second))

	ticket := domain.Ticket{BusID: bus.ID, SeatNumber: 1, Price: bus.TicketPrice}
	require.NoError(t, repo.AddTicket(ctx, &ticket))

	rows, err := repo.Report(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2, "each schedule gets its own row")

	assert.Equal(t, "2026-09-01", rows[0].DepartureDate)
	assert.Equal(t, "2026-09-02", rows[1].DepartureDate)
	for _, row := range rows {
		assert.Equal(t, bus.ID, row.BusID)
		assert.Equal(t, "Coastal Express", row.BusName)
		assert.Equal(t, 1, row.AvailableTickets)
	}
}

func TestUpdateMissingEntities(t *testing.T) {
	repo := newFleetRepo(t)
	ctx := context.Background()

	assert.True(t, pkgDomain.IsNotFound(repo.UpdateDriver(ctx, domain.Driver{ID: 1})))
	assert.True(t, pkgDomain.IsNotFound(repo.UpdateRoute(ctx, domain.Route{ID: 1})))
	assert.True(t, pkgDomain.IsNotFound(repo.UpdateBus(ctx, domain.Bus{ID: 1})))
	assert.True(t, pkgDomain.IsNotFound(repo.DeleteSchedule(ctx, 1)))
	assert.True(t, pkgDomain.IsNotFound(repo.DeleteTicket(ctx, 1)))
}
