package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/internal/fleet"
	"github.com/buslinehq/busline/internal/fleet/application"
	"github.com/buslinehq/busline/internal/fleet/domain"
	"github.com/buslinehq/busline/internal/fleet/infrastructure"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
	pkgInfra "github.com/buslinehq/busline/pkg/infrastructure"
)

type fleetFixture struct {
	commandBus pkgApp.CommandBus
	queryBus   pkgApp.QueryBus
	repo       *infrastructure.InMemoryFleetRepository
}

func newFleetFixture(t *testing.T) *fleetFixture {
	t.Helper()

	logger := pkgApp.NopLogger{}
	repo := infrastructure.NewInMemoryFleetRepository(logger)
	commandBus := pkgInfra.NewSimpleCommandBus(logger)
	queryBus := pkgInfra.NewSimpleQueryBus()

	fleet.NewFleetSlice(commandBus, queryBus, repo, logger)

	return &fleetFixture{
		commandBus: commandBus,
		queryBus:   queryBus,
		repo:       repo,
	}
}

func (f *fleetFixture) createDriver(t *testing.T, name string) domain.Driver {
	t.Helper()
	err := f.commandBus.Dispatch(context.Background(), application.NewCreateDriverCommand(application.DriverData{
		Name:          name,
		LicenseNumber: "DL-" + name,
	}))
	require.NoError(t, err)

	drivers, err := pkgInfra.DispatchQuery[[]domain.Driver](context.Background(), f.queryBus, application.NewListDriversQuery())
	require.NoError(t, err)
	for _, driver := range drivers {
		if driver.Name == name {
			return driver
		}
	}
	t.Fatalf("driver %q not listed after create", name)
	return domain.Driver{}
}

func TestRegisterBusRoundTrip(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	driver := f.createDriver(t, "Sam")

	command := application.NewRegisterBusCommand(application.BusRegistrationData{
		Name:          "Coastal Express",
		Number:        "CX-101",
		TicketPrice:   25.50,
		Capacity:      40,
		RouteName:     "Harbor - Uptown",
		Stops:         []string{"Harbor", "Midtown", "Uptown"},
		DriverID1:     driver.ID,
		DepartureDate: "2026-09-01",
		DepartureTime: "08:00",
		ArrivalTime:   "11:30",
	})
	require.NoError(t, f.commandBus.Dispatch(ctx, command))

	created := command.Bus()
	require.NotZero(t, created.ID)

	buses, err := pkgInfra.DispatchQuery[[]domain.Bus](ctx, f.queryBus, application.NewListBusesQuery())
	require.NoError(t, err)
	require.Len(t, buses, 1)

	// Fields survive the round trip exactly as given.
	assert.Equal(t, "Coastal Express", buses[0].Name)
	assert.Equal(t, "CX-101", buses[0].Number)
	assert.Equal(t, 25.50, buses[0].TicketPrice)
	assert.Equal(t, 40, buses[0].Capacity)
	assert.Equal(t, driver.ID, buses[0].DriverID1)
}

func TestRegisterBusValidation(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()

	err := f.commandBus.Dispatch(ctx, application.NewRegisterBusCommand(application.BusRegistrationData{
		RouteName: "Harbor - Uptown",
		Capacity:  40,
	}))
	assert.True(t, pkgDomain.IsValidation(err), "missing name")

	err = f.commandBus.Dispatch(ctx, application.NewRegisterBusCommand(application.BusRegistrationData{
		Name:      "Coastal Express",
		RouteName: "Harbor - Uptown",
	}))
	assert.True(t, pkgDomain.IsValidation(err), "non-positive capacity")
}

func TestCreateDriverValidation(t *testing.T) {
	f := newFleetFixture(t)

	err := f.commandBus.Dispatch(context.Background(), application.NewCreateDriverCommand(application.DriverData{
		Name: "No License",
	}))
	assert.True(t, pkgDomain.IsValidation(err))
}

func TestAddTicketThroughBus(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	driver := f.createDriver(t, "Sam")

	register := application.NewRegisterBusCommand(application.BusRegistrationData{
		Name:        "Coastal Express",
		RouteName:   "Harbor - Uptown",
		Capacity:    40,
		TicketPrice: 25.50,
		DriverID1:   driver.ID,
	})
	require.NoError(t, f.commandBus.Dispatch(ctx, register))
	bus := register.Bus()

	require.NoError(t, f.commandBus.Dispatch(ctx, application.NewAddTicketCommand(application.TicketData{
		BusID:      bus.ID,
		SeatNumber: 5,
		Price:      bus.TicketPrice,
	})))

	tickets, err := pkgInfra.DispatchQuery[[]domain.Ticket](ctx, f.queryBus, application.NewListTicketsQuery())
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.SeatLabel(bus.ID, 5), tickets[0].SeatID)
	assert.Equal(t, domain.TicketUnsold, tickets[0].Status)

	err = f.commandBus.Dispatch(ctx, application.NewAddTicketCommand(application.TicketData{
		BusID:      bus.ID,
		SeatNumber: 5,
		Price:      bus.TicketPrice,
	}))
	assert.True(t, pkgDomain.IsConflict(err), "same seat twice on one bus")
}

func TestFleetReportThroughBus(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	driver := f.createDriver(t, "Sam")

	register := application.NewRegisterBusCommand(application.BusRegistrationData{
		Name:          "Coastal Express",
		RouteName:     "Harbor - Uptown",
		Capacity:      40,
		TicketPrice:   25.50,
		DriverID1:     driver.ID,
		DepartureDate: "2026-09-01",
	})
	require.NoError(t, f.commandBus.Dispatch(ctx, register))

	rows, err := pkgInfra.DispatchQuery[[]domain.ReportRow](ctx, f.queryBus, application.NewFleetReportQuery())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Coastal Express", rows[0].BusName)
	assert.Equal(t, "Sam", rows[0].DriverName)
	assert.Equal(t, "2026-09-01", rows[0].DepartureDate)
}
