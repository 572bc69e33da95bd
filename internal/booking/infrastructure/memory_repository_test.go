package infrastructure_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/internal/booking/infrastructure"
	fleetdomain "github.com/buslinehq/busline/internal/fleet/domain"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

func seededRepo(t *testing.T, seats int, price float64) *infrastructure.InMemoryBookingRepository {
	t.Helper()
	repo := infrastructure.NewInMemoryBookingRepository()
	repo.SeedBus(fleetdomain.Bus{ID: 1, Name: "Coastal Express", TicketPrice: price, Capacity: seats}, "Harbor - Uptown")
	for seat := 1; seat <= seats; seat++ {
		repo.SeedTicket(1, seat, price)
	}
	return repo
}

func TestBookSeatsReceipt(t *testing.T) {
	repo := seededRepo(t, 3, 12.75)
	ctx := context.Background()

	seats := []string{fleetdomain.SeatLabel(1, 1), fleetdomain.SeatLabel(1, 3)}
	receipt, err := repo.BookSeats(ctx, 7, 1, seats)
	require.NoError(t, err)
	assert.Equal(t, seats, receipt.SeatIDs)
	assert.Equal(t, 2*12.75, receipt.Total)

	available, err := repo.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{fleetdomain.SeatLabel(1, 2)}, available)
}

func TestBookSeatsUnknownBus(t *testing.T) {
	repo := infrastructure.NewInMemoryBookingRepository()

	_, err := repo.BookSeats(context.Background(), 7, 42, []string{"42-1"})
	assert.True(t, pkgDomain.IsNotFound(err))
}

func TestBookSeatsPartialOverlapRollsBack(t *testing.T) {
	repo := seededRepo(t, 3, 10)
	ctx := context.Background()

	_, err := repo.BookSeats(ctx, 7, 1, []string{fleetdomain.SeatLabel(1, 1)})
	require.NoError(t, err)

	_, err = repo.BookSeats(ctx, 8, 1, []string{fleetdomain.SeatLabel(1, 2), fleetdomain.SeatLabel(1, 1)})
	require.Error(t, err)
	assert.True(t, pkgDomain.IsSeatUnavailable(err))

	available, err := repo.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, available, fleetdomain.SeatLabel(1, 2), "failed booking must not keep its other seat")
}

func TestBookSeatsDuplicateSeatInSelection(t *testing.T) {
	repo := seededRepo(t, 2, 10)
	ctx := context.Background()
	seat := fleetdomain.SeatLabel(1, 1)

	_, err := repo.BookSeats(ctx, 7, 1, []string{seat, seat})
	require.Error(t, err)
	assert.True(t, pkgDomain.IsSeatUnavailable(err), "one unsold row cannot satisfy the same seat twice")

	// The failed booking keeps both seats available.
	available, err := repo.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, available, 2)
	assert.Equal(t, 0, repo.SoldCount(1, seat))
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	repo := seededRepo(t, 1, 10)
	ctx := context.Background()
	seat := fleetdomain.SeatLabel(1, 1)

	const contenders = 16
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.BookSeats(ctx, int64(i+1), 1, []string{seat})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, pkgDomain.IsSeatUnavailable(err))
		}
	}
	assert.Equal(t, 1, winners, "exactly one booking may claim the seat")
	assert.Equal(t, 1, repo.SoldCount(1, seat), "no duplicate sold rows for one seat")
}

func TestCancelPrebooking(t *testing.T) {
	repo := seededRepo(t, 1, 10)
	ctx := context.Background()
	schedule := repo.SeedSchedule(1, "2026-09-01", "08:00", "11:30")

	prebooking, err := repo.CreatePrebooking(ctx, 7, 1, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", prebooking.PrebookDate)

	err = repo.CancelPrebooking(ctx, 8, prebooking.ID)
	assert.True(t, pkgDomain.IsNotFound(err), "another user must not cancel it")

	require.NoError(t, repo.CancelPrebooking(ctx, 7, prebooking.ID))

	mine, err := repo.PrebookingsForUser(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
