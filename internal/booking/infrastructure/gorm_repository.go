package infrastructure

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/buslinehq/busline/internal/booking/domain"
	fleetdomain "github.com/buslinehq/busline/internal/fleet/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type gormBookingRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

func NewGormBookingRepository(db *gorm.DB, logger pkgApp.AppLogger) domain.BookingRepository {
	return &gormBookingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormBookingRepository) SearchBuses(ctx context.Context, term string) ([]domain.BusSummary, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var rows []domain.BusSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			buses.id AS bus_id,
			buses.name AS name,
			buses.number AS number,
			buses.ticket_price AS ticket_price,
			buses.capacity AS capacity,
			routes.route_name AS route_name
		FROM buses
		JOIN routes ON buses.route_id = routes.id
		WHERE LOWER(buses.name) LIKE ? OR LOWER(routes.route_name) LIKE ?
		ORDER BY buses.id`, pattern, pattern).Scan(&rows).Error
	if err != nil {
		return nil, &pkgDomain.StorageError{Op: "search buses", Err: err}
	}
	return rows, nil
}

func (r *gormBookingRepository) AvailableSeats(ctx context.Context, busID int64) ([]string, error) {
	var seats []string
	err := r.db.WithContext(ctx).
		Model(&fleetdomain.Ticket{}).
		Where("bus_id = ? AND status = ?", busID, fleetdomain.TicketUnsold).
		Order("seat_number").
		Pluck("seat_id", &seats).Error
	if err != nil {
		return nil, &pkgDomain.StorageError{Op: "list available seats", Err: err}
	}
	return seats, nil
}

func (r *gormBookingRepository) SchedulesForBus(ctx context.Context, busID int64) ([]fleetdomain.Schedule, error) {
	var schedules []fleetdomain.Schedule
	err := r.db.WithContext(ctx).
		Where("bus_id = ?", busID).
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, &pkgDomain.StorageError{Op: "list schedules", Err: err}
	}
	return schedules, nil
}

// BookSeats claims every requested seat in one transaction. The
// compare-and-set on status makes losing a race a SeatUnavailableError
// and rolls the whole booking back.
func (r *gormBookingRepository) BookSeats(ctx context.Context, userID, busID int64, seatIDs []string) (domain.Receipt, error) {
	var receipt domain.Receipt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bus fleetdomain.Bus
		if err := tx.First(&bus, busID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &pkgDomain.NotFoundError{Entity: "bus", Key: busID}
			}
			return &pkgDomain.StorageError{Op: "find bus", Err: err}
		}

		for _, seatID := range seatIDs {
			result := tx.Model(&fleetdomain.Ticket{}).
				Where("bus_id = ? AND seat_id = ? AND status = ?", busID, seatID, fleetdomain.TicketUnsold).
				Updates(map[string]any{"status": fleetdomain.TicketSold, "user_id": userID})
			if result.Error != nil {
				return &pkgDomain.StorageError{Op: "claim seat", Err: result.Error}
			}
			if result.RowsAffected == 0 {
				return &pkgDomain.SeatUnavailableError{SeatIDs: []string{seatID}}
			}
		}

		receipt = domain.Receipt{
			BusID:   busID,
			SeatIDs: seatIDs,
			Total:   float64(len(seatIDs)) * bus.TicketPrice,
		}
		return nil
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	return receipt, nil
}

func (r *gormBookingRepository) CreatePrebooking(ctx context.Context, userID, busID, scheduleID int64) (domain.Prebooking, error) {
	var schedule fleetdomain.Schedule
	err := r.db.WithContext(ctx).
		Where("id = ? AND bus_id = ?", scheduleID, busID).
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Prebooking{}, &pkgDomain.NotFoundError{Entity: "schedule", Key: scheduleID}
	}
	if err != nil {
		return domain.Prebooking{}, &pkgDomain.StorageError{Op: "find schedule", Err: err}
	}

	prebooking := domain.Prebooking{
		UserID:      userID,
		BusID:       busID,
		PrebookDate: schedule.DepartureDate,
	}
	if err := r.db.WithContext(ctx).Create(&prebooking).Error; err != nil {
		return domain.Prebooking{}, &pkgDomain.StorageError{Op: "create prebooking", Err: err}
	}
	return prebooking, nil
}

func (r *gormBookingRepository) TicketsForUser(ctx context.Context, userID int64) ([]domain.TicketSummary, error) {
	var rows []domain.TicketSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			tickets.id AS ticket_id,
			buses.name AS bus_name,
			routes.route_name AS route_name,
			tickets.seat_number AS seat_number,
			tickets.seat_id AS seat_id,
			tickets.price AS price
		FROM tickets
		JOIN buses ON tickets.bus_id = buses.id
		JOIN routes ON buses.route_id = routes.id
		WHERE tickets.user_id = ? AND tickets.status = ?
		ORDER BY tickets.id`, userID, fleetdomain.TicketSold).Scan(&rows).Error
	if err != nil {
		return nil, &pkgDomain.StorageError{Op: "list user tickets", Err: err}
	}
	return rows, nil
}

func (r *gormBookingRepository) PrebookingsForUser(ctx context.Context, userID int64) ([]domain.PrebookingSummary, error) {
	var rows []domain.PrebookingSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			prebookings.id AS prebook_id,
			buses.name AS bus_name,
			routes.route_name AS route_name,
			prebookings.prebook_date AS prebook_date
		FROM prebookings
		JOIN buses ON prebookings.bus_id = buses.id
		JOIN routes ON buses.route_id = routes.id
		WHERE prebookings.user_id = ?
		ORDER BY prebookings.id`, userID).Scan(&rows).Error
	if err != nil {
		return nil, &pkgDomain.StorageError{Op: "list user prebookings", Err: err}
	}
	return rows, nil
}

// CancelTicket deletes the row only when the owner matches; the user id
// in the predicate is the authorization check.
func (r *gormBookingRepository) CancelTicket(ctx context.Context, userID, ticketID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", ticketID, userID).
		Delete(&fleetdomain.Ticket{})
	if result.Error != nil {
		return &pkgDomain.StorageError{Op: "cancel ticket", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &pkgDomain.NotFoundError{Entity: "ticket", Key: ticketID}
	}
	return nil
}

func (r *gormBookingRepository) CancelPrebooking(ctx context.Context, userID, prebookID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", prebookID, userID).
		Delete(&domain.Prebooking{})
	if result.Error != nil {
		return &pkgDomain.StorageError{Op: "cancel prebooking", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &pkgDomain.NotFoundError{Entity: "prebooking", Key: prebookID}
	}
	return nil
}
