package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/buslinehq/busline/internal/fleet/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type gormFleetRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

func NewGormFleetRepository(db *gorm.DB, logger pkgApp.AppLogger) domain.FleetRepository {
	return &gormFleetRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormFleetRepository) CreateDriver(ctx context.Context, driver *domain.Driver) error {
	if err := r.db.WithContext(ctx).Create(driver).Error; err != nil {
		return &pkgDomain.StorageError{Op: "create driver", Err: err}
	}
	return nil
}

func (r *gormFleetRepository) UpdateDriver(ctx context.Context, driver domain.Driver) error {
	return r.saveExisting(ctx, "driver", driver.ID, &domain.Driver{}, &driver)
}

func (r *gormFleetRepository) DeleteDriver(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "driver", id, &domain.Driver{})
}

func (r *gormFleetRepository) ListDrivers(ctx context.Context) ([]domain.Driver, error) {
	var drivers []domain.Driver
	if err := r.db.WithContext(ctx).Order("id").Find(&drivers).Error; err != nil {
		return nil, &pkgDomain.StorageError{Op: "list drivers", Err: err}
	}
	return drivers, nil
}

func (r *gormFleetRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	if err := r.db.WithContext(ctx).Create(route).Error; err != nil {
		return &pkgDomain.StorageError{Op: "create route", Err: err}
	}
	return nil
}

func (r *gormFleetRepository) UpdateRoute(ctx context.Context, route domain.Route) error {
	return r.saveExisting(ctx, "route", route.ID, &domain.Route{}, &route)
}

func (r *gormFleetRepository) DeleteRoute(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "route", id, &domain.Route{})
}

func (r *gormFleetRepository) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	var routes []domain.Route
	if err := r.db.WithContext(ctx).Order("id").Find(&routes).Error; err != nil {
		return nil, &pkgDomain.StorageError{Op: "list routes", Err: err}
	}
	return routes, nil
}

// RegisterBus runs the whole composite creation in one transaction: the
// route, the bus, its first schedule and the driver assignments either all
// persist or none do.
func (r *gormFleetRepository) RegisterBus(ctx context.Context, registration domain.BusRegistration) (domain.Bus, error) {
	var bus domain.Bus

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		driverIDs := []int64{registration.DriverID1}
		if registration.DriverID2 != nil {
			driverIDs = append(driverIDs, *registration.DriverID2)
		}
		for _, driverID := range driverIDs {
			var count int64
			if err := tx.Model(&domain.Driver{}).Where("id = ?", driverID).Count(&count).Error; err != nil {
				return &pkgDomain.StorageError{Op: "check driver", Err: err}
			}
			if count == 0 {
				return &pkgDomain.ValidationError{Reason: fmt.Sprintf("driver %d does not exist", driverID)}
			}
		}

		route := domain.Route{
			Name:  registration.RouteName,
			Stops: strings.Join(registration.Stops, ","),
		}
		if err := tx.Create(&route).Error; err != nil {
			return &pkgDomain.StorageError{Op: "create route", Err: err}
		}

		bus = domain.Bus{
			Name:        registration.Name,
			Number:      registration.Number,
			RouteID:     route.ID,
			TicketPrice: registration.TicketPrice,
			Capacity:    registration.Capacity,
			DriverID1:   registration.DriverID1,
			DriverID2:   registration.DriverID2,
		}
		if err := tx.Create(&bus).Error; err != nil {
			return &pkgDomain.StorageError{Op: "create bus", Err: err}
		}

		schedule := domain.Schedule{
			BusID:         bus.ID,
			RouteID:       route.ID,
			DepartureDate: registration.DepartureDate,
			DepartureTime: registration.DepartureTime,
			ArrivalTime:   registration.ArrivalTime,
		}
		if err := tx.Create(&schedule).Error; err != nil {
			return &pkgDomain.StorageError{Op: "create schedule", Err: err}
		}

		for _, driverID := range driverIDs {
			assignment := domain.DriverAssignment{BusID: bus.ID, DriverID: driverID}
			if err := tx.Create(&assignment).Error; err != nil {
				return &pkgDomain.StorageError{Op: "create driver assignment", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return domain.Bus{}, err
	}

	pkgApp.LogInfo(ctx, r.logger, "bus registered", map[string]interface{}{
		"bus_id": bus.ID,
	})
	return bus, nil
}

func (r *gormFleetRepository) UpdateBus(ctx context.Context, bus domain.Bus) error {
	return r.saveExisting(ctx, "bus", bus.ID, &domain.Bus{}, &bus)
}

// RemoveBus deletes the bus with its schedules, driver assignments and
// unsold inventory. Sold tickets and prebookings block the delete.
func (r *gormFleetRepository) RemoveBus(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bus domain.Bus
		if err := tx.First(&bus, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &pkgDomain.NotFoundError{Entity: "bus", Key: id}
			}
			return &pkgDomain.StorageError{Op: "find bus", Err: err}
		}

		var soldCount int64
		if err := tx.Model(&domain.Ticket{}).
			Where("bus_id = ? AND status = ?", id, domain.TicketSold).
			Count(&soldCount).Error; err != nil {
			return &pkgDomain.StorageError{Op: "count sold tickets", Err: err}
		}
		if soldCount > 0 {
			return &pkgDomain.ConflictError{Reason: fmt.Sprintf("bus %d has %d sold tickets", id, soldCount)}
		}

		var prebookCount int64
		if err := tx.Table("prebookings").Where("bus_id = ?", id).Count(&prebookCount).Error; err != nil {
			return &pkgDomain.StorageError{Op: "count prebookings", Err: err}
		}
		if prebookCount > 0 {
			return &pkgDomain.ConflictError{Reason: fmt.Sprintf("bus %d has %d prebookings", id, prebookCount)}
		}

		if err := tx.Where("bus_id = ?", id).Delete(&domain.Schedule{}).Error; err != nil {
			return &pkgDomain.StorageError{Op: "delete schedules", Err: err}
		}
		if err := tx.Where("bus_id = ?", id).Delete(&domain.DriverAssignment{}).Error; err != nil {
			return &pkgDomain.StorageError{Op: "delete driver assignments", Err: err}
		}
		if err := tx.Where("bus_id = ?", id).Delete(&domain.Ticket{}).Error; err != nil {
			return &pkgDomain.StorageError{Op: "delete tickets", Err: err}
		}
		if err := tx.Delete(&domain.Bus{}, id).Error; err != nil {
			return &pkgDomain.StorageError{Op: "delete bus", Err: err}
		}
		return nil
	})
}

func (r *gormFleetRepository) FindBus(ctx context.Context, id int64) (domain.Bus, error) {
	var bus domain.Bus
	err := r.db.WithContext(ctx).First(&bus, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Bus{}, &pkgDomain.NotFoundError{Entity: "bus", Key: id}
	}
	if err != nil {
		return domain.Bus{}, &pkgDomain.StorageError{Op: "find bus", Err: err}
	}
	return bus, nil
}

func (r *gormFleetRepository) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	var buses []domain.Bus
	if err := r.db.WithContext(ctx).Order("id").Find(&buses).Error; err != nil {
		return nil, &pkgDomain.StorageError{Op: "list buses", Err: err}
	}
	return buses, nil
}

func (r *gormFleetRepository) CreateSchedule(ctx context.Context, schedule *domain.Schedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return &pkgDomain.StorageError{Op: "create schedule", Err: err}
	}
	return nil
}

func (r *gormFleetRepository) UpdateSchedule(ctx context.Context, schedule domain.Schedule) error {
	return r.saveExisting(ctx, "schedule", schedule.ID, &domain.Schedule{}, &schedule)
}

func (r *gormFleetRepository) DeleteSchedule(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "schedule", id, &domain.Schedule{})
}

func (r *gormFleetRepository) ListSchedules(ctx context.Context, busID int64) ([]domain.Schedule, error) {
	var schedules []domain.Schedule
	if err := r.db.WithContext(ctx).Where("bus_id = ?", busID).Order("id").Find(&schedules).Error; err != nil {
		return nil, &pkgDomain.StorageError{Op: "list schedules", Err: err}
	}
	return schedules, nil
}

func (r *gormFleetRepository) AddTicket(ctx context.Context, ticket *domain.Ticket) error {
	ticket.SeatID = domain.SeatLabel(ticket.BusID, ticket.SeatNumber)
	if ticket.Status == "" {
		ticket.Status = domain.TicketUnsold
	}
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &pkgDomain.ConflictError{Reason: fmt.Sprintf("seat %s already exists on bus %d", ticket.SeatID, ticket.BusID)}
		}
		return &pkgDomain.StorageError{Op: "add ticket", Err: err}
	}
	return nil
}

func (r *gormFleetRepository) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	var existing domain.Ticket
	err := r.db.WithContext(ctx).First(&existing, ticket.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &pkgDomain.NotFoundError{Entity: "ticket", Key: ticket.ID}
	}
	if err != nil {
		return &pkgDomain.StorageError{Op: "find ticket", Err: err}
	}

	existing.BusID = ticket.BusID
	existing.SeatNumber = ticket.SeatNumber
	existing.SeatID = domain.SeatLabel(ticket.BusID, ticket.SeatNumber)
	existing.Price = ticket.Price
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return &pkgDomain.StorageError{Op: "update ticket", Err: err}
	}
	return nil
}

func (r *gormFleetRepository) DeleteTicket(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "ticket", id, &domain.Ticket{})
}

func (r *gormFleetRepository) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := r.db.WithContext(ctx).Order("id").Find(&tickets).Error; err != nil {
		return nil, &pkgDomain.StorageError{Op: "list tickets", Err: err}
	}
	return tickets, nil
}

// Report is the operator's system overview: one row per bus with route,
// drivers, unsold-ticket count and first schedule.
func (r *gormFleetRepository) Report(ctx context.Context) ([]domain.ReportRow, error) {
	var rows []domain.ReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			buses.id AS bus_id,
			buses.name AS bus_name,
			routes.route_name AS route_name,
			d1.name AS driver_name,
			d2.name AS co_driver_name,
			COUNT(tickets.id) AS available_tickets,
			schedules.departure_date AS departure_date,
			schedules.departure_time AS departure_time,
			schedules.arrival_time AS arrival_time
		FROM buses
		LEFT JOIN routes ON buses.route_id = routes.id
		LEFT JOIN drivers d1 ON buses.driver_id1 = d1.id
		LEFT JOIN drivers d2 ON buses.driver_id2 = d2.id
		LEFT JOIN tickets ON buses.id = tickets.bus_id AND tickets.status = ?
		LEFT JOIN schedules ON buses.id = schedules.bus_id
		GROUP BY
			buses.id, buses.name, routes.route_name, d1.name, d2.name,
			schedules.departure_date, schedules.departure_time, schedules.arrival_time
		ORDER BY buses.id`, domain.TicketUnsold).Scan(&rows).Error
	if err != nil {
		return nil, &pkgDomain.StorageError{Op: "fleet report", Err: err}
	}
	return rows, nil
}

// saveExisting replaces an existing row's fields; a missing id is a
// NotFoundError.
func (r *gormFleetRepository) saveExisting(ctx context.Context, entity string, id int64, probe, value any) error {
	err := r.db.WithContext(ctx).First(probe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &pkgDomain.NotFoundError{Entity: entity, Key: id}
	}
	if err != nil {
		return &pkgDomain.StorageError{Op: "find " + entity, Err: err}
	}
	if err := r.db.WithContext(ctx).Save(value).Error; err != nil {
		return &pkgDomain.StorageError{Op: "update " + entity, Err: err}
	}
	return nil
}

func (r *gormFleetRepository) deleteByID(ctx context.Context, entity string, id int64, model any) error {
	result := r.db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return &pkgDomain.StorageError{Op: "delete " + entity, Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &pkgDomain.NotFoundError{Entity: entity, Key: id}
	}
	return nil
}
