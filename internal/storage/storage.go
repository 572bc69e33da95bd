package storage

import (
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	accountdomain "github.com/buslinehq/busline/internal/account/domain"
	bookingdomain "github.com/buslinehq/busline/internal/booking/domain"
	"github.com/buslinehq/busline/internal/config"
	fleetdomain "github.com/buslinehq/busline/internal/fleet/domain"
)

// Open connects to the database and migrates the schema. The default is a
// local sqlite file; a postgres DSN switches drivers. TranslateError is on
// so unique-constraint violations surface as gorm.ErrDuplicatedKey for the
// repositories to map.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.PostgresDSN != "" {
		dialector = postgres.Open(cfg.PostgresDSN)
	} else {
		dialector = sqlite.Open(cfg.DatabasePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&accountdomain.User{},
		&fleetdomain.Driver{},
		&fleetdomain.Route{},
		&fleetdomain.Bus{},
		&fleetdomain.DriverAssignment{},
		&fleetdomain.Schedule{},
		&fleetdomain.Ticket{},
		&bookingdomain.Prebooking{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
