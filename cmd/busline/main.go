package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/buslinehq/busline/internal/account"
	accountapp "github.com/buslinehq/busline/internal/account/application"
	accountdomain "github.com/buslinehq/busline/internal/account/domain"
	accountinfra "github.com/buslinehq/busline/internal/account/infrastructure"
	"github.com/buslinehq/busline/internal/booking"
	bookinginfra "github.com/buslinehq/busline/internal/booking/infrastructure"
	"github.com/buslinehq/busline/internal/config"
	"github.com/buslinehq/busline/internal/fleet"
	fleetinfra "github.com/buslinehq/busline/internal/fleet/infrastructure"
	"github.com/buslinehq/busline/internal/storage"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
	pkgInfra "github.com/buslinehq/busline/pkg/infrastructure"
	kafkaAdapter "github.com/buslinehq/busline/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/buslinehq/busline/pkg/infrastructure/redis/adapter"
	wmAdapter "github.com/buslinehq/busline/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/buslinehq/busline/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	cfg := config.Load()

	db, err := storage.Open(cfg)
	if err != nil {
		appLogger.Error(ctx, "error opening storage", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	commandBus := pkgInfra.NewSimpleCommandBus(appLogger)
	queryBus := pkgInfra.NewSimpleQueryBus()

	eventBus, err := newEventBus(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, "error initializing event transport", map[string]interface{}{
			"transport": cfg.EventTransport,
			"error":     err,
		})
		os.Exit(1)
	}

	tokenGenerator := pkgDomain.IDGenerator[string](func() string {
		return uuid.New().String()
	})
	sessions := accountapp.NewSessionRegistry(tokenGenerator)

	userRepo := accountinfra.NewGormUserRepository(db, appLogger)
	fleetRepo := fleetinfra.NewGormFleetRepository(db, appLogger)
	bookingRepo := bookinginfra.NewGormBookingRepository(db, appLogger)

	if err := seedAdmin(ctx, userRepo, cfg); err != nil {
		appLogger.Error(ctx, "error seeding admin account", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	accountSlice := account.NewAccountSlice(commandBus, queryBus, eventBus, sessions, userRepo, appLogger)
	fleetSlice := fleet.NewFleetSlice(commandBus, queryBus, fleetRepo, appLogger)
	bookingSlice := booking.NewBookingSlice(commandBus, queryBus, eventBus, bookingRepo, appLogger)

	router := chi.NewRouter()
	router.Use(requestID)

	accountSlice.RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(accountinfra.RequireSession(sessions))
		bookingSlice.RegisterRoutes(r)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(accountinfra.RequireSession(sessions))
		r.Use(accountinfra.RequireAdmin)
		fleetSlice.RegisterRoutes(r)
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "signal received", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "server starting on "+cfg.ListenAddr, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "error starting server", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "shutting down server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "error shutting down server", map[string]interface{}{"error": err})
	}

	appLogger.Info(context.Background(), "server stopped", nil)
}

// newEventBus picks the event transport by configuration. The default
// gochannel transport keeps everything in-process; redis streams and
// kafka fan events out to other consumers.
func newEventBus(cfg config.Config, appLogger pkgApp.AppLogger) (pkgApp.EventBus, error) {
	wmLogger := wmAdapter.NewWatermillLoggerAdapter(appLogger)

	var (
		publisher  message.Publisher
		subscriber message.Subscriber
		err        error
	)
	switch cfg.EventTransport {
	case "channel":
		channel := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		publisher, subscriber = channel, channel
	case "redis":
		client := redisAdapter.NewRedisClient(cfg.RedisAddr)
		publisher, subscriber, err = redisAdapter.NewRedisPubSub(client, wmLogger)
	case "kafka":
		publisher, subscriber, err = kafkaAdapter.NewKafkaPubSub(cfg.KafkaBrokers, wmLogger)
	default:
		return nil, fmt.Errorf("unknown event transport %q", cfg.EventTransport)
	}
	if err != nil {
		return nil, err
	}
	return wmAdapter.NewWatermillEventBus(publisher, subscriber, appLogger), nil
}

// seedAdmin creates the administrator account once. Signup only ever
// produces regular users, so the admin has to exist before first login.
func seedAdmin(ctx context.Context, users accountdomain.UserRepository, cfg config.Config) error {
	_, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !pkgDomain.IsNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := accountdomain.User{
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         accountdomain.RoleAdmin,
	}
	return users.Create(ctx, &admin)
}

// requestID tags every request with a correlation id the logger picks up.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(zapAdapter.WithRequestID(r.Context(), id)))
	})
}
