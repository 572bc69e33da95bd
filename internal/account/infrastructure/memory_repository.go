package infrastructure

import (
	"context"
	"sync"

	"github.com/buslinehq/busline/internal/account/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

// InMemoryUserRepository mirrors the gorm repository's semantics for tests
// and transport-only runs.
type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[int64]domain.User
	byEmail map[string]int64
	nextID  int64
	logger  pkgApp.AppLogger
}

func NewInMemoryUserRepository(logger pkgApp.AppLogger) *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
		logger:  logger,
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return &pkgDomain.ConflictError{Reason: "email already registered"}
	}

	r.nextID++
	user.ID = r.nextID
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID

	pkgApp.LogInfo(ctx, r.logger, "user saved", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, &pkgDomain.NotFoundError{Entity: "user", Key: email}
	}
	return r.byID[id], nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, &pkgDomain.NotFoundError{Entity: "user", Key: id}
	}
	return user, nil
}

// Count reports the number of stored users.
func (r *InMemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
