package domain

import "context"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-" gorm:"column:password"`
	Role         string `json:"role" gorm:"default:user"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserRepository interface {
	// Create inserts the user and fills in its id. A duplicate email is a
	// ConflictError.
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
}
