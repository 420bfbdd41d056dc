package domain

import (
	"context"
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// User is one entry in the credential provider's claim store. Accounts and
// passwords live with the provider; this record only carries identity and
// the role claim the provider bakes into tokens.
type User struct {
	ID          string    `bson:"_id,omitempty" json:"uid"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Role        string    `bson:"role" json:"role"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Directory reads and writes the claim store.
type Directory interface {
	// Ensure upserts an identity observed in a verified token.
	Ensure(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	SetRole(ctx context.Context, id, role string) error
	EmailsByIDs(ctx context.Context, ids []string) (map[string]string, error)
}
