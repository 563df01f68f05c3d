package rider

import (
	"context"
	"errors"
	"time"
)

// Store sentinels.
var (
	ErrNotFound   = errors.New("rider not found")
	ErrEmailTaken = errors.New("email already registered")
)

const defaultImage = "https://cdn.swiftride.app/avatars/default.png"

// Address is a rider's saved address book entry.
type Address struct {
	Label      string  `json:"label"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lng"`
	IsActive   bool    `json:"isActive"`
}

// Rider represents a rider account. PasswordHash never leaves the storage
// boundary: it is stripped before the record is attached to request context.
type Rider struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber"`
	Gender       string    `json:"gender,omitempty"`
	Image        string    `json:"image"`
	Address      Address   `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// New builds a rider with defaults applied.
func New(id, fullName, email, passwordHash string) *Rider {
	now := time.Now().UTC()
	return &Rider{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Image:        defaultImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Sanitized returns a copy safe to attach to request context.
func (r *Rider) Sanitized() *Rider {
	clean := *r
	clean.PasswordHash = ""
	return &clean
}

// Store defines the interface for rider data access
type Store interface {
	Create(ctx context.Context, r *Rider) error
	FindByID(ctx context.Context, id string) (*Rider, error)
	FindByEmail(ctx context.Context, email string) (*Rider, error)
	Update(ctx context.Context, r *Rider) error
	Delete(ctx context.Context, id string) error
}
