package ride

import (
	"context"
	"errors"
	"time"
)

// Store sentinels.
var (
	ErrNotFound  = errors.New("ride not found")
	ErrDuplicate = errors.New("ride id already exists")
)

// Status represents ride status
type Status string

const (
	StatusBooked    Status = "booked"
	StatusAccepted  Status = "accepted"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Point is a geographic coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Ride represents a booked ride. RideID is the external identifier; the
// storage layer keys rows by its own surrogate key and enforces RideID
// uniqueness with a constraint.
type Ride struct {
	RideID         string    `json:"rideId"`
	RiderID        string    `json:"userId"`
	Origin         Point     `json:"origin"`
	Destination    Point     `json:"destination"`
	Stops          []Point   `json:"stops"`
	DistanceKM     float64   `json:"distance_km"`
	Price          int64     `json:"price"`
	DriverName     string    `json:"driverName"`
	DriverLocation Point     `json:"driverLocation"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store persists rides. Lookups are ownership-scoped: a ride that exists but
// belongs to another rider is indistinguishable from one that does not exist.
type Store interface {
	Insert(ctx context.Context, r *Ride) error
	FindByOwnerAndID(ctx context.Context, ownerID, rideID string) (*Ride, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]*Ride, error)
	Update(ctx context.Context, r *Ride) error
}

// IsTerminal reports whether no further status transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanCancel reports whether the ride may move to cancelled. The upstream
// contract allows cancelling from any state, including a second cancel of an
// already cancelled ride; the completed guard is applied by the service only
// when explicitly configured.
func (r *Ride) CanCancel(guardTerminal bool) bool {
	if guardTerminal && r.Status == StatusCompleted {
		return false
	}
	return true
}
