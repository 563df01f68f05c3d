package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/swiftride/backend/internal/domain/ride"
)

// RideStore persists rides in PostgreSQL. Rows are keyed by a surrogate
// primary key; ride_id carries a UNIQUE constraint so the external identifier
// is never the storage key and duplicate inserts fail at the database.
type RideStore struct {
	db *sql.DB
}

// NewRideStore creates a ride store backed by the given pool.
func NewRideStore(db *sql.DB) *RideStore {
	return &RideStore{db: db}
}

// Insert persists a new ride. Returns ride.ErrDuplicate when ride_id
// collides with an existing row.
func (s *RideStore) Insert(ctx context.Context, r *ride.Ride) error {
	stops, err := json.Marshal(r.Stops)
	if err != nil {
		return fmt.Errorf("marshal stops: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rides (
			ride_id, rider_id,
			origin_lat, origin_lng, dest_lat, dest_lng, stops,
			distance_km, price, driver_name, driver_lat, driver_lng,
			status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.RideID, r.RiderID,
		r.Origin.Latitude, r.Origin.Longitude,
		r.Destination.Latitude, r.Destination.Longitude, stops,
		r.DistanceKM, r.Price, r.DriverName,
		r.DriverLocation.Latitude, r.DriverLocation.Longitude,
		r.Status, r.CreatedAt)

	if isUniqueViolation(err) {
		return ride.ErrDuplicate
	}
	return err
}

// FindByOwnerAndID returns the ride matching both identifiers, or
// ride.ErrNotFound. Ownership is part of the predicate: rides owned by
// someone else look exactly like rides that do not exist.
func (s *RideStore) FindByOwnerAndID(ctx context.Context, ownerID, rideID string) (*ride.Ride, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ride_id, rider_id,
		       origin_lat, origin_lng, dest_lat, dest_lng, stops,
		       distance_km, price, driver_name, driver_lat, driver_lng,
		       status, created_at
		FROM rides
		WHERE rider_id = $1 AND ride_id = $2
	`, ownerID, rideID)

	r, err := scanRide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ride.ErrNotFound
	}
	return r, err
}

// FindAllByOwner returns the rider's rides, most recent first.
func (s *RideStore) FindAllByOwner(ctx context.Context, ownerID string) ([]*ride.Ride, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ride_id, rider_id,
		       origin_lat, origin_lng, dest_lat, dest_lng, stops,
		       distance_km, price, driver_name, driver_lat, driver_lng,
		       status, created_at
		FROM rides
		WHERE rider_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []*ride.Ride{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, rows.Err()
}

// Update rewrites the mutable portion of the ride. Concurrent updates to the
// same row are last-write-wins; there is no optimistic concurrency token.
func (s *RideStore) Update(ctx context.Context, r *ride.Ride) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rides
		SET status = $1, driver_name = $2, driver_lat = $3, driver_lng = $4
		WHERE ride_id = $5
	`, r.Status, r.DriverName, r.DriverLocation.Latitude, r.DriverLocation.Longitude, r.RideID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ride.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	var r ride.Ride
	var stops []byte
	err := row.Scan(
		&r.RideID, &r.RiderID,
		&r.Origin.Latitude, &r.Origin.Longitude,
		&r.Destination.Latitude, &r.Destination.Longitude, &stops,
		&r.DistanceKM, &r.Price, &r.DriverName,
		&r.DriverLocation.Latitude, &r.DriverLocation.Longitude,
		&r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(stops) > 0 {
		if err := json.Unmarshal(stops, &r.Stops); err != nil {
			return nil, fmt.Errorf("unmarshal stops: %w", err)
		}
	}
	if r.Stops == nil {
		r.Stops = []ride.Point{}
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
