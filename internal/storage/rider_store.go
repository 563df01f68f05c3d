package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/swiftride/backend/internal/domain/rider"
)

// RiderStore persists rider accounts in PostgreSQL.
type RiderStore struct {
	db *sql.DB
}

// NewRiderStore creates a rider store backed by the given pool.
func NewRiderStore(db *sql.DB) *RiderStore {
	return &RiderStore{db: db}
}

const riderColumns = `
	id, full_name, email, password_hash, phone_number, gender, image,
	addr_label, addr_street, addr_city, addr_state, addr_postal_code,
	addr_country, addr_lat, addr_lng, addr_active,
	created_at, updated_at`

// Create inserts a new rider. Returns rider.ErrEmailTaken on a duplicate
// email.
func (s *RiderStore) Create(ctx context.Context, r *rider.Rider) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO riders (`+riderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`, r.ID, r.FullName, strings.ToLower(r.Email), r.PasswordHash, r.PhoneNumber, r.Gender, r.Image,
		r.Address.Label, r.Address.Street, r.Address.City, r.Address.State, r.Address.PostalCode,
		r.Address.Country, r.Address.Latitude, r.Address.Longitude, r.Address.IsActive,
		r.CreatedAt, r.UpdatedAt)

	if isUniqueViolation(err) {
		return rider.ErrEmailTaken
	}
	return err
}

// FindByID returns the rider or rider.ErrNotFound.
func (s *RiderStore) FindByID(ctx context.Context, id string) (*rider.Rider, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

// FindByEmail returns the rider or rider.ErrNotFound. Matching is
// case-insensitive; emails are stored lowercased.
func (s *RiderStore) FindByEmail(ctx context.Context, email string) (*rider.Rider, error) {
	return s.findOne(ctx, `WHERE email = $1`, strings.ToLower(email))
}

// Update rewrites the rider's mutable fields.
func (s *RiderStore) Update(ctx context.Context, r *rider.Rider) error {
	r.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE riders
		SET full_name = $1, phone_number = $2, gender = $3, image = $4,
		    addr_label = $5, addr_street = $6, addr_city = $7, addr_state = $8,
		    addr_postal_code = $9, addr_country = $10, addr_lat = $11,
		    addr_lng = $12, addr_active = $13, updated_at = $14
		WHERE id = $15
	`, r.FullName, r.PhoneNumber, r.Gender, r.Image,
		r.Address.Label, r.Address.Street, r.Address.City, r.Address.State,
		r.Address.PostalCode, r.Address.Country, r.Address.Latitude,
		r.Address.Longitude, r.Address.IsActive, r.UpdatedAt, r.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rider.ErrNotFound
	}
	return nil
}

// Delete removes the rider account. Cancellation of rides is a status
// change elsewhere; this is the only hard delete in the system.
func (s *RiderStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM riders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rider.ErrNotFound
	}
	return nil
}

func (s *RiderStore) findOne(ctx context.Context, where string, arg any) (*rider.Rider, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+riderColumns+` FROM riders `+where, arg)

	var r rider.Rider
	err := row.Scan(
		&r.ID, &r.FullName, &r.Email, &r.PasswordHash, &r.PhoneNumber, &r.Gender, &r.Image,
		&r.Address.Label, &r.Address.Street, &r.Address.City, &r.Address.State,
		&r.Address.PostalCode, &r.Address.Country, &r.Address.Latitude,
		&r.Address.Longitude, &r.Address.IsActive,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
