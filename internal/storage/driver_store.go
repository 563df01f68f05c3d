package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/swiftride/backend/internal/domain/driver"
)

// DriverStore persists driver accounts in PostgreSQL.
type DriverStore struct {
	db *sql.DB
}

// NewDriverStore creates a driver store backed by the given pool.
func NewDriverStore(db *sql.DB) *DriverStore {
	return &DriverStore{db: db}
}

const driverColumns = `
	id, full_name, mobile_number, password_hash, otp, age, skill, experience,
	email, gender, city, profile_picture,
	bank_image_url, bank_ifsc, bank_name, bank_account_no,
	licence_front, licence_back, licence_no,
	is_verified, is_mobile_verified, location_lat, location_lng, regi_status,
	created_at, updated_at`

// Create inserts a new driver. Returns driver.ErrMobileTaken on a duplicate
// mobile number.
func (s *DriverStore) Create(ctx context.Context, d *driver.Driver) error {
	lat, lng := locationColumns(d.Location)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drivers (`+driverColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
	`, d.ID, d.FullName, d.MobileNumber, d.PasswordHash, d.OTP, d.Age, d.Skill, d.Experience,
		d.Email, d.Gender, d.City, d.ProfilePicture,
		d.BankAccount.ImageURL, d.BankAccount.IFSC, d.BankAccount.Bank, d.BankAccount.AccountNo,
		d.DrivingLicence.FrontImage, d.DrivingLicence.BackImage, d.DrivingLicence.LicenceNo,
		d.IsVerified, d.IsMobileVerified, lat, lng, d.RegiStatus,
		d.CreatedAt, d.UpdatedAt)

	if isUniqueViolation(err) {
		return driver.ErrMobileTaken
	}
	return err
}

// FindByID returns the driver or driver.ErrNotFound.
func (s *DriverStore) FindByID(ctx context.Context, id string) (*driver.Driver, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

// FindByMobile returns the driver or driver.ErrNotFound.
func (s *DriverStore) FindByMobile(ctx context.Context, mobileNumber string) (*driver.Driver, error) {
	return s.findOne(ctx, `WHERE mobile_number = $1`, mobileNumber)
}

// Update rewrites the driver's mutable profile fields.
func (s *DriverStore) Update(ctx context.Context, d *driver.Driver) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE drivers
		SET full_name = $1, age = $2, skill = $3, experience = $4, email = $5,
		    gender = $6, city = $7, profile_picture = $8,
		    bank_image_url = $9, bank_ifsc = $10, bank_name = $11, bank_account_no = $12,
		    licence_front = $13, licence_back = $14, licence_no = $15,
		    is_verified = $16, is_mobile_verified = $17, regi_status = $18,
		    updated_at = $19
		WHERE id = $20
	`, d.FullName, d.Age, d.Skill, d.Experience, d.Email,
		d.Gender, d.City, d.ProfilePicture,
		d.BankAccount.ImageURL, d.BankAccount.IFSC, d.BankAccount.Bank, d.BankAccount.AccountNo,
		d.DrivingLicence.FrontImage, d.DrivingLicence.BackImage, d.DrivingLicence.LicenceNo,
		d.IsVerified, d.IsMobileVerified, d.RegiStatus,
		d.UpdatedAt, d.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return driver.ErrNotFound
	}
	return nil
}

// UpdateLocation writes the driver's last reported position and returns the
// refreshed record. A single field write, not a streaming feed.
func (s *DriverStore) UpdateLocation(ctx context.Context, id string, loc driver.Location) (*driver.Driver, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE drivers SET location_lat = $1, location_lng = $2, updated_at = $3 WHERE id = $4
	`, loc.Latitude, loc.Longitude, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, driver.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *DriverStore) findOne(ctx context.Context, where string, arg any) (*driver.Driver, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers `+where, arg)

	var d driver.Driver
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&d.ID, &d.FullName, &d.MobileNumber, &d.PasswordHash, &d.OTP,
		&d.Age, &d.Skill, &d.Experience,
		&d.Email, &d.Gender, &d.City, &d.ProfilePicture,
		&d.BankAccount.ImageURL, &d.BankAccount.IFSC, &d.BankAccount.Bank, &d.BankAccount.AccountNo,
		&d.DrivingLicence.FrontImage, &d.DrivingLicence.BackImage, &d.DrivingLicence.LicenceNo,
		&d.IsVerified, &d.IsMobileVerified, &lat, &lng, &d.RegiStatus,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driver.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		d.Location = &driver.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return &d, nil
}

func locationColumns(loc *driver.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude, Valid: true},
		sql.NullFloat64{Float64: loc.Longitude, Valid: true}
}
