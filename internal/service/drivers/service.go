package drivers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/driver"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/validation"
)

// Service contains driver account business logic.
type Service struct {
	store    driver.Store
	tokens   *auth.TokenService
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewService wires the driver service. tokenTTL is the driver horizon
// (15 days in production), distinct from the rider flow's 7 days.
func NewService(store driver.Store, tokens *auth.TokenService, tokenTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

// RegisterRequest carries the driver registration input. The OTP is stored
// until the verification flow confirms the mobile number.
type RegisterRequest struct {
	FullName     string
	MobileNumber string
	Password     string
	RegiStatus   string
	OTP          string
}

// Register creates a driver account and returns the sanitized record plus a
// bearer token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*driver.Driver, string, error) {
	if req.FullName == "" || req.MobileNumber == "" || req.Password == "" {
		return nil, "", apperrors.BadRequest("All fields are required", nil)
	}
	if !validation.ValidMobile(req.MobileNumber) {
		return nil, "", apperrors.BadRequest("Invalid mobile number", nil)
	}
	if !validation.ValidPassword(req.Password) {
		return nil, "", apperrors.BadRequest("Password must be at least 6 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to hash password", err)
	}

	d := driver.New(uuid.NewString(), req.FullName, req.MobileNumber, string(hash))
	d.OTP = req.OTP
	if req.RegiStatus != "" {
		d.RegiStatus = req.RegiStatus
	}

	if err := s.store.Create(ctx, d); err != nil {
		if errors.Is(err, driver.ErrMobileTaken) {
			return nil, "", apperrors.ErrDriverExists
		}
		return nil, "", apperrors.Storage(err)
	}

	token, err := s.tokens.Issue(d.ID, auth.RoleDriver, s.tokenTTL)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	s.logger.Info("Driver registered", logger.String("driver_id", d.ID))
	return d.Sanitized(), token, nil
}

// Login authenticates a driver. Failures never reveal whether the mobile
// number or the password was wrong.
func (s *Service) Login(ctx context.Context, mobileNumber, password string) (*driver.Driver, string, error) {
	if mobileNumber == "" || password == "" {
		return nil, "", apperrors.BadRequest("Mobile number and password are required", nil)
	}

	d, err := s.store.FindByMobile(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Storage(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(d.ID, auth.RoleDriver, s.tokenTTL)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	return d.Sanitized(), token, nil
}

// VerifyOTP compares the submitted code with the stored one and marks the
// mobile number verified on match.
func (s *Service) VerifyOTP(ctx context.Context, mobileNumber, otp, regiStatus string) (*driver.Driver, error) {
	if otp == "" || mobileNumber == "" {
		return nil, apperrors.BadRequest("Missing OTP or mobile number", nil)
	}

	d, err := s.store.FindByMobile(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			return nil, apperrors.ErrInvalidOTP
		}
		return nil, apperrors.Storage(err)
	}
	if d.OTP == "" || d.OTP != otp {
		return nil, apperrors.ErrInvalidOTP
	}

	d.IsMobileVerified = true
	if regiStatus != "" {
		d.RegiStatus = regiStatus
	}
	if err := s.store.Update(ctx, d); err != nil {
		return nil, apperrors.Storage(err)
	}

	s.logger.Info("Driver mobile verified", logger.String("driver_id", d.ID))
	return d.Sanitized(), nil
}

// ProfileUpdate carries optional onboarding fields; empty values are left
// untouched.
type ProfileUpdate struct {
	FullName       string
	Age            string
	Skill          string
	Experience     string
	Email          string
	Gender         string
	City           string
	ProfilePicture string
	BankAccount    *driver.BankAccount
	DrivingLicence *driver.DrivingLicence
	RegiStatus     string
}

// UpdateProfile applies onboarding fields to the driver identified by mobile
// number.
func (s *Service) UpdateProfile(ctx context.Context, mobileNumber string, update ProfileUpdate) (*driver.Driver, error) {
	if mobileNumber == "" {
		return nil, apperrors.BadRequest("Mobile number is required for update", nil)
	}

	d, err := s.store.FindByMobile(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			return nil, apperrors.ErrDriverNotFound
		}
		return nil, apperrors.Storage(err)
	}

	if update.FullName != "" {
		d.FullName = update.FullName
	}
	if update.Age != "" {
		d.Age = update.Age
	}
	if update.Skill != "" {
		d.Skill = update.Skill
	}
	if update.Experience != "" {
		d.Experience = update.Experience
	}
	if update.Email != "" {
		d.Email = update.Email
	}
	if update.Gender != "" {
		d.Gender = update.Gender
	}
	if update.City != "" {
		d.City = update.City
	}
	if update.ProfilePicture != "" {
		d.ProfilePicture = update.ProfilePicture
	}
	if update.BankAccount != nil {
		d.BankAccount = *update.BankAccount
	}
	if update.DrivingLicence != nil {
		d.DrivingLicence = *update.DrivingLicence
	}
	if update.RegiStatus != "" {
		d.RegiStatus = update.RegiStatus
	}

	if err := s.store.Update(ctx, d); err != nil {
		return nil, apperrors.Storage(err)
	}
	return d.Sanitized(), nil
}

// UpdateLocation writes the driver's last reported position. This is a plain
// field write; there is no live location feed.
func (s *Service) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) (*driver.Driver, error) {
	if !validation.ValidCoordinates(lat, lng) {
		return nil, apperrors.ErrInvalidCoordinates
	}

	d, err := s.store.UpdateLocation(ctx, driverID, driver.Location{Latitude: lat, Longitude: lng})
	if err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			return nil, apperrors.ErrDriverNotFound
		}
		return nil, apperrors.Storage(err)
	}
	return d.Sanitized(), nil
}
