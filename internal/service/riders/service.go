package riders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/rider"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/validation"
)

// Service contains rider account business logic.
type Service struct {
	store    rider.Store
	tokens   *auth.TokenService
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewService wires the rider service. tokenTTL is the rider horizon (7 days
// in production); the driver flow uses its own, longer horizon.
func NewService(store rider.Store, tokens *auth.TokenService, tokenTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

// SignupRequest carries the registration input.
type SignupRequest struct {
	FullName string
	Email    string
	Password string
}

// Signup creates a rider account and returns the sanitized record plus a
// bearer token.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*rider.Rider, string, error) {
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return nil, "", apperrors.BadRequest("All fields are required", nil)
	}
	if !validation.ValidEmail(req.Email) {
		return nil, "", apperrors.BadRequest("Invalid email address", nil)
	}
	if !validation.ValidPassword(req.Password) {
		return nil, "", apperrors.BadRequest("Password must be at least 6 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to hash password", err)
	}

	r := rider.New(uuid.NewString(), req.FullName, strings.ToLower(req.Email), string(hash))
	if err := s.store.Create(ctx, r); err != nil {
		if errors.Is(err, rider.ErrEmailTaken) {
			return nil, "", apperrors.ErrRiderExists
		}
		return nil, "", apperrors.Storage(err)
	}

	token, err := s.tokens.Issue(r.ID, auth.RoleRider, s.tokenTTL)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	s.logger.Info("Rider registered", logger.String("rider_id", r.ID))
	return r.Sanitized(), token, nil
}

// Signin authenticates a rider. Failures never reveal whether the email or
// the password was wrong.
func (s *Service) Signin(ctx context.Context, email, password string) (*rider.Rider, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.BadRequest("Email & password required", nil)
	}

	r, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rider.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Storage(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)) != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(r.ID, auth.RoleRider, s.tokenTTL)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	return r.Sanitized(), token, nil
}

// GetByEmail fetches a sanitized rider record by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*rider.Rider, error) {
	r, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rider.ErrNotFound) {
			return nil, apperrors.ErrRiderNotFound
		}
		return nil, apperrors.Storage(err)
	}
	return r.Sanitized(), nil
}

// ProfileUpdate carries optional profile fields; empty values are left
// untouched.
type ProfileUpdate struct {
	FullName    string
	PhoneNumber string
	Image       string
	Gender      string
}

// UpdateProfile applies the update to the rider identified by targetEmail.
// Riders may only update their own profile.
func (s *Service) UpdateProfile(ctx context.Context, principal *rider.Rider, targetEmail string, update ProfileUpdate) (*rider.Rider, error) {
	if !strings.EqualFold(principal.Email, targetEmail) {
		return nil, apperrors.ErrNotProfileOwner
	}

	r, err := s.store.FindByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, rider.ErrNotFound) {
			return nil, apperrors.ErrRiderNotFound
		}
		return nil, apperrors.Storage(err)
	}

	if update.FullName != "" {
		r.FullName = update.FullName
	}
	if update.PhoneNumber != "" {
		r.PhoneNumber = update.PhoneNumber
	}
	if update.Image != "" {
		r.Image = update.Image
	}
	if update.Gender != "" {
		r.Gender = update.Gender
	}

	if err := s.store.Update(ctx, r); err != nil {
		return nil, apperrors.Storage(err)
	}
	return r.Sanitized(), nil
}

// DeleteAccount removes the account after re-checking credentials. This route
// carries no bearer token upstream, so the password check stands in for it.
func (s *Service) DeleteAccount(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return apperrors.BadRequest("Email and password required", nil)
	}

	r, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rider.ErrNotFound) {
			return apperrors.ErrRiderNotFound
		}
		return apperrors.Storage(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)) != nil {
		return apperrors.ErrInvalidCredentials
	}

	if err := s.store.Delete(ctx, r.ID); err != nil {
		return apperrors.Storage(err)
	}
	s.logger.Info("Rider account deleted", logger.String("rider_id", r.ID))
	return nil
}

// SetAddress replaces the rider's saved address.
func (s *Service) SetAddress(ctx context.Context, principal *rider.Rider, addr rider.Address) (*rider.Rider, error) {
	r, err := s.store.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, rider.ErrNotFound) {
			return nil, apperrors.ErrRiderNotFound
		}
		return nil, apperrors.Storage(err)
	}

	addr.IsActive = true
	r.Address = addr
	if err := s.store.Update(ctx, r); err != nil {
		return nil, apperrors.Storage(err)
	}
	return r.Sanitized(), nil
}

// UpdateAddressByEmail replaces the address of the rider identified by email.
// Riders may only touch their own address book.
func (s *Service) UpdateAddressByEmail(ctx context.Context, principal *rider.Rider, targetEmail string, addr rider.Address) (*rider.Rider, error) {
	if !strings.EqualFold(principal.Email, targetEmail) {
		return nil, apperrors.Forbidden("Unauthorized", nil)
	}
	return s.SetAddress(ctx, principal, addr)
}
