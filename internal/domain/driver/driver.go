package driver

import (
	"context"
	"errors"
	"time"
)

// Store sentinels.
var (
	ErrNotFound    = errors.New("driver not found")
	ErrMobileTaken = errors.New("mobile number already registered")
)

// RegistrationStatus tracks how far a driver has progressed through
// onboarding. Values come from the mobile client and are stored verbatim.
const RegistrationCreated = "cre"

// BankAccount holds payout details collected during onboarding.
type BankAccount struct {
	ImageURL  string `json:"imageUrl,omitempty"`
	IFSC      string `json:"ifsc,omitempty"`
	Bank      string `json:"bank,omitempty"`
	AccountNo string `json:"accountNo,omitempty"`
}

// DrivingLicence holds licence document references.
type DrivingLicence struct {
	FrontImage string `json:"frontImage,omitempty"`
	BackImage  string `json:"backImage,omitempty"`
	LicenceNo  string `json:"drivingLicenseNo,omitempty"`
}

// Location is the driver's last reported position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Driver represents a driver account. PasswordHash is stripped before the
// record is attached to request context.
type Driver struct {
	ID               string         `json:"id"`
	FullName         string         `json:"fullName"`
	MobileNumber     string         `json:"mobileNumber"`
	PasswordHash     string         `json:"-"`
	OTP              string         `json:"-"`
	Age              string         `json:"age,omitempty"`
	Skill            string         `json:"skill,omitempty"`
	Experience       string         `json:"experience,omitempty"`
	Email            string         `json:"email,omitempty"`
	Gender           string         `json:"gender,omitempty"`
	City             string         `json:"city,omitempty"`
	ProfilePicture   string         `json:"profilePicture,omitempty"`
	BankAccount      BankAccount    `json:"bankAccountDetails"`
	DrivingLicence   DrivingLicence `json:"drivingLicence"`
	IsVerified       bool           `json:"isVerified"`
	IsMobileVerified bool           `json:"isMobileVerified"`
	Location         *Location      `json:"driverLocation,omitempty"`
	RegiStatus       string         `json:"regiStatus"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// New builds a driver with onboarding defaults applied.
func New(id, fullName, mobileNumber, passwordHash string) *Driver {
	now := time.Now().UTC()
	return &Driver{
		ID:           id,
		FullName:     fullName,
		MobileNumber: mobileNumber,
		PasswordHash: passwordHash,
		RegiStatus:   RegistrationCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Sanitized returns a copy safe to attach to request context.
func (d *Driver) Sanitized() *Driver {
	clean := *d
	clean.PasswordHash = ""
	clean.OTP = ""
	return &clean
}

// Store defines the interface for driver data access
type Store interface {
	Create(ctx context.Context, d *Driver) error
	FindByID(ctx context.Context, id string) (*Driver, error)
	FindByMobile(ctx context.Context, mobileNumber string) (*Driver, error)
	Update(ctx context.Context, d *Driver) error
	UpdateLocation(ctx context.Context, id string, loc Location) (*Driver, error)
}
