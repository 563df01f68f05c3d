package dto

// Point mirrors the client's coordinate shape. Zero is a valid value for
// either axis, so presence is enforced on the enclosing pointer, not here.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BookRideRequest represents a request to book a ride. Origin, destination
// and distance are required; stops may be empty or absent.
type BookRideRequest struct {
	Origin      *Point   `json:"origin" binding:"required"`
	Destination *Point   `json:"destination" binding:"required"`
	Stops       []Point  `json:"stops"`
	DistanceKM  *float64 `json:"distance_km" binding:"required"`
}

// Rider account requests

type SignupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Image       string `json:"image"`
	Gender      string `json:"gender"`
}

type DeleteAccountRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AddAddressRequest keeps the mobile client's field names.
type AddAddressRequest struct {
	Label    string `json:"label"`
	Address  string `json:"address"`
	Floor    string `json:"floor"`
	Landmark string `json:"landmark"`
	Location *Point `json:"location"`
}

type UpdateAddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Driver account requests

type DriverRegisterRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	Password     string `json:"password" binding:"required"`
	RegiStatus   string `json:"regiStatus"`
	// TODO: drop once OTP issuance moves to the verification provider.
	OTP string `json:"otp"`
}

type DriverLoginRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	OTP          string `json:"otp" binding:"required"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	RegiStatus   string `json:"regiStatus"`
}

type BankAccountDTO struct {
	ImageURL  string `json:"imageUrl"`
	IFSC      string `json:"ifsc"`
	Bank      string `json:"bank"`
	AccountNo string `json:"accountNo"`
}

type DrivingLicenceDTO struct {
	FrontImage string `json:"frontImage"`
	BackImage  string `json:"backImage"`
	LicenceNo  string `json:"drivingLicenseNo"`
}

type DriverUpdateRequest struct {
	MobileNumber   string             `json:"mobileNumber" binding:"required"`
	FullName       string             `json:"fullName"`
	Age            string             `json:"age"`
	Skill          string             `json:"skill"`
	Experience     string             `json:"experience"`
	Email          string             `json:"email"`
	Gender         string             `json:"gender"`
	City           string             `json:"city"`
	ProfilePicture string             `json:"profilePicture"`
	BankAccount    *BankAccountDTO    `json:"bankAccountDetails"`
	DrivingLicence *DrivingLicenceDTO `json:"drivingLicence"`
	RegiStatus     string             `json:"regiStatus"`
}

type UpdateLocationRequest struct {
	DriverID  string  `json:"driverId" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
