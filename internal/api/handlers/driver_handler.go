package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/service/drivers"
)

// RegisterDriver handles POST /driver/register
func (h *Handlers) RegisterDriver(c *gin.Context) {
	var req dto.DriverRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "All fields are required",
		})
		return
	}

	registered, token, err := h.Drivers.Register(c.Request.Context(), drivers.RegisterRequest{
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		RegiStatus:   req.RegiStatus,
		OTP:          req.OTP,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordSignup(auth.RoleDriver)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    registered,
		"token":   token,
	})
}

// LoginDriver handles POST /driver/login
func (h *Handlers) LoginDriver(c *gin.Context) {
	var req dto.DriverLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Mobile number and password are required",
		})
		return
	}

	logged, token, err := h.Drivers.Login(c.Request.Context(), req.MobileNumber, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordLogin(auth.RoleDriver)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"data":    logged,
	})
}

// GetDriverProfile handles GET /driver/getuser — the principal's own record.
func (h *Handlers) GetDriverProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User data fetched successfully",
		"data":    middleware.DriverFromContext(c),
	})
}

// VerifyDriverOTP handles POST /driver/verifyotp
func (h *Handlers) VerifyDriverOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing OTP or mobile number",
		})
		return
	}

	verified, err := h.Drivers.VerifyOTP(c.Request.Context(), req.MobileNumber, req.OTP, req.RegiStatus)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP verified successfully",
		"data":    verified,
	})
}

// UpdateDriverProfile handles POST /driver/update
func (h *Handlers) UpdateDriverProfile(c *gin.Context) {
	var req dto.DriverUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Mobile number is required for update",
		})
		return
	}

	update := drivers.ProfileUpdate{
		FullName:       req.FullName,
		Age:            req.Age,
		Skill:          req.Skill,
		Experience:     req.Experience,
		Email:          req.Email,
		Gender:         req.Gender,
		City:           req.City,
		ProfilePicture: req.ProfilePicture,
		RegiStatus:     req.RegiStatus,
	}
	if req.BankAccount != nil {
		update.BankAccount = &driver.BankAccount{
			ImageURL:  req.BankAccount.ImageURL,
			IFSC:      req.BankAccount.IFSC,
			Bank:      req.BankAccount.Bank,
			AccountNo: req.BankAccount.AccountNo,
		}
	}
	if req.DrivingLicence != nil {
		update.DrivingLicence = &driver.DrivingLicence{
			FrontImage: req.DrivingLicence.FrontImage,
			BackImage:  req.DrivingLicence.BackImage,
			LicenceNo:  req.DrivingLicence.LicenceNo,
		}
	}

	updated, err := h.Drivers.UpdateProfile(c.Request.Context(), req.MobileNumber, update)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    updated,
	})
}

// UpdateDriverLocation handles POST /driver/updateLocation
func (h *Handlers) UpdateDriverLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request payload",
		})
		return
	}

	updated, err := h.Drivers.UpdateLocation(c.Request.Context(), req.DriverID, req.Latitude, req.Longitude)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "User updated successfully",
		"location": updated.Location,
	})
}
