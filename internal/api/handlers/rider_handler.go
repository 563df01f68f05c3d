package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/rider"
	"github.com/swiftride/backend/internal/service/riders"
)

// Signup handles POST /user/signup
func (h *Handlers) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "All fields are required",
		})
		return
	}

	registered, token, err := h.Riders.Signup(c.Request.Context(), riders.SignupRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordSignup(auth.RoleRider)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered",
		"user":    registered,
		"token":   token,
	})
}

// Signin handles POST /user/signin
func (h *Handlers) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email & password required",
		})
		return
	}

	signed, token, err := h.Riders.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordLogin(auth.RoleRider)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signin successful",
		"token":   token,
		"user":    signed,
	})
}

// GetRiderProfile handles GET /user/user — the principal's own record.
func (h *Handlers) GetRiderProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    middleware.RiderFromContext(c),
	})
}

// GetRiderByEmail handles GET /user/userByEmail?email=
func (h *Handlers) GetRiderByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email required",
		})
		return
	}

	found, err := h.Riders.GetByEmail(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    found,
	})
}

// UpdateRiderProfile handles PUT /user/updateProfileByEmail/:email
func (h *Handlers) UpdateRiderProfile(c *gin.Context) {
	principal := middleware.RiderFromContext(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request payload",
		})
		return
	}

	updated, err := h.Riders.UpdateProfile(c.Request.Context(), principal, c.Param("email"), riders.ProfileUpdate{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Image:       req.Image,
		Gender:      req.Gender,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated",
		"user":    updated,
	})
}

// DeleteRiderAccount handles POST /user/delete. The route carries no bearer
// token; the password re-check stands in for it.
func (h *Handlers) DeleteRiderAccount(c *gin.Context) {
	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email and password required",
		})
		return
	}

	if err := h.Riders.DeleteAccount(c.Request.Context(), req.Email, req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted successfully",
	})
}

// AddAddress handles POST /user/address/add
func (h *Handlers) AddAddress(c *gin.Context) {
	principal := middleware.RiderFromContext(c)

	var req dto.AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request payload",
		})
		return
	}

	label := req.Label
	if label == "" {
		label = "Home"
	}
	addr := rider.Address{
		Label:      label,
		Street:     req.Address,
		State:      req.Floor,
		PostalCode: req.Landmark,
		Country:    "India",
	}
	if req.Location != nil {
		addr.Latitude = req.Location.Latitude
		addr.Longitude = req.Location.Longitude
	}

	updated, err := h.Riders.SetAddress(c.Request.Context(), principal, addr)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Address added successfully",
		"address": updated.Address,
	})
}

// GetAddress handles GET /user/address
func (h *Handlers) GetAddress(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"address": middleware.RiderFromContext(c).Address,
	})
}

// UpdateAddress handles PUT /user/updateAddress/:email
func (h *Handlers) UpdateAddress(c *gin.Context) {
	principal := middleware.RiderFromContext(c)

	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request payload",
		})
		return
	}

	updated, err := h.Riders.UpdateAddressByEmail(c.Request.Context(), principal, c.Param("email"), rider.Address{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Address updated",
		"user":    updated,
	})
}
