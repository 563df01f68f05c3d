package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/domain/ride"
	rideservice "github.com/swiftride/backend/internal/service/ride"
	"github.com/swiftride/backend/pkg/logger"
)

// BookRide handles POST /ride/book
func (h *Handlers) BookRide(c *gin.Context) {
	principal := middleware.RiderFromContext(c)

	var req dto.BookRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Origin, destination, and distance are required.",
		})
		return
	}

	booked, err := h.Rides.Book(c.Request.Context(), principal.ID, rideservice.BookRequest{
		Origin:      ride.Point(*req.Origin),
		Destination: ride.Point(*req.Destination),
		Stops:       toPoints(req.Stops),
		DistanceKM:  *req.DistanceKM,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideBooked(booked.RideID, booked.Price, booked.DistanceKM, len(booked.Stops))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"ride":    booked,
	})
}

// RideHistory handles GET /ride/history
func (h *Handlers) RideHistory(c *gin.Context) {
	principal := middleware.RiderFromContext(c)

	rides, err := h.Rides.History(c.Request.Context(), principal.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rides":   rides,
	})
}

// GetRide handles GET /ride/:id
func (h *Handlers) GetRide(c *gin.Context) {
	principal := middleware.RiderFromContext(c)

	found, err := h.Rides.GetByID(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ride":    found,
	})
}

// CancelRide handles POST /ride/:id/cancel
func (h *Handlers) CancelRide(c *gin.Context) {
	principal := middleware.RiderFromContext(c)
	rideID := c.Param("id")

	cancelled, err := h.Rides.Cancel(c.Request.Context(), principal.ID, rideID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideCancelled(rideID)
	h.Logger.Info("Ride cancel requested",
		logger.String("ride_id", rideID),
		logger.String("rider_id", principal.ID),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ride":    cancelled,
	})
}

func toPoints(pts []dto.Point) []ride.Point {
	if pts == nil {
		return nil
	}
	out := make([]ride.Point, len(pts))
	for i, p := range pts {
		out[i] = ride.Point(p)
	}
	return out
}
