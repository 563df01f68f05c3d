package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/service/drivers"
	"github.com/swiftride/backend/internal/service/riders"
	rideservice "github.com/swiftride/backend/internal/service/ride"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Riders  *riders.Service
	Drivers *drivers.Service
	Rides   *rideservice.Service
	Logger  *logger.Logger
	Monitor *monitoring.NewRelicApp
}

// NewHandlers creates a new Handlers instance
func NewHandlers(riderSvc *riders.Service, driverSvc *drivers.Service, rideSvc *rideservice.Service, log *logger.Logger, monitor *monitoring.NewRelicApp) *Handlers {
	return &Handlers{
		Riders:  riderSvc,
		Drivers: driverSvc,
		Rides:   rideSvc,
		Logger:  log,
		Monitor: monitor,
	}
}

// respondError converts any failure to the uniform envelope. Every endpoint
// answers {success, message?, <payload>}; status codes follow the error
// taxonomy consistently (a deliberate change from the always-200 legacy
// clients may have seen).
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed", logger.Err(err),
			logger.String("path", c.FullPath()),
		)
	}
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}
