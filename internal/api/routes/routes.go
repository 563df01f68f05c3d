package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, authz *middleware.Authorizer, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Rider account endpoints
	user := r.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/signin", h.Signin)
		user.POST("/delete", h.DeleteRiderAccount)

		authed := user.Group("", authz.RequireRider())
		{
			authed.GET("/user", h.GetRiderProfile)
			authed.GET("/userByEmail", h.GetRiderByEmail)
			authed.PUT("/updateProfileByEmail/:email", h.UpdateRiderProfile)
			authed.POST("/address/add", h.AddAddress)
			authed.GET("/address", h.GetAddress)
			authed.PUT("/updateAddress/:email", h.UpdateAddress)
		}
	}

	// Driver account endpoints
	drv := r.Group("/driver")
	{
		drv.POST("/register", h.RegisterDriver)
		drv.POST("/login", h.LoginDriver)
		// Location updates arrive from the driver app without a bearer
		// token; the upstream contract keeps this route open.
		drv.POST("/updateLocation", h.UpdateDriverLocation)

		authed := drv.Group("", authz.RequireDriver())
		{
			authed.GET("/getuser", h.GetDriverProfile)
			authed.POST("/verifyotp", h.VerifyDriverOTP)
			authed.POST("/update", h.UpdateDriverProfile)
		}
	}

	// Ride lifecycle endpoints, all ownership-scoped to the rider principal
	rides := r.Group("/ride", authz.RequireRider())
	{
		rides.POST("/book", h.BookRide)
		rides.GET("/history", h.RideHistory)
		rides.GET("/:id", h.GetRide)
		rides.POST("/:id/cancel", h.CancelRide)
	}
}
