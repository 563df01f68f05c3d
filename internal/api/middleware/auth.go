package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/rider"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

const (
	riderContextKey  = "principal_rider"
	driverContextKey = "principal_driver"
)

// Authorizer resolves an authenticated principal from a bearer token. One
// instance serves every route; it holds no mutable state and is safe under
// arbitrary concurrency.
type Authorizer struct {
	tokens  *auth.TokenService
	riders  rider.Store
	drivers driver.Store
	logger  *logger.Logger
}

// NewAuthorizer wires the middleware to its token service and identity
// stores.
func NewAuthorizer(tokens *auth.TokenService, riders rider.Store, drivers driver.Store, log *logger.Logger) *Authorizer {
	return &Authorizer{
		tokens:  tokens,
		riders:  riders,
		drivers: drivers,
		logger:  log,
	}
}

// RequireRider authenticates the request and attaches the secret-stripped
// rider record to the context. A missing or invalid token aborts with 401; a
// valid token whose rider no longer exists aborts with 404. The two status
// codes are distinct outcomes and are not unified.
func (a *Authorizer) RequireRider() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.verify(c)
		if !ok {
			return
		}

		r, err := a.riders.FindByID(c.Request.Context(), claims.IdentityID)
		if err != nil {
			a.abortLookup(c, err, rider.ErrNotFound)
			return
		}

		c.Set(riderContextKey, r.Sanitized())
		c.Next()
	}
}

// RequireDriver is the driver-store counterpart of RequireRider.
func (a *Authorizer) RequireDriver() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.verify(c)
		if !ok {
			return
		}

		d, err := a.drivers.FindByID(c.Request.Context(), claims.IdentityID)
		if err != nil {
			a.abortLookup(c, err, driver.ErrNotFound)
			return
		}

		c.Set(driverContextKey, d.Sanitized())
		c.Next()
	}
}

// verify extracts and validates the bearer token, aborting with 401 on any
// failure. Identity existence is the caller's concern.
func (a *Authorizer) verify(c *gin.Context) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		abort(c, apperrors.ErrTokenMissing)
		return nil, false
	}

	claims, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		a.logger.Debug("Token verification failed", logger.Err(err))
		abort(c, apperrors.ErrInvalidToken)
		return nil, false
	}
	return claims, true
}

func (a *Authorizer) abortLookup(c *gin.Context, err, notFound error) {
	if errors.Is(err, notFound) {
		abort(c, apperrors.ErrPrincipalNotFound)
		return
	}
	a.logger.Error("Principal lookup failed", logger.Err(err))
	abort(c, apperrors.Storage(err))
}

func abort(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}

// RiderFromContext returns the principal attached by RequireRider.
func RiderFromContext(c *gin.Context) *rider.Rider {
	if v, ok := c.Get(riderContextKey); ok {
		if r, ok := v.(*rider.Rider); ok {
			return r
		}
	}
	return nil
}

// DriverFromContext returns the principal attached by RequireDriver.
func DriverFromContext(c *gin.Context) *driver.Driver {
	if v, ok := c.Get(driverContextKey); ok {
		if d, ok := v.(*driver.Driver); ok {
			return d
		}
	}
	return nil
}
