package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/rider"
	"github.com/swiftride/backend/pkg/logger"
)

type fakeRiderStore struct {
	riders map[string]*rider.Rider
}

func (f *fakeRiderStore) Create(context.Context, *rider.Rider) error { return nil }
func (f *fakeRiderStore) Update(context.Context, *rider.Rider) error { return nil }
func (f *fakeRiderStore) Delete(context.Context, string) error       { return nil }
func (f *fakeRiderStore) FindByEmail(context.Context, string) (*rider.Rider, error) {
	return nil, rider.ErrNotFound
}
func (f *fakeRiderStore) FindByID(_ context.Context, id string) (*rider.Rider, error) {
	if r, ok := f.riders[id]; ok {
		return r, nil
	}
	return nil, rider.ErrNotFound
}

type fakeDriverStore struct {
	drivers map[string]*driver.Driver
}

func (f *fakeDriverStore) Create(context.Context, *driver.Driver) error { return nil }
func (f *fakeDriverStore) Update(context.Context, *driver.Driver) error { return nil }
func (f *fakeDriverStore) FindByMobile(context.Context, string) (*driver.Driver, error) {
	return nil, driver.ErrNotFound
}
func (f *fakeDriverStore) UpdateLocation(context.Context, string, driver.Location) (*driver.Driver, error) {
	return nil, driver.ErrNotFound
}
func (f *fakeDriverStore) FindByID(_ context.Context, id string) (*driver.Driver, error) {
	if d, ok := f.drivers[id]; ok {
		return d, nil
	}
	return nil, driver.ErrNotFound
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newTestAuthorizer(t *testing.T) (*middleware.Authorizer, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	riderStore := &fakeRiderStore{riders: map[string]*rider.Rider{
		"rider-1": {ID: "rider-1", FullName: "Asha Rao", Email: "asha@example.com", PasswordHash: "hashed"},
	}}
	driverStore := &fakeDriverStore{drivers: map[string]*driver.Driver{
		"driver-1": {ID: "driver-1", FullName: "Ravi Kumar", MobileNumber: "+919900112233", PasswordHash: "hashed"},
	}}

	return middleware.NewAuthorizer(tokens, riderStore, driverStore, logger.NewNop()), tokens
}

func riderRouter(authz *middleware.Authorizer, seen **rider.Rider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", authz.RequireRider(), func(c *gin.Context) {
		*seen = middleware.RiderFromContext(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func doRequest(router *gin.Engine, header string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// TestRequireRider_MissingHeader tests the unauthenticated short-circuit
func TestRequireRider_MissingHeader(t *testing.T) {
	authz, _ := newTestAuthorizer(t)
	var seen *rider.Rider
	router := riderRouter(authz, &seen)

	w, env := doRequest(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Authorization token missing", env.Message)
	assert.Nil(t, seen, "No principal may be resolved")
}

// TestRequireRider_WrongScheme tests a non-Bearer authorization header
func TestRequireRider_WrongScheme(t *testing.T) {
	authz, _ := newTestAuthorizer(t)
	var seen *rider.Rider
	router := riderRouter(authz, &seen)

	w, env := doRequest(router, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Nil(t, seen)
}

// TestRequireRider_InvalidToken tests verify failure
func TestRequireRider_InvalidToken(t *testing.T) {
	authz, _ := newTestAuthorizer(t)
	var seen *rider.Rider
	router := riderRouter(authz, &seen)

	w, env := doRequest(router, "Bearer not-a-real-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid or expired token", env.Message)
	assert.Nil(t, seen)
}

// TestRequireRider_ExpiredToken tests an elapsed but well-signed token
func TestRequireRider_ExpiredToken(t *testing.T) {
	authz, tokens := newTestAuthorizer(t)
	var seen *rider.Rider
	router := riderRouter(authz, &seen)

	expired, err := tokens.Issue("rider-1", auth.RoleRider, -time.Nanosecond)
	require.NoError(t, err)

	w, env := doRequest(router, "Bearer "+expired)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Nil(t, seen)
}

// TestRequireRider_PrincipalGone tests a valid token whose identity vanished.
// This is observed as 404, deliberately distinct from the 401 cases.
func TestRequireRider_PrincipalGone(t *testing.T) {
	authz, tokens := newTestAuthorizer(t)
	var seen *rider.Rider
	router := riderRouter(authz, &seen)

	token, err := tokens.Issue("rider-deleted", auth.RoleRider, time.Hour)
	require.NoError(t, err)

	w, env := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "User not found", env.Message)
	assert.Nil(t, seen)
}

// TestRequireRider_AttachesSanitizedPrincipal tests the success path
func TestRequireRider_AttachesSanitizedPrincipal(t *testing.T) {
	authz, tokens := newTestAuthorizer(t)
	var seen *rider.Rider
	router := riderRouter(authz, &seen)

	token, err := tokens.Issue("rider-1", auth.RoleRider, time.Hour)
	require.NoError(t, err)

	w, env := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.NotNil(t, seen)
	assert.Equal(t, "rider-1", seen.ID)
	assert.Empty(t, seen.PasswordHash, "Credential secret must be stripped")
}

// TestRequireDriver_ResolvesAgainstDriverStore tests the driver variant
func TestRequireDriver_ResolvesAgainstDriverStore(t *testing.T) {
	authz, tokens := newTestAuthorizer(t)

	gin.SetMode(gin.TestMode)
	var seen *driver.Driver
	router := gin.New()
	router.GET("/protected", authz.RequireDriver(), func(c *gin.Context) {
		seen = middleware.DriverFromContext(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	token, err := tokens.Issue("driver-1", auth.RoleDriver, time.Hour)
	require.NoError(t, err)

	w, _ := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "driver-1", seen.ID)
	assert.Empty(t, seen.PasswordHash)

	// A rider's id does not resolve in the driver store
	riderToken, err := tokens.Issue("rider-1", auth.RoleRider, time.Hour)
	require.NoError(t, err)
	w, env := doRequest(router, "Bearer "+riderToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}
