package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/api/routes"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/ride"
	"github.com/swiftride/backend/internal/domain/rider"
	"github.com/swiftride/backend/internal/service/drivers"
	"github.com/swiftride/backend/internal/service/pricing"
	rideservice "github.com/swiftride/backend/internal/service/ride"
	"github.com/swiftride/backend/internal/service/riders"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

// In-memory stores backing the full router. They satisfy the same contracts
// as the SQL stores, including ownership-scoped ride lookups.

type memoryRideStore struct {
	mu    sync.Mutex
	rides []*ride.Ride
}

func (m *memoryRideStore) Insert(_ context.Context, r *ride.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rides {
		if existing.RideID == r.RideID {
			return ride.ErrDuplicate
		}
	}
	clone := *r
	m.rides = append(m.rides, &clone)
	return nil
}

func (m *memoryRideStore) FindByOwnerAndID(_ context.Context, ownerID, rideID string) (*ride.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rides {
		if r.RiderID == ownerID && r.RideID == rideID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, ride.ErrNotFound
}

func (m *memoryRideStore) FindAllByOwner(_ context.Context, ownerID string) ([]*ride.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ride.Ride
	for _, r := range m.rides {
		if r.RiderID == ownerID {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRideStore) Update(_ context.Context, r *ride.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.rides {
		if existing.RideID == r.RideID {
			clone := *r
			m.rides[i] = &clone
			return nil
		}
	}
	return ride.ErrNotFound
}

type memoryRiderStore struct {
	mu     sync.Mutex
	riders map[string]*rider.Rider
}

func newMemoryRiderStore() *memoryRiderStore {
	return &memoryRiderStore{riders: map[string]*rider.Rider{}}
}

func (m *memoryRiderStore) Create(_ context.Context, r *rider.Rider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.riders {
		if existing.Email == r.Email {
			return rider.ErrEmailTaken
		}
	}
	clone := *r
	m.riders[r.ID] = &clone
	return nil
}

func (m *memoryRiderStore) FindByID(_ context.Context, id string) (*rider.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.riders[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, rider.ErrNotFound
}

func (m *memoryRiderStore) FindByEmail(_ context.Context, email string) (*rider.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.riders {
		if r.Email == email {
			clone := *r
			return &clone, nil
		}
	}
	return nil, rider.ErrNotFound
}

func (m *memoryRiderStore) Update(_ context.Context, r *rider.Rider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.riders[r.ID]; !ok {
		return rider.ErrNotFound
	}
	clone := *r
	m.riders[r.ID] = &clone
	return nil
}

func (m *memoryRiderStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.riders[id]; !ok {
		return rider.ErrNotFound
	}
	delete(m.riders, id)
	return nil
}

type memoryDriverStore struct {
	mu      sync.Mutex
	drivers map[string]*driver.Driver
}

func newMemoryDriverStore() *memoryDriverStore {
	return &memoryDriverStore{drivers: map[string]*driver.Driver{}}
}

func (m *memoryDriverStore) Create(_ context.Context, d *driver.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.drivers {
		if existing.MobileNumber == d.MobileNumber {
			return driver.ErrMobileTaken
		}
	}
	clone := *d
	m.drivers[d.ID] = &clone
	return nil
}

func (m *memoryDriverStore) FindByID(_ context.Context, id string) (*driver.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.drivers[id]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, driver.ErrNotFound
}

func (m *memoryDriverStore) FindByMobile(_ context.Context, mobileNumber string) (*driver.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.MobileNumber == mobileNumber {
			clone := *d
			return &clone, nil
		}
	}
	return nil, driver.ErrNotFound
}

func (m *memoryDriverStore) Update(_ context.Context, d *driver.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[d.ID]; !ok {
		return driver.ErrNotFound
	}
	clone := *d
	m.drivers[d.ID] = &clone
	return nil
}

func (m *memoryDriverStore) UpdateLocation(_ context.Context, id string, loc driver.Location) (*driver.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, driver.ErrNotFound
	}
	d.Location = &driver.Location{Latitude: loc.Latitude, Longitude: loc.Longitude}
	clone := *d
	return &clone, nil
}

type testServer struct {
	router      *gin.Engine
	tokens      *auth.TokenService
	rideStore   *memoryRideStore
	riderStore  *memoryRiderStore
	driverStore *memoryDriverStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	log := logger.NewNop()
	rideStore := &memoryRideStore{}
	riderStore := newMemoryRiderStore()
	driverStore := newMemoryDriverStore()

	monitor, err := monitoring.New(monitoring.Config{Enabled: false})
	require.NoError(t, err)

	riderSvc := riders.NewService(riderStore, tokens, 7*24*time.Hour, log)
	driverSvc := drivers.NewService(driverStore, tokens, 15*24*time.Hour, log)
	rideSvc := rideservice.NewService(rideStore, pricing.NewCalculator(pricing.DefaultConfig()), nil, log, rideservice.Config{})

	h := handlers.NewHandlers(riderSvc, driverSvc, rideSvc, log, monitor)
	authz := middleware.NewAuthorizer(tokens, riderStore, driverStore, log)

	router := gin.New()
	routes.SetupRoutes(router, h, authz, nil)

	return &testServer{
		router:      router,
		tokens:      tokens,
		rideStore:   rideStore,
		riderStore:  riderStore,
		driverStore: driverStore,
	}
}

// seedRider creates an account directly in the store and returns a valid
// bearer token for it.
func (ts *testServer) seedRider(t *testing.T, id, email string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ts.riderStore.Create(context.Background(), rider.New(id, "Asha Rao", email, string(hash))))

	token, err := ts.tokens.Issue(id, auth.RoleRider, time.Hour)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	payload := map[string]json.RawMessage{}
	_ = json.Unmarshal(w.Body.Bytes(), &payload)
	return w, payload
}

func successOf(t *testing.T, payload map[string]json.RawMessage) bool {
	t.Helper()
	var ok bool
	require.NoError(t, json.Unmarshal(payload["success"], &ok))
	return ok
}

func messageOf(t *testing.T, payload map[string]json.RawMessage) string {
	t.Helper()
	raw, found := payload["message"]
	if !found {
		return ""
	}
	var msg string
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func bookBody(distanceKM float64, stops int) map[string]any {
	stopList := make([]map[string]float64, 0, stops)
	for i := 0; i < stops; i++ {
		stopList = append(stopList, map[string]float64{"latitude": 12.96, "longitude": 77.6})
	}
	return map[string]any{
		"origin":      map[string]float64{"latitude": 12.9716, "longitude": 77.5946},
		"destination": map[string]float64{"latitude": 12.2958, "longitude": 76.6394},
		"stops":       stopList,
		"distance_km": distanceKM,
	}
}

func TestBookRide_Success(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodPost, "/ride/book", token, bookBody(10, 0))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, successOf(t, payload))

	var booked ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &booked))
	assert.NotEmpty(t, booked.RideID)
	assert.Equal(t, "rider-1", booked.RiderID)
	assert.Equal(t, int64(150), booked.Price)
	assert.Equal(t, "Jenny Wilson", booked.DriverName)
	assert.Equal(t, booked.Origin, booked.DriverLocation)
	assert.Equal(t, ride.StatusBooked, booked.Status)
}

func TestBookRide_PricesStops(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodPost, "/ride/book", token, bookBody(5, 2))

	require.Equal(t, http.StatusCreated, w.Code)
	var booked ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &booked))
	assert.Equal(t, int64(110), booked.Price)
}

func TestBookRide_MissingFields(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodPost, "/ride/book", token, map[string]any{
		"origin": map[string]float64{"latitude": 12.97, "longitude": 77.59},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, successOf(t, payload))
}

func TestBookRide_InvalidDistance(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodPost, "/ride/book", token, bookBody(-3, 0))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, successOf(t, payload))
	assert.Equal(t, "Distance must be a positive number", messageOf(t, payload))
}

func TestRideEndpoints_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/ride/book"},
		{http.MethodGet, "/ride/history"},
		{http.MethodGet, "/ride/some-id"},
		{http.MethodPost, "/ride/some-id/cancel"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w, payload := ts.do(t, tc.method, tc.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, successOf(t, payload))
			assert.Equal(t, "Authorization token missing", messageOf(t, payload))
		})
	}
}

func TestRideEndpoints_DeletedAccountIs404(t *testing.T) {
	ts := newTestServer(t)

	// Token is well signed but its rider was never provisioned.
	token, err := ts.tokens.Issue("rider-gone", auth.RoleRider, time.Hour)
	require.NoError(t, err)

	w, payload := ts.do(t, http.MethodGet, "/ride/history", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", messageOf(t, payload))
}

func TestRideHistory_ReturnsOwnRidesNewestFirst(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")
	otherToken := ts.seedRider(t, "rider-2", "meera@example.com")

	for i := 0; i < 3; i++ {
		w, _ := ts.do(t, http.MethodPost, "/ride/book", token, bookBody(float64(i+1), 0))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := ts.do(t, http.MethodPost, "/ride/book", otherToken, bookBody(9, 0))
	require.Equal(t, http.StatusCreated, w.Code)

	w, payload := ts.do(t, http.MethodGet, "/ride/history", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rides []*ride.Ride
	require.NoError(t, json.Unmarshal(payload["rides"], &rides))
	require.Len(t, rides, 3)
	for _, r := range rides {
		assert.Equal(t, "rider-1", r.RiderID)
	}
	for i := 1; i < len(rides); i++ {
		assert.False(t, rides[i].CreatedAt.After(rides[i-1].CreatedAt))
	}
}

func TestRideHistory_EmptyList(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodGet, "/ride/history", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, successOf(t, payload))
	assert.Equal(t, "[]", string(payload["rides"]))
}

func TestGetRide_OtherRidersRideIs404(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")
	otherToken := ts.seedRider(t, "rider-2", "meera@example.com")

	_, payload := ts.do(t, http.MethodPost, "/ride/book", token, bookBody(10, 0))
	var booked ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &booked))

	w, payload := ts.do(t, http.MethodGet, "/ride/"+booked.RideID, otherToken, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ride not found", messageOf(t, payload))

	// The owner still sees it.
	w, payload = ts.do(t, http.MethodGet, "/ride/"+booked.RideID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &found))
	assert.Equal(t, booked.RideID, found.RideID)
}

func TestCancelRide_Flow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	_, payload := ts.do(t, http.MethodPost, "/ride/book", token, bookBody(10, 0))
	var booked ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &booked))

	cancelPath := fmt.Sprintf("/ride/%s/cancel", booked.RideID)

	w, payload := ts.do(t, http.MethodPost, cancelPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &cancelled))
	assert.Equal(t, ride.StatusCancelled, cancelled.Status)
	assert.Equal(t, booked.Price, cancelled.Price, "Cancellation must not reprice the ride")

	// Cancelling again succeeds with the same terminal state.
	w, payload = ts.do(t, http.MethodPost, cancelPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(payload["ride"], &cancelled))
	assert.Equal(t, ride.StatusCancelled, cancelled.Status)
}

func TestCancelRide_UnknownRide(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodPost, "/ride/no-such-ride/cancel", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ride not found", messageOf(t, payload))
}

func TestSignupSigninBook_FullFlow(t *testing.T) {
	ts := newTestServer(t)

	w, payload := ts.do(t, http.MethodPost, "/user/signup", "", map[string]any{
		"fullName": "Asha Rao",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, successOf(t, payload))

	w, payload = ts.do(t, http.MethodPost, "/user/signin", "", map[string]any{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var token string
	require.NoError(t, json.Unmarshal(payload["token"], &token))
	require.NotEmpty(t, token)

	w, payload = ts.do(t, http.MethodPost, "/ride/book", token, bookBody(2.4, 0))
	require.Equal(t, http.StatusCreated, w.Code)
	var booked ride.Ride
	require.NoError(t, json.Unmarshal(payload["ride"], &booked))
	assert.Equal(t, int64(59), booked.Price)
}

func TestSignin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.seedRider(t, "rider-1", "asha@example.com")

	w, payload := ts.do(t, http.MethodPost, "/user/signin", "", map[string]any{
		"email":    "asha@example.com",
		"password": "wrong-pass",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", messageOf(t, payload))
}
