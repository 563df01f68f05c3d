package ride

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/swiftride/backend/internal/domain/ride"
	"github.com/swiftride/backend/internal/service/pricing"
	"github.com/swiftride/backend/pkg/cache"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/validation"
)

// Driver assignment is not a live process in this service. Every booking gets
// this placeholder until the dispatch subsystem takes over.
const placeholderDriverName = "Jenny Wilson"

// Config holds lifecycle behavior toggles.
type Config struct {
	// GuardTerminalCancel rejects cancellation of completed rides. The
	// upstream contract imposes no such guard, so it defaults off.
	GuardTerminalCancel bool
	CacheTTLRides       time.Duration
	CacheTTLHistory     time.Duration
}

// Service owns the ride state machine: booking, cancellation, retrieval and
// history, with ownership enforced by query predicate.
type Service struct {
	store  ride.Store
	calc   *pricing.Calculator
	redis  *redis.Client
	logger *logger.Logger
	config Config
}

// NewService wires the lifecycle manager. The redis client is optional; when
// nil all reads go straight to the store.
func NewService(store ride.Store, calc *pricing.Calculator, redisClient *redis.Client, log *logger.Logger, config Config) *Service {
	return &Service{
		store:  store,
		calc:   calc,
		redis:  redisClient,
		logger: log,
		config: config,
	}
}

// BookRequest carries the validated booking input.
type BookRequest struct {
	Origin      ride.Point
	Destination ride.Point
	Stops       []ride.Point
	DistanceKM  float64
}

// Book creates a ride for the rider. The price is computed once here and
// never recomputed. A successful return means the ride is durably persisted
// with a fresh unique id.
func (s *Service) Book(ctx context.Context, riderID string, req BookRequest) (*ride.Ride, error) {
	if req.DistanceKM <= 0 {
		return nil, apperrors.ErrInvalidDistance
	}
	if !validation.ValidCoordinates(req.Origin.Latitude, req.Origin.Longitude) ||
		!validation.ValidCoordinates(req.Destination.Latitude, req.Destination.Longitude) {
		return nil, apperrors.ErrInvalidCoordinates
	}
	for _, stop := range req.Stops {
		if !validation.ValidCoordinates(stop.Latitude, stop.Longitude) {
			return nil, apperrors.ErrInvalidCoordinates
		}
	}

	stops := req.Stops
	if stops == nil {
		stops = []ride.Point{}
	}

	r := &ride.Ride{
		RideID:         uuid.NewString(),
		RiderID:        riderID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Stops:          stops,
		DistanceKM:     req.DistanceKM,
		Price:          s.calc.Quote(req.DistanceKM, len(stops)),
		DriverName:     placeholderDriverName,
		DriverLocation: req.Origin,
		Status:         ride.StatusBooked,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, r); err != nil {
		return nil, apperrors.Storage(err)
	}

	s.invalidateHistory(ctx, riderID)

	s.logger.Info("Ride booked",
		logger.String("ride_id", r.RideID),
		logger.String("rider_id", riderID),
		logger.Float64("distance_km", r.DistanceKM),
		logger.Int("stops", len(stops)),
		logger.Int64("price", r.Price),
	)

	return r, nil
}

// History returns all of the rider's rides, most recent first. An empty
// slice is a valid result, not an error.
func (s *Service) History(ctx context.Context, riderID string) ([]*ride.Ride, error) {
	if s.redis != nil {
		if raw, err := cache.Get(ctx, s.redis, historyKey(riderID)); err == nil {
			var rides []*ride.Ride
			if json.Unmarshal([]byte(raw), &rides) == nil {
				return rides, nil
			}
		}
	}

	rides, err := s.store.FindAllByOwner(ctx, riderID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if rides == nil {
		rides = []*ride.Ride{}
	}

	if s.redis != nil {
		if raw, err := json.Marshal(rides); err == nil {
			_ = cache.SetWithExpiry(ctx, s.redis, historyKey(riderID), raw, s.config.CacheTTLHistory)
		}
	}

	return rides, nil
}

// GetByID returns the rider's ride with the given id. A ride owned by
// another rider is indistinguishable from one that does not exist.
func (s *Service) GetByID(ctx context.Context, riderID, rideID string) (*ride.Ride, error) {
	if s.redis != nil {
		if raw, err := cache.Get(ctx, s.redis, rideKey(riderID, rideID)); err == nil {
			var r ride.Ride
			if json.Unmarshal([]byte(raw), &r) == nil {
				return &r, nil
			}
		}
	}

	r, err := s.find(ctx, riderID, rideID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(r); err == nil {
			_ = cache.SetWithExpiry(ctx, s.redis, rideKey(riderID, rideID), raw, s.config.CacheTTLRides)
		}
	}

	return r, nil
}

// Cancel moves the rider's ride to cancelled and returns the updated record.
// Cancelling an already cancelled ride succeeds again with the same result;
// concurrent cancellations are last-write-wins at the store.
func (s *Service) Cancel(ctx context.Context, riderID, rideID string) (*ride.Ride, error) {
	r, err := s.find(ctx, riderID, rideID)
	if err != nil {
		return nil, err
	}

	if !r.CanCancel(s.config.GuardTerminalCancel) {
		return nil, apperrors.ErrRideAlreadyEnded
	}

	r.Status = ride.StatusCancelled
	if err := s.store.Update(ctx, r); err != nil {
		return nil, apperrors.Storage(err)
	}

	s.invalidateRide(ctx, riderID, rideID)
	s.invalidateHistory(ctx, riderID)

	s.logger.Info("Ride cancelled",
		logger.String("ride_id", rideID),
		logger.String("rider_id", riderID),
	)

	return r, nil
}

// find runs the ownership-scoped lookup against the store.
func (s *Service) find(ctx context.Context, riderID, rideID string) (*ride.Ride, error) {
	r, err := s.store.FindByOwnerAndID(ctx, riderID, rideID)
	if err != nil {
		if errors.Is(err, ride.ErrNotFound) {
			return nil, apperrors.ErrRideNotFound
		}
		return nil, apperrors.Storage(err)
	}
	return r, nil
}

func (s *Service) invalidateRide(ctx context.Context, riderID, rideID string) {
	if s.redis != nil {
		_ = cache.Delete(ctx, s.redis, rideKey(riderID, rideID))
	}
}

func (s *Service) invalidateHistory(ctx context.Context, riderID string) {
	if s.redis != nil {
		_ = cache.Delete(ctx, s.redis, historyKey(riderID))
	}
}

func rideKey(riderID, rideID string) string {
	return fmt.Sprintf("ride:%s:%s", riderID, rideID)
}

func historyKey(riderID string) string {
	return fmt.Sprintf("rides:owner:%s", riderID)
}
