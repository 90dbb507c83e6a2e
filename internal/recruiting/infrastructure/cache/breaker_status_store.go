package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// ErrStoreUnavailable is returned while the breaker is open.
var ErrStoreUnavailable = errors.New("status store unavailable")

// BreakerConfig tunes the circuit breaker around the status store.
type BreakerConfig struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval clears failure counts while closed. Zero never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens it.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

type lastStatusResult struct {
	status progress.CompositeStatus
	found  bool
}

// BreakerStatusStore stops calling a failing status store for a while so a
// Redis outage costs one fast error per request instead of a timeout. With a
// fallback store set, reads that miss or fail go to the fallback and every
// save is written there first.
type BreakerStatusStore struct {
	inner    progress.StatusStore
	fallback progress.StatusStore
	breaker  *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
}

// NewBreakerStatusStore wraps inner with a circuit breaker.
func NewBreakerStatusStore(inner progress.StatusStore, config BreakerConfig, logger *slog.Logger) *BreakerStatusStore {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "status-store",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerStatusStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

// WithFallback sets the durable store behind the cache.
func (s *BreakerStatusStore) WithFallback(store progress.StatusStore) *BreakerStatusStore {
	s.fallback = store
	return s
}

func (s *BreakerStatusStore) LastStatus(ctx context.Context, athleteID uuid.UUID) (progress.CompositeStatus, bool, error) {
	status, found, err := s.cachedStatus(ctx, athleteID)
	if s.fallback == nil || (err == nil && found) {
		return status, found, err
	}
	if err != nil {
		s.logger.WarnContext(ctx, "status cache unavailable, reading database", "athlete_id", athleteID, "error", err)
	}

	status, found, fbErr := s.fallback.LastStatus(ctx, athleteID)
	if fbErr != nil {
		return progress.CompositeStatus{}, false, fbErr
	}
	if found && err == nil {
		s.warm(ctx, athleteID, status)
	}
	return status, found, nil
}

func (s *BreakerStatusStore) SaveStatus(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) error {
	if s.fallback != nil {
		if err := s.fallback.SaveStatus(ctx, athleteID, status); err != nil {
			return err
		}
	}
	err := s.saveCached(ctx, athleteID, status)
	if err != nil && s.fallback != nil {
		s.logger.WarnContext(ctx, "status cache not updated", "athlete_id", athleteID, "error", err)
		return nil
	}
	return err
}

// State exposes the breaker state for readiness checks.
func (s *BreakerStatusStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerStatusStore) warm(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) {
	if err := s.saveCached(ctx, athleteID, status); err != nil {
		s.logger.DebugContext(ctx, "status cache not warmed", "athlete_id", athleteID, "error", err)
	}
}

func (s *BreakerStatusStore) cachedStatus(ctx context.Context, athleteID uuid.UUID) (progress.CompositeStatus, bool, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		status, found, err := s.inner.LastStatus(ctx, athleteID)
		return lastStatusResult{status: status, found: found}, err
	})
	if err != nil {
		return progress.CompositeStatus{}, false, translate(err)
	}
	r := result.(lastStatusResult)
	return r.status, r.found, nil
}

func (s *BreakerStatusStore) saveCached(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.SaveStatus(ctx, athleteID, status)
	})
	return translate(err)
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}
