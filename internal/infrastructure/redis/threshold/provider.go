package threshold

import (
	"context"
	"math"
	"strconv"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/redis"
)

const (
	configKey = "config"

	fieldLarge = "large_threshold"
	fieldSuper = "super_large_threshold"
)

// Provider resolves the aggregation thresholds.
//
//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock
type Provider interface {
	GetThresholds(ctx context.Context) (aggregator.Thresholds, error)
}

// Store reads thresholds from the Redis config hash on every call so an
// operator can change them between aggregation passes.
type Store struct {
	client   redis.Client
	defaults aggregator.Thresholds
	logger   logger.Interface
}

// NewStore creates a Redis backed provider. defaults are used for missing or
// unreadable fields.
func NewStore(client redis.Client, defaults aggregator.Thresholds, log logger.Interface) *Store {
	return &Store{
		client:   client,
		defaults: defaults,
		logger:   log,
	}
}

// GetThresholds never leaves the caller without thresholds: when Redis is
// unreachable or holds an invalid pair the defaults are returned together
// with a threshold_error.
func (s *Store) GetThresholds(ctx context.Context) (aggregator.Thresholds, error) {
	values, err := s.client.HGetAll(ctx, configKey)
	if err != nil {
		return s.defaults, errors.WithCode(err, errors.ThresholdError, configKey, "read thresholds")
	}

	th := aggregator.Thresholds{
		Large: s.field(ctx, values, fieldLarge, s.defaults.Large),
		Super: s.field(ctx, values, fieldSuper, s.defaults.Super),
	}
	if err := th.Validate(); err != nil {
		return s.defaults, errors.WithCode(err, errors.ThresholdError, configKey, "stored thresholds")
	}
	return th, nil
}

func (s *Store) field(ctx context.Context, values map[string]string, name string, fallback float64) float64 {
	raw, ok := values[name]
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		s.logger.WarnContext(ctx, "Ignoring non-numeric threshold",
			logger.NewField("field", name),
			logger.NewField("value", raw),
		)
		return fallback
	}
	return v
}

// Static always returns the same thresholds.
type Static aggregator.Thresholds

// GetThresholds implements Provider.
func (s Static) GetThresholds(context.Context) (aggregator.Thresholds, error) {
	return aggregator.Thresholds(s), nil
}
