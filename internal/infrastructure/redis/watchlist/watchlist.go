package watchlist

import (
	"context"
	"slices"
	"strings"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/redis"
)

const setKey = "watchlist"

// Store reads the watchlist from a Redis set. When the set cannot be read or
// is empty the static fallback list is used instead.
type Store struct {
	client   redis.Client
	fallback []string
	logger   logger.Interface
}

// NewStore creates a Redis backed watchlist.
func NewStore(client redis.Client, fallback []string, log logger.Interface) *Store {
	return &Store{
		client:   client,
		fallback: normalize(fallback),
		logger:   log,
	}
}

// Symbols returns the instruments sorted and without duplicates.
func (s *Store) Symbols(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, setKey)
	if err != nil {
		if len(s.fallback) == 0 {
			return nil, errors.WithCode(err, errors.WatchlistError, setKey, "read watchlist")
		}
		s.logger.WarnContext(ctx, "Watchlist unavailable, using fallback",
			logger.NewField("error", err.Error()),
			logger.NewField("symbols", len(s.fallback)),
		)
		return slices.Clone(s.fallback), nil
	}

	symbols := normalize(members)
	if len(symbols) == 0 {
		return slices.Clone(s.fallback), nil
	}
	return symbols, nil
}

// Static is a fixed watchlist.
type Static []string

// Symbols implements the poller watchlist.
func (s Static) Symbols(context.Context) ([]string, error) {
	return normalize(s), nil
}

func normalize(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
