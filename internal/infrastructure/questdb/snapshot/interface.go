package snapshot

import (
	"context"
)

// SnapshotRepository persists monitor samples.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type SnapshotRepository interface {
	Store(ctx context.Context, row *Row) error
	GetByFilter(ctx context.Context, filter Filter) ([]*Row, error)
}
