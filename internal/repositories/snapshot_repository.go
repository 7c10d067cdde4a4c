package repositories

import (
	"context"
	"errors"

	"munifund/internal/model"
)

var ErrNotFound = errors.New("record not found")

// SnapshotRepository persists the last observed funding state per project so
// the watch service can tell whether a poll moved anything.
type SnapshotRepository interface {
	// Upsert stores the snapshot and returns the previous one. found is
	// false on first sight of a project.
	Upsert(ctx context.Context, snapshot model.FundingSnapshot) (previous model.FundingSnapshot, found bool, err error)
	Get(ctx context.Context, projectRef string) (model.FundingSnapshot, error)
	List(ctx context.Context) ([]model.FundingSnapshot, error)
}
