package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"munifund/internal/model"
	"munifund/internal/repositories"
)

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot model.FundingSnapshot) (model.FundingSnapshot, bool, error) {
	previous, err := r.Get(ctx, snapshot.ProjectRef)
	found := true
	if errors.Is(err, repositories.ErrNotFound) {
		found = false
	} else if err != nil {
		return model.FundingSnapshot{}, false, err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO funding_snapshots (project_reference_id, title, committed_amount, commitment_gap, progress, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_reference_id) DO UPDATE SET
			title = EXCLUDED.title,
			committed_amount = EXCLUDED.committed_amount,
			commitment_gap = EXCLUDED.commitment_gap,
			progress = EXCLUDED.progress,
			observed_at = EXCLUDED.observed_at`,
		snapshot.ProjectRef, snapshot.Title, snapshot.CommittedAmount,
		snapshot.CommitmentGap, snapshot.Progress, snapshot.ObservedAt,
	)
	if err != nil {
		return model.FundingSnapshot{}, false, err
	}
	return previous, found, nil
}

func (r *SnapshotRepository) Get(ctx context.Context, projectRef string) (model.FundingSnapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT project_reference_id, title, committed_amount, commitment_gap, progress, observed_at
		FROM funding_snapshots
		WHERE project_reference_id = $1`, projectRef)

	var s model.FundingSnapshot
	err := row.Scan(&s.ProjectRef, &s.Title, &s.CommittedAmount, &s.CommitmentGap, &s.Progress, &s.ObservedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.FundingSnapshot{}, repositories.ErrNotFound
	}
	if err != nil {
		return model.FundingSnapshot{}, err
	}
	return s, nil
}

func (r *SnapshotRepository) List(ctx context.Context) ([]model.FundingSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT project_reference_id, title, committed_amount, commitment_gap, progress, observed_at
		FROM funding_snapshots
		ORDER BY observed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []model.FundingSnapshot
	for rows.Next() {
		var s model.FundingSnapshot
		if err := rows.Scan(&s.ProjectRef, &s.Title, &s.CommittedAmount, &s.CommitmentGap, &s.Progress, &s.ObservedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
