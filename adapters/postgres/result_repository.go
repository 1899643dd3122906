// Package postgres persists simulation run records. One table holds the
// run identity columns plus the full result as a JSONB payload; the result
// is plain data, so round-tripping it through JSON is lossless.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/internal/errors"
	"teasim/ports"
)

// ResultRepositoryImpl implements ResultRepository for PostgreSQL
type ResultRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &ResultRepositoryImpl{db: db}
}

// Save persists a run record, result payload included
func (r *ResultRepositoryImpl) Save(ctx context.Context, rec *montecarlo.RunRecord) error {
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return errors.Wrap(err, "failed to encode result payload")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO simulation_runs (
			id, label, fingerprint, seed, iterations, completed_iterations,
			failed_iterations, converged, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			fingerprint = EXCLUDED.fingerprint,
			result = EXCLUDED.result`,
		rec.ID.String(), rec.Label, rec.Fingerprint.String(),
		rec.Result.Config.Seed, rec.Result.Config.Iterations,
		rec.Result.Metadata.CompletedIterations, rec.Result.Metadata.FailedIterations,
		rec.Result.Metadata.ConvergenceAchieved, payload, rec.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to save simulation run")
	}
	return nil
}

// GetByID loads a single run by its identifier
func (r *ResultRepositoryImpl) GetByID(ctx context.Context, id core.RunID) (*montecarlo.RunRecord, error) {
	rec := &montecarlo.RunRecord{}
	var payload []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, label, fingerprint, result, created_at
		FROM simulation_runs
		WHERE id = $1
	`, id.String()).Scan(&rec.ID, &rec.Label, &rec.Fingerprint, &payload, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("run " + id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load simulation run")
	}

	if err := json.Unmarshal(payload, &rec.Result); err != nil {
		return nil, errors.Wrap(err, "failed to decode result payload")
	}
	return rec, nil
}

// List returns runs newest-first
func (r *ResultRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*montecarlo.RunRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, fingerprint, result, created_at
		FROM simulation_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list simulation runs")
	}
	defer rows.Close()

	var recs []*montecarlo.RunRecord
	for rows.Next() {
		rec := &montecarlo.RunRecord{}
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.Label, &rec.Fingerprint, &payload, &rec.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan simulation run row")
		}
		if err := json.Unmarshal(payload, &rec.Result); err != nil {
			return nil, errors.Wrap(err, "failed to decode result payload")
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Delete removes a run permanently
func (r *ResultRepositoryImpl) Delete(ctx context.Context, id core.RunID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM simulation_runs WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to delete simulation run")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("run " + id.String())
	}
	return nil
}
