package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// PredictionRepository handles prediction record data access.
type PredictionRepository struct {
	db *store.Database
}

// NewPredictionRepository creates a new prediction repository.
func NewPredictionRepository(db *store.Database) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert inserts a record for a new game_id or, for an existing one,
// replaces predictions and bumps updated_at in place. One record per game,
// latest write wins.
func (r *PredictionRepository) Upsert(ctx context.Context, rec *store.PredictionRecord) error {
	predictions, err := json.Marshal(rec.Predictions)
	if err != nil {
		return fmt.Errorf("marshaling predictions: %w", err)
	}

	query := `
		INSERT INTO predictions (game_id, game_date, home_team, away_team, venue, predictions)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO UPDATE SET
			predictions = EXCLUDED.predictions,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.db.DB().QueryRowContext(ctx, query,
		rec.GameID, rec.GameDate, rec.HomeTeam, rec.AwayTeam, rec.Venue, predictions,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting prediction record: %w", err)
	}

	return nil
}

// GetByGameID finds a prediction record by its game id.
func (r *PredictionRepository) GetByGameID(ctx context.Context, gameID string) (*store.PredictionRecord, error) {
	query := `
		SELECT game_id, game_date, home_team, away_team, venue, predictions, created_at, updated_at
		FROM predictions
		WHERE game_id = $1
	`

	rec, err := scanRecord(r.db.DB().QueryRowContext(ctx, query, gameID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prediction record not found: %s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying prediction record: %w", err)
	}
	return rec, nil
}

// GetByDate returns all prediction records for games on a specific date.
func (r *PredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*store.PredictionRecord, error) {
	query := `
		SELECT game_id, game_date, home_team, away_team, venue, predictions, created_at, updated_at
		FROM predictions
		WHERE game_date = $1::date
		ORDER BY game_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("querying prediction records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetRecent returns the most recently updated prediction records.
func (r *PredictionRepository) GetRecent(ctx context.Context, limit int) ([]*store.PredictionRecord, error) {
	query := `
		SELECT game_id, game_date, home_team, away_team, venue, predictions, created_at, updated_at
		FROM predictions
		ORDER BY updated_at DESC
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent prediction records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord scans one prediction row, unmarshaling the JSONB payload.
func scanRecord(row rowScanner) (*store.PredictionRecord, error) {
	rec := &store.PredictionRecord{}
	var predictions []byte

	err := row.Scan(
		&rec.GameID, &rec.GameDate, &rec.HomeTeam, &rec.AwayTeam, &rec.Venue,
		&predictions, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(predictions, &rec.Predictions); err != nil {
		return nil, fmt.Errorf("unmarshaling predictions: %w", err)
	}
	return rec, nil
}

// scanRecords scans multiple prediction rows.
func scanRecords(rows *sql.Rows) ([]*store.PredictionRecord, error) {
	var records []*store.PredictionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prediction record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
