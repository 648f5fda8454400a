package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/focusflow/internal/models"
)

func (q *Queries) ListEnergySamples(ctx context.Context, userID string, limit int) ([]models.EnergySample, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(`
		SELECT id, user_id, energy_value, notes, recorded_at
		FROM energy_levels
		WHERE user_id = ?
		ORDER BY recorded_at DESC, `+q.dialect.InsertOrder+` DESC
		LIMIT ?`), userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []models.EnergySample{}
	for rows.Next() {
		var e models.EnergySample
		var notes sql.NullString
		var recordedAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Value, &notes, &recordedAt); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		if e.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}
		samples = append(samples, e)
	}
	return samples, rows.Err()
}

func (q *Queries) AddEnergySample(ctx context.Context, userID string, e models.EnergySample) (string, error) {
	id := uuid.New().String()
	_, err := q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO energy_levels (id, user_id, energy_value, notes, recorded_at)
		VALUES (?, ?, ?, ?, ?)`),
		id, userID, e.Value, nullString(e.Notes), formatTimestamp(q.now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert energy sample: %w", err)
	}
	return id, nil
}
