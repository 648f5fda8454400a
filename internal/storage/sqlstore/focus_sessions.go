package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/storage"
)

const focusSessionColumns = `id, user_id, title, duration_min, category, completed,
	scheduled_time, completed_at, created_at, updated_at`

func (q *Queries) ListFocusSessions(ctx context.Context, userID string) ([]models.FocusSession, error) {
	return q.queryFocusSessions(ctx, `
		SELECT `+focusSessionColumns+`
		FROM focus_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, `+q.dialect.InsertOrder+` DESC`, userID)
}

func (q *Queries) ListScheduledFocusSessions(ctx context.Context, userID, hhmm string) ([]models.FocusSession, error) {
	return q.queryFocusSessions(ctx, `
		SELECT `+focusSessionColumns+`
		FROM focus_sessions
		WHERE user_id = ? AND completed = ? AND scheduled_time = ?
		ORDER BY created_at, `+q.dialect.InsertOrder, userID, false, hhmm)
}

func (q *Queries) queryFocusSessions(ctx context.Context, query string, args ...any) ([]models.FocusSession, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.FocusSession{}
	for rows.Next() {
		s, err := scanFocusSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanFocusSession(rows *sql.Rows) (models.FocusSession, error) {
	var s models.FocusSession
	var category, createdAt, updatedAt string
	var scheduledTime, completedAt sql.NullString

	err := rows.Scan(
		&s.ID, &s.UserID, &s.Title, &s.DurationMin, &category, &s.Completed,
		&scheduledTime, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.FocusSession{}, err
	}

	s.Category = models.Category(category)
	s.ScheduledTime = scheduledTime.String
	if completedAt.Valid {
		at, err := parseTimestamp(completedAt.String)
		if err != nil {
			return models.FocusSession{}, err
		}
		s.CompletedAt = &at
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.FocusSession{}, err
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.FocusSession{}, err
	}
	return s, nil
}

func (q *Queries) AddFocusSession(ctx context.Context, userID string, s models.FocusSession) (string, error) {
	id := uuid.New().String()
	now := q.now()
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO focus_sessions (`+focusSessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, userID, s.Title, s.DurationMin, string(s.Category), s.Completed,
		nullString(s.ScheduledTime), nullTimestamp(s.CompletedAt),
		formatTimestamp(now), formatTimestamp(updatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert focus session: %w", err)
	}
	return id, nil
}

func (q *Queries) UpdateFocusSession(ctx context.Context, userID string, p models.FocusSessionPatch, updatedAt time.Time) error {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.DurationMin != nil {
		set("duration_min", *p.DurationMin)
	}
	if p.Category != nil {
		set("category", string(*p.Category))
	}
	if p.ScheduledTime != nil {
		set("scheduled_time", nullString(*p.ScheduledTime))
	}
	if p.Completed != nil {
		set("completed", *p.Completed)
		if *p.Completed {
			set("completed_at", nullTimestamp(p.CompletedAt))
		} else {
			set("completed_at", sql.NullString{})
		}
	}
	set("updated_at", formatTimestamp(updatedAt))
	args = append(args, p.ID, userID)

	res, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE focus_sessions SET `+strings.Join(sets, ", ")+`
		WHERE id = ? AND user_id = ?`), args...)
	if err != nil {
		return fmt.Errorf("failed to update focus session %s: %w", p.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: focus session %s", storage.ErrNotFound, p.ID)
	}
	return nil
}
