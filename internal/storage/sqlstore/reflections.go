package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusflow/internal/models"
)

func (q *Queries) GetDailyReflection(ctx context.Context, userID, date string) (*models.DailyReflection, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(`
		SELECT id, user_id, reflection_date, gratitude, achievements, challenges,
		       tomorrow_goals, mood_rating, created_at, updated_at
		FROM daily_reflections
		WHERE user_id = ? AND reflection_date = ?`), userID, date)

	var r models.DailyReflection
	var gratitude, achievements, challenges, tomorrowGoals sql.NullString
	var mood sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(
		&r.ID, &r.UserID, &r.Date, &gratitude, &achievements, &challenges,
		&tomorrowGoals, &mood, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	r.Gratitude = gratitude.String
	r.Achievements = achievements.String
	r.Challenges = challenges.String
	r.TomorrowGoals = tomorrowGoals.String
	r.MoodRating = int(mood.Int64)
	if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertDailyReflection inserts the reflection for (user, date), or on
// conflict overwrites only the columns present in the patch.
func (q *Queries) UpsertDailyReflection(ctx context.Context, userID, date string, p models.ReflectionPatch, now time.Time) error {
	columns := []string{"id", "user_id", "reflection_date", "created_at", "updated_at"}
	args := []any{uuid.New().String(), userID, date, formatTimestamp(now), formatTimestamp(now)}
	updates := []string{"updated_at = excluded.updated_at"}

	add := func(column string, value any) {
		columns = append(columns, column)
		args = append(args, value)
		updates = append(updates, column+" = excluded."+column)
	}
	if p.Gratitude != nil {
		add("gratitude", nullString(*p.Gratitude))
	}
	if p.Achievements != nil {
		add("achievements", nullString(*p.Achievements))
	}
	if p.Challenges != nil {
		add("challenges", nullString(*p.Challenges))
	}
	if p.TomorrowGoals != nil {
		add("tomorrow_goals", nullString(*p.TomorrowGoals))
	}
	if p.MoodRating != nil {
		add("mood_rating", nullInt(*p.MoodRating))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := `INSERT INTO daily_reflections (` + strings.Join(columns, ", ") + `)
		VALUES (` + placeholders + `)
		ON CONFLICT (user_id, reflection_date) DO UPDATE SET ` + strings.Join(updates, ", ")

	if _, err := q.db.ExecContext(ctx, q.rebind(query), args...); err != nil {
		return fmt.Errorf("failed to save reflection for %s: %w", date, err)
	}
	return nil
}
