// Package sqlstore holds the SQL shared by the SQLite and PostgreSQL stores.
// Queries are written with ? placeholders and rebound for the dialect.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/focusflow/internal/constants"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	// Numbered switches ? placeholders to $1, $2, ...
	Numbered bool
	// InsertOrder is the column that breaks created_at ties in insertion order.
	InsertOrder string
}

var (
	SQLite   = Dialect{InsertOrder: "rowid"}
	Postgres = Dialect{Numbered: true, InsertOrder: "seq"}
)

// Queries implements the record operations of storage.Provider over a *sql.DB.
type Queries struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// New returns Queries bound to db. now supplies store-assigned timestamps;
// nil means time.Now.
func New(db *sql.DB, dialect Dialect, now func() time.Time) *Queries {
	if now == nil {
		now = time.Now
	}
	return &Queries{db: db, dialect: dialect, now: now}
}

// DB returns the underlying connection.
func (q *Queries) DB() *sql.DB {
	return q.db
}

func (q *Queries) rebind(query string) string {
	if !q.dialect.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}
