package persistence

import (
	"database/sql"
	"time"
)

// SQLiteTimeLayout is fixed width so that stored timestamps sort and compare
// correctly as text.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatSQLiteTime renders t in UTC for storage.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeLayout)
}

// FormatSQLiteTimePtr renders an optional time; nil becomes NULL.
func FormatSQLiteTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatSQLiteTime(*t), Valid: true}
}

// ParseSQLiteTime parses a stored timestamp.
func ParseSQLiteTime(s string) (time.Time, error) {
	return time.Parse(SQLiteTimeLayout, s)
}

// ParseSQLiteTimePtr parses an optional stored timestamp.
func ParseSQLiteTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseSQLiteTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
