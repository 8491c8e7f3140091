package diary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
)

var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrPartialReading = errors.New("temperature and humidity must both be set or both be empty")
	ErrMissingUserID  = errors.New("user id is required")
)

// DefaultListLimit caps ListEntries when the caller passes a non-positive limit.
const DefaultListLimit = 50

const (
	insertEntryStatement = `
	INSERT INTO irrigation_activities (id, user_id, action, note, temperature, humidity, weather_location)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id, user_id, action, note, temperature, humidity, weather_location, created_at
	`

	getEntryStatement = `
	SELECT id, user_id, action, note, temperature, humidity, weather_location, created_at
	FROM irrigation_activities
	WHERE id = ?
	`

	listEntriesStatement = `
	SELECT id, user_id, action, note, temperature, humidity, weather_location, created_at
	FROM irrigation_activities
	WHERE user_id = ?
	ORDER BY created_at DESC, id
	LIMIT ?
	`

	deleteEntryStatement = `
	DELETE FROM irrigation_activities
	WHERE id = ?
	`
)

// InsertEntry stores a new entry and returns it as persisted. The row is only
// committed once it has been read back, so an error means nothing was stored.
func InsertEntry(ctx context.Context, db *sql.DB, in NewEntry) (Entry, error) {
	if in.UserID == "" {
		return Entry{}, ErrMissingUserID
	}
	if (in.Temperature == nil) != (in.Humidity == nil) {
		return Entry{}, ErrPartialReading
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	entry, err := scanEntry(tx.QueryRowContext(
		ctx,
		pkgdb.Rebind(db, insertEntryStatement),
		uuid.New(),
		in.UserID,
		in.Action,
		nullString(in.Note),
		nullFloat(in.Temperature),
		nullFloat(in.Humidity),
		in.WeatherLocation,
	))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("failed to commit entry: %w", err)
	}
	return entry, nil
}

// GetEntry retrieves an entry by id.
func GetEntry(ctx context.Context, db *sql.DB, id uuid.UUID) (Entry, error) {
	entry, err := scanEntry(db.QueryRowContext(ctx, pkgdb.Rebind(db, getEntryStatement), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

// ListEntries returns the newest entries of a user first.
func ListEntries(ctx context.Context, db *sql.DB, userID string, limit int) ([]Entry, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.QueryContext(ctx, pkgdb.Rebind(db, listEntriesStatement), userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteEntry permanently removes an entry.
func DeleteEntry(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, pkgdb.Rebind(db, deleteEntryStatement), id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Store binds the package functions to one database handle.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) InsertEntry(ctx context.Context, in NewEntry) (Entry, error) {
	return InsertEntry(ctx, s.DB, in)
}

func (s *Store) ListEntries(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return ListEntries(ctx, s.DB, userID, limit)
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (Entry, error) {
	return GetEntry(ctx, s.DB, id)
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return DeleteEntry(ctx, s.DB, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry       Entry
		note        sql.NullString
		temperature sql.NullFloat64
		humidity    sql.NullFloat64
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Action,
		&note,
		&temperature,
		&humidity,
		&entry.WeatherLocation,
		&entry.CreatedAt,
	)
	if err != nil {
		return Entry{}, err
	}

	if note.Valid {
		entry.Note = &note.String
	}
	if temperature.Valid {
		entry.Temperature = &temperature.Float64
	}
	if humidity.Valid {
		entry.Humidity = &humidity.Float64
	}
	return entry, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
