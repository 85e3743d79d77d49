package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const journalColumns = `id, child_id, author_uid, title, content, mood, created_at, updated_at`

func scanJournalEntry(row pgx.Row) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := row.Scan(
		&entry.ID, &entry.ChildID, &entry.AuthorUID, &entry.Title,
		&entry.Content, &entry.Mood, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	return &entry, nil
}

// CreateJournalEntry inserts a new entry; ID and timestamps are filled in.
func (s *PostgresStore) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	now := time.Now().UTC()
	entry.ID = uuid.New()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.ChildID, entry.AuthorUID, entry.Title,
		entry.Content, entry.Mood, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create journal entry: %w", err)
	}
	return nil
}

// ListJournalEntries returns a child's entries, newest first.
func (s *PostgresStore) ListJournalEntries(ctx context.Context, childID uuid.UUID) ([]models.JournalEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+journalColumns+`
		FROM journal_entries
		WHERE child_id = $1
		ORDER BY created_at DESC
	`, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// GetJournalEntry returns the entry with the given ID.
func (s *PostgresStore) GetJournalEntry(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+journalColumns+`
		FROM journal_entries
		WHERE id = $1
	`, id)
	return scanJournalEntry(row)
}

// UpdateJournalEntry applies a partial update to an entry written by
// authorUID.
func (s *PostgresStore) UpdateJournalEntry(ctx context.Context, id uuid.UUID, authorUID string, upd models.JournalUpdateRequest) (*models.JournalEntry, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE journal_entries
		SET title = COALESCE($3, title),
		    content = COALESCE($4, content),
		    mood = COALESCE($5, mood),
		    updated_at = $6
		WHERE id = $1 AND author_uid = $2
		RETURNING `+journalColumns+`
	`, id, authorUID, upd.Title, upd.Content, upd.Mood, time.Now().UTC())
	return scanJournalEntry(row)
}

// DeleteJournalEntry removes an entry written by authorUID.
func (s *PostgresStore) DeleteJournalEntry(ctx context.Context, id uuid.UUID, authorUID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM journal_entries
		WHERE id = $1 AND author_uid = $2
	`, id, authorUID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
