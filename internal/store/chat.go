package store

import (
	"context"
	"fmt"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/google/uuid"
)

// AppendChatEntry records one question/response exchange; ID and
// timestamp are filled in.
func (s *PostgresStore) AppendChatEntry(ctx context.Context, entry *models.ChatEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_entries (id, child_id, author_uid, question, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.ChildID, entry.AuthorUID, entry.Question, entry.Response, entry.CreatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to append chat entry: %w", err)
	}
	return nil
}

// ListChatEntries returns a child's consultation history in
// chronological order.
func (s *PostgresStore) ListChatEntries(ctx context.Context, childID uuid.UUID) ([]models.ChatEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, child_id, author_uid, question, response, created_at
		FROM chat_entries
		WHERE child_id = $1
		ORDER BY created_at ASC
	`, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat entries: %w", err)
	}
	defer rows.Close()

	entries := []models.ChatEntry{}
	for rows.Next() {
		var entry models.ChatEntry
		err := rows.Scan(&entry.ID, &entry.ChildID, &entry.AuthorUID,
			&entry.Question, &entry.Response, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
