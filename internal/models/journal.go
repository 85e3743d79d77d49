package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a dated observation about a child, written by the
// parent or a support group member.
type JournalEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChildID   uuid.UUID `json:"child_id" db:"child_id"`
	AuthorUID string    `json:"author_uid" db:"author_uid"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Mood      *string   `json:"mood,omitempty" db:"mood"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JournalCreateRequest creates a new journal entry for a child.
type JournalCreateRequest struct {
	ChildID uuid.UUID `json:"child_id" binding:"required"`
	Title   string    `json:"title" binding:"required"`
	Content string    `json:"content" binding:"required"`
	Mood    *string   `json:"mood,omitempty"`
}

// JournalUpdateRequest carries a partial update; nil fields are left untouched.
type JournalUpdateRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Mood    *string `json:"mood,omitempty"`
}

// Empty reports whether the update would change nothing.
func (r JournalUpdateRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Mood == nil
}
