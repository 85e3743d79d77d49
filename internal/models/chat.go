package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatEntry is one consultation exchange: a caregiver's question and the
// generated response, appended per child in chronological order.
type ChatEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChildID   uuid.UUID `json:"child_id" db:"child_id"`
	AuthorUID string    `json:"author_uid" db:"author_uid"`
	Question  string    `json:"question" db:"question"`
	Response  string    `json:"response" db:"response"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatRequest asks a question about a specific child.
type ChatRequest struct {
	ChildID uuid.UUID `json:"child_id" binding:"required"`
	Message string    `json:"message" binding:"required"`
}
