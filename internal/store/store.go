// Package store persists children, support groups, memberships, journal
// entries and chat history. The Postgres implementation is the production
// backend; an in-memory implementation backs handler tests.
package store

import (
	"context"
	"errors"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/google/uuid"
)

// Sentinel errors returned by Store implementations. Handlers map these
// onto HTTP status codes.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyMember = errors.New("already a member of this support group")
	ErrCodeTaken     = errors.New("support code already in use")
	ErrOwnerMember   = errors.New("the owning parent's membership cannot be changed")
)

// ChildStore manages child profiles and their support codes.
type ChildStore interface {
	// CreateChildWithGroup inserts the child, its support group and the
	// owner's parent membership in one transaction. The child's ID,
	// SupportGroupID and timestamps are filled in on success.
	CreateChildWithGroup(ctx context.Context, child *models.Child, ownerName string) error

	ListChildren(ctx context.Context, parentUID string) ([]models.Child, error)
	GetChild(ctx context.Context, id uuid.UUID) (*models.Child, error)
	GetChildByCode(ctx context.Context, code string) (*models.Child, error)

	// UpdateChild applies a partial update to a child owned by parentUID.
	UpdateChild(ctx context.Context, id uuid.UUID, parentUID string, upd models.ChildUpdateRequest) (*models.Child, error)

	// DeleteChild removes the child and cascades to its support group,
	// memberships, journal entries and chat history.
	DeleteChild(ctx context.Context, id uuid.UUID, parentUID string) error

	// RotateCode replaces the child's support code. The old code stops
	// resolving immediately; memberships are unaffected.
	RotateCode(ctx context.Context, id uuid.UUID, parentUID, newCode string) error
}

// GroupStore manages support group membership.
type GroupStore interface {
	// AddMember appends a member to the group. The insert is conditional
	// on the uid not already being present, so concurrent duplicate joins
	// cannot produce two rows; the loser gets ErrAlreadyMember.
	AddMember(ctx context.Context, groupID uuid.UUID, m models.Member) error

	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.Member, error)
	IsMember(ctx context.Context, groupID uuid.UUID, uid string) (bool, error)

	UpdateMemberName(ctx context.Context, groupID uuid.UUID, uid, name string) error

	// UpdateMemberRole changes a non-owner member's role. Returns
	// ErrOwnerMember when uid holds the parent role.
	UpdateMemberRole(ctx context.Context, groupID uuid.UUID, uid string, role models.Role) error

	// RemoveMember removes a non-owner member. Returns ErrOwnerMember
	// when uid holds the parent role.
	RemoveMember(ctx context.Context, groupID uuid.UUID, uid string) error
}

// JournalStore manages per-child journal entries.
type JournalStore interface {
	CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	ListJournalEntries(ctx context.Context, childID uuid.UUID) ([]models.JournalEntry, error)
	GetJournalEntry(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, id uuid.UUID, authorUID string, upd models.JournalUpdateRequest) (*models.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, id uuid.UUID, authorUID string) error
}

// ChatStore manages the append-only consultation history.
type ChatStore interface {
	AppendChatEntry(ctx context.Context, entry *models.ChatEntry) error
	ListChatEntries(ctx context.Context, childID uuid.UUID) ([]models.ChatEntry, error)
}

// Store is the full persistence surface the handlers depend on.
type Store interface {
	ChildStore
	GroupStore
	JournalStore
	ChatStore
}
