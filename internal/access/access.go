// Package access answers "may this caller act on this child, and with
// what privilege?". Every child-scoped handler resolves the caller's
// relationship here before touching stores.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/google/uuid"
)

// ErrForbidden is returned when the caller exists but lacks the required
// relationship to the child.
var ErrForbidden = errors.New("access denied")

// Level is the caller's relationship to a child.
type Level int

const (
	// Stranger has no relationship to the child.
	Stranger Level = iota
	// Member joined the child's support group via its code.
	Member
	// Owner is the parent who created the child.
	Owner
)

func (l Level) String() string {
	switch l {
	case Owner:
		return "owner"
	case Member:
		return "member"
	default:
		return "stranger"
	}
}

// Resolver resolves caller relationships against the persistence layer.
type Resolver struct {
	children store.ChildStore
	groups   store.GroupStore
}

// NewResolver builds a Resolver over the given stores.
func NewResolver(children store.ChildStore, groups store.GroupStore) *Resolver {
	return &Resolver{children: children, groups: groups}
}

// Resolve returns the caller's level relative to the child, along with
// the child record. Returns store.ErrNotFound when the child does not
// exist; the owner is also a member of the group, but reports as Owner.
func (r *Resolver) Resolve(ctx context.Context, childID uuid.UUID, uid string) (Level, *models.Child, error) {
	child, err := r.children.GetChild(ctx, childID)
	if err != nil {
		return Stranger, nil, err
	}
	if child.ParentUID == uid {
		return Owner, child, nil
	}
	isMember, err := r.groups.IsMember(ctx, child.SupportGroupID, uid)
	if err != nil {
		return Stranger, nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if isMember {
		return Member, child, nil
	}
	return Stranger, child, nil
}

// RequireOwner returns the child if uid is its owning parent, and
// ErrForbidden otherwise.
func (r *Resolver) RequireOwner(ctx context.Context, childID uuid.UUID, uid string) (*models.Child, error) {
	level, child, err := r.Resolve(ctx, childID, uid)
	if err != nil {
		return nil, err
	}
	if level != Owner {
		return nil, ErrForbidden
	}
	return child, nil
}

// RequireMember returns the child if uid is its owner or a support group
// member, and ErrForbidden otherwise.
func (r *Resolver) RequireMember(ctx context.Context, childID uuid.UUID, uid string) (*models.Child, error) {
	level, child, err := r.Resolve(ctx, childID, uid)
	if err != nil {
		return nil, err
	}
	if level == Stranger {
		return nil, ErrForbidden
	}
	return child, nil
}
