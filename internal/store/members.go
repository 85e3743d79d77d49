package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AddMember appends a member to the group. The insert is conditional on
// the (group_id, member_uid) pair not existing, so two concurrent joins
// with the same code cannot both succeed.
func (s *PostgresStore) AddMember(ctx context.Context, groupID uuid.UUID, m models.Member) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO support_group_members (group_id, member_uid, name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (group_id, member_uid) DO NOTHING
	`, groupID, m.UID, m.Name, m.Role, m.JoinedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyMember
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE support_groups SET updated_at = $2 WHERE id = $1
	`, groupID, m.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to touch support group: %w", err)
	}
	return nil
}

// ListMembers returns the group's members, owner first, then by join time.
func (s *PostgresStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT member_uid, name, role, joined_at
		FROM support_group_members
		WHERE group_id = $1
		ORDER BY (role = 'parent') DESC, joined_at ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UID, &m.Name, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports whether uid belongs to the group.
func (s *PostgresStore) IsMember(ctx context.Context, groupID uuid.UUID, uid string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM support_group_members
			WHERE group_id = $1 AND member_uid = $2
		)
	`, groupID, uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// getMemberRole returns the member's current role, or ErrNotFound.
func (s *PostgresStore) getMemberRole(ctx context.Context, groupID uuid.UUID, uid string) (models.Role, error) {
	var role models.Role
	err := s.pool.QueryRow(ctx, `
		SELECT role FROM support_group_members
		WHERE group_id = $1 AND member_uid = $2
	`, groupID, uid).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to query member role: %w", err)
	}
	return role, nil
}

// UpdateMemberName renames a member.
func (s *PostgresStore) UpdateMemberName(ctx context.Context, groupID uuid.UUID, uid, name string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE support_group_members SET name = $3
		WHERE group_id = $1 AND member_uid = $2
	`, groupID, uid, name)
	if err != nil {
		return fmt.Errorf("failed to update member name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMemberRole changes a non-owner member's role.
func (s *PostgresStore) UpdateMemberRole(ctx context.Context, groupID uuid.UUID, uid string, role models.Role) error {
	current, err := s.getMemberRole(ctx, groupID, uid)
	if err != nil {
		return err
	}
	if current == models.RoleParent {
		return ErrOwnerMember
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE support_group_members SET role = $3
		WHERE group_id = $1 AND member_uid = $2 AND role <> 'parent'
	`, groupID, uid, role)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember removes a non-owner member from the group.
func (s *PostgresStore) RemoveMember(ctx context.Context, groupID uuid.UUID, uid string) error {
	current, err := s.getMemberRole(ctx, groupID, uid)
	if err != nil {
		return err
	}
	if current == models.RoleParent {
		return ErrOwnerMember
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM support_group_members
		WHERE group_id = $1 AND member_uid = $2 AND role <> 'parent'
	`, groupID, uid)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
