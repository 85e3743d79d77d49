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

const childColumns = `id, name, birthday, sex, asd_type, parent_uid, support_group_id, support_code, created_at, updated_at`

func scanChild(row pgx.Row) (*models.Child, error) {
	var child models.Child
	err := row.Scan(
		&child.ID, &child.Name, &child.Birthday, &child.Sex, &child.ASDType,
		&child.ParentUID, &child.SupportGroupID, &child.SupportCode,
		&child.CreatedAt, &child.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan child: %w", err)
	}
	return &child, nil
}

// CreateChildWithGroup inserts the support group, the owner's parent
// membership and the child in a single transaction, so a failure at any
// step leaves no orphaned records.
func (s *PostgresStore) CreateChildWithGroup(ctx context.Context, child *models.Child, ownerName string) error {
	now := time.Now().UTC()
	child.ID = uuid.New()
	child.SupportGroupID = uuid.New()
	child.CreatedAt = now
	child.UpdatedAt = now

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO support_groups (id, child_id, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, child.SupportGroupID, child.ID, child.SupportCode, now)
	if err != nil {
		return fmt.Errorf("failed to create support group: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO support_group_members (group_id, member_uid, name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, child.SupportGroupID, child.ParentUID, ownerName, models.RoleParent, now)
	if err != nil {
		return fmt.Errorf("failed to add owner membership: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO children (`+childColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, child.ID, child.Name, child.Birthday, child.Sex, child.ASDType,
		child.ParentUID, child.SupportGroupID, child.SupportCode,
		child.CreatedAt, child.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrCodeTaken
		}
		return fmt.Errorf("failed to create child: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit child creation: %w", err)
	}
	return nil
}

// ListChildren returns all children owned by parentUID, newest first.
func (s *PostgresStore) ListChildren(ctx context.Context, parentUID string) ([]models.Child, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+childColumns+`
		FROM children
		WHERE parent_uid = $1
		ORDER BY created_at DESC
	`, parentUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	children := []models.Child{}
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, rows.Err()
}

// GetChild returns the child with the given ID.
func (s *PostgresStore) GetChild(ctx context.Context, id uuid.UUID) (*models.Child, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+childColumns+`
		FROM children
		WHERE id = $1
	`, id)
	return scanChild(row)
}

// GetChildByCode resolves a support code to its child. Rotated codes no
// longer resolve because the stored code is replaced in place.
func (s *PostgresStore) GetChildByCode(ctx context.Context, code string) (*models.Child, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+childColumns+`
		FROM children
		WHERE support_code = $1
	`, code)
	return scanChild(row)
}

// UpdateChild applies a partial update to a child owned by parentUID.
func (s *PostgresStore) UpdateChild(ctx context.Context, id uuid.UUID, parentUID string, upd models.ChildUpdateRequest) (*models.Child, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE children
		SET name = COALESCE($3, name),
		    birthday = COALESCE($4, birthday),
		    sex = COALESCE($5, sex),
		    asd_type = COALESCE($6, asd_type),
		    updated_at = $7
		WHERE id = $1 AND parent_uid = $2
		RETURNING `+childColumns+`
	`, id, parentUID, upd.Name, upd.Birthday, upd.Sex, upd.ASDType, time.Now().UTC())
	return scanChild(row)
}

// DeleteChild removes the child and its support group in one transaction.
// Memberships, journal entries and chat history go with them via ON
// DELETE CASCADE.
func (s *PostgresStore) DeleteChild(ctx context.Context, id uuid.UUID, parentUID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var groupID uuid.UUID
	err = tx.QueryRow(ctx, `
		DELETE FROM children
		WHERE id = $1 AND parent_uid = $2
		RETURNING support_group_id
	`, id, parentUID).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete child: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM support_groups WHERE id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete support group: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit child deletion: %w", err)
	}
	return nil
}

// RotateCode replaces the child's support code and keeps the group's
// copy of the code in sync, in one transaction.
func (s *PostgresStore) RotateCode(ctx context.Context, id uuid.UUID, parentUID, newCode string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	var groupID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE children
		SET support_code = $3, updated_at = $4
		WHERE id = $1 AND parent_uid = $2
		RETURNING support_group_id
	`, id, parentUID, newCode, now).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isPgError(err, pgUniqueViolation) {
			return ErrCodeTaken
		}
		return fmt.Errorf("failed to rotate support code: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE support_groups SET code = $2, updated_at = $3 WHERE id = $1
	`, groupID, newCode, now)
	if err != nil {
		return fmt.Errorf("failed to sync support group code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit code rotation: %w", err)
	}
	return nil
}
