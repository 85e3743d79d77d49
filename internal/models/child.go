package models

import (
	"time"

	"github.com/google/uuid"
)

// Child represents a child profile owned by the parent who created it.
// Every child has exactly one support group, created in the same
// transaction, and a rotatable six-digit support code that caregivers
// redeem to join that group.
type Child struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Birthday       string    `json:"birthday" db:"birthday"`
	Sex            string    `json:"sex" db:"sex"`
	ASDType        string    `json:"asd_type" db:"asd_type"`
	ParentUID      string    `json:"parent_uid" db:"parent_uid"`
	SupportGroupID uuid.UUID `json:"support_group_id" db:"support_group_id"`
	SupportCode    string    `json:"support_code" db:"support_code"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ChildCreateRequest is the payload for creating a child profile.
type ChildCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Birthday string `json:"birthday" binding:"required"`
	Sex      string `json:"sex" binding:"required"`
	ASDType  string `json:"asd_type" binding:"required"`
}

// ChildUpdateRequest carries a partial update; nil fields are left untouched.
type ChildUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Birthday *string `json:"birthday,omitempty"`
	Sex      *string `json:"sex,omitempty"`
	ASDType  *string `json:"asd_type,omitempty"`
}

// Empty reports whether the update would change nothing.
func (r ChildUpdateRequest) Empty() bool {
	return r.Name == nil && r.Birthday == nil && r.Sex == nil && r.ASDType == nil
}
