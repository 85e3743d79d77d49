package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a support group member can hold.
// RoleParent is reserved for the owning parent and is assigned only at
// group creation; it can never be granted or revoked through the
// role-update operation.
type Role string

const (
	RoleParent    Role = "parent"
	RoleCaregiver Role = "caregiver"
	RoleTeacher   Role = "teacher"
	RoleTherapist Role = "therapist"
	RoleNone      Role = "none"
)

// AssignableRoles are the roles the owning parent may assign to other
// members. RoleParent is deliberately absent.
var AssignableRoles = []Role{RoleCaregiver, RoleTeacher, RoleTherapist, RoleNone}

// Assignable reports whether the role may be set via the role-update
// operation.
func (r Role) Assignable() bool {
	for _, a := range AssignableRoles {
		if r == a {
			return true
		}
	}
	return false
}

// SupportGroup is the set of caregivers with access to one child's
// records. The owning parent is always the first member.
type SupportGroup struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChildID   uuid.UUID `json:"child_id" db:"child_id"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Member is one identity's membership in a support group.
type Member struct {
	UID      string    `json:"uid" db:"member_uid"`
	Name     string    `json:"name" db:"name"`
	Role     Role      `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// JoinRequest redeems a support code.
type JoinRequest struct {
	Code string `json:"code" binding:"required"`
}

// MemberNameRequest renames the calling member.
type MemberNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// MemberRoleRequest assigns a new role to a member.
type MemberRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}
