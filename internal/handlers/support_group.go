package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/access"
	"github.com/App-Start-Dev/innolympics-api/internal/middleware"
	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/App-Start-Dev/innolympics-api/internal/supportcode"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JoinSupportGroup redeems a support code and adds the caller to the
// child's group with the none role. The membership insert is atomic, so
// concurrent duplicate joins cannot produce two memberships.
func JoinSupportGroup(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req models.JoinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Support group code is required"})
			return
		}
		if !supportcode.Valid(req.Code) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid support group code"})
			return
		}

		child, err := st.GetChildByCode(c.Request.Context(), req.Code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Invalid support group code"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve support code"})
			return
		}

		member := models.Member{
			UID:      uid,
			Name:     middleware.GetAuthName(c),
			Role:     models.RoleNone,
			JoinedAt: time.Now().UTC(),
		}
		if err := st.AddMember(c.Request.Context(), child.SupportGroupID, member); err != nil {
			if errors.Is(err, store.ErrAlreadyMember) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You are already a member of this support group"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join support group"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Successfully joined support group",
			"child_name": child.Name,
		})
	}
}

// ListMembers returns the child's support group members to the owner or
// any existing member.
func ListMembers(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("child_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}

		child, err := resolver.RequireMember(c.Request.Context(), childID, uid)
		if err != nil {
			respondAccessError(c, err)
			return
		}

		members, err := st.ListMembers(c.Request.Context(), child.SupportGroupID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query members"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"child_name":   child.Name,
			"support_code": child.SupportCode,
			"members":      members,
		})
	}
}

// UpdateMemberName lets a member rename themself. Self-service only.
func UpdateMemberName(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("child_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}
		memberUID := c.Param("uid")

		var req models.MemberNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		if uid != memberUID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own name"})
			return
		}

		child, err := resolver.RequireMember(c.Request.Context(), childID, uid)
		if err != nil {
			respondAccessError(c, err)
			return
		}

		if err := st.UpdateMemberName(c.Request.Context(), child.SupportGroupID, memberUID, req.Name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member name"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Name updated successfully"})
	}
}

// UpdateMemberRole lets the owning parent assign one of the assignable
// roles to another member. The parent role itself can be neither granted
// nor revoked here.
func UpdateMemberRole(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("child_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}
		memberUID := c.Param("uid")

		var req models.MemberRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
			return
		}
		if !req.Role.Assignable() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}

		child, err := resolver.RequireOwner(c.Request.Context(), childID, uid)
		if err != nil {
			respondAccessError(c, err)
			return
		}

		if err := st.UpdateMemberRole(c.Request.Context(), child.SupportGroupID, memberUID, req.Role); err != nil {
			switch {
			case errors.Is(err, store.ErrOwnerMember):
				c.JSON(http.StatusForbidden, gin.H{"error": "The owning parent's role cannot be changed"})
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member role"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Member role updated successfully"})
	}
}

// RemoveMember lets the owning parent remove another member. The owner's
// own membership is not removable.
func RemoveMember(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("child_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}
		memberUID := c.Param("uid")

		child, err := resolver.RequireOwner(c.Request.Context(), childID, uid)
		if err != nil {
			respondAccessError(c, err)
			return
		}

		if err := st.RemoveMember(c.Request.Context(), child.SupportGroupID, memberUID); err != nil {
			switch {
			case errors.Is(err, store.ErrOwnerMember):
				c.JSON(http.StatusForbidden, gin.H{"error": "The owning parent cannot be removed from the support group"})
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
	}
}

// RotateCode replaces the child's support code with a freshly generated
// one. The old code stops being redeemable immediately; existing
// memberships are unaffected.
func RotateCode(resolver *access.Resolver, st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("child_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}

		if _, err := resolver.RequireOwner(c.Request.Context(), childID, uid); err != nil {
			respondAccessError(c, err)
			return
		}

		var newCode string
		for attempt := 0; attempt < codeRetries; attempt++ {
			newCode, err = supportcode.New()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate support code"})
				return
			}
			err = st.RotateCode(c.Request.Context(), childID, uid, newCode)
			if !errors.Is(err, store.ErrCodeTaken) {
				break
			}
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Child not found or access denied"})
				return
			}
			log.Error("Failed to rotate support code", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate support code"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Support group code regenerated successfully",
			"new_code": newCode,
		})
	}
}

// respondAccessError maps access resolution failures onto the API's
// error responses. Denied callers get the same 404 as a missing child,
// so the endpoint does not leak which children exist.
func respondAccessError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, access.ErrForbidden) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Child not found or access denied"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve access"})
}
