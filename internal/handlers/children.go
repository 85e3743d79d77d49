package handlers

import (
	"errors"
	"net/http"

	"github.com/App-Start-Dev/innolympics-api/internal/middleware"
	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/App-Start-Dev/innolympics-api/internal/storage"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/App-Start-Dev/innolympics-api/internal/supportcode"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// codeRetries bounds how many times child creation retries on a support
// code collision before giving up.
const codeRetries = 3

// CreateChild creates a child profile together with its support group.
// The owner becomes the group's sole initial member with the parent
// role. The child's storage folder is initialized afterwards; if that
// fails, the child and group are deleted again so no half-created
// profile survives.
func CreateChild(st store.Store, blobs storage.BlobStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req models.ChildCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
			return
		}

		child := models.Child{
			Name:      req.Name,
			Birthday:  req.Birthday,
			Sex:       req.Sex,
			ASDType:   req.ASDType,
			ParentUID: uid,
		}

		var err error
		for attempt := 0; attempt < codeRetries; attempt++ {
			child.SupportCode, err = supportcode.New()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate support code"})
				return
			}
			err = st.CreateChildWithGroup(c.Request.Context(), &child, middleware.GetAuthName(c))
			if !errors.Is(err, store.ErrCodeTaken) {
				break
			}
		}
		if err != nil {
			log.Error("Failed to create child", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create child"})
			return
		}

		if err := blobs.EnsureFolder(c.Request.Context(), child.ID.String()); err != nil {
			log.Error("Failed to initialize storage folder, rolling back child",
				zap.String("child_id", child.ID.String()), zap.Error(err))
			if delErr := st.DeleteChild(c.Request.Context(), child.ID, uid); delErr != nil {
				log.Error("Compensating delete failed", zap.Error(delErr))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize child storage"})
			return
		}

		c.JSON(http.StatusCreated, child)
	}
}

// ListChildren returns all children owned by the caller.
func ListChildren(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		children, err := st.ListChildren(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query children"})
			return
		}
		c.JSON(http.StatusOK, children)
	}
}

// GetChild returns one child owned by the caller.
func GetChild(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}

		child, err := st.GetChild(c.Request.Context(), childID)
		if err != nil || child.ParentUID != uid {
			c.JSON(http.StatusNotFound, gin.H{"error": "Child not found"})
			return
		}
		c.JSON(http.StatusOK, child)
	}
}

// UpdateChild applies a partial update to a child owned by the caller.
func UpdateChild(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}

		var req models.ChildUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if req.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		child, err := st.UpdateChild(c.Request.Context(), childID, uid, req)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Child not found or unauthorized"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update child"})
			return
		}
		c.JSON(http.StatusOK, child)
	}
}

// DeleteChild removes a child, its support group, memberships, journal
// entries and chat history. Stored files are cleaned up best-effort
// after the records are gone.
func DeleteChild(st store.Store, blobs storage.BlobStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		childID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID format"})
			return
		}

		if err := st.DeleteChild(c.Request.Context(), childID, uid); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Child not found or unauthorized"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete child"})
			return
		}

		if err := blobs.DeleteFolder(c.Request.Context(), childID.String()); err != nil {
			log.Warn("Failed to clean up child storage folder",
				zap.String("child_id", childID.String()), zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{"message": "Child deleted successfully"})
	}
}
