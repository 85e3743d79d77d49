package handlers

import (
	"errors"
	"net/http"

	"github.com/App-Start-Dev/innolympics-api/internal/access"
	"github.com/App-Start-Dev/innolympics-api/internal/middleware"
	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateJournal adds a journal entry for a child. Owner or support
// group member; the entry records its author.
func CreateJournal(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req models.JournalCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Child ID, title and content are required"})
			return
		}

		if _, err := resolver.RequireMember(c.Request.Context(), req.ChildID, uid); err != nil {
			respondAccessError(c, err)
			return
		}

		entry := models.JournalEntry{
			ChildID:   req.ChildID,
			AuthorUID: uid,
			Title:     req.Title,
			Content:   req.Content,
			Mood:      req.Mood,
		}
		if err := st.CreateJournalEntry(c.Request.Context(), &entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

// ListJournal returns a child's journal entries, newest first. Owner or
// support group member.
func ListJournal(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
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

		if _, err := resolver.RequireMember(c.Request.Context(), childID, uid); err != nil {
			respondAccessError(c, err)
			return
		}

		entries, err := st.ListJournalEntries(c.Request.Context(), childID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query journal entries"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// UpdateJournal applies a partial update to an entry. Author only.
func UpdateJournal(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		entryID, err := uuid.Parse(c.Param("entry_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
			return
		}

		var req models.JournalUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if req.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		entry, err := st.UpdateJournalEntry(c.Request.Context(), entryID, uid, req)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found or unauthorized"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal entry"})
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}

// DeleteJournal removes an entry. Author only.
func DeleteJournal(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		entryID, err := uuid.Parse(c.Param("entry_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
			return
		}

		if err := st.DeleteJournalEntry(c.Request.Context(), entryID, uid); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found or unauthorized"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal entry"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Journal entry deleted successfully"})
	}
}
