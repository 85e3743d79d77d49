package handlers

import (
	"net/http"

	"github.com/App-Start-Dev/innolympics-api/internal/access"
	"github.com/App-Start-Dev/innolympics-api/internal/ai"
	"github.com/App-Start-Dev/innolympics-api/internal/middleware"
	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateChat asks the consultation model a question about a child and
// appends the exchange to the child's chat history. Owner or support
// group member.
func CreateChat(resolver *access.Resolver, st store.Store, responder ai.Responder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.GetAuthUID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Child ID and message are required"})
			return
		}

		child, err := resolver.RequireMember(c.Request.Context(), req.ChildID, uid)
		if err != nil {
			respondAccessError(c, err)
			return
		}

		// The child's recent journal entries are the consultation
		// document the model answers against.
		journal, err := st.ListJournalEntries(c.Request.Context(), child.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load child history"})
			return
		}

		prompt := ai.ConsultationPrompt(child, journal, req.Message)
		response, err := responder.Respond(c.Request.Context(), prompt)
		if err != nil {
			log.Error("Generation failed", zap.String("child_id", child.ID.String()), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Consultation service unavailable"})
			return
		}

		entry := models.ChatEntry{
			ChildID:   child.ID,
			AuthorUID: uid,
			Question:  req.Message,
			Response:  response,
		}
		if err := st.AppendChatEntry(c.Request.Context(), &entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save chat entry"})
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

// ListChat returns a child's consultation history in chronological
// order. Owner or support group member.
func ListChat(resolver *access.Resolver, st store.Store) gin.HandlerFunc {
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

		entries, err := st.ListChatEntries(c.Request.Context(), childID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query chat history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}
