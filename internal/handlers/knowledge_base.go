package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/access"
	"github.com/App-Start-Dev/innolympics-api/internal/middleware"
	"github.com/App-Start-Dev/innolympics-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadFiles stores one or more files in the child's knowledge base
// folder. Owner only. Files are renamed to timestamped names so
// uploads never collide.
func UploadFiles(resolver *access.Resolver, blobs storage.BlobStore, log *zap.Logger) gin.HandlerFunc {
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

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files selected"})
			return
		}

		timestamp := time.Now().UTC().Format("20060102_150405")
		uploaded := []gin.H{}
		for i, header := range files {
			if header.Filename == "" {
				continue
			}

			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
				return
			}

			storedName := fmt.Sprintf("%s_%d%s", timestamp, i, filepath.Ext(header.Filename))
			contentType := header.Header.Get("Content-Type")

			err = blobs.Upload(c.Request.Context(), childID.String(), storedName, file, contentType)
			file.Close()
			if err != nil {
				log.Error("Failed to upload file",
					zap.String("child_id", childID.String()),
					zap.String("filename", header.Filename), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
				return
			}

			uploaded = append(uploaded, gin.H{
				"original_name": header.Filename,
				"stored_name":   storedName,
				"content_type":  contentType,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Successfully uploaded %d files", len(uploaded)),
			"files":   uploaded,
		})
	}
}

// ListFiles returns the child's knowledge base files with presigned
// download URLs. Owner or support group member.
func ListFiles(resolver *access.Resolver, blobs storage.BlobStore) gin.HandlerFunc {
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

		files, err := blobs.List(c.Request.Context(), childID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"files": files})
	}
}

// DeleteFile removes one file from the child's knowledge base. Owner
// only.
func DeleteFile(resolver *access.Resolver, blobs storage.BlobStore) gin.HandlerFunc {
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

		if err := blobs.Delete(c.Request.Context(), childID.String(), c.Param("filename")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
	}
}
