package handlers

import (
	"github.com/App-Start-Dev/innolympics-api/internal/access"
	"github.com/App-Start-Dev/innolympics-api/internal/ai"
	"github.com/App-Start-Dev/innolympics-api/internal/auth"
	"github.com/App-Start-Dev/innolympics-api/internal/middleware"
	"github.com/App-Start-Dev/innolympics-api/internal/storage"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs. All external
// collaborators are injected; nothing is constructed at package load.
type Dependencies struct {
	Store       store.Store
	Blobs       storage.BlobStore
	Responder   ai.Responder
	Verifier    auth.Verifier
	Logger      *zap.Logger
	Version     string
	CORSOrigins []string
}

// NewRouter builds the gin engine with all routes and middleware wired.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.CORSOrigins
	}
	r.Use(cors.New(corsConfig))

	resolver := access.NewResolver(deps.Store, deps.Store)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "version": deps.Version})
	})

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "message": "API is running"})
	})

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(deps.Verifier))

	// Children
	authed.POST("/child", CreateChild(deps.Store, deps.Blobs, deps.Logger))
	authed.GET("/child", ListChildren(deps.Store))
	authed.GET("/child/:id", GetChild(deps.Store))
	authed.PUT("/child/:id", UpdateChild(deps.Store))
	authed.DELETE("/child/:id", DeleteChild(deps.Store, deps.Blobs, deps.Logger))

	// Support groups
	authed.POST("/support-group/join", JoinSupportGroup(deps.Store))
	authed.GET("/support-group/:child_id/members", ListMembers(resolver, deps.Store))
	authed.PUT("/support-group/:child_id/members/:uid/name", UpdateMemberName(resolver, deps.Store))
	authed.PUT("/support-group/:child_id/members/:uid/role", UpdateMemberRole(resolver, deps.Store))
	authed.DELETE("/support-group/:child_id/members/:uid", RemoveMember(resolver, deps.Store))
	authed.POST("/support-group/:child_id/code", RotateCode(resolver, deps.Store, deps.Logger))

	// Knowledge base
	authed.POST("/knowledge-base/:child_id/upload", UploadFiles(resolver, deps.Blobs, deps.Logger))
	authed.GET("/knowledge-base/:child_id/files", ListFiles(resolver, deps.Blobs))
	authed.DELETE("/knowledge-base/:child_id/files/:filename", DeleteFile(resolver, deps.Blobs))

	// Consultation chat
	authed.POST("/chat", CreateChat(resolver, deps.Store, deps.Responder, deps.Logger))
	authed.GET("/chat/:child_id", ListChat(resolver, deps.Store))

	// Journal
	authed.POST("/journal", CreateJournal(resolver, deps.Store))
	authed.GET("/journal/:child_id", ListJournal(resolver, deps.Store))
	authed.PUT("/journal/:child_id/:entry_id", UpdateJournal(deps.Store))
	authed.DELETE("/journal/:child_id/:entry_id", DeleteJournal(deps.Store))

	return r
}
