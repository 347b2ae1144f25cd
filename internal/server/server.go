package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contactsphere/backend/internal/backup"
	"github.com/contactsphere/backend/internal/config"
	"github.com/contactsphere/backend/internal/core"
	"github.com/contactsphere/backend/internal/core/model"
	"github.com/contactsphere/backend/internal/source"
	"github.com/contactsphere/backend/pkg/logger"
)

type Server struct {
	Graph  *core.ContactGraph
	Backup *backup.Service

	cfg *config.Config
	log *zap.Logger
}

func NewServer(graph *core.ContactGraph, cfg *config.Config) *Server {
	return &Server{
		Graph:  graph,
		Backup: backup.NewService(graph),
		cfg:    cfg,
		log:    logger.Get(),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestLogger(s.log))
	r.Use(gin.Recovery())
	r.Use(cors())

	r.GET("/", s.Health)

	api := r.Group("/api")
	{
		api.POST("/sync", s.SyncContacts)
		api.GET("/contacts", s.GetContacts)
		api.GET("/contacts/uncategorized", s.GetUncategorizedContacts)
		api.GET("/contacts/:id", s.GetContact)
		api.POST("/contacts/:id/tags", s.AddTag)
		api.DELETE("/contacts/:id/tags/:tag", s.RemoveTag)
		api.PUT("/contacts/:id/notes", s.UpdateNotes)
		api.GET("/edges", s.GetEdges)
		api.GET("/organizations", s.GetOrganizations)
		api.GET("/graph/stats", s.GetStats)
		api.GET("/graph/path/:source_id/:target_id", s.GetShortestPath)
		api.GET("/graph/communities", s.GetCommunities)
		api.GET("/backup/download", s.DownloadBackup)
		api.POST("/backup/restore", s.RestoreBackup)
	}

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "contactsphere"})
}

type SyncRequest struct {
	Contacts  []model.Contact `json:"contacts"`
	SyncToken string          `json:"sync_token"`
}

func (s *Server) SyncContacts(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	contacts, err := source.FetchAll(ctx, &source.Static{SourceName: "push", Records: req.Contacts})
	if err != nil {
		s.fail(c, "failed to collect contacts", err)
		return
	}

	result, err := s.Graph.Sync(ctx, contacts)
	if err != nil {
		s.fail(c, "sync failed", err)
		return
	}

	if req.SyncToken != "" {
		if err := s.Graph.SetSyncToken(ctx, req.SyncToken); err != nil {
			s.fail(c, "failed to store sync token", err)
			return
		}
		result.SyncToken = req.SyncToken
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) GetContacts(c *gin.Context) {
	contacts, err := s.Graph.Contacts(c.Request.Context(), c.Query("search"))
	if err != nil {
		s.fail(c, "failed to fetch contacts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "count": len(contacts)})
}

func (s *Server) GetUncategorizedContacts(c *gin.Context) {
	contacts, err := s.Graph.UncategorizedContacts(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to fetch uncategorized contacts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "count": len(contacts)})
}

func (s *Server) GetContact(c *gin.Context) {
	contact, err := s.Graph.ContactByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	if err != nil {
		s.fail(c, "failed to fetch contact", err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

type TagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

func (s *Server) AddTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag is required"})
		return
	}

	err := s.Graph.AddTag(c.Request.Context(), c.Param("id"), req.Tag)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	if err != nil {
		s.fail(c, "failed to add tag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) RemoveTag(c *gin.Context) {
	err := s.Graph.RemoveTag(c.Request.Context(), c.Param("id"), c.Param("tag"))
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	if err != nil {
		s.fail(c, "failed to remove tag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) UpdateNotes(c *gin.Context) {
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := s.Graph.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	if err != nil {
		s.fail(c, "failed to update notes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) GetEdges(c *gin.Context) {
	edges, err := s.Graph.Edges(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to fetch edges", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"edges": edges, "count": len(edges)})
}

func (s *Server) GetOrganizations(c *gin.Context) {
	orgs, err := s.Graph.Organizations(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to fetch organizations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs, "count": len(orgs)})
}

func (s *Server) GetStats(c *gin.Context) {
	stats, err := s.Graph.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to fetch stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) GetShortestPath(c *gin.Context) {
	path, err := s.Graph.ShortestPath(c.Request.Context(), c.Param("source_id"), c.Param("target_id"))
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no path found"})
		return
	}
	if err != nil {
		s.fail(c, "failed to compute path", err)
		return
	}
	c.JSON(http.StatusOK, path)
}

func (s *Server) GetCommunities(c *gin.Context) {
	communities, err := s.Graph.Communities(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to detect communities", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities, "count": len(communities)})
}

func (s *Server) DownloadBackup(c *gin.Context) {
	b, err := s.Backup.Create(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to create backup", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contactsphere_backup.json"`)
	c.JSON(http.StatusOK, b)
}

func (s *Server) RestoreBackup(c *gin.Context) {
	var b model.Backup
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid backup document"})
		return
	}

	clearExisting := c.Query("clear_existing") == "true"
	result, err := s.Backup.Restore(c.Request.Context(), &b, clearExisting)
	if err != nil {
		s.fail(c, "restore failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	s.log.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
