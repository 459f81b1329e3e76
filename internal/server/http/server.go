// Package httpserver exposes the Librarium JSON API over HTTP.
package httpserver

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/avk-dev/librarium/internal/errs"
	"github.com/avk-dev/librarium/internal/model"
	"github.com/avk-dev/librarium/internal/service"
	"github.com/avk-dev/librarium/internal/store"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth        service.AuthService
	collections service.CollectionService
	content     store.ContentStore
	signKey     []byte
	log         *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, collections service.CollectionService, content store.ContentStore, signKey []byte, log *zap.Logger) *Server {
	return &Server{auth: auth, collections: collections, content: content, signKey: signKey, log: log}
}

// Router builds the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.log), Logging(s.log))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/uploads/:name", s.serveContent)

	api := r.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/collections", BearerSubject(s.signKey), s.createCollection)
	api.GET("/collections", s.listCollections)
	api.GET("/collections/:id", s.getCollection)
	api.GET("/dashboard", s.dashboard)

	return r
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and password required"})
		return
	}

	u, err := s.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
		s.serverError(c, "register", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u.Safe()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	tok, u, err := s.auth.LoginWithIP(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, errs.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts. Try again later."})
		default:
			s.serverError(c, "login", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"user":        u.Safe(),
		"accessToken": tok.AccessToken,
		"expiresAt":   tok.ExpiresAt,
	})
}

// --- Collections ---

type createCollectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CoverName   string `json:"coverName"`
	CoverData   string `json:"coverData"`
	FileName    string `json:"fileName"`
	FileData    string `json:"fileData"`
	AuthorID    string `json:"authorId"`
}

func (s *Server) createCollection(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	authorID := req.AuthorID
	if authorID == "" {
		// a valid bearer token names the uploading user
		if id, ok := authedUserID(c); ok {
			authorID = id.String()
		}
	}

	created, err := s.collections.Ingest(c.Request.Context(), model.IngestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CoverName:   req.CoverName,
		CoverData:   req.CoverData,
		FileName:    req.FileName,
		FileData:    req.FileData,
		AuthorID:    authorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		case errors.Is(err, errs.ErrNoAuthor):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No author available. Create a user first."})
		default:
			s.serverError(c, "ingest", err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "collection": created})
}

func (s *Server) listCollections(c *gin.Context) {
	list, err := s.collections.List(c.Request.Context())
	if err != nil {
		s.serverError(c, "list collections", err)
		return
	}
	if list == nil {
		list = []model.Collection{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getCollection(c *gin.Context) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}
	col, err := s.collections.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		s.serverError(c, "get collection", err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (s *Server) dashboard(c *gin.Context) {
	stats, err := s.collections.Dashboard(c.Request.Context())
	if err != nil {
		s.log.Error("dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard data"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// serveContent streams a stored file out of the active content store.
func (s *Server) serveContent(c *gin.Context) {
	name := c.Param("name")
	b, err := s.content.Get(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		s.serverError(c, "serve content", err)
		return
	}
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	c.Data(http.StatusOK, ct, b)
}

// serverError logs the cause and answers with the generic error body.
func (s *Server) serverError(c *gin.Context, op string, err error) {
	s.log.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
