package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/privateboard/privateboard/internal/posts"
	"github.com/privateboard/privateboard/pkg/metrics"
)

// PostsHandler exposes post creation and unlocking over HTTP.
type PostsHandler struct {
	svc *posts.Service
}

func NewPostsHandler(svc *posts.Service) *PostsHandler {
	return &PostsHandler{svc: svc}
}

func (h *PostsHandler) Register(r gin.IRouter) {
	r.POST("/posts", h.Create)
	r.POST("/posts/:slug/unlock", h.Unlock)
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Password string `json:"password"`
	// ExpiresIn is an optional lifetime in hours.
	ExpiresIn *int `json:"expiresIn,omitempty"`
}

// Create accepts { title, content, password, expiresIn? } and returns
// { slug } with 201.
func (h *PostsHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == "" || req.Content == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, content, password are required"})
		return
	}
	if req.ExpiresIn != nil && *req.ExpiresIn <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiresIn must be positive"})
		return
	}

	slug, err := h.svc.Create(c.Request.Context(), req.Title, req.Content, req.Password, req.ExpiresIn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	metrics.PostsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{"slug": slug})
}

type unlockPostRequest struct {
	Password string `json:"password"`
}

// Unlock verifies the password for a slug and returns the payload. The
// three failure modes stay distinguishable for the client: 404 unknown
// slug, 410 expired, 401 wrong password.
func (h *PostsHandler) Unlock(c *gin.Context) {
	var req unlockPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	post, err := h.svc.Unlock(c.Request.Context(), c.Param("slug"), req.Password)
	switch {
	case err == nil:
		metrics.PostsUnlocked.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, post)
	case errors.Is(err, posts.ErrNotFound):
		metrics.PostsUnlocked.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, posts.ErrExpired):
		metrics.PostsUnlocked.WithLabelValues("expired").Inc()
		c.JSON(http.StatusGone, gin.H{"error": "This post has expired"})
	case errors.Is(err, posts.ErrWrongPassword):
		metrics.PostsUnlocked.WithLabelValues("wrong_password").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
	default:
		metrics.PostsUnlocked.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
