package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
	"github.com/oksasatya/go-social-api/pkg/response"
)

type PostHandler struct {
	Svc    *app.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *app.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

type updatePostRequest struct {
	Content  optionalString `json:"content"`
	ImageURL optionalString `json:"imageUrl"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *PostHandler) List(c *gin.Context) {
	res, err := h.Svc.List(c.Request.Context(), c.Query("page"), c.Query("limit"), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, h.Logger, err, "fetching posts")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.Svc.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, h.Logger, err, "fetching the post")
		return
	}
	response.Success(c, http.StatusOK, post)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	image := ""
	if req.ImageURL != nil {
		image = *req.ImageURL
	}
	post, err := h.Svc.Create(c.Request.Context(), req.Content, image, middleware.CurrentUserID(c))
	if err != nil {
		fail(c, h.Logger, err, "creating post")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	changes := app.PostChanges{Content: req.Content.change(), ImageURL: req.ImageURL.change()}
	post, err := h.Svc.Update(c.Request.Context(), c.Param("id"), changes, middleware.CurrentUserID(c))
	if errors.Is(err, app.ErrForbidden) {
		response.Error(c, http.StatusForbidden, "Not authorized to update this post", nil)
		return
	}
	if err != nil {
		fail(c, h.Logger, err, "updating post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Post updated successfully", "post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if errors.Is(err, app.ErrForbidden) {
		response.Error(c, http.StatusForbidden, "Not authorized to delete this post", nil)
		return
	}
	if err != nil {
		fail(c, h.Logger, err, "deleting post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *PostHandler) Like(c *gin.Context) {
	liked, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, h.Logger, err, "liking post")
		return
	}
	msg := "Post unliked successfully"
	if liked {
		msg = "Post liked successfully"
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg, "liked": liked})
}

func (h *PostHandler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	post, err := h.Svc.Comment(c.Request.Context(), c.Param("id"), req.Content, middleware.CurrentUserID(c))
	if err != nil {
		fail(c, h.Logger, err, "adding comment")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Comment added successfully", "post": post})
}
