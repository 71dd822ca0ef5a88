package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
	"github.com/oksasatya/go-social-api/pkg/response"
)

type UserHandler struct {
	Svc    *app.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	res, err := h.Svc.List(c.Request.Context(), c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, h.Logger, err, "fetching users")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *UserHandler) Get(c *gin.Context) {
	res, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err, "fetching user")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.Svc.Search(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, h.Logger, err, "searching users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Follow(c *gin.Context) {
	if err := h.Svc.Follow(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		fail(c, h.Logger, err, "following user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User followed successfully", "following": true})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.Svc.Unfollow(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		fail(c, h.Logger, err, "unfollowing user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User unfollowed successfully", "following": false})
}

func (h *UserHandler) Following(c *gin.Context) {
	users, err := h.Svc.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err, "fetching following")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"following": users})
}

func (h *UserHandler) Followers(c *gin.Context) {
	users, err := h.Svc.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err, "fetching followers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"followers": users})
}
