package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/pkg/response"
	"github.com/oksasatya/go-social-api/pkg/validation"
)

type classified struct {
	err     error
	status  int
	message string
}

var known = []classified{
	{app.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{app.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{app.ErrSelfFollow, http.StatusBadRequest, "You cannot follow yourself"},
	{app.ErrAlreadyFollowing, http.StatusBadRequest, "You are already following this user"},
	{app.ErrNotFollowing, http.StatusBadRequest, "You are not following this user"},
	{app.ErrUsernameTaken, http.StatusBadRequest, "Username is already taken"},
	{app.ErrEmailTaken, http.StatusBadRequest, "Email is already registered"},
	{app.ErrAccountExists, http.StatusBadRequest, "User already exists"},
	{app.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{app.ErrInvalidToken, http.StatusUnauthorized, "Token is not valid"},
	{app.ErrForbidden, http.StatusForbidden, "Not authorized"},
	{app.ErrNoImage, http.StatusBadRequest, `No image provided (field "image")`},
	{app.ErrImageTooLarge, http.StatusRequestEntityTooLarge, "Image exceeds the upload size limit"},
	{app.ErrUnsupportedImage, http.StatusUnsupportedMediaType, "Only PNG, JPEG, WEBP and GIF images are allowed"},
}

// fail writes the response for err. Unclassified errors are logged and
// answered with "Server error while <action>".
func fail(c *gin.Context, logger *logrus.Logger, err error, action string) {
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusBadRequest, verr.Message, nil)
		return
	}
	for _, k := range known {
		if errors.Is(err, k.err) {
			response.Error(c, k.status, k.message, nil)
			return
		}
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, http.StatusInternalServerError, "Server error while "+action, nil)
}

func badPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "Invalid request payload", validation.ToDetails(err))
}
