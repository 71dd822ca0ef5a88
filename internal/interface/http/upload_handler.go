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

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	Svc    *app.UploadService
	Logger *logrus.Logger
}

func NewUploadHandler(svc *app.UploadService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Svc: svc, Logger: logger}
}

func (h *UploadHandler) Image(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxBytes+multipartOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, h.Logger, app.ErrImageTooLarge, "uploading image")
			return
		}
		fail(c, h.Logger, app.ErrNoImage, "uploading image")
		return
	}
	if fh.Size > h.Svc.MaxBytes {
		fail(c, h.Logger, app.ErrImageTooLarge, "uploading image")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err, "uploading image")
		return
	}
	defer f.Close()

	res, err := h.Svc.UploadImage(c.Request.Context(), middleware.CurrentUserID(c), f)
	if err != nil {
		fail(c, h.Logger, err, "uploading image")
		return
	}
	response.Success(c, http.StatusCreated, res)
}
