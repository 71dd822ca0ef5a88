package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
	"github.com/oksasatya/go-social-api/pkg/helpers"
	"github.com/oksasatya/go-social-api/pkg/response"
)

type AuthHandler struct {
	Svc     *app.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *app.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,username"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"firstName" binding:"max=50"`
	LastName  string `json:"lastName" binding:"max=50"`
	Bio       string `json:"bio" binding:"max=500"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) writeTokens(c *gin.Context, status int, message string, res *app.AuthResult) {
	h.Cookies.SetPair(c, res.Token, res.AccessExpiresAt, res.RefreshToken, res.RefreshExpiresAt)
	response.Success(c, status, gin.H{
		"message":      message,
		"token":        res.Token,
		"refreshToken": res.RefreshToken,
		"user":         res.User,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		fail(c, h.Logger, err, "registering user")
		return
	}
	h.writeTokens(c, http.StatusCreated, "User registered successfully", res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err, "logging in")
		return
	}
	h.writeTokens(c, http.StatusOK, "Login successful", res)
}

// Refresh takes the refresh token from the body, or from the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshCookie)
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "No refresh token provided", nil)
		return
	}
	res, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		fail(c, h.Logger, err, "refreshing token")
		return
	}
	h.writeTokens(c, http.StatusOK, "Token refreshed", res)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.Svc.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, h.Logger, err, "fetching user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		fail(c, h.Logger, err, "logging out")
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}
