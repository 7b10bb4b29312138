package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forkful/recipebox/internal/middleware"
	"github.com/forkful/recipebox/internal/service"
)

// AuthHandler serves the landing, registration, login and logout endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	log          *zap.Logger
	cookieMaxAge int
	cookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, log *zap.Logger, cookieMaxAge int, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		log:          log,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

// LoginForm handles GET /login. Already-authenticated users are sent home.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Sign in",
		"next":    c.Query("next"),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusFound, "/home")
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same message for unknown email and wrong password.
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		h.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}

	maxAge := h.cookieMaxAge
	if !req.Remember {
		// Session cookie, dropped when the browser closes.
		maxAge = 0
	}
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": user.Username,
		"redirect": middleware.SafeNext(c.Query("next"), "/home"),
	})
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Register"})
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusFound, "/home")
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"errors": gin.H{"username": err.Error()}})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"errors": gin.H{"email": err.Error()}})
		default:
			h.log.Error("registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		}
		return
	}

	h.log.Info("user registered", zap.String("username", user.Username))
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Congratulations, you are now a registered user!",
		"redirect": "/login",
	})
}

// Logout clears the session cookie and sends the user to the landing page.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, "/")
}
