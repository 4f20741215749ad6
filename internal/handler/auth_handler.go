package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/jwtutil"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues admin session tokens
type AuthHandler struct {
	username     string
	passwordHash []byte
	jwt          *jwtutil.JWTUtil
}

// NewAuthHandler hashes the configured password unless a bcrypt hash is configured
func NewAuthHandler(cfg *config.AdminConfig, jwt *jwtutil.JWTUtil) (*AuthHandler, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}
	return &AuthHandler{username: cfg.Username, passwordHash: hash, jwt: jwt}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the admin credentials and returns a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		log.Warn("Invalid admin credentials", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, expiresAt, err := h.jwt.GenerateToken(h.username)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Admin logged in", zap.String("username", h.username))
	return c.JSON(http.StatusOK, echo.Map{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt,
	})
}
