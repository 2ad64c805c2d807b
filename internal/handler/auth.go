package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/conspiralab/conspiralab/internal/config"
	"github.com/conspiralab/conspiralab/internal/middleware"
	"github.com/conspiralab/conspiralab/internal/model"
	"github.com/conspiralab/conspiralab/internal/repository"
	"github.com/conspiralab/conspiralab/internal/session"
	"github.com/conspiralab/conspiralab/internal/utils"
)

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions session.Store
}

func NewAuthHandler(cfg config.Config, users UserStore, sessions session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and opens a session for it immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if len(req.Email) < 5 || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}
	if len(req.DisplayName) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "display_name required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := &model.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	sid, err := h.Sessions.Create(ctx, u.ID.Hex(), u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	h.setSessionCookie(c, sid)

	return c.JSON(http.StatusCreated, echo.Map{"user": u.Public()})
}

// Login verifies credentials and opens a session. Every credential failure
// yields the same generic 401: callers cannot tell a missing account from a
// wrong password or a corrupt digest.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	sid, err := h.Sessions.Create(ctx, u.ID.Hex(), u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	h.setSessionCookie(c, sid)

	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}

// Logout destroys the server-side session record and expires the cookie.
// Logging out without a live session is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	sc := middleware.SessionFrom(c)
	if sc.ID != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Sessions.Destroy(ctx, sc.ID); err != nil {
			c.Logger().Warnf("logout: destroy session failed: %v", err)
		}
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// LoginEntry is the fixed login entry point the gate redirects to. The API
// has no HTML form; the body points callers at the credential endpoint.
func LoginEntry(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"login": "POST /v1/auth/login"})
}

// Me returns the enriched public identity of the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sid string) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   h.Cfg.SessionTTLMin * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
