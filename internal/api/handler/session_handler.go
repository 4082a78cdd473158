package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// SessionHandler exposes the session lifecycle to the UI shell.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login authenticates against the platform and establishes a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.sessions.Login(c.Request().Context(), req.Identifier, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sessionView())
}

// Register creates a platform account and establishes a session.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.sessions.Register(c.Request().Context(), req.Name, req.Identifier, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.sessionView())
}

// Logout clears the session. Always succeeds from the caller's perspective.
//
// @Summary      Log out
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Session returns the current session view.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessionView())
}

// UpdateProfile shallow-merges the submitted fields onto the profile.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/profile [patch]
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, err := h.sessions.UpdateUser(c.Request().Context(), domain.ProfileUpdate{
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.sessionView())
}

func (h *SessionHandler) sessionView() sessionResponse {
	s := h.sessions.Current()
	view := sessionResponse{
		Authenticated: s.Authenticated,
		User:          s.User,
		Role:          s.Role,
		Admin:         h.sessions.IsAdmin(),
		Loading:       s.Loading,
	}
	if exp, ok := h.sessions.TokenExpiresAt(); ok {
		view.TokenExpiry = &exp
	}
	return view
}
