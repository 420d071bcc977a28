package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/visaguide/app/api"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/models"
)

type Handler struct {
	auth   AuthService
	config *Config
	logger logger.Logger
}

func NewHandler(auth AuthService, cfg *Config, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{auth: auth, config: cfg, logger: log}
}

// Login godoc
// @Summary Admin login
// @Description Issues a session token, set as the admin_token cookie and returned in the body
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} api.Response{data=LoginResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			api.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
			return
		}
		h.logger.Error(err, map[string]interface{}{"action": "admin_login"})
		api.InternalErrorResponse(c, "Failed to log in")
		return
	}

	h.setCookie(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))
	api.SuccessResponse(c, http.StatusOK, "Logged in", LoginResponse{
		Token:     session.Token,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout godoc
// @Summary Admin logout
// @Description Revokes the current token and clears the cookie
// @Tags admin
// @Produce json
// @Security AdminCookie
// @Success 200 {object} api.Response
// @Router /api/v1/admin/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if token := tokenFromRequest(c); token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.logger.Error(err, map[string]interface{}{"action": "admin_logout"})
			api.InternalErrorResponse(c, "Failed to log out")
			return
		}
	}
	h.setCookie(c, "", -1)
	api.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Profile godoc
// @Summary Current admin session
// @Tags admin
// @Produce json
// @Security AdminCookie
// @Success 200 {object} api.Response{data=ProfileResponse}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	payload, ok := PayloadFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", ProfileResponse{
		Username:  payload.Subject,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: payload.ExpiredAt,
	})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", h.config.CookieDomain, h.config.CookieSecure, true)
}
