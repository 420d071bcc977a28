package admin

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/visaguide/app/api"
	"github.com/joefazee/visaguide/internal/security"
	"github.com/joefazee/visaguide/models"
)

const (
	CookieName              = "admin_token"
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	PayloadContextKey       = "admin_payload"
)

// RequireAdmin accepts the session cookie or a Bearer token.
func RequireAdmin(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrForbidden) {
				api.ForbiddenResponse(c, "Admin access required")
			} else {
				api.UnauthorizedResponse(c)
			}
			c.Abort()
			return
		}

		c.Set(PayloadContextKey, payload)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	fields := strings.Fields(c.GetHeader(AuthorizationHeaderKey))
	if len(fields) == 2 && fields[0] == AuthorizationTypeBearer {
		return fields[1]
	}
	return ""
}

// PayloadFrom returns the payload stored by RequireAdmin.
func PayloadFrom(c *gin.Context) (*security.Payload, bool) {
	v, ok := c.Get(PayloadContextKey)
	if !ok {
		return nil, false
	}
	payload, ok := v.(*security.Payload)
	return payload, ok
}
