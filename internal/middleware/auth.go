package middleware

import (
	"context"
	"net/http"
	"strings"

	"store-service/internal/dto"
	"store-service/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys for user info
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

type TokenParser interface {
	ParseAndValidateAccess(ctx context.Context, token string) (*token.Claims, error)
}

// AuthRequired validates the Bearer token and puts the caller's id and role
// into the gin context.
func AuthRequired(parser TokenParser, log *zap.Logger) gin.HandlerFunc {
	return authenticate(parser, log, false)
}

// AuthRequiredQuery also accepts ?access_token= for clients that cannot set
// headers, such as browser websockets.
func AuthRequiredQuery(parser TokenParser, log *zap.Logger) gin.HandlerFunc {
	return authenticate(parser, log, true)
}

func authenticate(parser TokenParser, log *zap.Logger, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		if authz := c.GetHeader("Authorization"); authz != "" {
			t, ok := ExtractBearerToken(authz)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
				return
			}
			raw = t
		} else if allowQuery {
			raw = strings.TrimSpace(c.Query("access_token"))
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
			return
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("empty token"))
			return
		}

		claims, err := parser.ParseAndValidateAccess(c.Request.Context(), raw)
		if err != nil {
			log.Warn("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole must run after AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("insufficient role"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthRequired.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ExtractBearerToken pulls the token out of an Authorization header and
// tolerates stray quotes, a trailing comma fragment or extra words.
// Accepted examples:
//   - "Bearer abc.def.ghi"
//   - "Bearer \"abc.def.ghi\""
//   - "Bearer abc.def.ghi, extra"
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return strings.Trim(t, " \"'"), true
}
