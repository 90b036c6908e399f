package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/pkg/errors"
	"github.com/ardiansyah/workforce/pkg/metrics"
	"github.com/ardiansyah/workforce/pkg/response"
)

// RequirePermission checks that the authenticated user holds the named
// permission. Deactivated users and revoked grants fail here regardless of
// their role.
func RequirePermission(checker *access.Checker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := checker.HasPermission(c.Request.Context(), userID, permission)
		if err != nil {
			// A token for a since-deleted user is a denial, not a server fault.
			if appErr := errors.FromError(err); appErr.StatusCode == http.StatusNotFound {
				metrics.PermissionChecks.WithLabelValues(permission, "denied").Inc()
				response.Error(c, errors.ErrForbidden)
				c.Abort()
				return
			}
			metrics.PermissionChecks.WithLabelValues(permission, "error").Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": errors.ErrInternalServer.Code, "message": "permission check failed"},
			})
			return
		}
		if !allowed {
			metrics.PermissionChecks.WithLabelValues(permission, "denied").Inc()
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		metrics.PermissionChecks.WithLabelValues(permission, "allowed").Inc()
		c.Next()
	}
}

// RequireAnyPermission passes when the user holds at least one of the named
// permissions.
func RequireAnyPermission(checker *access.Checker, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := checker.HasAnyPermission(c.Request.Context(), userID, permissions)
		if err != nil {
			if appErr := errors.FromError(err); appErr.StatusCode == http.StatusNotFound {
				response.Error(c, errors.ErrForbidden)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": errors.ErrInternalServer.Code, "message": "permission check failed"},
			})
			return
		}
		if !allowed {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func contextUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return "", false
	}
	userID, _ := v.(string)
	return userID, userID != ""
}
