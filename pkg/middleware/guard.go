package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/errors"
	"github.com/petrel-io/petrel/pkg/response"
)

// Guard returns a middleware that enforces the requirement through the
// access gate. Denial payloads keep the field layout existing clients
// parse; do not change the shapes without a coordinated client release.
func Guard(gate *access.Gate, req access.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)

		outcome, err := gate.Evaluate(c.Request.Context(), principal, req, c.ClientIP())
		if err != nil {
			response.FailWithError(c, err)
			c.Abort()
			return
		}
		if !outcome.Allowed {
			status, body := denialResponse(outcome)
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Next()
	}
}

// RequirePermission guards a route with a single permission.
func RequirePermission(gate *access.Gate, permission string) gin.HandlerFunc {
	return Guard(gate, access.RequirePermission(permission))
}

// RequirePermissions guards a route with several permissions, all required.
func RequirePermissions(gate *access.Gate, permissions ...string) gin.HandlerFunc {
	return Guard(gate, access.RequirePermissions(permissions...))
}

// RequireAnyRole guards a route with role membership.
func RequireAnyRole(gate *access.Gate, codes ...string) gin.HandlerFunc {
	return Guard(gate, access.RequireAnyRole(codes...))
}

// RequireDomain guards a route with engineering-domain access.
func RequireDomain(gate *access.Gate, domain string) gin.HandlerFunc {
	return Guard(gate, access.RequireDomain(domain))
}

// denialResponse maps a deny outcome to its HTTP status and legacy payload.
func denialResponse(outcome access.Outcome) (int, gin.H) {
	detail := outcome.Detail

	switch outcome.Reason {
	case access.DenyAuthenticationRequired:
		return errors.ErrAuthenticationRequired.HTTPStatus(), gin.H{
			"error":    errors.ErrAuthenticationRequired.MessageEN,
			"redirect": detail.Redirect,
		}

	case access.DenySessionLimitExceeded:
		return errors.ErrSessionLimitExceeded.HTTPStatus(), gin.H{
			"error":  errors.ErrSessionLimitExceeded.MessageEN,
			"action": "logout_other_sessions",
		}

	case access.DenyIPNotAllowed:
		return errors.ErrIPNotAllowed.HTTPStatus(), gin.H{
			"error": errors.ErrIPNotAllowed.MessageEN,
			"ip":    detail.IP,
		}

	case access.DenyAccessHours:
		return errors.ErrAccessHours.HTTPStatus(), gin.H{
			"error": errors.ErrAccessHours.MessageEN,
		}

	case access.DenyPermissionDenied:
		switch {
		case len(detail.Roles) > 0:
			return errors.ErrRoleDenied.HTTPStatus(), gin.H{
				"error":          errors.ErrRoleDenied.MessageEN,
				"required_roles": detail.Roles,
				"user_role":      detail.UserRole,
			}
		case detail.Domain != "":
			return errors.ErrDomainDenied.HTTPStatus(), gin.H{
				"error":           fmt.Sprintf("Access denied to %s domain", detail.Domain),
				"required_domain": detail.Domain,
			}
		case len(detail.Permissions) == 1:
			return errors.ErrPermissionDenied.HTTPStatus(), gin.H{
				"error":               errors.ErrPermissionDenied.MessageEN,
				"required_permission": detail.Permissions[0],
			}
		default:
			return errors.ErrPermissionDenied.HTTPStatus(), gin.H{
				"error":                errors.ErrPermissionDenied.MessageEN,
				"required_permissions": detail.Permissions,
			}
		}
	}

	return errors.ErrForbidden.HTTPStatus(), gin.H{
		"error": errors.ErrForbidden.MessageEN,
	}
}
