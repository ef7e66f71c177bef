package middleware

import (
	"strings"

	"github.com/Kaixun123/SerenShift-sub001/internal/config"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/jwt"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set employee info in context
		c.Locals("employeeID", claims.EmployeeID)
		c.Locals("email", claims.Email)
		c.Locals("name", claims.Name)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// Identity extracts the authenticated actor from the request context. The
// second return is false when the auth middleware did not run.
func Identity(c *fiber.Ctx) (services.Actor, bool) {
	employeeID, ok := c.Locals("employeeID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: employeeID, Role: domain.Role(role)}, true
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if employee's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// ApproverOnly middleware allows Manager and HR roles
func ApproverOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleHR)
}

// HROnly middleware allows only the HR role
func HROnly() fiber.Handler {
	return RoleMiddleware(domain.RoleHR)
}
