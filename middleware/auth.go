package middleware

import (
	"strings"
	"sync"

	"villa-booking/constants"
	"villa-booking/logger"
	"villa-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	verifierMu sync.RWMutex
	verifier   = NewVerifier("", "")
)

// Configure sets the verifier used by every auth middleware.
func Configure(v *Verifier) {
	verifierMu.Lock()
	verifier = v
	verifierMu.Unlock()
}

func currentVerifier() *Verifier {
	verifierMu.RLock()
	defer verifierMu.RUnlock()
	return verifier
}

// RequirePermissions allows access if the user holds any of the permissions
func RequirePermissions(permissions ...string) fiber.Handler {
	return IsAuthenticated(permissions)
}

// RequireAuthentication only requires a valid token
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated([]string{constants.PermAny})
}

// IsAuthenticated checks for a valid bearer token (or "access" cookie) and
// the required permissions, then stores the claims in c.Locals("user").
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string

		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status": "error",
					"error":  "Invalid authorization header format",
				})
			}
			token = tokenParts[1]
		} else {
			token = c.Cookies("access")
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status": "error",
					"error":  "Authorization token missing",
				})
			}
		}

		claims, err := currentVerifier().Verify(token)
		if err != nil {
			logger.Warning("JWT verification failed: " + err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "Invalid or expired token",
			})
		}

		if username, _ := claims["username"].(string); username == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Session expired. Login again.",
				Status:  fiber.StatusUnauthorized,
			})
		}

		permissions := extractUserPermissionsFromClaims(claims)
		if !allows(permissions, requiredPermissions) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "error": "Insufficient permissions"})
		}

		c.Locals("user", claims)
		c.Locals("permissions", permissions)
		return c.Next()
	}
}

func allows(granted map[string]bool, required []string) bool {
	for _, perm := range required {
		if perm == constants.PermAny || granted[perm] {
			return true
		}
	}
	return false
}

// CheckPermissionInController checks if user has specific permission within a controller
func CheckPermissionInController(c *fiber.Ctx, requiredPermission string) bool {
	return GetUserPermissions(c)[requiredPermission]
}

// GetUserPermissions returns all user permissions from context
func GetUserPermissions(c *fiber.Ctx) map[string]bool {
	if perms, ok := c.Locals("permissions").(map[string]bool); ok {
		return perms
	}
	userClaims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return make(map[string]bool)
	}
	return extractUserPermissionsFromClaims(userClaims)
}

func extractUserPermissionsFromClaims(claims jwt.MapClaims) map[string]bool {
	permissionSet := make(map[string]bool)

	userPermissions, ok := claims["permissions"].([]interface{})
	if !ok {
		return permissionSet
	}

	for _, p := range userPermissions {
		if perm, ok := p.(string); ok {
			permissionSet[perm] = true
		}
	}
	return permissionSet
}
