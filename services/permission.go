package services

import (
	"villa-booking/constants"
	"villa-booking/middleware"
	"villa-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SystemActor is recorded when a change has no authenticated user
const SystemActor = "system"

type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// CheckPermission checks if the current user has a specific permission
func (ps *PermissionService) CheckPermission(c *fiber.Ctx, permission string) bool {
	return middleware.CheckPermissionInController(c, permission)
}

// CheckAnyPermission checks if the current user has any of the specified permissions
func (ps *PermissionService) CheckAnyPermission(c *fiber.Ctx, permissions ...string) bool {
	userPermissions := middleware.GetUserPermissions(c)

	for _, permission := range permissions {
		if userPermissions[permission] {
			return true
		}
	}
	return false
}

// RequireAnyPermission writes a 403 and returns false if the user has none of the permissions
func (ps *PermissionService) RequireAnyPermission(c *fiber.Ctx, permissions ...string) bool {
	if ps.CheckAnyPermission(c, permissions...) {
		return true
	}
	_ = c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
		Message: "Insufficient permissions",
		Status:  fiber.StatusForbidden,
	})
	return false
}

// GetUserInfo returns user information from JWT claims
func (ps *PermissionService) GetUserInfo(c *fiber.Ctx) (jwt.MapClaims, bool) {
	userClaims, ok := c.Locals("user").(jwt.MapClaims)
	return userClaims, ok
}

// GetUsername returns username from JWT claims
func (ps *PermissionService) GetUsername(c *fiber.Ctx) (string, bool) {
	userClaims, ok := ps.GetUserInfo(c)
	if !ok {
		return "", false
	}

	username, ok := userClaims["username"].(string)
	return username, ok && username != ""
}

// Actor names who is making the request for created_by/updated_by columns.
func (ps *PermissionService) Actor(c *fiber.Ctx) string {
	if username, ok := ps.GetUsername(c); ok {
		return username
	}
	return SystemActor
}

// IsAdmin checks if user has admin privileges
func (ps *PermissionService) IsAdmin(c *fiber.Ctx) bool {
	return ps.CheckAnyPermission(c, constants.AdminPermissions...)
}
