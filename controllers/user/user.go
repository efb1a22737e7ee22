package user

import (
	"context"
	"errors"
	"sort"

	"villa-booking/logger"
	"villa-booking/middleware"
	staffModel "villa-booking/models/staff"
	"villa-booking/services"
	"villa-booking/services/notification"
	"villa-booking/types"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type StaffFinder interface {
	FindStaff(ctx context.Context, uuid string) (*staffModel.Staff, error)
}

type UserController struct {
	Staff       StaffFinder
	Permissions *services.PermissionService
	Production  bool
}

func NewUserController(staff StaffFinder, production bool) *UserController {
	return &UserController{Staff: staff, Permissions: services.NewPermissionService(), Production: production}
}

// GetUserInfo returns the signed-in staff member and the permissions in their token
func (uc *UserController) GetUserInfo(c *fiber.Ctx) error {
	claims, ok := uc.Permissions.GetUserInfo(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	uid, ok := claims["uuid"].(string)
	if !ok || uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "User UUID not found in token",
			Status:  fiber.StatusUnauthorized,
		})
	}

	staff, err := uc.Staff.FindStaff(c.UserContext(), uid)
	if errors.Is(err, notification.ErrStaffNotFound) {
		return utils.Respond(c, fiber.StatusNotFound, "User not found", nil)
	}
	if err != nil {
		return utils.ServerError(c, uc.Production, "Error fetching user", err)
	}

	permissions := make([]string, 0)
	for p := range middleware.GetUserPermissions(c) {
		permissions = append(permissions, p)
	}
	sort.Strings(permissions)

	userInfo := map[string]interface{}{
		"uuid":        staff.Uuid,
		"name":        staff.Name,
		"email":       staff.Email,
		"role":        staff.Role,
		"is_active":   staff.IsActive,
		"properties":  staff.Properties,
		"permissions": permissions,
		"created_at":  staff.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	logger.Debug("User fetched successfully: " + staff.Uuid)
	return utils.Respond(c, fiber.StatusOK, "User fetched successfully", userInfo)
}
