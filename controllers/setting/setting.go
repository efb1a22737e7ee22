package setting

import (
	"context"
	"errors"

	"villa-booking/constants"
	"villa-booking/logger"
	settingModel "villa-booking/models/setting"
	"villa-booking/services"
	settingTypes "villa-booking/types/setting"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type Writer interface {
	Set(ctx context.Context, key, value string, secret bool) error
}

// Editable lists the keys admins may change at runtime
var Editable = map[string]bool{
	settingModel.KeyMailHost:     true,
	settingModel.KeyMailPort:     true,
	settingModel.KeyMailUsername: true,
	settingModel.KeyMailPassword: true,
	settingModel.KeyMailFrom:     true,
	settingModel.KeyAppBaseURL:   true,
	settingModel.KeyHotelName:    true,
}

// SettingController lets admins override env settings
type SettingController struct {
	Settings    Writer
	Permissions *services.PermissionService
	Production  bool
}

func NewSettingController(settings Writer, production bool) *SettingController {
	return &SettingController{
		Settings:    settings,
		Permissions: services.NewPermissionService(),
		Production:  production,
	}
}

// Update stores one setting. The mail password is always encrypted.
func (sc *SettingController) Update(c *fiber.Ctx) error {
	if !sc.Permissions.RequireAnyPermission(c, constants.AdminPermissions...) {
		return nil
	}

	key := c.Params("key")
	if !Editable[key] {
		return utils.Respond(c, fiber.StatusBadRequest, "Unknown setting key", nil)
	}

	var req settingTypes.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ValidationError(c, err)
	}

	secret := req.Secret || key == settingModel.KeyMailPassword
	if err := sc.Settings.Set(c.UserContext(), key, req.Value, secret); err != nil {
		if errors.Is(err, utils.ErrNoEncryptionKey) {
			return utils.Respond(c, fiber.StatusBadRequest, "Encrypted settings require SETTINGS_ENCRYPTION_KEY", nil)
		}
		return utils.ServerError(c, sc.Production, "Failed to save setting", err)
	}

	logger.Info("Setting " + key + " updated by " + sc.Permissions.Actor(c))

	view := settingTypes.View{Key: key, Value: req.Value, Secret: secret}
	if secret {
		view.Value = "********"
	}
	return utils.Respond(c, fiber.StatusOK, "Setting saved", view)
}
