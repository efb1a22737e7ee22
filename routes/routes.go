package routes

import (
	"time"

	"villa-booking/constants"
	bookingController "villa-booking/controllers/booking"
	chargeController "villa-booking/controllers/charge"
	invoiceController "villa-booking/controllers/invoice"
	paymentController "villa-booking/controllers/payment"
	reviewController "villa-booking/controllers/review"
	settingController "villa-booking/controllers/setting"
	userController "villa-booking/controllers/user"
	"villa-booking/middleware"
	"villa-booking/types"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, c *Container) {
	production := c.Config.IsProduction()
	invoices := invoiceController.NewInvoiceController(c.Aggregator, c.Invoices, c.Checkout, c.Renderer, production)
	charges := chargeController.NewChargeController(c.ExtraCharges, production)
	payments := paymentController.NewPaymentController(c.Payments, production)
	reviews := reviewController.NewReviewController(c.Reviews, production)
	bookings := bookingController.NewBookingController(c.Events, production)
	settings := settingController.NewSettingController(c.Settings, production)
	users := userController.NewUserController(c.Staff, production)

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(types.ApiResponse{Message: "ok", Status: fiber.StatusOK})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Public Review Routes
	===============================================================================*/
	reviewGroup := api.Group("/reviews", middleware.RateLimit(30, time.Minute))
	reviewGroup.Get("/token/:token", reviews.CheckToken)
	reviewGroup.Post("/", reviews.Submit)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	auth := api.Group("/auth").Use(middleware.RequireAuthentication())
	auth.Get("/profile", users.GetUserInfo)

	/*=============================================================================
	| Booking Charge Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Get("/:id/charges", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), invoices.Charges)

	bookingGroup.Get("/:id/extra-charges", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), charges.List)

	bookingGroup.Post("/:bookingId/extra-charges", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), charges.Create)

	bookingGroup.Put("/:bookingId/extra-charges/:chargeId", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), charges.UpdateQuantity)

	/*=============================================================================
	| Invoice & Checkout Routes
	===============================================================================*/
	bookingGroup.Post("/:id/invoice", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), invoices.CreateInvoice)

	bookingGroup.Get("/:id/invoice/pdf", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), invoices.DownloadPDF)

	bookingGroup.Post("/:id/finalize-checkout", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), invoices.FinalizeCheckout)

	bookingGroup.Get("/:id/status-history", middleware.RequirePermissions(
		constants.StaffPermissions...,
	), bookings.StatusHistory)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	bookingGroup.Post("/:id/payments/confirm", middleware.RequirePermissions(
		constants.PaymentPermissions...,
	), payments.Confirm)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	admin := api.Group("/settings").Use(middleware.RequireAuthentication())
	admin.Put("/:key", settings.Update)
}
