package constants

// Staff permissions carried in the JWT "permissions" claim
const (
	PermAdminFull     = "villa-booking.admin.full-permit"
	PermManagerFull   = "villa-booking.manager.full-permit"
	PermFrontDeskFull = "villa-booking.front-desk.full-permit"

	PermInvoiceManage  = "villa-booking.invoice.manage"
	PermPaymentConfirm = "villa-booking.payment.confirm"
	PermSettingsManage = "villa-booking.settings.manage"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	// Anyone working a desk may run checkout and edit stay charges
	StaffPermissions = []string{
		PermAdminFull,
		PermManagerFull,
		PermFrontDeskFull,
		PermInvoiceManage,
	}

	PaymentPermissions = []string{
		PermAdminFull,
		PermManagerFull,
		PermPaymentConfirm,
	}

	AdminPermissions = []string{
		PermAdminFull,
		PermSettingsManage,
	}
)
