package routes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"villa-booking/config"
	"villa-booking/logger"
	bookingEvent "villa-booking/services/booking_event"
	chargeService "villa-booking/services/charge"
	"villa-booking/services/checkout"
	"villa-booking/services/document"
	"villa-booking/services/greeting"
	invoiceService "villa-booking/services/invoice"
	"villa-booking/services/mail"
	"villa-booking/services/notification"
	"villa-booking/services/payment"
	"villa-booking/services/property"
	"villa-booking/services/rating"
	"villa-booking/services/review"
	"villa-booking/services/settings"
	invoiceTypes "villa-booking/types/invoice"
	"villa-booking/utils"

	"gorm.io/gorm"
)

// Container holds the services shared by routes and background jobs
type Container struct {
	Config       *config.Config
	Logs         *logger.AsyncLogger
	Mailer       *mail.SMTPMailer
	Queue        *checkout.Queue
	Settings     *settings.Service
	Aggregator   *invoiceService.Aggregator
	Invoices     *invoiceService.Store
	Renderer     *document.Renderer
	Reviews      *review.Service
	Staff        *notification.GormDirectory
	Notification *notification.Dispatcher
	Events       *bookingEvent.Recorder
	Checkout     *checkout.Orchestrator
	ExtraCharges *chargeService.ExtraChargeService
	Payments     *payment.Service
}

// NewContainer wires the service graph on top of db.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	checkoutStatus, err := checkout.ResolveCheckoutStatus(cfg.CheckoutStatus)
	if err != nil {
		return nil, err
	}

	box, err := utils.NewSecretBox(cfg.SettingsEncryptionKey)
	if err != nil {
		if !errors.Is(err, utils.ErrNoEncryptionKey) {
			return nil, fmt.Errorf("invalid SETTINGS_ENCRYPTION_KEY: %w", err)
		}
		logger.Warning("SETTINGS_ENCRYPTION_KEY is not set, encrypted settings cannot be read")
	}
	settingsService := settings.NewService(db, box)
	mailer := mail.NewSMTPMailer(settings.MailConfig(ctx, settingsService, cfg))

	resolver := property.NewResolver(db)
	repo := invoiceService.NewRepository(db)
	aggregator := invoiceService.NewAggregator(repo, resolver, rating.Policy{
		TaxRate:       cfg.TaxRate,
		PerKmDistance: cfg.PerKmDistance,
	})
	store := invoiceService.NewStore(db)

	renderer := document.NewRenderer(cfg.HotelName, cfg.CurrencySymbol)
	base := strings.TrimRight(cfg.AppBaseURL, "/")
	renderer.VerifyURL = func(snap *invoiceTypes.Snapshot) string {
		return fmt.Sprintf("%s/invoices/%s", base, snap.InvoiceNumber)
	}

	reviews := review.NewService(review.NewStore(db), cfg.ReviewTokenTTL())

	greeter, err := greeting.NewGemini(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Error("Gemini client unavailable, using the static greeting", err)
		greeter = greeting.Static{}
	}

	directory := notification.NewDirectory(db)
	dispatcher := &notification.Dispatcher{
		Directory:      directory,
		Properties:     resolver,
		Tokens:         reviews,
		Mailer:         mailer,
		Settings:       settingsService,
		Greeter:        greeter,
		BaseURL:        cfg.AppBaseURL,
		HotelName:      cfg.HotelName,
		CurrencySymbol: cfg.CurrencySymbol,
		Timeout:        cfg.MailTimeout,
	}

	events := bookingEvent.NewRecorder(db)
	orchestrator := &checkout.Orchestrator{
		Bookings:       repo,
		Calculator:     aggregator,
		Invoices:       store,
		Status:         events,
		Renderer:       renderer,
		Notifier:       dispatcher,
		CheckoutStatus: checkoutStatus,
		RenderTimeout:  cfg.RenderTimeout,
		MailTimeout:    cfg.MailTimeout,
	}

	var queue *checkout.Queue
	if cfg.AsyncDelivery {
		queue = checkout.NewQueue(cfg)
		orchestrator.Queue = queue
	}

	return &Container{
		Config:       cfg,
		Logs:         logger.NewAsyncLogger(db),
		Mailer:       mailer,
		Queue:        queue,
		Settings:     settingsService,
		Aggregator:   aggregator,
		Invoices:     store,
		Renderer:     renderer,
		Reviews:      reviews,
		Staff:        directory,
		Notification: dispatcher,
		Events:       events,
		Checkout:     orchestrator,
		ExtraCharges: chargeService.NewExtraChargeService(db),
		Payments:     payment.NewService(db, dispatcher),
	}, nil
}

// Start launches the background loops. They stop when ctx ends.
func (c *Container) Start(ctx context.Context) {
	go c.Logs.ProcessLog()
	if c.Config.CleanupInterval > 0 {
		c.Reviews.StartCleanup(ctx, c.Config.CleanupInterval)
	}
	if c.Queue != nil {
		checkout.StartWorker(ctx, c.Config, c.Checkout)
	}
}

// Close flushes logs and releases the mail and queue connections.
func (c *Container) Close() {
	c.Logs.Close()
	if err := c.Mailer.Close(); err != nil {
		logger.Error("Failed to close SMTP connection", err)
	}
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("Failed to close delivery queue", err)
		}
	}
}
