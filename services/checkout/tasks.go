package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"villa-booking/config"
	"villa-booking/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	TypeDeliverInvoice = "checkout:deliver"
	deliveryQueue      = "default"
	deliveryMaxRetry   = 3
)

// DeliverPayload identifies the invoice a worker should render and email
type DeliverPayload struct {
	BookingID uint `json:"booking_id"`
	InvoiceID uint `json:"invoice_id"`
}

func NewDeliverTask(bookingID, invoiceID uint) (*asynq.Task, error) {
	b, err := json.Marshal(DeliverPayload{BookingID: bookingID, InvoiceID: invoiceID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliverInvoice, b), nil
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// Queue enqueues delivery tasks on Redis
type Queue struct {
	Client *asynq.Client
}

func NewQueue(cfg *config.Config) *Queue {
	return &Queue{Client: asynq.NewClient(redisOpt(cfg))}
}

func (q *Queue) EnqueueDelivery(ctx context.Context, bookingID, invoiceID uint) error {
	task, err := NewDeliverTask(bookingID, invoiceID)
	if err != nil {
		return err
	}
	info, err := q.Client.EnqueueContext(ctx, task,
		asynq.Queue(deliveryQueue),
		asynq.MaxRetry(deliveryMaxRetry),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue invoice delivery: %w", err)
	}
	logger.Info(fmt.Sprintf("[DeliveryQueue] Booking %d queued as task %s", bookingID, info.ID))
	return nil
}

func (q *Queue) Close() error {
	return q.Client.Close()
}

// HandleDeliverTask renders and emails the invoice named by the task. A
// payload that cannot be decoded is not retried.
func (o *Orchestrator) HandleDeliverTask(ctx context.Context, task *asynq.Task) error {
	var p DeliverPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("[DeliveryWorker] Invalid payload", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res, err := o.Deliver(ctx, p.BookingID)
	if err != nil {
		logger.Error(fmt.Sprintf("[DeliveryWorker] Booking %d delivery failed", p.BookingID), err)
		return err
	}
	if !res.Details.PdfGenerated {
		return errors.New(res.Details.PdfError)
	}
	if !res.Details.EmailSent {
		// The review token is already issued; a retry would send a second link
		logger.Warning(fmt.Sprintf("[DeliveryWorker] Booking %d email failed, not retrying", p.BookingID))
		return nil
	}
	logger.Success(fmt.Sprintf("[DeliveryWorker] Booking %d invoice delivered", p.BookingID))
	return nil
}

// StartWorker runs the delivery worker in the background until ctx ends.
func StartWorker(ctx context.Context, cfg *config.Config, o *Orchestrator) {
	srv := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				deliveryQueue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeliverInvoice, o.HandleDeliverTask)

	go monitorRedis(ctx, cfg)

	go func() {
		logger.Info("[DeliveryWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Start(mux); err != nil {
				logger.Error(fmt.Sprintf("[DeliveryWorker] Attempt %d/%d failed to start worker", attempts, maxAttempts), err)
				if attempts == maxAttempts {
					logger.Error("[DeliveryWorker] Max retry attempts reached, queued deliveries wait for a worker", nil)
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
				continue
			}
			break
		}

		<-ctx.Done()
		srv.Shutdown()
		logger.Info("[DeliveryWorker] Stopped")
	}()
}

func monitorRedis(ctx context.Context, cfg *config.Config) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warning(fmt.Sprintf("[DeliveryWorker] Redis connection lost: %v", err))
			}
		}
	}
}
