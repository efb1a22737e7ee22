package logger

import (
	"sync"

	log_model "villa-booking/models/log"
	"villa-booking/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request logs to the logs table off the request path
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	done    chan struct{}
	once    sync.Once
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the channel until Close is called.
func (l *AsyncLogger) ProcessLog() {
	Info("Starting asynchronous request logger...")
	defer close(l.done)

	for entry := range l.channel {
		dbLog := log_model.Log{
			RequestID:       entry.RequestID,
			Method:          entry.Method,
			URL:             entry.URL,
			RequestBody:     entry.RequestBody,
			ResponseBody:    entry.ResponseBody,
			RequestHeaders:  entry.RequestHeaders,
			ResponseHeaders: entry.ResponseHeaders,
			StatusCode:      entry.StatusCode,
			DurationMs:      entry.Duration.Milliseconds(),
			CreatedAt:       entry.CreatedAt,
		}

		if err := l.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log", err)
		}
	}
}

// Log queues an entry; entries are dropped when the buffer is full.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry for " + entry.Method + " " + entry.URL)
	}
}

// Close stops accepting entries and waits for the queue to flush.
func (l *AsyncLogger) Close() {
	l.once.Do(func() {
		close(l.channel)
	})
	<-l.done
}
