package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gigbridge/config"
	"gigbridge/models"
	"gigbridge/services/notification"
	"gigbridge/services/tasks"

	"github.com/hibiken/asynq"
)

// NewAsynqClient creates the client used to enqueue deferred reminders.
func NewAsynqClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(dispatcher notification.Dispatcher) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderSend, handleReminderTask(dispatcher))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Println("[ReminderWorker] max retry attempts reached, reminders disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(dispatcher notification.Dispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		return dispatcher.SendNotification(ctx, notification.SendRequest{
			RecipientAccountID: p.AccountID,
			Type:               "booking_reminder",
			Title:              p.Title,
			Message:            p.Body,
			Metadata: map[string]any{
				"bookingId": p.BookingID,
				"fireAt":    p.FireAt,
			},
			Priority:  models.PriorityHigh,
			SendEmail: false,
		})
	}
}
