package consumer

import (
	"context"
	"encoding/json"
	"go-hrpay/internal/events"
	"go-hrpay/internal/schedule"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultShiftStart = "08:00"
	defaultShiftEnd   = "17:00"
)

// ConsumeEmploymentLifecycle seeds a Monday to Friday default schedule for
// every new employment so the timeclock has a window to round against from
// day one. HR can overwrite individual weekdays afterwards.
func ConsumeEmploymentLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	scheduleService schedule.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employment_lifecycle")
	log.Info("employment lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employment lifecycle consumer stopped")
				return
			}
			log.Error("fetch employment lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmploymentCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employment_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		// Upsert semantics make redelivery safe; an already seeded weekday
		// is simply rewritten with the same default window.
		if err := seedDefaultSchedule(ctx, scheduleService, event); err != nil {
			log.Error("seed default schedule failed",
				zap.String("employment_id", event.EmploymentID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employment lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("default schedule seeded from employment_created event",
			zap.String("employment_id", event.EmploymentID),
			zap.String("company_id", event.CompanyID),
		)
	}
}

func seedDefaultSchedule(ctx context.Context, scheduleService schedule.Service, event events.EmploymentCreatedEvent) error {
	for weekday := int(time.Monday); weekday <= int(time.Friday); weekday++ {
		_, err := scheduleService.Upsert(ctx, event.CompanyID, schedule.UpsertScheduleRequest{
			EmployeeID: event.EmploymentID,
			Weekday:    weekday,
			StartTime:  defaultShiftStart,
			EndTime:    defaultShiftEnd,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

