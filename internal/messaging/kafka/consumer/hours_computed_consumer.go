package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"go-hrpay/internal/events"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const hoursCacheTTL = 90 * 24 * time.Hour

// ConsumeAttendanceHours mirrors each day's payable hours split into redis,
// keyed per employee-month with one hash field per work date. Storing the
// whole split per date keeps the cache idempotent under recalculation.
func ConsumeAttendanceHours(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_hours")
	log.Info("attendance hours consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance hours consumer stopped")
				return
			}
			log.Error("fetch attendance hours message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceHoursComputedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance hours event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := cacheHoursSplit(ctx, rdb, event); err != nil {
			log.Error("cache attendance hours failed",
				zap.String("attendance_id", event.AttendanceID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance hours message failed", zap.Error(err))
			continue
		}

		log.Info("attendance hours cached",
			zap.String("employee_id", event.EmployeeID),
			zap.String("work_date", event.WorkDate),
			zap.Float64("regular_hours", event.RegularHours),
			zap.Float64("overtime_hours", event.OvertimeHours),
		)
	}
}

func cacheHoursSplit(ctx context.Context, rdb *redis.Client, event events.AttendanceHoursComputedEvent) error {
	month := event.WorkDate
	if len(month) >= 7 {
		month = month[:7]
	}
	key := fmt.Sprintf("attendance:hours:%s:%s:%s", event.CompanyID, event.EmployeeID, month)

	payload, err := json.Marshal(map[string]float64{
		"regular_hours":          event.RegularHours,
		"overtime_hours":         event.OvertimeHours,
		"weekend_overtime_hours": event.WeekendOvertimeHours,
	})
	if err != nil {
		return err
	}

	pipe := rdb.TxPipeline()
	pipe.HSet(ctx, key, event.WorkDate, payload)
	pipe.Expire(ctx, key, hoursCacheTTL)
	_, err = pipe.Exec(ctx)
	return err
}
