package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-lms/internal/events"
	"go-lms/internal/payroll"
)

// ConsumeLeaveDecided feeds approved unpaid leaves from the decision topic
// into the payroll read model.
func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := payrollService.SyncUnpaidLeave(ctx, event); err != nil {
			if isDuplicateDraft(err) {
				log.Warn("unpaid leave draft already synced, skipping",
					zap.String("leave_id", event.LeaveID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("sync unpaid leave failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("requester_id", event.RequesterID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision synced",
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
	}
}

func isDuplicateDraft(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
