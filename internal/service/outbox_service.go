package service

import (
	"context"
	"time"

	"threadnest/internal/model"
	"threadnest/internal/pkg"

	"github.com/rs/zerolog/log"
)

type Sender func(ctx context.Context, row *model.CommunityOutbox) error

// OutboxRelayer drains pending community events from the outbox table and
// hands them to a Sender. Rows that fail keep their pending status with a
// bumped retry counter and are picked up on the next tick.
type OutboxRelayer struct {
	repo      OutboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("outbox query failed")
		return
	}
	for i := range rows {
		row := rows[i]
		if err := r.sender(ctx, &row); err != nil {
			_ = r.repo.MarkFailed(ctx, row.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, row.ID)
	}
}

// KafkaSender publishes outbox rows keyed by org id, so events of one
// community stay ordered within a partition.
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, row *model.CommunityOutbox) error {
		return producer.Send(ctx, row.OrgID, []byte(row.Payload))
	}
}

// LogSender 默认 sender: used when Kafka is disabled.
func LogSender(ctx context.Context, row *model.CommunityOutbox) error {
	log.Info().
		Str("event", row.EventType).
		Str("org_id", row.OrgID).
		RawJSON("payload", []byte(row.Payload)).
		Msg("outbox send")
	return nil
}
