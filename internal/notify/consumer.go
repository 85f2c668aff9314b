package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

// Consumer drains the promotions queue and turns each notice into an
// in-app notification row for the promoted attendee.
type Consumer struct {
	url    string
	store  repository.Store
	logger *slog.Logger
}

func NewConsumer(url string, store repository.Store, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, store: store, logger: logger}
}

// Run consumes until ctx is cancelled, reconnecting with doubling backoff
// after broker failures. Malformed or unprocessable notices are rejected
// without requeue so one bad message cannot wedge the queue.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("promotions consumer dial failed", "error", err, "retry_in", backoff)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("promotions consumer loop ended", "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(QueuePromotions, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(QueuePromotions, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}

			if err := c.handle(ctx, d.Body); err != nil {
				c.logger.Warn("promotion notice rejected", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var n PromotionNotice
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	row := &domain.Notification{
		ID:           uuid.New(),
		AttendeeID:   n.AttendeeID,
		OccurrenceID: n.OccurrenceID,
		Kind:         domain.NotificationKindPromoted,
		Title:        fmt.Sprintf("You're in: %s", n.EventTitle),
		Body: fmt.Sprintf(
			"A spot opened up for %s on %s and you were moved off the waitlist.",
			n.EventTitle, n.StartsAt.Format("Mon, Jan 2 at 3:04 PM"),
		),
		Created: time.Now().UTC(),
	}

	if err := c.store.Notifications().Insert(ctx, row); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	c.logger.Info("promotion notice delivered",
		"attendee_id", n.AttendeeID, "occurrence_id", n.OccurrenceID)

	return nil
}
