package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
)

// Publisher pushes promotion notices onto the broker. The connection is
// dialed lazily and dropped on publish failure so the next call redials.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// NotifyPromoted adapts PublishPromotion to the notifier contract the
// rsvp service consumes.
func (p *Publisher) NotifyPromoted(ctx context.Context, attendeeID int64, occ domain.Occurrence) error {
	return p.PublishPromotion(ctx, PromotionNotice{
		AttendeeID:   attendeeID,
		OccurrenceID: occ.ID,
		EventTitle:   occ.EventTitle,
		StartsAt:     occ.Starts,
		PromotedAt:   time.Now().UTC(),
	})
}

// PublishPromotion enqueues a persistent JSON notice on the promotions
// queue. Callers treat the returned error as advisory: a lost notice must
// never undo the promotion it announces.
func (p *Publisher) PublishPromotion(ctx context.Context, n PromotionNotice) error {
	const op = "notify.Publisher.PublishPromotion"

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	err = ch.PublishWithContext(ctx,
		"",              // default exchange
		QueuePromotions, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// channel expects p.mu to be held.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}

	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}

	if _, err := ch.QueueDeclare(QueuePromotions, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	p.conn = conn
	p.ch = ch

	return ch, nil
}

// reset expects p.mu to be held.
func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()

	return nil
}
