package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// OccurrencesPubSub fans out "this occurrence changed" signals so other
// instances can drop their cached views.
type OccurrencesPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewOccurrencesPubSub(rdb *redis.Client) *OccurrencesPubSub {
	return &OccurrencesPubSub{
		rdb:     rdb,
		channel: ChannelOccurrencesChanged(),
	}
}

type occurrenceChangedMsg struct {
	Type         string `json:"type"`
	OccurrenceID int64  `json:"occurrence_id"`
	TsUnix       int64  `json:"ts_unix"`
}

func (p *OccurrencesPubSub) PublishOccurrenceChanged(ctx context.Context, occurrenceID int64) error {
	msg := occurrenceChangedMsg{
		Type:         "occurrence_changed",
		OccurrenceID: occurrenceID,
		TsUnix:       time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *OccurrencesPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, occurrenceID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev occurrenceChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.OccurrenceID != 0 {
				handler(ctx, ev.OccurrenceID)
			}
		}
	}
}
