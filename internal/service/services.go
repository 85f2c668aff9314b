package service

import (
	"log/slog"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/mail"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	redisrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/admin"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/digest"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/invites"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/query"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/rsvp"
)

type Services struct {
	RSVP    *rsvp.Service
	Query   *query.Service
	Admin   *admin.Service
	Invites *invites.Service
	Digest  *digest.Service
}

type Config struct {
	RSVP   rsvp.Config
	Query  query.Config
	Digest digest.Config
}

// NewServices wires every service over one store. cache, pubsub, limiter,
// notifier and sender may all be nil; the services degrade to running
// without that side channel.
func NewServices(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.OccurrencesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	notifier rsvp.Notifier,
	sender mail.Sender,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		RSVP:    rsvp.New(store, cache, pubsub, limiter, notifier, logger, cfg.RSVP),
		Query:   query.New(store, cache, cfg.Query),
		Admin:   admin.New(store, cache, pubsub),
		Invites: invites.New(store),
		Digest:  digest.New(store, sender, logger, cfg.Digest),
	}
}
