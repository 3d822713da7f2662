package utils

import (
	"context"
	"time"

	"jetacademy/logging"
	"jetacademy/storage"

	"github.com/robfig/cron/v3"
)

// SessionPruner removes expired cookie sessions.
type SessionPruner interface {
	Prune(now time.Time) (int64, error)
}

// InitializeSchedulers starts the background jobs. sessions may be nil when
// the session store expires entries on its own.
func InitializeSchedulers(store storage.Storage, sessions SessionPruner) *cron.Cron {
	log := logging.With("scheduler")
	log.Info().Msg("Initializing schedulers...")

	c := cron.New()

	if sessions != nil {
		c.AddFunc("@every 1m", func() {
			n, err := sessions.Prune(time.Now())
			if err != nil {
				log.Error().Err(err).Msg("pruning sessions failed")
				return
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("pruned expired sessions")
			}
		})
	}

	c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		sent, err := DispatchScheduledNotifications(ctx, store, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("dispatching scheduled notifications failed")
			return
		}
		if sent > 0 {
			log.Info().Int("sent", sent).Msg("dispatched scheduled notifications")
		}
	})

	c.AddFunc("@hourly", func() {
		n, err := store.PruneLoginSessions(context.Background(), time.Now())
		if err != nil {
			log.Error().Err(err).Msg("pruning login records failed")
			return
		}
		log.Info().Int64("removed", n).Msg("pruned expired login records")
	})

	c.Start()
	log.Info().Msg("Schedulers started")
	return c
}
