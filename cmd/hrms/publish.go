package main

import (
	"context"
	"sync"
	"time"

	"github.com/alfredjeanlab/hrms/internal/events"
)

var (
	notifierOnce sync.Once
	notifier     events.Notifier
)

// changeNotifier connects to NATS on first use. Without HRMS_NATS_URL, or
// when the connection fails, notices are dropped.
func changeNotifier() events.Notifier {
	notifierOnce.Do(func() {
		if cfg == nil || cfg.NATSURL == "" {
			notifier = events.Discard
			return
		}
		n, err := events.NewNATSNotifier(cfg.NATSURL)
		if err != nil {
			logger.Warn("change notices disabled", "err", err)
			notifier = events.Discard
			return
		}
		notifier = n
	})
	return notifier
}

// notifyChange tells watching clients that a record changed. The mutation
// already succeeded, so a failed publish is only logged.
func notifyChange(ctx context.Context, resource, action, id string) {
	change := events.Change{
		Resource: resource,
		Action:   action,
		ID:       id,
		Actor:    activeProfile.Email,
		At:       time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := changeNotifier().Notify(ctx, change); err != nil {
		logger.Warn("publishing change notice", "topic", events.Topic(resource, action), "err", err)
	}
}

func closeNotifier() {
	if notifier != nil {
		_ = notifier.Close()
	}
}
