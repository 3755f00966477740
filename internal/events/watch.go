package events

import (
	"context"
	"time"
)

// DefaultCoalesce is how long Coalesce waits for a burst of notices to
// settle before calling fn.
const DefaultCoalesce = 200 * time.Millisecond

// Coalesce calls fn once per burst of messages on ch: after a message
// arrives, further messages within d are folded into the same call. It
// returns when ctx is done or ch is closed; a burst still pending when ch
// closes is flushed first.
func Coalesce(ctx context.Context, ch <-chan Message, d time.Duration, fn func([]Change)) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending []Change
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				if len(pending) > 0 {
					fn(pending)
				}
				return
			}
			pending = append(pending, msg.Change())
			if timer == nil {
				timer = time.NewTimer(d)
				fire = timer.C
			}
		case <-fire:
			batch := pending
			pending, timer, fire = nil, nil, nil
			fn(batch)
		}
	}
}

// Poll calls fn every interval until ctx is done. It does not call fn on
// entry. A non-positive interval never ticks; Poll just waits for ctx.
func Poll(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
