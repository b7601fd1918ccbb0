package push

import (
	"github.com/google/uuid"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// Subscription is the handle returned by Subscribe. Events of the subscribed
// kind arrive on Events until Close is called; Close deregisters the handle
// deterministically so handlers never leak across reconnects.
type Subscription struct {
	id      string
	kind    models.EventKind
	channel *Channel
	events  chan models.PushEvent
}

// Subscribe registers for events of one kind. buffer controls how many
// undelivered events are held before the subscriber is considered slow.
func (c *Channel) Subscribe(kind models.EventKind, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &Subscription{
		id:      uuid.New().String(),
		kind:    kind,
		channel: c,
		events:  make(chan models.PushEvent, buffer),
	}

	c.subsMu.Lock()
	if c.subs[kind] == nil {
		c.subs[kind] = make(map[string]*Subscription)
	}
	c.subs[kind][sub.id] = sub
	c.subsMu.Unlock()

	c.logger.Debug().Str("kind", string(kind)).Str("subscription", sub.id).Msg("Push subscription added")
	return sub
}

// Events is the delivery channel for the subscribed kind.
func (s *Subscription) Events() <-chan models.PushEvent {
	return s.events
}

// Close deregisters the subscription and closes its delivery channel. Safe to
// call more than once.
func (s *Subscription) Close() {
	c := s.channel
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	if _, ok := c.subs[s.kind][s.id]; !ok {
		return
	}
	delete(c.subs[s.kind], s.id)
	if len(c.subs[s.kind]) == 0 {
		delete(c.subs, s.kind)
	}
	close(s.events)
	c.logger.Debug().Str("kind", string(s.kind)).Str("subscription", s.id).Msg("Push subscription removed")
}
