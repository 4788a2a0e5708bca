package service

// Routing keys for state-change notifications.
const (
	TopicEventCreated      = "event.created"
	TopicEventUpdated      = "event.updated"
	TopicEventDeleted      = "event.deleted"
	TopicBookingCreated    = "booking.created"
	TopicAccountRegistered = "account.registered"
	TopicSessionStarted    = "session.started"
	TopicSessionEnded      = "session.ended"
)

// Notifier receives a message after every successful mutation so that
// subscribers can refresh their view of the collections.
type Notifier interface {
	Publish(routingKey string, payload any) error
}

type notification struct {
	key     string
	payload any
}

// outbox collects notifications while a service lock is held. They are
// delivered by flush once the lock is released.
type outbox struct {
	pending []notification
}

func (o *outbox) add(key string, payload any) {
	o.pending = append(o.pending, notification{key: key, payload: payload})
}

// take empties the outbox. Callers hold the owning lock.
func (o *outbox) take() []notification {
	p := o.pending
	o.pending = nil
	return p
}

func flush(n Notifier, batch []notification) {
	if n == nil {
		return
	}
	for _, m := range batch {
		// delivery is best effort; the mutation has already been applied
		_ = n.Publish(m.key, m.payload)
	}
}
