package services

import "context"

// Notifier dispatches a message to a recipient, best-effort. Implementations
// must never return delivery failures to the caller: a failed send is logged
// and swallowed, because a state transition's durability is the database
// write, not the notification.
type Notifier interface {
	Notify(ctx context.Context, recipient string, subject string, body string)
}
