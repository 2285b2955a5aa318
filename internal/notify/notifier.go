package notify

import (
	"context"
	"log"
)

// Notifier delivers a short message to a user. Delivery is best effort;
// callers never fail an operation because a notification did not land.
type Notifier interface {
	Send(ctx context.Context, userID int64, message string)
}

// LogNotifier writes notifications to the server log. It stands in for
// a push-delivery backend in deployments that have none configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, userID int64, message string) {
	log.Printf("notify user %d: %s", userID, message)
}
