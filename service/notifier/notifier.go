package notifier

import (
	"context"

	"stellend/core"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

type notifier struct{}

// New new event notifier. Events are logged and forgotten; a lost event
// never rolls back a ledger mutation.
func New() core.IEventService {
	return &notifier{}
}

func (n *notifier) Emit(ctx context.Context, event *core.Event) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action": event.Action,
		"user":   event.UserID,
		"asset":  event.Asset,
		"amount": event.Amount,
	})

	for k, v := range event.Extra {
		log = log.WithField(k, v)
	}

	log.Info("event")
}
