package event

import (
	log "github.com/sirupsen/logrus"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
)

type loggingDispatcher struct{}

// NewLoggingDispatcher returns a dispatcher that records every domain event
// in the structured log. Dispatch never fails.
func NewLoggingDispatcher() domain.EventDispatcher {
	return loggingDispatcher{}
}

func (loggingDispatcher) Dispatch(event domain.Event) error {
	log.WithField("event", event.Type()).Info("domain event dispatched")
	return nil
}
