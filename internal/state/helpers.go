package state

import (
	"context"

	"github.com/alexisbeaulieu97/shelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

func componentLogger(logger ports.Logger, component string) ports.Logger {
	if logger == nil {
		return logging.NewNoOpLogger()
	}
	return logger.With("layer", "state", "component", component)
}

func publish(publisher ports.EventPublisher, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	_ = publisher.Publish(context.Background(), ports.Event{Type: eventType, Data: data})
}
