package shell

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/domain-events-go/domain"
	"github.com/AntonStoeckl/domain-events-go/publisher"
)

// EventLog is a listener that logs every event with its JSON payload at info level.
type EventLog struct {
	logger ContextualLogger
}

// NewEventLog creates an EventLog writing to logger.
func NewEventLog(logger ContextualLogger) (*EventLog, error) {
	if logger == nil {
		return nil, publisher.ErrNilContextualLogger
	}

	return &EventLog{logger: logger}, nil
}

// Handle logs the event. It fails if the event can not be rendered as JSON.
func (l *EventLog) Handle(ctx context.Context, event publisher.Event) error {
	payload, err := payloadJSON(event)
	if err != nil {
		return err
	}

	l.logger.InfoContext(ctx, LogMsgEventPublished,
		LogAttrEventType, event.IsEventType(),
		LogAttrOccurredAt, event.HasOccurredAt(),
		LogAttrPayload, string(payload),
	)

	return nil
}

func payloadJSON(event publisher.Event) ([]byte, error) {
	if generic, ok := event.(domain.DomainEvent); ok {
		return generic.PayloadToJSON()
	}

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return nil, errors.Join(ErrMarshalingEventFailed, err)
	}

	return payload, nil
}
