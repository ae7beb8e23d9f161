package shell

import "errors"

var (
	// ErrRetryable marks a listener error as transient. Only errors matching it with errors.Is are retried.
	ErrRetryable = errors.New("transient listener failure")

	// ErrNilListener is returned when a nil listener is wrapped.
	ErrNilListener = errors.New("listener must not be nil")

	// ErrEmptyListenerName is returned when a listener is wrapped without a name.
	ErrEmptyListenerName = errors.New("listener name must not be empty")

	// ErrMarshalingEventFailed is returned when an event can not be rendered as JSON.
	ErrMarshalingEventFailed = errors.New("marshaling event to json failed")

	// ErrUnreadablePayload is returned when a generic event lacks the payload a projection needs.
	ErrUnreadablePayload = errors.New("event payload is unreadable")
)
