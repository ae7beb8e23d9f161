package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/domain-events-go/domain"
)

func Test_Payload_Narrowing(t *testing.T) {
	occurredAt := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	payload := domain.Payload{
		"Title":     "Domain-Driven Design",
		"Available": true,
		"Copies":    3,
		"Decoded":   float64(7),
		"LentAt":    occurredAt,
		"ReturnBy":  "2025-03-15T12:30:00Z",
	}

	title, err := payload.String("Title")
	require.NoError(t, err)
	assert.Equal(t, "Domain-Driven Design", title)

	available, err := payload.Bool("Available")
	require.NoError(t, err)
	assert.True(t, available)

	copies, err := payload.Int("Copies")
	require.NoError(t, err)
	assert.Equal(t, int64(3), copies)

	decoded, err := payload.Int("Decoded")
	require.NoError(t, err)
	assert.Equal(t, int64(7), decoded)

	lentAt, err := payload.Time("LentAt")
	require.NoError(t, err)
	assert.Equal(t, occurredAt, lentAt)

	returnBy, err := payload.Time("ReturnBy")
	require.NoError(t, err)
	assert.Equal(t, occurredAt.Add(14*24*time.Hour), returnBy)

	assert.True(t, payload.Has("Title"))
	assert.False(t, payload.Has("Author"))
}

func Test_Payload_Narrowing_Errors(t *testing.T) {
	payload := domain.Payload{
		"Title":  "Domain-Driven Design",
		"Copies": 2.5,
	}

	_, err := payload.String("Author")
	assert.ErrorIs(t, err, domain.ErrPayloadKeyMissing)

	_, err = payload.Bool("Title")
	assert.ErrorIs(t, err, domain.ErrPayloadTypeMismatch)

	_, err = payload.Int("Copies")
	assert.ErrorIs(t, err, domain.ErrPayloadTypeMismatch)

	_, err = payload.Int("Missing")
	assert.ErrorIs(t, err, domain.ErrPayloadKeyMissing)

	_, err = payload.Time("Title")
	assert.ErrorIs(t, err, domain.ErrPayloadTypeMismatch)

	_, err = payload.Time("Copies")
	assert.ErrorIs(t, err, domain.ErrPayloadTypeMismatch)
}
