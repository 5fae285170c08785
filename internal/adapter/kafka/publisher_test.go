package kafka

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
	"github.com/couchcryptid/fmi-weather-bridge/internal/entity"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	state := entity.State{
		EntityID: "sensor.helsinki_temperature",
		State:    "18.5",
		Attributes: map[string]any{
			"unit_of_measurement": "°C",
			"attribution":         entity.Attribution,
		},
	}

	msg, err := serializeToMessage(state)
	require.NoError(t, err)

	assert.Equal(t, []byte("sensor.helsinki_temperature"), msg.Key)
	assert.Contains(t, string(msg.Value), `"state":"18.5"`)
	assert.Contains(t, string(msg.Value), `"entity_id":"sensor.helsinki_temperature"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("fmi-weather-bridge"), msg.Headers[0].Value)
	assert.Equal(t, "published_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-06-14T12:00:00Z"), msg.Headers[1].Value)
}
