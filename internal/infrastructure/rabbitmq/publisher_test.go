package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/ports"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestPublish_RoutingKeyYCuerpo(t *testing.T) {
	ch := &fakeChannel{}
	p := newWithChannel(ch, DefaultExchange)
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), ports.Event{
		Type: ports.EventRunFinished, OrgID: "org-1", EntityID: "run-1", OccurredAt: at,
		Payload: map[string]int{"COLETADO": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "coleta.events", ch.exchange)
	assert.Equal(t, "run.finished", ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "org-1", ch.msg.Headers["org_id"])
	assert.Equal(t, at, ch.msg.Timestamp)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "run-1", body["entityId"])
	assert.Equal(t, map[string]any{"COLETADO": float64(2)}, body["payload"])
}

func TestPublish_Errores(t *testing.T) {
	p := newWithChannel(&fakeChannel{err: errors.New("canal fechado")}, DefaultExchange)
	err := p.Publish(context.Background(), ports.Event{Type: ports.EventRunStarted})
	assert.ErrorContains(t, err, "run.started")

	assert.Error(t, p.Publish(context.Background(), ports.Event{}))
}
