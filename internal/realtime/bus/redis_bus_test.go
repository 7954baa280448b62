package bus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
)

func TestDecodeRoundTripsReorderMessages(t *testing.T) {
	msg := realtime.ReorderMessage(reorder.Settlement{
		Key:    reorder.Key{Session: "s1", Kind: reorder.KindModules, ScopeID: "c1"},
		Seq:    3,
		ItemID: "m2",
		Status: reorder.StatusConfirmed,
		Items:  []reorder.Item{{ID: "m2", Order: 0}, {ID: "m1", Order: 1}},
	})
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	got, err := decode(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "session:s1", got.Channel)
	assert.Equal(t, realtime.SSEEventReorderConfirmed, got.Event)
	data := got.Data.(map[string]any)
	assert.Equal(t, "m2", data["itemId"])
}

func TestDecodeRejectsIncompleteMessages(t *testing.T) {
	_, err := decode(`{"event":"reorder.confirmed"}`)
	assert.Error(t, err)
	_, err = decode(`not json`)
	assert.Error(t, err)
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	_, err := NewRedisBus(context.Background(), logger.Nop(), RedisConfig{})
	assert.ErrorContains(t, err, "missing redis addr")
	_, err = NewRedisBus(context.Background(), nil, RedisConfig{Addr: "localhost:6379"})
	assert.Error(t, err)
}

func TestNilBusIsSafe(t *testing.T) {
	var b *RedisBus
	assert.Error(t, b.Publish(context.Background(), realtime.SSEMessage{}))
	assert.NoError(t, b.Close())
}
