package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

type gauge struct {
	mu  sync.Mutex
	cur int
}

func (g *gauge) SSEClientConnected()    { g.mu.Lock(); g.cur++; g.mu.Unlock() }
func (g *gauge) SSEClientDisconnected() { g.mu.Lock(); g.cur--; g.mu.Unlock() }

func TestSSEHubDeliversInOrderAndSurvivesReconnect(t *testing.T) {
	g := &gauge{}
	hub := NewSSEHub(logger.Nop(), g)
	channel := SessionChannel("s1")

	clientA := hub.NewSSEClient("u1")
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventReorderConfirmed, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventReorderRolledBack, Data: map[string]any{"seq": 2}})
	assert.Equal(t, SSEEventReorderConfirmed, recvMessage(t, clientA.Outbound, time.Second).Event)
	assert.Equal(t, SSEEventReorderRolledBack, recvMessage(t, clientA.Outbound, time.Second).Event)

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	_, ok := <-clientA.Outbound
	assert.False(t, ok, "outbound closed after disconnect")
	assert.Zero(t, hub.Subscribers(channel))

	clientB := hub.NewSSEClient("u1")
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventReorderConfirmed})
	assert.Equal(t, SSEEventReorderConfirmed, recvMessage(t, clientB.Outbound, time.Second).Event)

	g.mu.Lock()
	assert.Equal(t, 1, g.cur)
	g.mu.Unlock()
}

func TestSSEHubChannelsAreIsolated(t *testing.T) {
	hub := NewSSEHub(logger.Nop(), nil)
	a := hub.NewSSEClient("u1")
	b := hub.NewSSEClient("u2")
	hub.AddChannel(a, SessionChannel("s1"))
	hub.AddChannel(b, SessionChannel("s2"))

	hub.Broadcast(SSEMessage{Channel: SessionChannel("s1"), Event: SSEEventReorderConfirmed})
	recvMessage(t, a.Outbound, time.Second)
	select {
	case m := <-b.Outbound:
		t.Fatalf("unexpected message on other session: %+v", m)
	default:
	}

	hub.RemoveChannel(a, SessionChannel("s1"))
	hub.Broadcast(SSEMessage{Channel: SessionChannel("s1"), Event: SSEEventReorderConfirmed})
	assert.Len(t, a.Outbound, 0)
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop(), nil)
	client := hub.NewSSEClient("u1")
	hub.AddChannel(client, "c")

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(done)
	}()

	hub.Broadcast(SSEMessage{Channel: "c", Event: SSEEventReorderConfirmed, Data: map[string]any{"itemId": "m1"}})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(body, "event: reorder.confirmed\n"), body)
	assert.Contains(t, body, `"itemId":"m1"`)
}

func TestReorderMessage(t *testing.T) {
	msg := ReorderMessage(reorder.Settlement{
		Key:    reorder.Key{Session: "s9", Kind: reorder.KindLessons, ScopeID: "m1"},
		Seq:    2,
		ItemID: "l1",
		Status: reorder.StatusSuperseded,
		Err:    errors.New("upstream 500"),
	})
	assert.Equal(t, "session:s9", msg.Channel)
	assert.Equal(t, SSEEventReorderRolledBack, msg.Event)
	p := msg.Data.(ReorderPayload)
	assert.Equal(t, reorder.StatusSuperseded, p.Status)
	assert.Equal(t, "upstream 500", p.Error)
	assert.False(t, p.Retryable)
	assert.NotNil(t, p.Items)

	msg = ReorderMessage(reorder.Settlement{
		Key:    reorder.Key{Session: "s9", Kind: reorder.KindModules, ScopeID: "c1"},
		Seq:    3,
		Status: reorder.StatusRolledBack,
		Err:    &reorder.PersistError{Seq: 3, Err: &upstream.CallFailure{Kind: upstream.KindStatus, StatusCode: 503}},
	})
	assert.True(t, msg.Data.(ReorderPayload).Retryable)
}

type flakyPublisher struct {
	err  error
	sent []SSEMessage
}

func (f *flakyPublisher) Publish(_ context.Context, msg SSEMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestEmitterFallsBackToLocalHub(t *testing.T) {
	hub := NewSSEHub(logger.Nop(), nil)
	c := hub.NewSSEClient("u1")
	hub.AddChannel(c, "ch")

	ok := &flakyPublisher{}
	NewEmitter(logger.Nop(), hub, ok).Emit(context.Background(), SSEMessage{Channel: "ch", Event: SSEEventReorderConfirmed})
	require.Len(t, ok.sent, 1)
	assert.Len(t, c.Outbound, 0, "published messages arrive through the bus forwarder")

	broken := &flakyPublisher{err: errors.New("redis down")}
	NewEmitter(logger.Nop(), hub, broken).Emit(context.Background(), SSEMessage{Channel: "ch", Event: SSEEventReorderConfirmed})
	recvMessage(t, c.Outbound, time.Second)

	NewEmitter(logger.Nop(), hub, nil).Emit(context.Background(), SSEMessage{Channel: "ch", Event: SSEEventReorderRolledBack})
	assert.Equal(t, SSEEventReorderRolledBack, recvMessage(t, c.Outbound, time.Second).Event)
}
