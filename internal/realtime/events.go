package realtime

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type SSEEvent string

const (
	SSEEventReorderConfirmed  SSEEvent = "reorder.confirmed"
	SSEEventReorderRolledBack SSEEvent = "reorder.rolled_back"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// SessionChannel is the channel every stream of a session subscribes to.
func SessionChannel(sessionID string) string { return "session:" + sessionID }

// ReorderPayload is the data of reorder events.
type ReorderPayload struct {
	Kind    reorder.Kind   `json:"kind"`
	ScopeID string         `json:"scopeId"`
	Seq     uint64         `json:"seq"`
	ItemID  string         `json:"itemId"`
	Status  reorder.Status `json:"status"`
	Error   string         `json:"error,omitempty"`
	// Retryable hints that the same gesture may succeed if repeated.
	Retryable bool           `json:"retryable,omitempty"`
	Items     []reorder.Item `json:"items"`
}

// ReorderMessage turns a settlement into the event for its session. Superseded
// intents are reported as rolled back.
func ReorderMessage(s reorder.Settlement) SSEMessage {
	ev := SSEEventReorderRolledBack
	if s.Status == reorder.StatusConfirmed {
		ev = SSEEventReorderConfirmed
	}
	p := ReorderPayload{
		Kind:    s.Key.Kind,
		ScopeID: s.Key.ScopeID,
		Seq:     s.Seq,
		ItemID:  s.ItemID,
		Status:  s.Status,
		Items:   s.Items,
	}
	if s.Err != nil {
		p.Error = s.Err.Error()
		p.Retryable = upstream.IsTransient(s.Err)
	}
	if p.Items == nil {
		p.Items = []reorder.Item{}
	}
	return SSEMessage{Channel: SessionChannel(s.Key.Session), Event: ev, Data: p}
}

// Publisher fans a message out beyond this replica.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Emitter sends through the publisher when one is configured and falls back to the
// local hub otherwise or when publishing fails.
type Emitter struct {
	hub *SSEHub
	pub Publisher
	log *logger.Logger
}

func NewEmitter(log *logger.Logger, hub *SSEHub, pub Publisher) *Emitter {
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{hub: hub, pub: pub, log: log.With("component", "SSEEmitter")}
}

func (e *Emitter) Emit(ctx context.Context, msg SSEMessage) {
	if e.pub != nil {
		err := e.pub.Publish(ctx, msg)
		if err == nil {
			return
		}
		e.log.Warn("SSE publish failed; delivering locally", "event", msg.Event, "error", err)
	}
	e.hub.Broadcast(msg)
}
