package reorder

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

var tracer = otel.Tracer("neurobridge-dashboard/reorder")

type State int

const (
	Settled State = iota
	Pending
	RollingBack
)

func (s State) String() string {
	switch s {
	case Settled:
		return "settled"
	case Pending:
		return "pending"
	case RollingBack:
		return "rolling_back"
	default:
		return "unknown"
	}
}

// Persister stores the full ordered id list of a collection.
type Persister interface {
	Persist(ctx context.Context, key Key, ids []string) error
}

type PersisterFunc func(ctx context.Context, key Key, ids []string) error

func (f PersisterFunc) Persist(ctx context.Context, key Key, ids []string) error {
	return f(ctx, key, ids)
}

// Settlement describes an intent reaching a final status and the list the collection
// shows afterwards.
type Settlement struct {
	Key      Key
	Seq      uint64
	ItemID   string
	Status   Status
	Err      error
	Items    []Item
	Duration time.Duration
}

// Collection is one optimistically reordered list. Gestures apply locally at once;
// persistence calls go out one at a time in gesture order.
type Collection struct {
	key      Key
	persist  Persister
	timeout  time.Duration
	log      *logger.Logger
	onSettle func(Settlement)

	mu        sync.Mutex
	state     State
	items     []Item
	confirmed []Item
	queue     []*Intent
	inflight  *Intent
	seq       uint64
	touched   time.Time
}

func newCollection(key Key, items []Item, persist Persister, timeout time.Duration, log *logger.Logger, onSettle func(Settlement)) *Collection {
	items = Normalize(items)
	return &Collection{
		key:       key,
		persist:   persist,
		timeout:   timeout,
		log:       log,
		onSettle:  onSettle,
		items:     items,
		confirmed: append([]Item(nil), items...),
		touched:   time.Now(),
	}
}

func (c *Collection) Key() Key { return c.key }

func (c *Collection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the list as the user currently sees it, optimistic changes included.
func (c *Collection) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item{}, c.items...)
}

// Confirmed returns the last list the upstream acknowledged.
func (c *Collection) Confirmed() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item{}, c.confirmed...)
}

// Outstanding counts intents that are queued or in flight.
func (c *Collection) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.queue)
	if c.inflight != nil {
		n++
	}
	return n
}

// Reorder moves itemID to toIndex. The returned list already reflects the move; the
// intent settles once the upstream answers. Validation errors leave the collection
// untouched.
func (c *Collection) Reorder(ctx context.Context, itemID string, toIndex int) (*Intent, []Item, error) {
	c.mu.Lock()
	c.touched = time.Now()

	next, from, err := Move(c.items, itemID, toIndex)
	if err != nil {
		c.mu.Unlock()
		return nil, nil, err
	}
	c.seq++
	snap := Capture(c.items)

	if from == toIndex {
		in := newIntent(ctx, c.seq, itemID, from, toIndex, snap, snap.Items())
		items := append([]Item{}, c.items...)
		c.mu.Unlock()
		in.finish(StatusConfirmed, nil)
		c.notify(in, items)
		return in, items, nil
	}

	in := newIntent(context.WithoutCancel(ctx), c.seq, itemID, from, toIndex, snap, next)
	c.items = next
	c.state = Pending
	c.queue = append(c.queue, in)
	start := c.dequeueLocked()
	items := append([]Item{}, c.items...)
	c.mu.Unlock()

	if start != nil {
		go c.send(start)
	}
	return in, items, nil
}

// dequeueLocked promotes the queue head to in flight when nothing else is.
func (c *Collection) dequeueLocked() *Intent {
	if c.inflight != nil || len(c.queue) == 0 {
		return nil
	}
	in := c.queue[0]
	c.queue = c.queue[1:]
	c.inflight = in
	in.setStatus(StatusInFlight)
	return in
}

func (c *Collection) send(in *Intent) {
	for in != nil {
		in = c.settle(in, c.persistOne(in))
	}
}

func (c *Collection) persistOne(in *Intent) (err error) {
	ctx, cancel := context.WithTimeout(in.ctx, c.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "reorder.persist", trace.WithAttributes(
		attribute.String("reorder.kind", string(c.key.Kind)),
		attribute.String("reorder.scope", c.key.ScopeID),
		attribute.Int64("reorder.seq", int64(in.Seq)),
	))
	defer func() {
		if r := recover(); r != nil {
			err = &PersistError{Key: c.key, Seq: in.Seq, Err: panicError{r}}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.persist.Persist(ctx, c.key, IDs(in.Target)); err != nil {
		return &PersistError{Key: c.key, Seq: in.Seq, Err: err}
	}
	return nil
}

// settle applies the outcome of the in-flight intent and returns the next one to send.
func (c *Collection) settle(in *Intent, err error) *Intent {
	type done struct {
		in     *Intent
		status Status
	}
	var finished []done

	c.mu.Lock()
	c.inflight = nil
	if err == nil {
		c.confirmed = append([]Item(nil), in.Target...)
		finished = append(finished, done{in, StatusConfirmed})
	} else {
		c.state = RollingBack
		c.items = in.Snapshot.Items()
		finished = append(finished, done{in, StatusRolledBack})
		for _, q := range c.queue {
			finished = append(finished, done{q, StatusSuperseded})
		}
		c.queue = nil
	}
	next := c.dequeueLocked()
	if next == nil && err == nil {
		c.state = Settled
	}
	items := append([]Item{}, c.items...)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("reorder not persisted; reverted",
			"kind", c.key.Kind,
			"scope_id", c.key.ScopeID,
			"seq", in.Seq,
			"superseded", len(finished)-1,
			"error", err,
		)
	}
	for _, f := range finished {
		f.in.finish(f.status, err)
		c.notify(f.in, items)
	}

	if err != nil {
		c.mu.Lock()
		// a gesture accepted during rollback has already moved the state on
		if c.state == RollingBack {
			c.state = Settled
		}
		c.mu.Unlock()
	}
	return next
}

func (c *Collection) notify(in *Intent, items []Item) {
	if c.onSettle == nil {
		return
	}
	c.onSettle(Settlement{
		Key:      c.key,
		Seq:      in.Seq,
		ItemID:   in.ItemID,
		Status:   in.Status(),
		Err:      in.Err(),
		Items:    items,
		Duration: time.Since(in.created),
	})
}

// reset replaces the list with a fresh upstream copy when nothing is outstanding.
func (c *Collection) reset(items []Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Settled || c.inflight != nil || len(c.queue) > 0 {
		return false
	}
	c.items = Normalize(items)
	c.confirmed = append([]Item(nil), c.items...)
	c.touched = time.Now()
	return true
}

func (c *Collection) idleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	busy := c.state != Settled || c.inflight != nil || len(c.queue) > 0
	return c.touched, !busy
}
