package reorder

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusInFlight   Status = "in_flight"
	StatusConfirmed  Status = "confirmed"
	StatusRolledBack Status = "rolled_back"
	StatusSuperseded Status = "superseded"
)

func (s Status) Final() bool {
	return s == StatusConfirmed || s == StatusRolledBack || s == StatusSuperseded
}

// PersistError is returned when the upstream rejected or never acknowledged a reorder.
// The collection has already been reverted when a caller sees it.
type PersistError struct {
	Key Key
	Seq uint64
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("reorder %s #%d not persisted: %v", e.Key, e.Seq, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Intent is one reorder gesture. The exported fields are fixed at creation.
type Intent struct {
	Seq      uint64
	ItemID   string
	From     int
	To       int
	Snapshot Snapshot
	Target   []Item

	ctx     context.Context
	created time.Time

	mu     sync.Mutex
	status Status
	err    error
	done   chan struct{}
}

func newIntent(ctx context.Context, seq uint64, itemID string, from, to int, snap Snapshot, target []Item) *Intent {
	return &Intent{
		Seq:      seq,
		ItemID:   itemID,
		From:     from,
		To:       to,
		Snapshot: snap,
		Target:   target,
		ctx:      ctx,
		created:  time.Now(),
		status:   StatusQueued,
		done:     make(chan struct{}),
	}
}

func (in *Intent) Status() Status {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.status
}

func (in *Intent) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// Done is closed once the intent reaches a final status.
func (in *Intent) Done() <-chan struct{} { return in.done }

// Wait blocks until the intent settles or ctx ends.
func (in *Intent) Wait(ctx context.Context) (Status, error) {
	select {
	case <-in.done:
		return in.Status(), in.Err()
	case <-ctx.Done():
		return in.Status(), ctx.Err()
	}
}

func (in *Intent) setStatus(s Status) {
	in.mu.Lock()
	in.status = s
	in.mu.Unlock()
}

func (in *Intent) finish(s Status, err error) {
	in.mu.Lock()
	if in.status.Final() {
		in.mu.Unlock()
		return
	}
	in.status = s
	in.err = err
	in.mu.Unlock()
	close(in.done)
}
