// Package realtime delivers push-style full-snapshot updates for the menu,
// inventory and order views. Each subscription opens a MongoDB change
// stream on the backing collection; whenever anything in the collection
// changes, the current snapshot is re-read and replaces the previous one
// wholesale. There are no partial-diff semantics.
package realtime

import (
	"context"
	"encoding/json"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
)

// Snapshot is one full view state pushed to a subscriber.
type Snapshot struct {
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
}

// LoaderFunc reads the complete current view for one subscriber, already
// filtered to their scope and role.
type LoaderFunc func(ctx context.Context) (json.RawMessage, error)

// Subscription is a live view feed. Cancel must be called when the viewing
// session ends; it closes C.
type Subscription struct {
	C      <-chan Snapshot
	cancel context.CancelFunc
}

func (s *Subscription) Cancel() {
	s.cancel()
}

// Watch opens a change stream on coll and returns a subscription that
// receives the initial snapshot immediately and a fresh one after every
// change event. A slow subscriber only ever misses intermediate states:
// pending sends are replaced by newer snapshots, never queued up.
func Watch(ctx context.Context, coll *mongo.Collection, name string, load LoaderFunc) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, err
	}

	ch := make(chan Snapshot, 1)
	sub := &Subscription{C: ch, cancel: cancel}

	push := func() {
		data, err := load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("realtime: reload %s snapshot: %v", name, err)
			}
			return
		}
		// drop the stale pending snapshot, if any
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- Snapshot{Collection: name, Data: data}:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		push()
		for stream.Next(ctx) {
			push()
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("realtime: %s change stream: %v", name, err)
		}
	}()

	return sub, nil
}
