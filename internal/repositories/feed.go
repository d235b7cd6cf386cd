package repositories

import (
	"context"
	"sync"

	"github.com/desertthunder/marvelx/internal/shared"
)

// Op names the kind of write that produced a [Change].
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed write to the characters table.
type Change struct {
	ID string
	Op Op
}

// ChangeFeed is an observer registry for committed writes.
//
// Each subscriber owns a channel with a one-slot buffer. Publish never blocks: when a signal is already pending
// the new one is dropped, since the pending signal already makes the subscriber re-read the latest state.
type ChangeFeed struct {
	mu     sync.Mutex
	subs   map[string]*subscription
	done   chan struct{}
	closed bool
}

type subscription struct {
	id string // "" watches the whole table
	ch chan struct{}
}

// NewChangeFeed creates an empty, open [ChangeFeed].
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{
		subs: make(map[string]*subscription),
		done: make(chan struct{}),
	}
}

// Subscribe registers interest in writes to id ("" for any id).
//
// The returned channel is closed when ctx ends or the feed is closed; the registration is removed at the same time.
func (f *ChangeFeed) Subscribe(ctx context.Context, id string) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, shared.ErrStoreClosed
	}

	key := shared.GenerateID()
	sub := &subscription{id: id, ch: make(chan struct{}, 1)}
	f.subs[key] = sub
	f.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			f.remove(key)
		case <-f.done:
		}
	}()

	return sub.ch, nil
}

// Publish signals every subscriber watching c.ID or the whole table.
func (f *ChangeFeed) Publish(c Change) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.id != "" && sub.id != c.ID {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of live subscriptions.
func (f *ChangeFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close ends every subscription. Later calls to Subscribe fail with [shared.ErrStoreClosed].
func (f *ChangeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	close(f.done)

	for key, sub := range f.subs {
		delete(f.subs, key)
		close(sub.ch)
	}
}

func (f *ChangeFeed) remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.subs[key]; ok {
		delete(f.subs, key)
		close(sub.ch)
	}
}
