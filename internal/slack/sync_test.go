package slack

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"github.com/m96-chan/mentio/internal/directory"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published [][]directory.Entity
	done      chan struct{}
}

func (p *recordingPublisher) Publish(users, groups []directory.Entity) *directory.Directory {
	p.mu.Lock()
	p.published = append(p.published, users)
	p.mu.Unlock()
	if p.done != nil {
		p.done <- struct{}{}
	}
	return directory.New(users, groups)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func TestSync_PublishesOnce(t *testing.T) {
	c := &Client{api: &fakeAPI{users: []slack.User{{ID: "U1", Name: "anna"}}}}
	pub := &recordingPublisher{}

	if err := c.Sync(context.Background(), pub); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if pub.count() != 1 {
		t.Errorf("publishes: got %d, want 1", pub.count())
	}
	if got := pub.published[0]; len(got) != 1 || got[0].DisplayName != "anna" {
		t.Errorf("published users: got %+v", got)
	}
}

func TestRefreshLoop(t *testing.T) {
	c := &Client{api: &fakeAPI{users: []slack.User{{ID: "U1"}}}}
	pub := &recordingPublisher{done: make(chan struct{}, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go c.refreshLoop(ctx, pub, changed)

	notify(changed)
	notify(changed) // coalesced or queued, never blocks

	select {
	case <-pub.done:
	case <-time.After(time.Second):
		t.Fatal("refresh did not publish")
	}
}

func TestNotify_NeverBlocks(t *testing.T) {
	ch := make(chan struct{}, 1)
	for range 3 {
		notify(ch)
	}
	if len(ch) != 1 {
		t.Errorf("pending notifications: got %d, want 1", len(ch))
	}
}
