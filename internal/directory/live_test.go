package directory

import (
	"strconv"
	"sync"
	"testing"
)

func TestLive_SubscribeReceivesCurrentSnapshot(t *testing.T) {
	l := NewLive()
	l.Publish([]Entity{{ID: "u1", DisplayName: "Anna"}}, nil)

	var got *Directory
	unsub := l.Subscribe(func(d *Directory) { got = d })
	defer unsub()

	if got == nil || got.Len() != 1 {
		t.Fatalf("subscriber should receive current snapshot immediately, got %v", got)
	}
}

func TestLive_PublishReplacesWholesale(t *testing.T) {
	l := NewLive()
	l.Publish([]Entity{{ID: "u1", DisplayName: "Anna"}}, nil)
	first := l.Snapshot()

	l.Publish([]Entity{{ID: "u2", DisplayName: "Bob"}}, nil)
	second := l.Snapshot()

	if _, ok := second.User("u1"); ok {
		t.Error("u1 should be gone after replacement")
	}
	if _, ok := first.User("u1"); !ok {
		t.Error("earlier snapshot must stay intact")
	}
}

func TestLive_EmptyPublish(t *testing.T) {
	l := NewLive()
	var calls int
	unsub := l.Subscribe(func(d *Directory) {
		calls++
		if d == nil {
			t.Error("snapshot should never be nil")
		}
	})
	defer unsub()

	for i := 0; i < 10; i++ {
		l.Publish(nil, nil)
	}
	if calls != 11 {
		t.Errorf("expected 11 notifications, got %d", calls)
	}
}

func TestLive_Unsubscribe(t *testing.T) {
	l := NewLive()
	var a, b int
	unsubA := l.Subscribe(func(*Directory) { a++ })
	unsubB := l.Subscribe(func(*Directory) { b++ })
	defer unsubB()

	unsubA()
	unsubA()
	l.Publish(nil, nil)

	if a != 1 {
		t.Errorf("unsubscribed callback called %d times, want 1", a)
	}
	if b != 2 {
		t.Errorf("remaining callback called %d times, want 2", b)
	}
}

func TestLive_ConcurrentPublish(t *testing.T) {
	l := NewLive()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Publish([]Entity{{ID: "u1", DisplayName: "Anna"}}, nil)
				_ = l.Snapshot().Len()
			}
		}()
	}
	wg.Wait()

	if l.Snapshot().Len() != 1 {
		t.Errorf("final snapshot Len() = %d, want 1", l.Snapshot().Len())
	}
}

func TestLive_ConcurrentPublishersEndOnLatest(t *testing.T) {
	l := NewLive()
	var last *Directory
	var deliveries int
	unsub := l.Subscribe(func(d *Directory) {
		last = d
		deliveries++
	})
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				users := make([]Entity, j+1)
				for k := range users {
					users[k] = Entity{ID: "u" + strconv.Itoa(k), DisplayName: "x"}
				}
				l.Publish(users, nil)
			}
		}()
	}
	wg.Wait()

	if last != l.Snapshot() {
		t.Errorf("subscriber ended on a different snapshot than Snapshot(): got %d users, want %d", last.Len(), l.Snapshot().Len())
	}
	if deliveries < 2 || deliveries > 401 {
		t.Errorf("deliveries = %d, want between 2 and 401", deliveries)
	}
}

func TestLive_DeliversInPublishOrder(t *testing.T) {
	l := NewLive()
	l.Publish([]Entity{{ID: "u1", DisplayName: "Anna"}}, nil)

	var seen []int
	unsub := l.Subscribe(func(d *Directory) { seen = append(seen, d.Len()) })
	defer unsub()
	l.Publish([]Entity{{ID: "u1", DisplayName: "Anna"}, {ID: "u2", DisplayName: "Bob"}}, nil)

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

var _ Feed = (*Live)(nil)
