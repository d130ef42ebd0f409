package service_test

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/event"
)

// recordingNotifier captures events so tests can assert what would have
// been fanned out.
type recordingNotifier struct {
	mu     sync.Mutex
	events []event.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev event.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) Events() []event.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]event.Event, len(n.events))
	copy(out, n.events)
	return out
}

// testRoom builds a persisted-looking room whose PIN hash matches pin.
func testRoom(t *testing.T, code, pin string) *domain.Room {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return &domain.Room{ID: 1, Code: code, Name: "Test Room", DJPinHash: string(hash)}
}
