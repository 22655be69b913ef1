package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewHistoryStore(client)
}

func TestHistorySaveAndLoad(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	history := []ChatMessage{
		{Role: ChatRoleUser, Content: "do you have any trucks"},
		{Role: ChatRoleAssistant, Content: "We have three F-150s in stock."},
	}
	if err := store.Save(ctx, "s1", history); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != history[0] || got[1] != history[1] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestHistoryLoadUnknownSession(t *testing.T) {
	store := testHistoryStore(t)

	got, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil history, got %+v", got)
	}
}

func TestHistorySaveTrimsToRecentTurns(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	var history []ChatMessage
	for i := 0; i < historyMaxTurns+10; i++ {
		history = append(history, ChatMessage{Role: ChatRoleUser, Content: fmt.Sprintf("turn %d", i)})
	}
	if err := store.Save(ctx, "s1", history); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != historyMaxTurns {
		t.Fatalf("len = %d, want %d", len(got), historyMaxTurns)
	}
	if got[0].Content != "turn 10" {
		t.Errorf("oldest kept turn = %q, want turn 10", got[0].Content)
	}
}
