package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const historyTTL = 24 * time.Hour

// historyMaxTurns bounds how much context the LLM stage carries forward.
const historyMaxTurns = 20

// HistoryStore keeps recent chat context in Redis so the LLM stage can carry
// multi-turn conversations. All operations are best-effort at call sites.
type HistoryStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewHistoryStore wires a Redis-backed history store.
func NewHistoryStore(client *redis.Client) *HistoryStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &HistoryStore{
		redis:  client,
		tracer: otel.Tracer("dealerai.internal.conversation.history"),
	}
}

// Save persists the chat context, trimming to the most recent turns.
func (s *HistoryStore) Save(ctx context.Context, sessionID string, history []ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_history")
	defer span.End()

	if len(history) > historyMaxTurns {
		history = history[len(history)-historyMaxTurns:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(sessionID), data, historyTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist history: %w", err)
	}
	return nil
}

// Load returns the stored chat context, or nil when the session is unknown.
func (s *HistoryStore) Load(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode history: %w", err)
	}
	return history, nil
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("chat_history:%s", sessionID)
}
