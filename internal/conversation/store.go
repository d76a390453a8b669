package conversation

import (
	"context"
	"sync"
	"time"

	"hera-assistant/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Persister is the optional write-through backend for conversation contexts.
// It is best-effort: failures are logged and never surfaced to callers.
type Persister interface {
	Save(ctx context.Context, cc *model.ConversationContext) error
	Load(ctx context.Context, conversationID string) (*model.ConversationContext, error)
}

// Patch is a shallow merge applied to a conversation context. Zero-valued
// fields are left untouched.
type Patch struct {
	Phase      model.Phase
	LastIntent string
}

// Store owns all conversation contexts in the process. A context is lazily
// created on first sight of a conversation id and the same instance is
// returned for every later call, which makes it the single source of truth
// within the process. Idle contexts age out of the LRU after the TTL.
type Store struct {
	mu        sync.Mutex
	contexts  *expirable.LRU[string, *model.ConversationContext]
	persister Persister
	log       *zap.Logger
}

func NewStore(maxSize int, ttl time.Duration, persister Persister, log *zap.Logger) *Store {
	return &Store{
		contexts:  expirable.NewLRU[string, *model.ConversationContext](maxSize, nil, ttl),
		persister: persister,
		log:       log,
	}
}

// Maintain returns the context for a conversation id, creating it on first
// use. An evicted-but-persisted context is restored from the persister.
func (s *Store) Maintain(conversationID string, bctx model.BusinessContext) *model.ConversationContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cc, ok := s.contexts.Get(conversationID); ok {
		return cc
	}

	if s.persister != nil {
		if cc, err := s.persister.Load(context.Background(), conversationID); err == nil && cc != nil {
			s.contexts.Add(conversationID, cc)
			return cc
		}
	}

	now := time.Now()
	cc := &model.ConversationContext{
		ConversationID: conversationID,
		Business:       bctx,
		CreatedAt:      now,
		LastActivityAt: now,
		State:          model.ConversationState{Phase: model.PhaseGreeting},
	}
	s.contexts.Add(conversationID, cc)
	return cc
}

// Get looks a context up without creating one.
func (s *Store) Get(conversationID string) (*model.ConversationContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cc, ok := s.contexts.Get(conversationID); ok {
		return cc, true
	}
	if s.persister != nil {
		if cc, err := s.persister.Load(context.Background(), conversationID); err == nil && cc != nil {
			s.contexts.Add(conversationID, cc)
			return cc, true
		}
	}
	return nil, false
}

// Update applies a patch, bumps the message count and activity timestamp,
// and writes through to the persister. Persistence failures are logged only.
func (s *Store) Update(cc *model.ConversationContext, patch Patch) {
	s.mu.Lock()
	if patch.Phase != "" {
		cc.State.Phase = patch.Phase
	}
	if patch.LastIntent != "" {
		cc.State.LastIntent = patch.LastIntent
	}
	cc.MessageCount++
	cc.LastActivityAt = time.Now()
	s.mu.Unlock()

	if s.persister == nil {
		return
	}
	if err := s.persister.Save(context.Background(), cc); err != nil {
		s.log.Warn("failed to persist conversation context",
			zap.String("conversation_id", cc.ConversationID),
			zap.Error(err),
		)
	}
}
