package engine

import (
	"context"
	"time"

	"hera-assistant/internal/conversation"
	"hera-assistant/internal/model"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Actions are generated once the classifier clears this confidence bar.
const actionConfidenceThreshold = 0.8

// ContextStore is the per-conversation state backend.
type ContextStore interface {
	Maintain(conversationID string, bctx model.BusinessContext) *model.ConversationContext
	Update(cc *model.ConversationContext, patch conversation.Patch)
}

// EventBus publishes processing events; all publishes are best-effort.
type EventBus interface {
	PublishConversation(conversationID string, event map[string]interface{}) error
}

// Engine is the conversational business-action pipeline: classify, extract,
// maintain context, generate and dispatch actions, compose a reply.
type Engine struct {
	store      ContextStore
	dispatcher *Dispatcher
	validator  ActionValidator
	bus        EventBus
	log        *zap.Logger
}

func New(store ContextStore, dispatcher *Dispatcher, validator ActionValidator, bus EventBus, log *zap.Logger) *Engine {
	return &Engine{
		store:      store,
		dispatcher: dispatcher,
		validator:  validator,
		bus:        bus,
		log:        log,
	}
}

// ProcessInput is the single public entry point's payload.
type ProcessInput struct {
	Message        string                `json:"message"`
	ConversationID string                `json:"conversationId"`
	Business       model.BusinessContext `json:"context,omitempty"`
	Profile        *model.UserProfile    `json:"profile,omitempty"`
}

// ProcessMessage runs one message through the full pipeline. It is the
// outermost failure boundary: any panic below becomes the universal
// fallback reply with confidence 0.
func (e *Engine) ProcessMessage(ctx context.Context, input ProcessInput) (resp *model.AIResponse) {
	start := time.Now()
	messageID := ulid.Make().String()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("message processing panicked",
				zap.String("conversation_id", input.ConversationID),
				zap.Any("panic", r),
			)
			resp = fallbackResponse(messageID, start)
		}
	}()

	cc := e.store.Maintain(input.ConversationID, input.Business)

	intent := ParseBusinessIntent(input.Message)
	entities := ExtractEntities(input.Message, input.Business)
	intent.Entities = entities
	sentiment := AnalyzeSentiment(input.Message)

	var actions []model.BusinessAction
	var results []model.ActionResult
	if intent.Confidence >= actionConfidenceThreshold {
		actions = GenerateActions(intent, entities, e.validator)
		for _, action := range actions {
			if !e.shouldExecute(input.Business.UserRole, intent, action) {
				continue
			}
			result := e.dispatcher.Execute(ctx, intent.Category, action, input.Business)
			results = append(results, *result)

			_ = e.bus.PublishConversation(input.ConversationID, map[string]interface{}{
				"type":     "action.executed",
				"actionId": action.ID,
				"success":  result.Success,
			})
		}
	}

	phase := model.PhaseActive
	if intent.Action == "clarify_intent" {
		phase = model.PhaseClarifying
	}
	e.store.Update(cc, conversation.Patch{Phase: phase, LastIntent: intent.Action})

	resp = ComposeResponse(intent, actions, results, sentiment)
	resp.MessageID = messageID
	resp.ProcessingTime = time.Since(start).Milliseconds()
	if input.Profile != nil {
		resp = PersonalizeResponse(resp, *input.Profile)
	}

	_ = e.bus.PublishConversation(input.ConversationID, map[string]interface{}{
		"type":      "message.processed",
		"messageId": messageID,
		"intent":    intent.Action,
		"category":  string(intent.Category),
	})

	e.log.Info("message processed",
		zap.String("conversation_id", input.ConversationID),
		zap.String("intent", intent.Action),
		zap.Float64("confidence", intent.Confidence),
		zap.Int("actions", len(actions)),
		zap.Int("executed", len(results)),
	)
	return resp
}

// shouldExecute decides whether an action runs in this turn. Auto-execution
// follows the strict CanAutoExecute gate; beyond that, admins may run
// validated actions immediately as long as they are not high risk. Everyone
// else gets the action back for confirmation.
func (e *Engine) shouldExecute(userRole string, intent model.BusinessIntent, action model.BusinessAction) bool {
	if CanAutoExecute(userRole, intent.Confidence, string(action.Type)) {
		return true
	}
	return userRole == "admin" && action.Validation.Valid && action.RiskLevel != model.RiskHigh
}

func fallbackResponse(messageID string, start time.Time) *model.AIResponse {
	return &model.AIResponse{
		MessageID:       messageID,
		Content:         "I'm having trouble processing that request right now. Please try again.",
		Confidence:      0,
		ProcessingTime:  time.Since(start).Milliseconds(),
		BusinessActions: []model.BusinessAction{},
	}
}
