package engine

import (
	"strings"
	"testing"

	"hera-assistant/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComposeResponse_Clarifying(t *testing.T) {
	intent := model.BusinessIntent{Category: model.CategoryCustomerManagement, Action: "find_customer", Confidence: 0.8}

	resp := ComposeResponse(intent, nil, nil, model.Sentiment{Overall: "neutral"})
	assert.Equal(t, clarifyingTemplates[model.CategoryCustomerManagement], resp.Content)
	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
	assert.Equal(t, categorySuggestions[model.CategoryCustomerManagement], resp.Suggestions)
	assert.Equal(t, categoryFollowUps[model.CategoryCustomerManagement], resp.FollowUpQuestions)
	assert.NotNil(t, resp.BusinessActions)
}

func TestComposeResponse_PendingActions(t *testing.T) {
	intent := model.BusinessIntent{Category: model.CategoryFinancialTransaction, Action: "record_payment", Confidence: 0.9}
	actions := []model.BusinessAction{{ID: "a1", Type: model.ActionRecordPayment}}

	resp := ComposeResponse(intent, actions, nil, model.Sentiment{Overall: "neutral"})
	assert.Contains(t, resp.Content, clarifyingTemplates[model.CategoryFinancialTransaction])
	assert.Contains(t, resp.Content, "1 action(s) that need confirmation")
}

func TestComposeResponse_Results(t *testing.T) {
	intent := model.BusinessIntent{Category: model.CategoryFinancialTransaction, Action: "record_payment", Confidence: 0.9}
	results := []model.ActionResult{
		{ActionID: "a1", Success: true, Message: "Payment of $500.00 recorded"},
		{ActionID: "a2", Success: false, Message: "Failed to record payment", Errors: []string{"db down"}},
	}

	resp := ComposeResponse(intent, nil, results, model.Sentiment{Overall: "neutral"})
	assert.Contains(t, resp.Content, "✅ Successfully completed:")
	assert.Contains(t, resp.Content, "- Payment of $500.00 recorded")
	assert.Contains(t, resp.Content, "❌ The following actions failed:")
	assert.Contains(t, resp.Content, "- Failed to record payment (db down)")
}

func TestComposeResponse_NegativeSentimentPrefix(t *testing.T) {
	intent := model.BusinessIntent{Category: model.CategorySystemConfiguration, Action: "clarify_intent", Confidence: 0.3}

	resp := ComposeResponse(intent, nil, nil, model.Sentiment{Overall: "negative"})
	assert.True(t, strings.HasPrefix(resp.Content, "I understand this may be frustrating. "))
}

func TestPersonalizeResponse_Formal(t *testing.T) {
	resp := &model.AIResponse{Content: "I can't find that invoice. Maybe it's archived."}

	out := PersonalizeResponse(resp, model.UserProfile{Tone: "formal"})
	assert.Equal(t, "I cannot find that invoice. Maybe it is archived.", out.Content)
}

func TestPersonalizeResponse_Casual(t *testing.T) {
	resp := &model.AIResponse{Content: "I cannot find that invoice. It was not recorded."}

	out := PersonalizeResponse(resp, model.UserProfile{Tone: "casual"})
	assert.Equal(t, "I can't find that invoice. It wasn't recorded.", out.Content)
}

func TestPersonalizeResponse_Brief(t *testing.T) {
	resp := &model.AIResponse{Content: "First sentence. Second sentence. Third sentence."}

	out := PersonalizeResponse(resp, model.UserProfile{PreferredLength: "brief"})
	assert.Equal(t, "First sentence. Second sentence.", out.Content)
}

func TestPersonalizeResponse_NoPreferences(t *testing.T) {
	resp := &model.AIResponse{Content: "Unchanged content."}

	out := PersonalizeResponse(resp, model.UserProfile{})
	assert.Equal(t, "Unchanged content.", out.Content)
}
