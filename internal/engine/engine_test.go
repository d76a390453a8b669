package engine

import (
	"context"
	"testing"
	"time"

	"hera-assistant/internal/conversation"
	"hera-assistant/internal/model"
	"hera-assistant/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBus struct {
	events []map[string]interface{}
}

func (m *mockBus) PublishConversation(conversationID string, event map[string]interface{}) error {
	m.events = append(m.events, event)
	return nil
}

type mockCreator struct {
	created []model.ActionType
}

func (m *mockCreator) CreateTransaction(ctx context.Context, organizationID string, action model.ActionType, data map[string]interface{}) (*model.Transaction, error) {
	m.created = append(m.created, action)
	return &model.Transaction{ID: "tx-1", Number: "TXN-1", Type: model.TransactionPayment}, nil
}

func (m *mockCreator) CreateMasterData(ctx context.Context, organizationID, entityType, name string, fields map[string]string) (*model.Transaction, error) {
	m.created = append(m.created, model.ActionAddCustomer)
	return &model.Transaction{ID: "tx-2", Number: "TXN-2", Type: model.TransactionMasterData}, nil
}

type mockReports struct{}

func (m *mockReports) CashFlowSummary(ctx context.Context, organizationID string) (*model.CashFlowSummary, error) {
	return &model.CashFlowSummary{
		CurrentCash:        45000,
		MonthlyChange:      1250,
		UpcomingPayments:   8000,
		ForecastNext30Days: 46250,
	}, nil
}

type mockScheduler struct {
	queued []string
}

func (m *mockScheduler) EnqueueReport(organizationID, reportType string) error {
	m.queued = append(m.queued, reportType)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *conversation.Store, *mockCreator, *mockBus) {
	t.Helper()

	store := conversation.NewStore(64, time.Minute, nil, zap.NewNop())
	bus := &mockBus{}
	creator := &mockCreator{}

	dispatcher := NewDispatcher(zap.NewNop())
	dispatcher.Register(model.CategoryFinancialTransaction, NewFinancialExecutor(creator))
	dispatcher.Register(model.CategoryInvoiceProcessing, NewInvoiceExecutor(creator))
	dispatcher.Register(model.CategoryCustomerManagement, NewCustomerExecutor(creator))
	dispatcher.Register(model.CategoryReportingAnalytics, NewReportingExecutor(&mockReports{}, &mockScheduler{}))

	eng := New(store, dispatcher, schema.NewValidator(), bus, zap.NewNop())
	return eng, store, creator, bus
}

func adminContext() model.BusinessContext {
	return model.BusinessContext{OrganizationID: "org-1", UserID: "u-1", UserRole: "admin"}
}

func TestProcessMessage_AdminPaymentExecuted(t *testing.T) {
	eng, store, creator, _ := newTestEngine(t)

	resp := eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "Payment of $500 received from Acme Corp",
		ConversationID: "c-1",
		Business:       adminContext(),
	})

	require.Len(t, resp.BusinessActions, 1)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Success)
	assert.Equal(t, "tx-1", resp.Results[0].TransactionID)
	assert.Contains(t, resp.Content, "✅ Successfully completed:")
	assert.Contains(t, resp.Content, "Payment of $500.00 recorded")
	assert.Equal(t, []model.ActionType{model.ActionRecordPayment}, creator.created)

	cc, ok := store.Get("c-1")
	require.True(t, ok)
	assert.Equal(t, 1, cc.MessageCount)
	assert.Equal(t, model.PhaseActive, cc.State.Phase)
	assert.Equal(t, "record_payment", cc.State.LastIntent)
}

func TestProcessMessage_NonAdminRequiresConfirmation(t *testing.T) {
	eng, _, creator, _ := newTestEngine(t)

	resp := eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "Payment of $500 received from Acme Corp",
		ConversationID: "c-2",
		Business:       model.BusinessContext{OrganizationID: "org-1", UserID: "u-2", UserRole: "user"},
	})

	require.Len(t, resp.BusinessActions, 1)
	assert.Empty(t, resp.Results)
	assert.Empty(t, creator.created)
	assert.Contains(t, resp.Content, "need confirmation")
}

func TestProcessMessage_CashFlowReport(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)

	resp := eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "Show me the cash flow position",
		ConversationID: "c-3",
		Business:       adminContext(),
	})

	require.Len(t, resp.Results, 1)
	result := resp.Results[0]
	assert.True(t, result.Success)
	assert.Equal(t, 45000.0, result.Data["currentCash"])
	assert.Equal(t, 1250.0, result.Data["monthlyChange"])
	assert.Equal(t, 8000.0, result.Data["upcomingPayments"])
	assert.Equal(t, 46250.0, result.Data["forecastNext30Days"])
}

func TestProcessMessage_SameConversationAccumulates(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)
	bctx := adminContext()

	eng.ProcessMessage(context.Background(), ProcessInput{Message: "hello", ConversationID: "c-4", Business: bctx})
	first, ok := store.Get("c-4")
	require.True(t, ok)

	eng.ProcessMessage(context.Background(), ProcessInput{Message: "show me cash flow", ConversationID: "c-4", Business: bctx})
	second, ok := store.Get("c-4")
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, 2, second.MessageCount)
}

func TestProcessMessage_FallbackIntentClarifies(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)

	resp := eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "hello there",
		ConversationID: "c-5",
		Business:       adminContext(),
	})

	assert.Empty(t, resp.BusinessActions)
	assert.Empty(t, resp.Results)
	assert.InDelta(t, 0.3, resp.Confidence, 1e-9)
	assert.Equal(t, clarifyingTemplates[model.CategorySystemConfiguration], resp.Content)

	cc, ok := store.Get("c-5")
	require.True(t, ok)
	assert.Equal(t, model.PhaseClarifying, cc.State.Phase)
}

func TestProcessMessage_PanicBecomesFallback(t *testing.T) {
	store := conversation.NewStore(64, time.Minute, nil, zap.NewNop())
	dispatcher := NewDispatcher(zap.NewNop())
	dispatcher.Register(model.CategoryFinancialTransaction, &stubExecutor{panics: true})
	eng := New(store, dispatcher, schema.NewValidator(), &mockBus{}, zap.NewNop())

	resp := eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "Payment of $500 received from Acme Corp",
		ConversationID: "c-6",
		Business:       adminContext(),
	})

	require.NotNil(t, resp)
	assert.Equal(t, "I'm having trouble processing that request right now. Please try again.", resp.Content)
	assert.Zero(t, resp.Confidence)
	assert.NotEmpty(t, resp.MessageID)
}

func TestProcessMessage_PublishesEvents(t *testing.T) {
	eng, _, _, bus := newTestEngine(t)

	eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "Payment of $500 received from Acme Corp",
		ConversationID: "c-7",
		Business:       adminContext(),
	})

	var types []string
	for _, e := range bus.events {
		if typ, ok := e["type"].(string); ok {
			types = append(types, typ)
		}
	}
	assert.Contains(t, types, "action.executed")
	assert.Contains(t, types, "message.processed")
}

func TestProcessMessage_Personalization(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)

	resp := eng.ProcessMessage(context.Background(), ProcessInput{
		Message:        "hello there",
		ConversationID: "c-8",
		Business:       adminContext(),
		Profile:        &model.UserProfile{Tone: "formal"},
	})

	assert.NotContains(t, resp.Content, "wasn't")
	assert.Contains(t, resp.Content, "was not")
}
