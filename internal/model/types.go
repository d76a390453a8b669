package model

import "time"

// IntentCategory is the business domain a message was classified into
type IntentCategory string

const (
	CategoryFinancialTransaction IntentCategory = "financial_transaction"
	CategoryInvoiceProcessing    IntentCategory = "invoice_processing"
	CategoryCustomerManagement   IntentCategory = "customer_management"
	CategoryInventoryManagement  IntentCategory = "inventory_management"
	CategoryReportingAnalytics   IntentCategory = "reporting_analytics"
	CategorySystemConfiguration  IntentCategory = "system_configuration"
)

// Priority represents message urgency
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// RiskLevel classifies how dangerous an action is to run unattended
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ActionType is the closed set of executable business actions
type ActionType string

const (
	ActionCreateInvoice       ActionType = "create_invoice"
	ActionRecordPayment       ActionType = "record_payment"
	ActionAddCustomer         ActionType = "add_customer"
	ActionUpdateInventory     ActionType = "update_inventory"
	ActionCreatePurchaseOrder ActionType = "create_purchase_order"
	ActionProcessExpense      ActionType = "process_expense"
	ActionGenerateReport      ActionType = "generate_report"
	ActionAssignWorkflow      ActionType = "assign_workflow"
	ActionApproveTransaction  ActionType = "approve_transaction"
	ActionSendNotification    ActionType = "send_notification"
)

// TransactionType is the universal-transaction classification used by storage
type TransactionType string

const (
	TransactionSales        TransactionType = "sales"
	TransactionPayment      TransactionType = "payment"
	TransactionMasterData   TransactionType = "master_data"
	TransactionInventory    TransactionType = "inventory"
	TransactionPurchase     TransactionType = "purchase"
	TransactionJournalEntry TransactionType = "journal_entry"
)

// EntityType tags a typed fragment extracted from message text
type EntityType string

const (
	EntityAmount        EntityType = "amount"
	EntityDate          EntityType = "date"
	EntityInvoiceNumber EntityType = "invoice_number"
	EntityCustomerName  EntityType = "customer_name"
)

// ExtractedEntity is one typed fragment pulled out of a raw message
type ExtractedEntity struct {
	Type       EntityType  `json:"type"`
	Value      string      `json:"value"`
	Confidence float64     `json:"confidence"`
	StartIndex int         `json:"startIndex"`
	EndIndex   int         `json:"endIndex"`
	Normalized interface{} `json:"normalized,omitempty"`
}

// BusinessIntent is the classifier's verdict for a single message.
// It is immutable once produced.
type BusinessIntent struct {
	Category   IntentCategory    `json:"category"`
	Action     string            `json:"action"`
	Confidence float64           `json:"confidence"`
	Entities   []ExtractedEntity `json:"entities,omitempty"`
	Priority   Priority          `json:"priority"`
}

// Validation is the parameter-validation verdict attached to an action
type Validation struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// BusinessAction is a concrete, parameterized operation derived from an intent
type BusinessAction struct {
	ID          string                 `json:"id"`
	Type        ActionType             `json:"type"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
	Validation  Validation             `json:"validation"`
	RiskLevel   RiskLevel              `json:"riskLevel"`
}

// ActionResult is the terminal record of one action's execution
type ActionResult struct {
	ActionID      string                 `json:"actionId"`
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data,omitempty"`
	TransactionID string                 `json:"transactionId,omitempty"`
	Errors        []string               `json:"errors,omitempty"`
}

// AIResponse is the outward-facing reply to one processed message
type AIResponse struct {
	MessageID         string           `json:"messageId"`
	Content           string           `json:"content"`
	Confidence        float64          `json:"confidence"`
	ProcessingTime    int64            `json:"processingTime"` // milliseconds
	BusinessActions   []BusinessAction `json:"businessActions"`
	Results           []ActionResult   `json:"results,omitempty"`
	Suggestions       []string         `json:"suggestions,omitempty"`
	FollowUpQuestions []string         `json:"followUpQuestions,omitempty"`
}

// Sentiment is the keyword-heuristic read of a message's tone
type Sentiment struct {
	Overall    string   `json:"overall"`
	Confidence float64  `json:"confidence"`
	Emotions   []string `json:"emotions,omitempty"`
	Urgency    string   `json:"urgency"`
}

// Phase tracks where a conversation currently is
type Phase string

const (
	PhaseGreeting   Phase = "greeting"
	PhaseActive     Phase = "active"
	PhaseClarifying Phase = "clarifying"
)

// ConversationState is the mutable per-conversation progress marker
type ConversationState struct {
	Phase      Phase  `json:"phase"`
	LastIntent string `json:"lastIntent,omitempty"`
}

// BusinessContext identifies who is talking and on behalf of which org
type BusinessContext struct {
	OrganizationID string `json:"organizationId"`
	UserID         string `json:"userId"`
	UserRole       string `json:"userRole"`
}

// ConversationContext is per-conversation state tracked across turns.
// The store owns it exclusively; it is created on the first message for
// a conversation id and mutated on every subsequent one.
type ConversationContext struct {
	ConversationID string            `json:"conversationId"`
	Business       BusinessContext   `json:"business"`
	CreatedAt      time.Time         `json:"createdAt"`
	LastActivityAt time.Time         `json:"lastActivityAt"`
	MessageCount   int               `json:"messageCount"`
	State          ConversationState `json:"state"`
}

// UserProfile carries reply-personalization preferences
type UserProfile struct {
	Tone            string `json:"tone,omitempty"`            // "formal" or "casual"
	PreferredLength string `json:"preferredLength,omitempty"` // "brief" or "detailed"
}

// Transaction is a universal-transaction row
type Transaction struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organizationId"`
	Type           TransactionType        `json:"transactionType"`
	Number         string                 `json:"transactionNumber"`
	Data           map[string]interface{} `json:"transactionData"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// CashFlowSummary aggregates the org's payment activity
type CashFlowSummary struct {
	CurrentCash        float64 `json:"currentCash"`
	MonthlyChange      float64 `json:"monthlyChange"`
	UpcomingPayments   float64 `json:"upcomingPayments"`
	ForecastNext30Days float64 `json:"forecastNext30Days"`
}
