package engine

import (
	"context"
	"fmt"
	"strings"

	"hera-assistant/internal/model"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// actionSpec maps a classifier action string onto an executable action type.
// Intent actions without a spec (lookups, ambiguous updates) generate no
// action and flow into the clarification path instead.
type actionSpec struct {
	actionType  model.ActionType
	risk        model.RiskLevel
	description string
}

var actionSpecs = map[string]actionSpec{
	"record_payment":     {model.ActionRecordPayment, model.RiskMedium, "Record an incoming payment"},
	"create_transaction": {model.ActionRecordPayment, model.RiskMedium, "Record a business transaction"},
	"transfer_funds":     {model.ActionRecordPayment, model.RiskHigh, "Transfer funds between accounts"},
	"process_invoice":    {model.ActionCreateInvoice, model.RiskMedium, "Process an incoming invoice"},
	"create_invoice":     {model.ActionCreateInvoice, model.RiskMedium, "Create a new invoice"},
	"approve_invoice":    {model.ActionApproveTransaction, model.RiskHigh, "Approve an invoice for payment"},
	"add_customer":       {model.ActionAddCustomer, model.RiskLow, "Add a new customer record"},
	"update_inventory":   {model.ActionUpdateInventory, model.RiskMedium, "Update inventory levels"},
	"add_product":        {model.ActionUpdateInventory, model.RiskLow, "Add a new product"},
	"stock_alert":        {model.ActionSendNotification, model.RiskLow, "Send a low-stock alert"},
	"cash_flow_report":   {model.ActionGenerateReport, model.RiskLow, "Generate a cash flow report"},
	"profit_loss_report": {model.ActionGenerateReport, model.RiskLow, "Generate a profit and loss report"},
	"expense_analysis":   {model.ActionGenerateReport, model.RiskLow, "Generate an expense analysis"},
	"sales_report":       {model.ActionGenerateReport, model.RiskLow, "Generate a sales report"},
}

// ActionValidator checks an action's parameters against its schema.
type ActionValidator interface {
	Validate(actionType model.ActionType, params map[string]interface{}) model.Validation
}

// GenerateActions turns a classified intent plus extracted entities into
// concrete business actions. Parameters are filled from the first entity of
// each type; the validator's verdict is attached but does not suppress the
// action, so callers can surface what is missing.
func GenerateActions(intent model.BusinessIntent, entities []model.ExtractedEntity, validator ActionValidator) []model.BusinessAction {
	spec, ok := actionSpecs[intent.Action]
	if !ok {
		return nil
	}

	params := map[string]interface{}{}
	for _, e := range entities {
		var key string
		switch e.Type {
		case model.EntityAmount:
			key = "amount"
		case model.EntityDate:
			key = "date"
		case model.EntityInvoiceNumber:
			key = "invoiceNumber"
		case model.EntityCustomerName:
			key = "customerName"
		default:
			continue
		}
		if _, seen := params[key]; seen {
			continue
		}
		if e.Normalized != nil {
			params[key] = e.Normalized
		} else {
			params[key] = e.Value
		}
	}

	switch spec.actionType {
	case model.ActionGenerateReport:
		params["reportType"] = intent.Action
	case model.ActionSendNotification:
		params["message"] = spec.description
	}

	action := model.BusinessAction{
		ID:          ulid.Make().String(),
		Type:        spec.actionType,
		Description: spec.description,
		Parameters:  params,
		RiskLevel:   spec.risk,
	}
	if validator != nil {
		action.Validation = validator.Validate(action.Type, params)
	} else {
		action.Validation = model.Validation{Valid: true}
	}

	return []model.BusinessAction{action}
}

// CanAutoExecute gates unattended execution: admin role, confidence strictly
// above 0.95, and an allow-listed action name. Confidence of exactly 0.95 is
// rejected.
func CanAutoExecute(userRole string, confidence float64, actionName string) bool {
	if userRole != "admin" {
		return false
	}
	if confidence <= 0.95 {
		return false
	}
	return strings.Contains(actionName, "generate_report") || strings.Contains(actionName, "send_notification")
}

// ActionExecutor runs actions for one intent category.
type ActionExecutor interface {
	Execute(ctx context.Context, action model.BusinessAction, bctx model.BusinessContext) (*model.ActionResult, error)
}

// Dispatcher routes generated actions to per-category executors.
type Dispatcher struct {
	executors map[model.IntentCategory]ActionExecutor
	log       *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		executors: make(map[model.IntentCategory]ActionExecutor),
		log:       log,
	}
}

func (d *Dispatcher) Register(category model.IntentCategory, executor ActionExecutor) {
	d.executors[category] = executor
}

// Execute runs one action through its category executor. Executor failures
// become failed results; they are never retried or escalated.
func (d *Dispatcher) Execute(ctx context.Context, category model.IntentCategory, action model.BusinessAction, bctx model.BusinessContext) *model.ActionResult {
	executor, ok := d.executors[category]
	if !ok {
		return &model.ActionResult{
			ActionID: action.ID,
			Success:  false,
			Message:  fmt.Sprintf("Action type '%s' is not yet implemented", category),
		}
	}

	result, err := executor.Execute(ctx, action, bctx)
	if err != nil {
		d.log.Warn("action execution failed",
			zap.String("action_id", action.ID),
			zap.String("action_type", string(action.Type)),
			zap.Error(err),
		)
		return &model.ActionResult{
			ActionID: action.ID,
			Success:  false,
			Message:  fmt.Sprintf("Failed to %s", strings.ToLower(action.Description)),
			Errors:   []string{err.Error()},
		}
	}

	result.ActionID = action.ID
	return result
}
