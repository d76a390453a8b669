package engine

import (
	"context"
	"fmt"

	"hera-assistant/internal/model"
)

// TransactionCreator persists universal transactions. The concrete
// implementation lives in internal/service.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, organizationID string, action model.ActionType, data map[string]interface{}) (*model.Transaction, error)
	CreateMasterData(ctx context.Context, organizationID, entityType, name string, fields map[string]string) (*model.Transaction, error)
}

// ReportSource serves report aggregates from the transaction store.
type ReportSource interface {
	CashFlowSummary(ctx context.Context, organizationID string) (*model.CashFlowSummary, error)
}

// Notifier hands notification delivery off to the background job layer.
type Notifier interface {
	EnqueueNotification(organizationID, message string, priority model.Priority) error
}

// ReportScheduler defers heavy report builds to the background job layer.
type ReportScheduler interface {
	EnqueueReport(organizationID, reportType string) error
}

// FinancialExecutor records payments and fund transfers.
type FinancialExecutor struct {
	tx TransactionCreator
}

func NewFinancialExecutor(tx TransactionCreator) *FinancialExecutor {
	return &FinancialExecutor{tx: tx}
}

func (e *FinancialExecutor) Execute(ctx context.Context, action model.BusinessAction, bctx model.BusinessContext) (*model.ActionResult, error) {
	txn, err := e.tx.CreateTransaction(ctx, bctx.OrganizationID, action.Type, action.Parameters)
	if err != nil {
		return nil, fmt.Errorf("create payment transaction: %w", err)
	}

	msg := "Payment recorded"
	if amount, ok := action.Parameters["amount"].(float64); ok {
		msg = fmt.Sprintf("Payment of $%.2f recorded", amount)
	}
	return &model.ActionResult{
		Success:       true,
		Message:       msg,
		TransactionID: txn.ID,
		Data:          map[string]interface{}{"transactionNumber": txn.Number},
	}, nil
}

// InvoiceExecutor creates and approves invoices.
type InvoiceExecutor struct {
	tx TransactionCreator
}

func NewInvoiceExecutor(tx TransactionCreator) *InvoiceExecutor {
	return &InvoiceExecutor{tx: tx}
}

func (e *InvoiceExecutor) Execute(ctx context.Context, action model.BusinessAction, bctx model.BusinessContext) (*model.ActionResult, error) {
	txn, err := e.tx.CreateTransaction(ctx, bctx.OrganizationID, action.Type, action.Parameters)
	if err != nil {
		return nil, fmt.Errorf("create invoice transaction: %w", err)
	}

	msg := "Invoice created"
	if action.Type == model.ActionApproveTransaction {
		msg = "Invoice approved for payment"
	}
	return &model.ActionResult{
		Success:       true,
		Message:       msg,
		TransactionID: txn.ID,
		Data:          map[string]interface{}{"transactionNumber": txn.Number},
	}, nil
}

// CustomerExecutor creates customer master data.
type CustomerExecutor struct {
	tx TransactionCreator
}

func NewCustomerExecutor(tx TransactionCreator) *CustomerExecutor {
	return &CustomerExecutor{tx: tx}
}

func (e *CustomerExecutor) Execute(ctx context.Context, action model.BusinessAction, bctx model.BusinessContext) (*model.ActionResult, error) {
	name, _ := action.Parameters["customerName"].(string)
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	txn, err := e.tx.CreateMasterData(ctx, bctx.OrganizationID, "customer", name, map[string]string{
		"source": "assistant",
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return &model.ActionResult{
		Success:       true,
		Message:       fmt.Sprintf("Customer %q added", name),
		TransactionID: txn.ID,
	}, nil
}

// InventoryExecutor adjusts stock levels and sends stock alerts.
type InventoryExecutor struct {
	tx       TransactionCreator
	notifier Notifier
}

func NewInventoryExecutor(tx TransactionCreator, notifier Notifier) *InventoryExecutor {
	return &InventoryExecutor{tx: tx, notifier: notifier}
}

func (e *InventoryExecutor) Execute(ctx context.Context, action model.BusinessAction, bctx model.BusinessContext) (*model.ActionResult, error) {
	if action.Type == model.ActionSendNotification {
		message, _ := action.Parameters["message"].(string)
		if err := e.notifier.EnqueueNotification(bctx.OrganizationID, message, model.PriorityHigh); err != nil {
			return nil, fmt.Errorf("enqueue stock alert: %w", err)
		}
		return &model.ActionResult{
			Success: true,
			Message: "Stock alert queued for delivery",
			Data:    map[string]interface{}{"status": "queued"},
		}, nil
	}

	txn, err := e.tx.CreateTransaction(ctx, bctx.OrganizationID, action.Type, action.Parameters)
	if err != nil {
		return nil, fmt.Errorf("create inventory transaction: %w", err)
	}
	return &model.ActionResult{
		Success:       true,
		Message:       "Inventory updated",
		TransactionID: txn.ID,
		Data:          map[string]interface{}{"transactionNumber": txn.Number},
	}, nil
}

// ReportingExecutor serves the cash flow summary synchronously and defers
// the heavier reports to a background job.
type ReportingExecutor struct {
	reports   ReportSource
	scheduler ReportScheduler
}

func NewReportingExecutor(reports ReportSource, scheduler ReportScheduler) *ReportingExecutor {
	return &ReportingExecutor{reports: reports, scheduler: scheduler}
}

func (e *ReportingExecutor) Execute(ctx context.Context, action model.BusinessAction, bctx model.BusinessContext) (*model.ActionResult, error) {
	reportType, _ := action.Parameters["reportType"].(string)

	if reportType == "cash_flow_report" {
		if e.reports == nil {
			return nil, fmt.Errorf("no report source configured")
		}
		summary, err := e.reports.CashFlowSummary(ctx, bctx.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("cash flow summary: %w", err)
		}
		return &model.ActionResult{
			Success: true,
			Message: "Here is your current cash flow position",
			Data: map[string]interface{}{
				"currentCash":        summary.CurrentCash,
				"monthlyChange":      summary.MonthlyChange,
				"upcomingPayments":   summary.UpcomingPayments,
				"forecastNext30Days": summary.ForecastNext30Days,
			},
		}, nil
	}

	if e.scheduler == nil {
		return nil, fmt.Errorf("no report scheduler configured")
	}
	if err := e.scheduler.EnqueueReport(bctx.OrganizationID, reportType); err != nil {
		return nil, fmt.Errorf("enqueue report: %w", err)
	}
	return &model.ActionResult{
		Success: true,
		Message: "Report generation started; results will be published shortly",
		Data:    map[string]interface{}{"status": "queued", "reportType": reportType},
	}, nil
}
