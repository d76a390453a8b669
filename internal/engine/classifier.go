package engine

import (
	"regexp"
	"strings"

	"hera-assistant/internal/model"
)

// intentRule maps a message pattern to a classified intent. Rules are
// evaluated in slice order and the first match wins, so the order below
// carries meaning: more specific phrasings sit above broader ones.
type intentRule struct {
	pattern    *regexp.Regexp
	category   model.IntentCategory
	action     string
	confidence float64
}

var intentRules = []intentRule{
	// financial_transaction
	{regexp.MustCompile(`(payment|paid).*(received|from)`), model.CategoryFinancialTransaction, "record_payment", 0.90},
	{regexp.MustCompile(`(create|new|post).*(transaction|entry)`), model.CategoryFinancialTransaction, "create_transaction", 0.80},
	{regexp.MustCompile(`transfer.*(money|funds)`), model.CategoryFinancialTransaction, "transfer_funds", 0.85},

	// invoice_processing
	{regexp.MustCompile(`(process|upload).*invoice`), model.CategoryInvoiceProcessing, "process_invoice", 0.90},
	{regexp.MustCompile(`(create|new|send).*invoice`), model.CategoryInvoiceProcessing, "create_invoice", 0.85},
	{regexp.MustCompile(`(pay|approve).*invoice`), model.CategoryInvoiceProcessing, "approve_invoice", 0.80},

	// customer_management
	{regexp.MustCompile(`(add|new|create).*customer`), model.CategoryCustomerManagement, "add_customer", 0.90},
	{regexp.MustCompile(`(update|edit|modify).*customer`), model.CategoryCustomerManagement, "update_customer", 0.85},
	{regexp.MustCompile(`(find|search|look).*customer`), model.CategoryCustomerManagement, "find_customer", 0.80},

	// inventory_management
	{regexp.MustCompile(`update.*(inventory|stock)`), model.CategoryInventoryManagement, "update_inventory", 0.90},
	{regexp.MustCompile(`(add|new|create).*(product|item)`), model.CategoryInventoryManagement, "add_product", 0.85},
	{regexp.MustCompile(`(low stock|reorder|stock alert)`), model.CategoryInventoryManagement, "stock_alert", 0.80},

	// reporting_analytics
	{regexp.MustCompile(`cash (flow|position)`), model.CategoryReportingAnalytics, "cash_flow_report", 0.90},
	{regexp.MustCompile(`(profit|loss|p&l|pnl)`), model.CategoryReportingAnalytics, "profit_loss_report", 0.90},
	{regexp.MustCompile(`expense (report|analysis)`), model.CategoryReportingAnalytics, "expense_analysis", 0.85},
	{regexp.MustCompile(`(sales report|revenue)`), model.CategoryReportingAnalytics, "sales_report", 0.85},
}

var urgentKeywords = []string{"urgent", "asap", "immediate", "emergency", "critical"}
var highKeywords = []string{"important", "priority", "quickly", "soon"}

// ParseBusinessIntent classifies a raw message into a business intent.
// It never fails: unmatched messages fall back to a low-confidence
// clarification intent.
func ParseBusinessIntent(message string) model.BusinessIntent {
	normalized := strings.ToLower(strings.TrimSpace(message))

	for _, rule := range intentRules {
		if rule.pattern.MatchString(normalized) {
			return model.BusinessIntent{
				Category:   rule.category,
				Action:     rule.action,
				Confidence: rule.confidence,
				Priority:   detectPriority(normalized),
			}
		}
	}

	return model.BusinessIntent{
		Category:   model.CategorySystemConfiguration,
		Action:     "clarify_intent",
		Confidence: 0.3,
		Priority:   detectPriority(normalized),
	}
}

// detectPriority scans for urgency keywords. Note that PriorityLow is never
// produced here; it exists for callers that set priorities explicitly.
func detectPriority(normalized string) model.Priority {
	for _, kw := range urgentKeywords {
		if strings.Contains(normalized, kw) {
			return model.PriorityUrgent
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(normalized, kw) {
			return model.PriorityHigh
		}
	}
	return model.PriorityMedium
}
