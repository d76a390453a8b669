package engine

import (
	"fmt"
	"strings"

	"hera-assistant/internal/model"
)

var clarifyingTemplates = map[model.IntentCategory]string{
	model.CategoryFinancialTransaction: "I can help with payments, transfers, and transactions. Could you tell me the amount and who it involves?",
	model.CategoryInvoiceProcessing:    "I can create, process, or approve invoices. Which invoice did you mean, and what should happen to it?",
	model.CategoryCustomerManagement:   "I can add, update, or look up customers. Could you share the customer's name?",
	model.CategoryInventoryManagement:  "I can update stock levels or add products. Which product did you have in mind?",
	model.CategoryReportingAnalytics:   "I can pull cash flow, profit and loss, expense, or sales reports. Which one would you like?",
	model.CategorySystemConfiguration:  "I wasn't sure what you meant. Could you rephrase that, or tell me what you'd like to do?",
}

var categorySuggestions = map[model.IntentCategory][]string{
	model.CategoryFinancialTransaction: {"Record a payment", "Transfer funds"},
	model.CategoryInvoiceProcessing:    {"Create an invoice", "Approve an invoice"},
	model.CategoryCustomerManagement:   {"Add a customer", "Find a customer"},
	model.CategoryInventoryManagement:  {"Update stock levels", "Add a product"},
	model.CategoryReportingAnalytics:   {"Show cash flow", "Show profit and loss"},
	model.CategorySystemConfiguration:  {"Record a payment", "Show cash flow"},
}

var categoryFollowUps = map[model.IntentCategory][]string{
	model.CategoryFinancialTransaction: {"What was the amount?", "Who was the payment from?"},
	model.CategoryInvoiceProcessing:    {"Which invoice number?"},
	model.CategoryCustomerManagement:   {"What is the customer's name?"},
	model.CategoryInventoryManagement:  {"Which product and quantity?"},
	model.CategoryReportingAnalytics:   {"Over which period?"},
	model.CategorySystemConfiguration:  {"What would you like to do?"},
}

// ComposeResponse assembles the reply for one processed message. With no
// executed actions it falls back to a category-specific clarifying message;
// otherwise it groups per-action success and failure lines.
func ComposeResponse(intent model.BusinessIntent, actions []model.BusinessAction, results []model.ActionResult, sentiment model.Sentiment) *model.AIResponse {
	var b strings.Builder

	if sentiment.Overall == "negative" {
		b.WriteString("I understand this may be frustrating. ")
	}

	if len(results) == 0 {
		b.WriteString(clarifyingTemplates[intent.Category])
		if len(actions) > 0 {
			b.WriteString(fmt.Sprintf("\n\nI've prepared %d action(s) that need confirmation before they run.", len(actions)))
		}
	} else {
		var succeeded, failed []model.ActionResult
		for _, r := range results {
			if r.Success {
				succeeded = append(succeeded, r)
			} else {
				failed = append(failed, r)
			}
		}
		if len(succeeded) > 0 {
			b.WriteString("✅ Successfully completed:\n")
			for _, r := range succeeded {
				b.WriteString("- " + r.Message + "\n")
			}
		}
		if len(failed) > 0 {
			b.WriteString("❌ The following actions failed:\n")
			for _, r := range failed {
				line := "- " + r.Message
				if len(r.Errors) > 0 {
					line += " (" + strings.Join(r.Errors, "; ") + ")"
				}
				b.WriteString(line + "\n")
			}
		}
	}

	if actions == nil {
		actions = []model.BusinessAction{}
	}
	return &model.AIResponse{
		Content:           strings.TrimRight(b.String(), "\n"),
		Confidence:        intent.Confidence,
		BusinessActions:   actions,
		Results:           results,
		Suggestions:       categorySuggestions[intent.Category],
		FollowUpQuestions: categoryFollowUps[intent.Category],
	}
}

var contractionExpansions = [][2]string{
	{"can't", "cannot"},
	{"won't", "will not"},
	{"don't", "do not"},
	{"doesn't", "does not"},
	{"didn't", "did not"},
	{"isn't", "is not"},
	{"wasn't", "was not"},
	{"I'm", "I am"},
	{"I've", "I have"},
	{"it's", "it is"},
	{"that's", "that is"},
	{"you're", "you are"},
	{"I'll", "I will"},
	{"we'll", "we will"},
	{"let's", "let us"},
}

// PersonalizeResponse applies cosmetic tone/length transforms in a fixed
// order: formalize, casualize, then shorten. These are naive string
// replacements, not NLP.
func PersonalizeResponse(response *model.AIResponse, profile model.UserProfile) *model.AIResponse {
	content := response.Content

	if profile.Tone == "formal" {
		for _, pair := range contractionExpansions {
			content = strings.ReplaceAll(content, pair[0], pair[1])
		}
	}
	if profile.Tone == "casual" {
		for _, pair := range contractionExpansions {
			content = strings.ReplaceAll(content, pair[1], pair[0])
		}
	}
	if profile.PreferredLength == "brief" {
		content = firstSentences(content, 2)
	}

	response.Content = content
	return response
}

func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r == '.' || r == '?' || r == '!' {
			count++
			if count == n {
				return text[:i+1]
			}
		}
	}
	return text
}
