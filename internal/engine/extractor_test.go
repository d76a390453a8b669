package engine

import (
	"testing"
	"time"

	"hera-assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entitiesOfType(entities []model.ExtractedEntity, typ model.EntityType) []model.ExtractedEntity {
	var out []model.ExtractedEntity
	for _, e := range entities {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestExtractEntities_Amounts(t *testing.T) {
	entities := ExtractEntities("Received $1,234.56 from a client", model.BusinessContext{})

	amounts := entitiesOfType(entities, model.EntityAmount)
	require.Len(t, amounts, 1)
	assert.Equal(t, "1,234.56", amounts[0].Value)
	assert.Equal(t, 1234.56, amounts[0].Normalized)
	assert.Less(t, amounts[0].StartIndex, amounts[0].EndIndex)
}

func TestExtractEntities_BareNumber(t *testing.T) {
	entities := ExtractEntities("a payment of 500", model.BusinessContext{})

	amounts := entitiesOfType(entities, model.EntityAmount)
	require.Len(t, amounts, 1)
	assert.Equal(t, "500", amounts[0].Value)
	assert.Equal(t, 500.0, amounts[0].Normalized)
}

func TestExtractEntities_Dates(t *testing.T) {
	entities := ExtractEntities("due on 12/31/2024 or maybe 2025-01-15", model.BusinessContext{})

	dates := entitiesOfType(entities, model.EntityDate)
	values := make([]string, 0, len(dates))
	for _, d := range dates {
		values = append(values, d.Value)
	}
	assert.Contains(t, values, "12/31/2024")
	assert.Contains(t, values, "2025-01-15")
}

func TestExtractEntities_RelativeDates(t *testing.T) {
	entities := ExtractEntities("pay it today, review next month", model.BusinessContext{})

	dates := entitiesOfType(entities, model.EntityDate)
	require.Len(t, dates, 2)

	assert.Equal(t, "today", dates[0].Value)
	assert.Equal(t, time.Now().Format("2006-01-02"), dates[0].Normalized)

	assert.Equal(t, "next month", dates[1].Value)
	assert.Nil(t, dates[1].Normalized)
}

func TestNormalizeRelativeDay(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-15", normalizeRelativeDay("Today", now))
	assert.Equal(t, "2024-06-16", normalizeRelativeDay("tomorrow", now))
	assert.Equal(t, "2024-06-14", normalizeRelativeDay("yesterday", now))
}

func TestExtractEntities_InvoiceNumbers(t *testing.T) {
	entities := ExtractEntities("Please approve invoice INV-2024-001", model.BusinessContext{})

	invoices := entitiesOfType(entities, model.EntityInvoiceNumber)
	require.NotEmpty(t, invoices)
	assert.Equal(t, "INV-2024-001", invoices[0].Value)

	// Hash-prefixed references carry no word boundary before the "#"
	entities = ExtractEntities("please pay #A-17", model.BusinessContext{})
	invoices = entitiesOfType(entities, model.EntityInvoiceNumber)
	require.Len(t, invoices, 1)
	assert.Equal(t, "A-17", invoices[0].Value)

	entities = ExtractEntities("approve invoice 42", model.BusinessContext{})
	invoices = entitiesOfType(entities, model.EntityInvoiceNumber)
	require.Len(t, invoices, 1)
	assert.Equal(t, "42", invoices[0].Value)
}

func TestExtractEntities_CustomerNames(t *testing.T) {
	entities := ExtractEntities("Payment received from Acme Corp yesterday", model.BusinessContext{})

	customers := entitiesOfType(entities, model.EntityCustomerName)
	require.Len(t, customers, 1)
	assert.Equal(t, "Acme Corp", customers[0].Value)

	entities = ExtractEntities("Invoice for Northern Lights Trading Company", model.BusinessContext{})
	customers = entitiesOfType(entities, model.EntityCustomerName)
	require.Len(t, customers, 1)
	assert.Equal(t, "Northern Lights Trading Company", customers[0].Value)
}

func TestExtractEntities_OverlappingSpans(t *testing.T) {
	// "#500" reads as both an invoice reference and an amount; both are kept
	entities := ExtractEntities("approve #500", model.BusinessContext{})

	amounts := entitiesOfType(entities, model.EntityAmount)
	invoices := entitiesOfType(entities, model.EntityInvoiceNumber)
	require.Len(t, amounts, 1)
	require.Len(t, invoices, 1)
	assert.Equal(t, "500", amounts[0].Value)
	assert.Equal(t, "500", invoices[0].Value)
}

func TestExtractEntities_NoEntities(t *testing.T) {
	entities := ExtractEntities("hello there", model.BusinessContext{})
	assert.Empty(t, entities)
	assert.NotNil(t, entities)
}
