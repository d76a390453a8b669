package service

import (
	"context"
	"fmt"

	"hera-assistant/internal/db"
	"hera-assistant/internal/model"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// transactionTypeFor maps each business action onto its universal
// transaction classification.
var transactionTypeFor = map[model.ActionType]model.TransactionType{
	model.ActionCreateInvoice:       model.TransactionSales,
	model.ActionRecordPayment:       model.TransactionPayment,
	model.ActionAddCustomer:         model.TransactionMasterData,
	model.ActionUpdateInventory:     model.TransactionInventory,
	model.ActionCreatePurchaseOrder: model.TransactionPurchase,
	model.ActionProcessExpense:      model.TransactionPurchase,
	model.ActionGenerateReport:      model.TransactionJournalEntry,
	model.ActionAssignWorkflow:      model.TransactionMasterData,
	model.ActionApproveTransaction:  model.TransactionJournalEntry,
	model.ActionSendNotification:    model.TransactionMasterData,
}

// TransactionTypeFor resolves the universal transaction type for an action.
func TransactionTypeFor(action model.ActionType) (model.TransactionType, bool) {
	t, ok := transactionTypeFor[action]
	return t, ok
}

// TransactionService writes business actions into the universal
// entity/transaction schema.
type TransactionService struct {
	queries *db.Queries
	log     *zap.Logger
}

func NewTransactionService(queries *db.Queries, log *zap.Logger) *TransactionService {
	return &TransactionService{queries: queries, log: log}
}

// CreateTransaction records one universal transaction for an action.
func (s *TransactionService) CreateTransaction(ctx context.Context, organizationID string, action model.ActionType, data map[string]interface{}) (*model.Transaction, error) {
	txType, ok := transactionTypeFor[action]
	if !ok {
		return nil, fmt.Errorf("no transaction type for action %q", action)
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	id := ulid.Make().String()
	t, err := s.queries.CreateTransaction(ctx, db.CreateTransactionParams{
		ID:                id,
		OrganizationID:    organizationID,
		TransactionType:   string(txType),
		TransactionNumber: "TXN-" + id,
		TransactionData:   data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Info("transaction created",
		zap.String("transaction_id", t.ID),
		zap.String("transaction_type", t.TransactionType),
		zap.String("organization_id", organizationID),
	)
	return dbTransactionToModel(t), nil
}

// CreateMasterData creates a core entity with its dynamic-data fields and a
// matching master_data transaction. If a field insert fails, the entity row
// is deleted again so a half-created record never lingers.
func (s *TransactionService) CreateMasterData(ctx context.Context, organizationID, entityType, name string, fields map[string]string) (*model.Transaction, error) {
	entityID := ulid.Make().String()
	entity, err := s.queries.CreateEntity(ctx, db.CreateEntityParams{
		ID:             entityID,
		OrganizationID: organizationID,
		EntityType:     entityType,
		EntityName:     name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	for fieldName, fieldValue := range fields {
		if err := s.queries.CreateDynamicData(ctx, entity.ID, fieldName, fieldValue, "text"); err != nil {
			if cleanupErr := s.queries.DeleteEntity(ctx, entity.ID); cleanupErr != nil {
				s.log.Error("failed to clean up entity after field insert failure",
					zap.String("entity_id", entity.ID),
					zap.Error(cleanupErr),
				)
			}
			return nil, fmt.Errorf("failed to create dynamic data: %w", err)
		}
	}

	_ = s.queries.CreateMetadata(ctx, entity.ID, "origin", map[string]interface{}{
		"createdBy": "assistant",
	})

	return s.CreateTransaction(ctx, organizationID, model.ActionAddCustomer, map[string]interface{}{
		"entityId":   entity.ID,
		"entityType": entityType,
		"entityName": name,
	})
}

// GetTransaction fetches one universal transaction.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	t, err := s.queries.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	return dbTransactionToModel(t), nil
}

// ListTransactions lists an organization's recent transactions.
func (s *TransactionService) ListTransactions(ctx context.Context, organizationID string, limit, offset int) ([]*model.Transaction, error) {
	rows, err := s.queries.ListTransactions(ctx, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	out := make([]*model.Transaction, 0, len(rows))
	for _, t := range rows {
		out = append(out, dbTransactionToModel(t))
	}
	return out, nil
}

// CashFlowSummary aggregates the organization's cash position. The 30-day
// forecast projects the current balance by one more month of the observed
// monthly change.
func (s *TransactionService) CashFlowSummary(ctx context.Context, organizationID string) (*model.CashFlowSummary, error) {
	row, err := s.queries.CashFlow(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cash flow: %w", err)
	}
	return &model.CashFlowSummary{
		CurrentCash:        row.CurrentCash,
		MonthlyChange:      row.MonthlyChange,
		UpcomingPayments:   row.UpcomingPayments,
		ForecastNext30Days: row.CurrentCash + row.MonthlyChange,
	}, nil
}

func dbTransactionToModel(t db.Transaction) *model.Transaction {
	return &model.Transaction{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		Type:           model.TransactionType(t.TransactionType),
		Number:         t.TransactionNumber,
		Data:           t.TransactionData,
		CreatedAt:      t.CreatedAt,
	}
}
