package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries wraps database queries over the universal entity/transaction schema
type Queries struct {
	*pgxpool.Pool
}

func NewQueries(pool *pgxpool.Pool) *Queries {
	return &Queries{Pool: pool}
}

// CoreEntity represents a core_entities row
type CoreEntity struct {
	ID             string
	OrganizationID string
	EntityType     string
	EntityName     string
	EntityCode     *string
	CreatedAt      time.Time
}

func (q *Queries) CreateEntity(ctx context.Context, p CreateEntityParams) (CoreEntity, error) {
	var e CoreEntity
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO core_entities (id, organization_id, entity_type, entity_name, entity_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, organization_id, entity_type, entity_name, entity_code, created_at`,
		p.ID, p.OrganizationID, p.EntityType, p.EntityName, p.EntityCode,
	).Scan(&e.ID, &e.OrganizationID, &e.EntityType, &e.EntityName, &e.EntityCode, &e.CreatedAt)
	return e, err
}

type CreateEntityParams struct {
	ID             string
	OrganizationID string
	EntityType     string
	EntityName     string
	EntityCode     *string
}

func (q *Queries) GetEntityByID(ctx context.Context, id string) (CoreEntity, error) {
	var e CoreEntity
	err := q.Pool.QueryRow(ctx,
		`SELECT id, organization_id, entity_type, entity_name, entity_code, created_at
		FROM core_entities WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.OrganizationID, &e.EntityType, &e.EntityName, &e.EntityCode, &e.CreatedAt)
	return e, err
}

func (q *Queries) DeleteEntity(ctx context.Context, id string) error {
	_, err := q.Pool.Exec(ctx, "DELETE FROM core_entities WHERE id = $1", id)
	return err
}

func (q *Queries) CreateDynamicData(ctx context.Context, entityID, fieldName, fieldValue, fieldType string) error {
	_, err := q.Pool.Exec(ctx,
		`INSERT INTO core_dynamic_data (entity_id, field_name, field_value, field_type)
		VALUES ($1, $2, $3, $4)`,
		entityID, fieldName, fieldValue, fieldType,
	)
	return err
}

func (q *Queries) CreateMetadata(ctx context.Context, entityID, metadataType string, metadataValue map[string]interface{}) error {
	_, err := q.Pool.Exec(ctx,
		`INSERT INTO core_metadata (entity_id, metadata_type, metadata_value)
		VALUES ($1, $2, $3)`,
		entityID, metadataType, metadataValue,
	)
	return err
}

// Transaction represents a universal_transactions row. Rows are append-only;
// there is no update path.
type Transaction struct {
	ID                string
	OrganizationID    string
	TransactionType   string
	TransactionNumber string
	TransactionData   map[string]interface{}
	CreatedAt         time.Time
}

type CreateTransactionParams struct {
	ID                string
	OrganizationID    string
	TransactionType   string
	TransactionNumber string
	TransactionData   map[string]interface{}
}

func (q *Queries) CreateTransaction(ctx context.Context, p CreateTransactionParams) (Transaction, error) {
	var t Transaction
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO universal_transactions (id, organization_id, transaction_type, transaction_number, transaction_data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, organization_id, transaction_type, transaction_number, transaction_data, created_at`,
		p.ID, p.OrganizationID, p.TransactionType, p.TransactionNumber, p.TransactionData,
	).Scan(&t.ID, &t.OrganizationID, &t.TransactionType, &t.TransactionNumber, &t.TransactionData, &t.CreatedAt)
	return t, err
}

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	var t Transaction
	err := q.Pool.QueryRow(ctx,
		`SELECT id, organization_id, transaction_type, transaction_number, transaction_data, created_at
		FROM universal_transactions WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.OrganizationID, &t.TransactionType, &t.TransactionNumber, &t.TransactionData, &t.CreatedAt)
	return t, err
}

func (q *Queries) ListTransactions(ctx context.Context, organizationID string, limit, offset int) ([]Transaction, error) {
	rows, err := q.Pool.Query(ctx,
		`SELECT id, organization_id, transaction_type, transaction_number, transaction_data, created_at
		FROM universal_transactions
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		organizationID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.TransactionType, &t.TransactionNumber, &t.TransactionData, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// CashFlowRow carries the aggregates behind the cash flow summary
type CashFlowRow struct {
	CurrentCash      float64
	MonthlyChange    float64
	UpcomingPayments float64
}

// CashFlow aggregates signed transaction amounts: payments and sales add
// cash, purchases remove it. Pending purchases count as upcoming payments.
func (q *Queries) CashFlow(ctx context.Context, organizationID string) (CashFlowRow, error) {
	var r CashFlowRow
	err := q.Pool.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(CASE
				WHEN transaction_type IN ('payment', 'sales') THEN (transaction_data->>'amount')::numeric
				WHEN transaction_type = 'purchase' THEN -(transaction_data->>'amount')::numeric
				ELSE 0 END), 0),
			COALESCE(SUM(CASE
				WHEN created_at < NOW() - INTERVAL '30 days' THEN 0
				WHEN transaction_type IN ('payment', 'sales') THEN (transaction_data->>'amount')::numeric
				WHEN transaction_type = 'purchase' THEN -(transaction_data->>'amount')::numeric
				ELSE 0 END), 0),
			COALESCE(SUM(CASE
				WHEN transaction_type = 'purchase' AND transaction_data->>'status' = 'pending'
				THEN (transaction_data->>'amount')::numeric
				ELSE 0 END), 0)
		FROM universal_transactions
		WHERE organization_id = $1
		AND transaction_data ? 'amount'`,
		organizationID,
	).Scan(&r.CurrentCash, &r.MonthlyChange, &r.UpcomingPayments)
	return r, err
}
