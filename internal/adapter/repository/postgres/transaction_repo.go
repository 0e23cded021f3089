package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// sortColumns whitelists the ORDER BY expressions
var sortColumns = map[domain.SortField]string{
	domain.SortByDate:   "executed_at",
	domain.SortByType:   "side",
	domain.SortByAmount: "amount",
	domain.SortByPrice:  "price",
}

// Create inserts a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO eth_transactions (id, side, amount, price, executed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		string(tx.Side),
		tx.Amount.String(),
		tx.Price.String(),
		tx.Timestamp,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// List retrieves transactions ordered and paginated by filter
func (r *transactionRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, side, amount, price, executed_at, created_at
		FROM eth_transactions
		ORDER BY ` + orderBy(filter)

	args := []any{}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var side, amountStr, priceStr string

		if err := rows.Scan(&tx.ID, &side, &amountStr, &priceStr, &tx.Timestamp, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Side = domain.Side(side)
		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		if tx.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// Count returns the total number of transactions
func (r *transactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM eth_transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// orderBy builds the ORDER BY clause from whitelisted columns; ties fall back to insertion order
func orderBy(filter domain.ListFilter) string {
	column, ok := sortColumns[filter.SortField]
	if !ok {
		return "seq ASC"
	}
	direction := "ASC"
	if filter.SortOrder == domain.SortDesc {
		direction = "DESC"
	}
	return column + " " + direction + ", seq " + direction
}
