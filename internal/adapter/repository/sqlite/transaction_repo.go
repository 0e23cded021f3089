package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
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

var sortColumns = map[domain.SortField]string{
	domain.SortByDate:   "executed_at",
	domain.SortByType:   "side",
	domain.SortByAmount: "CAST(amount AS REAL)",
	domain.SortByPrice:  "CAST(price AS REAL)",
}

// Create inserts a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO eth_transactions
		(id, side, amount, price, executed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID.String(),
		string(tx.Side),
		tx.Amount.String(),
		tx.Price.String(),
		tx.Timestamp.UnixNano(),
		tx.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List retrieves transactions ordered and paginated by filter
func (r *transactionRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `SELECT id, side, amount, price, executed_at, created_at
		FROM eth_transactions ORDER BY ` + orderBy(filter)

	// SQLite requires a LIMIT before OFFSET; -1 means unbounded
	args := []any{}
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit == 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		var (
			id, side, amountStr, priceStr string
			executedAt, createdAt         int64
		)
		if err := rows.Scan(&id, &side, &amountStr, &priceStr, &executedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		tx := &domain.Transaction{
			Side:      domain.Side(side),
			Timestamp: time.Unix(0, executedAt).UTC(),
			CreatedAt: time.Unix(0, createdAt).UTC(),
		}
		if tx.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse id: %w", err)
		}
		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		if tx.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

// Count returns the total number of transactions
func (r *transactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM eth_transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

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
