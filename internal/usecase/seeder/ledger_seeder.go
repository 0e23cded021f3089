package seeder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// SeedTransaction is one entry of a seed file. ID is mandatory so seeding stays idempotent.
type SeedTransaction struct {
	ID        string `yaml:"id"`
	Side      string `yaml:"side"`
	Amount    string `yaml:"amount"`
	Price     string `yaml:"price"`
	Timestamp string `yaml:"timestamp"` // RFC3339
}

type seedFile struct {
	Transactions []SeedTransaction `yaml:"transactions"`
}

// LedgerSeeder imports a fixed set of transactions, e.g. a history exported from another tracker
type LedgerSeeder struct {
	repo domain.TransactionRepository
	now  func() time.Time
}

// NewLedgerSeeder creates a new LedgerSeeder instance
func NewLedgerSeeder(repo domain.TransactionRepository) *LedgerSeeder {
	return &LedgerSeeder{
		repo: repo,
		now:  time.Now,
	}
}

// LoadFile reads seed transactions from a YAML file
func LoadFile(path string) ([]SeedTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Transactions, nil
}

// Seed ensures every entry exists in the store and returns how many were created.
// Logic:
//  1. Convert and validate all entries first so a bad file writes nothing
//  2. Skip entries whose ID is already stored
//  3. Create the rest in file order, which keeps ties on equal timestamps stable
func (s *LedgerSeeder) Seed(ctx context.Context, entries []SeedTransaction) (int, error) {
	txs := make([]*domain.Transaction, 0, len(entries))
	for i, entry := range entries {
		tx, err := s.toTransaction(entry)
		if err != nil {
			return 0, fmt.Errorf("seed entry %d: %w", i, err)
		}
		txs = append(txs, tx)
	}

	existing, err := s.repo.List(ctx, domain.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	stored := make(map[uuid.UUID]struct{}, len(existing))
	for _, tx := range existing {
		stored[tx.ID] = struct{}{}
	}

	created := 0
	for _, tx := range txs {
		if _, ok := stored[tx.ID]; ok {
			continue
		}
		if err := s.repo.Create(ctx, tx); err != nil {
			return created, fmt.Errorf("failed to create transaction %s: %w", tx.ID, err)
		}
		stored[tx.ID] = struct{}{}
		created++
	}
	return created, nil
}

func (s *LedgerSeeder) toTransaction(entry SeedTransaction) (*domain.Transaction, error) {
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q", domain.ErrInvalidTransaction, entry.ID)
	}
	side, err := domain.ParseSide(entry.Side)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(entry.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q", domain.ErrInvalidTransaction, entry.Amount)
	}
	price, err := decimal.NewFromString(entry.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", domain.ErrInvalidTransaction, entry.Price)
	}
	ts, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q", domain.ErrInvalidTransaction, entry.Timestamp)
	}

	tx := &domain.Transaction{
		ID:        id,
		Amount:    amount,
		Price:     price,
		Timestamp: ts,
		Side:      side,
		CreatedAt: s.now(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}
