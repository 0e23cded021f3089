package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/ethfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "ethfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var base = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func newTx(side domain.Side, amount, price string, at time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.New(),
		Side:      side,
		Amount:    decimal.RequireFromString(amount),
		Price:     decimal.RequireFromString(price),
		Timestamp: at,
		CreatedAt: base,
	}
}

func seed(t *testing.T, repo domain.TransactionRepository) []*domain.Transaction {
	t.Helper()
	txs := []*domain.Transaction{
		newTx(domain.SideBuy, "2", "1000.5", base),
		newTx(domain.SideSell, "0.25", "1200", base.Add(48*time.Hour)),
		newTx(domain.SideBuy, "10", "999", base.Add(24*time.Hour)),
		newTx(domain.SideBuy, "0.000000000000000001", "3000", base.Add(24*time.Hour)),
	}
	for _, tx := range txs {
		require.NoError(t, repo.Create(context.Background(), tx))
	}
	return txs
}

func ids(txs []*domain.Transaction) []uuid.UUID {
	out := make([]uuid.UUID, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestTransactionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	seeded := seed(t, repo)

	got, err := repo.List(ctx, domain.ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, ids(seeded), ids(got), "zero filter lists in insertion order")
	assert.Equal(t, "1000.5", got[0].Price.String())
	assert.Equal(t, "0.000000000000000001", got[3].Amount.String(), "amounts keep full precision")
	assert.True(t, got[1].Timestamp.Equal(seeded[1].Timestamp))
	assert.Equal(t, domain.SideSell, got[1].Side)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestTransactionRepository_Sorting(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	s := seed(t, repo)

	tests := []struct {
		name   string
		filter domain.ListFilter
		want   []uuid.UUID
	}{
		{
			name:   "date asc, ties in insertion order",
			filter: domain.ListFilter{SortField: domain.SortByDate, SortOrder: domain.SortAsc},
			want:   ids([]*domain.Transaction{s[0], s[2], s[3], s[1]}),
		},
		{
			name:   "date desc",
			filter: domain.ListFilter{SortField: domain.SortByDate, SortOrder: domain.SortDesc},
			want:   ids([]*domain.Transaction{s[1], s[3], s[2], s[0]}),
		},
		{
			name:   "amount asc is numeric",
			filter: domain.ListFilter{SortField: domain.SortByAmount, SortOrder: domain.SortAsc},
			want:   ids([]*domain.Transaction{s[3], s[1], s[0], s[2]}),
		},
		{
			name:   "price desc",
			filter: domain.ListFilter{SortField: domain.SortByPrice, SortOrder: domain.SortDesc},
			want:   ids([]*domain.Transaction{s[3], s[1], s[0], s[2]}),
		},
		{
			name:   "type asc",
			filter: domain.ListFilter{SortField: domain.SortByType, SortOrder: domain.SortAsc},
			want:   ids([]*domain.Transaction{s[0], s[2], s[3], s[1]}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestTransactionRepository_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	s := seed(t, repo)

	page, err := repo.List(ctx, domain.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, ids(s[1:3]), ids(page))

	tail, err := repo.List(ctx, domain.ListFilter{Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, ids(s[3:]), ids(tail))

	beyond, err := repo.List(ctx, domain.ListFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)

	_, err = repo.List(ctx, domain.ListFilter{SortField: "volume"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestTransactionRepository_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	tx := newTx(domain.SideBuy, "1", "1", base)

	require.NoError(t, repo.Create(ctx, tx))
	assert.Error(t, repo.Create(ctx, tx))
}

func TestQuoteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(openTestDB(t))

	_, err := repo.GetLatest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	older := &domain.Quote{ID: uuid.New(), USD: decimal.RequireFromString("2999.99"), ChangePercent24h: decimal.RequireFromString("-0.5"), FetchedAt: base}
	newer := &domain.Quote{ID: uuid.New(), USD: decimal.RequireFromString("3001.01"), ChangePercent24h: decimal.RequireFromString("1.25"), FetchedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Add(ctx, newer))
	require.NoError(t, repo.Add(ctx, older))

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Equal(t, "3001.01", latest.USD.String())
	assert.Equal(t, "1.25", latest.ChangePercent24h.String())
	assert.True(t, latest.FetchedAt.Equal(newer.FetchedAt))
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ethfolio.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewTransactionRepository(db).Create(ctx, newTx(domain.SideBuy, "1", "1", base)))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	count, err := NewTransactionRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)
	require.NoError(t, repo.Create(ctx, newTx(domain.SideBuy, "1", "1", base)))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
