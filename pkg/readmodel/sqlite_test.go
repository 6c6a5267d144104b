package readmodel

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openRepositories(t *testing.T) map[string]Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqliteRepository, err := NewSQLiteRepository(db)
	require.NoError(t, err)

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"sqlite": sqliteRepository,
	}
}

func TestAddMerchantIsIdempotentAndPreservesReference(t *testing.T) {
	estateID := uuid.New()
	merchantID := uuid.New()
	created := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	for name, repository := range openRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repository.AddMerchant(ctx, Merchant{
				EstateID:        estateID,
				MerchantID:      merchantID,
				Name:            "Corner Shop",
				CreatedDateTime: created,
			}))
			require.NoError(t, repository.UpdateMerchantReference(ctx, merchantID, "MERCH001"))
			require.NoError(t, repository.UpdateMerchantSettlementSchedule(ctx, merchantID, 2))

			// A redelivered creation event must not wipe the fields that
			// arrived on later events.
			require.NoError(t, repository.AddMerchant(ctx, Merchant{
				EstateID:        estateID,
				MerchantID:      merchantID,
				Name:            "Corner Shop",
				CreatedDateTime: created,
			}))

			merchant, err := repository.GetMerchantByReference(ctx, estateID, "MERCH001")
			require.NoError(t, err)
			assert.Equal(t, merchantID, merchant.MerchantID)
			assert.Equal(t, "Corner Shop", merchant.Name)
			assert.Equal(t, "MERCH001", merchant.Reference)
			assert.Equal(t, 2, merchant.SettlementSchedule)
		})
	}
}

func TestGetMerchantByReferenceNotFound(t *testing.T) {
	estateID := uuid.New()

	for name, repository := range openRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repository.GetMerchantByReference(context.Background(), estateID, "NOSUCH")
			assert.ErrorIs(t, err, ErrMerchantNotFound)
		})
	}
}

func TestGetMerchantByReferenceScopedToEstate(t *testing.T) {
	estateID := uuid.New()
	merchantID := uuid.New()

	for name, repository := range openRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repository.AddMerchant(ctx, Merchant{
				EstateID:   estateID,
				MerchantID: merchantID,
				Name:       "Corner Shop",
			}))
			require.NoError(t, repository.UpdateMerchantReference(ctx, merchantID, "MERCH001"))

			_, err := repository.GetMerchantByReference(ctx, uuid.New(), "MERCH001")
			assert.ErrorIs(t, err, ErrMerchantNotFound)
		})
	}
}

func TestTransactionLifecycleWrites(t *testing.T) {
	estateID := uuid.New()
	merchantID := uuid.New()
	transactionID := uuid.New()
	amount := decimal.RequireFromString("30")

	for name, repository := range openRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repository.AddTransaction(ctx, Transaction{
				EstateID:            estateID,
				MerchantID:          merchantID,
				TransactionID:       transactionID,
				TransactionDateTime: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
				TransactionNumber:   "0001",
				TransactionType:     "Sale",
				Amount:              &amount,
			}))
			require.NoError(t, repository.UpdateTransactionAuthorisation(ctx,
				transactionID, true, "ABCD", "0000", "SUCCESS"))
			require.NoError(t, repository.CompleteTransaction(ctx,
				transactionID, true, "0000", "SUCCESS"))
			require.NoError(t, repository.RecordTransactionAdditionalData(ctx, TransactionAdditionalData{
				TransactionID: transactionID,
				Direction:     "request",
				Data:          map[string]string{"00": "0100"},
			}))
			require.NoError(t, repository.AddTransactionFee(ctx, TransactionFee{
				TransactionID:   transactionID,
				FeeID:           uuid.New(),
				CalculatedValue: decimal.RequireFromString("0.50"),
				FeeValue:        decimal.RequireFromString("0.5"),
				CalculatedAt:    time.Now(),
			}))
		})
	}
}

func TestBalanceChangedEntryKeyedByAggregateAndEvent(t *testing.T) {
	aggregateID := uuid.New()
	eventID := uuid.New()

	entry := MerchantBalanceChangedEntry{
		EntryID:         "01J8ZC3C9GXW8S2V4N1T5K7Q9R",
		AggregateID:     aggregateID,
		OriginalEventID: eventID,
		EstateID:        uuid.New(),
		MerchantID:      aggregateID,
		DateTime:        time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		Reference:       "Merchant Deposit",
		DebitOrCredit:   "C",
		ChangeAmount:    decimal.RequireFromString("150.25"),
		Balance:         decimal.RequireFromString("150.25"),
	}

	t.Run("memory", func(t *testing.T) {
		repository := NewMemoryRepository()
		for i := 0; i < 3; i++ {
			require.NoError(t, repository.RecordBalanceChangedEntry(context.Background(), entry))
		}
		assert.Len(t, repository.BalanceChangedEntries(), 1)
	})

	t.Run("sqlite", func(t *testing.T) {
		db, err := sql.Open("sqlite", ":memory:")
		require.NoError(t, err)
		defer db.Close()

		repository, err := NewSQLiteRepository(db)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			require.NoError(t, repository.RecordBalanceChangedEntry(context.Background(), entry))
		}

		var count int
		require.NoError(t, db.QueryRow(
			"SELECT COUNT(*) FROM merchant_balance_history WHERE aggregate_id = ?",
			aggregateID.String()).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestMemoryRepositoryAddTransactionPreservesCompletion(t *testing.T) {
	repository := NewMemoryRepository()
	ctx := context.Background()

	transactionID := uuid.New()
	require.NoError(t, repository.AddTransaction(ctx, Transaction{TransactionID: transactionID}))
	require.NoError(t, repository.CompleteTransaction(ctx, transactionID, true, "0000", "SUCCESS"))

	// Redelivery of the start event must not reset the completion.
	require.NoError(t, repository.AddTransaction(ctx, Transaction{TransactionID: transactionID}))

	transaction, exists := repository.GetTransaction(transactionID)
	require.True(t, exists)
	assert.True(t, transaction.IsCompleted)
	assert.True(t, transaction.IsAuthorised)
}
