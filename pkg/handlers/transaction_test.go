package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

func startedEvent(estateID, merchantID, transactionID uuid.UUID, amount *decimal.Decimal) *domain.TransactionHasStartedEvent {
	return &domain.TransactionHasStartedEvent{
		Event:               domain.NewEvent(transactionID, time.Now()),
		EstateID:            estateID,
		MerchantID:          merchantID,
		TransactionDateTime: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		TransactionNumber:   "0001",
		TransactionType:     "Sale",
		DeviceIdentifier:    "device-1",
		TransactionAmount:   amount,
	}
}

func completedEvent(estateID, merchantID, transactionID uuid.UUID, authorised bool, amount *decimal.Decimal) *domain.TransactionHasBeenCompletedEvent {
	return &domain.TransactionHasBeenCompletedEvent{
		Event:             domain.NewEvent(transactionID, time.Now()),
		EstateID:          estateID,
		MerchantID:        merchantID,
		IsAuthorised:      authorised,
		ResponseCode:      "0000",
		ResponseMessage:   "SUCCESS",
		CompletedDateTime: time.Date(2025, 4, 1, 10, 1, 0, 0, time.UTC),
		TransactionAmount: amount,
	}
}

func TestTransactionHandlerProjectsStartedTransaction(t *testing.T) {
	repository := readmodel.NewMemoryRepository()
	handler := NewTransactionDomainEventHandler(repository, &capturingSender{})

	estateID := uuid.New()
	merchantID := uuid.New()
	transactionID := uuid.New()
	amount := decimal.RequireFromString("30")

	result := handler.Handle(context.Background(), startedEvent(estateID, merchantID, transactionID, &amount))
	require.False(t, result.IsFailed())

	transaction, exists := repository.GetTransaction(transactionID)
	require.True(t, exists)
	assert.Equal(t, merchantID, transaction.MerchantID)
	assert.Equal(t, "Sale", transaction.TransactionType)
	require.NotNil(t, transaction.Amount)
	assert.True(t, transaction.Amount.Equal(amount))
	assert.False(t, transaction.IsCompleted)
}

func TestTransactionHandlerAuthorisedCompletionSendsFeeAndStatementCommands(t *testing.T) {
	repository := readmodel.NewMemoryRepository()
	sender := &capturingSender{}
	handler := NewTransactionDomainEventHandler(repository, sender)

	estateID := uuid.New()
	merchantID := uuid.New()
	transactionID := uuid.New()
	amount := decimal.RequireFromString("30")

	ctx := context.Background()
	require.False(t, handler.Handle(ctx, startedEvent(estateID, merchantID, transactionID, &amount)).IsFailed())
	require.False(t, handler.Handle(ctx, completedEvent(estateID, merchantID, transactionID, true, &amount)).IsFailed())

	transaction, exists := repository.GetTransaction(transactionID)
	require.True(t, exists)
	assert.True(t, transaction.IsCompleted)
	assert.True(t, transaction.IsAuthorised)

	require.Len(t, sender.commands, 2)

	fee, ok := sender.commands[0].(domain.CalculateFeesForTransactionCommand)
	require.True(t, ok)
	assert.Equal(t, transactionID, fee.TransactionID)
	assert.Equal(t, merchantID, fee.MerchantID)

	statement, ok := sender.commands[1].(domain.AddTransactionToMerchantStatementCommand)
	require.True(t, ok)
	assert.Equal(t, transactionID, statement.TransactionID)
	assert.True(t, statement.IsAuthorised)
}

func TestTransactionHandlerDeclinedCompletionSkipsFeeCommand(t *testing.T) {
	repository := readmodel.NewMemoryRepository()
	sender := &capturingSender{}
	handler := NewTransactionDomainEventHandler(repository, sender)

	estateID := uuid.New()
	merchantID := uuid.New()
	transactionID := uuid.New()
	amount := decimal.RequireFromString("30")

	ctx := context.Background()
	require.False(t, handler.Handle(ctx, startedEvent(estateID, merchantID, transactionID, &amount)).IsFailed())
	require.False(t, handler.Handle(ctx, completedEvent(estateID, merchantID, transactionID, false, &amount)).IsFailed())

	require.Len(t, sender.commands, 1)
	_, ok := sender.commands[0].(domain.AddTransactionToMerchantStatementCommand)
	assert.True(t, ok, "declined completions still post to the statement")
}

func TestTransactionHandlerCompletionWithoutAmountSkipsFeeCommand(t *testing.T) {
	sender := &capturingSender{}
	handler := NewTransactionDomainEventHandler(readmodel.NewMemoryRepository(), sender)

	estateID := uuid.New()
	merchantID := uuid.New()
	transactionID := uuid.New()

	result := handler.Handle(context.Background(), completedEvent(estateID, merchantID, transactionID, true, nil))
	require.False(t, result.IsFailed())

	require.Len(t, sender.commands, 1)
	_, ok := sender.commands[0].(domain.AddTransactionToMerchantStatementCommand)
	assert.True(t, ok)
}

func TestTransactionHandlerFeeCommandFailureWins(t *testing.T) {
	failure := domain.Failure(domain.CodeUnavailable, "write side down")
	sender := &capturingSender{result: &failure}
	handler := NewTransactionDomainEventHandler(readmodel.NewMemoryRepository(), sender)

	amount := decimal.RequireFromString("30")
	result := handler.Handle(context.Background(),
		completedEvent(uuid.New(), uuid.New(), uuid.New(), true, &amount))

	require.True(t, result.IsFailed())
	assert.Equal(t, domain.CodeUnavailable, result.Error.Code)
	assert.Len(t, sender.commands, 1, "statement command must not be sent after the fee command fails")
}

func TestTransactionHandlerRetriedDeliveryConverges(t *testing.T) {
	repository := readmodel.NewMemoryRepository()
	sender := &capturingSender{}
	handler := NewTransactionDomainEventHandler(repository, sender)

	estateID := uuid.New()
	merchantID := uuid.New()
	transactionID := uuid.New()
	amount := decimal.RequireFromString("30")

	ctx := context.Background()
	started := startedEvent(estateID, merchantID, transactionID, &amount)
	require.False(t, handler.Handle(ctx, started).IsFailed())
	require.False(t, handler.Handle(ctx, started).IsFailed())

	firstPass, _ := repository.GetTransaction(transactionID)

	completed := completedEvent(estateID, merchantID, transactionID, true, &amount)
	require.False(t, handler.Handle(ctx, completed).IsFailed())
	require.False(t, handler.Handle(ctx, completed).IsFailed())

	transaction, exists := repository.GetTransaction(transactionID)
	require.True(t, exists)
	assert.Equal(t, firstPass.TransactionNumber, transaction.TransactionNumber)
	assert.True(t, transaction.IsCompleted)
	assert.True(t, transaction.IsAuthorised)
}

func TestTransactionHandlerRecordsAdditionalData(t *testing.T) {
	repository := readmodel.NewMemoryRepository()
	handler := NewTransactionDomainEventHandler(repository, &capturingSender{})

	transactionID := uuid.New()
	result := handler.Handle(context.Background(), &domain.AdditionalRequestDataRecordedEvent{
		Event:                     domain.NewEvent(transactionID, time.Now()),
		AdditionalTransactionData: map[string]string{"00": "0100", "03": "000001"},
	})

	require.False(t, result.IsFailed())
}

func TestTransactionHandlerProjectsFees(t *testing.T) {
	repository := readmodel.NewMemoryRepository()
	handler := NewTransactionDomainEventHandler(repository, &capturingSender{})

	transactionID := uuid.New()
	result := handler.Handle(context.Background(), &domain.MerchantFeeAddedToTransactionEvent{
		Event:                 domain.NewEvent(transactionID, time.Now()),
		EstateID:              uuid.New(),
		MerchantID:            uuid.New(),
		FeeID:                 uuid.New(),
		CalculatedValue:       decimal.RequireFromString("0.50"),
		FeeValue:              decimal.RequireFromString("0.5"),
		FeeCalculatedDateTime: time.Now(),
	})

	assert.False(t, result.IsFailed())
}
