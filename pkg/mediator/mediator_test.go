package mediator

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleflow/processor/pkg/domain"
)

func depositCommand() domain.MakeMerchantDepositCommand {
	return domain.MakeMerchantDepositCommand{
		CommandRecord:   domain.NewCommandRecord(uuid.New()),
		EstateID:        uuid.New(),
		MerchantID:      uuid.New(),
		DepositDateTime: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		Reference:       "DEP-MERCH001-42",
		Amount:          decimal.RequireFromString("150.25"),
	}
}

func TestMediatorRoutesToRegisteredHandler(t *testing.T) {
	m := New()

	var handled domain.Command
	m.Register("MakeMerchantDepositCommand", CommandHandlerFunc(
		func(ctx context.Context, cmd domain.Command) domain.Result {
			handled = cmd
			return domain.Ok()
		}))

	cmd := depositCommand()
	result := m.Send(context.Background(), cmd)

	require.False(t, result.IsFailed())
	require.NotNil(t, handled)
	assert.Equal(t, cmd.ID(), handled.ID())
}

func TestMediatorUnknownCommandIsNotFound(t *testing.T) {
	m := New()

	result := m.Send(context.Background(), depositCommand())

	require.True(t, result.IsFailed())
	assert.Equal(t, domain.CodeNotFound, result.Error.Code)
	assert.False(t, result.IsTransient())
}

func TestMediatorNilCommandIsInvalid(t *testing.T) {
	m := New()

	result := m.Send(context.Background(), nil)

	require.True(t, result.IsFailed())
	assert.Equal(t, domain.CodeInvalid, result.Error.Code)
}

func TestMediatorDuplicateRegistrationPanics(t *testing.T) {
	m := New()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Result {
		return domain.Ok()
	})

	m.Register("MakeMerchantDepositCommand", handler)
	assert.Panics(t, func() {
		m.Register("MakeMerchantDepositCommand", handler)
	})
}

func TestMediatorMiddlewareRunsInRegistrationOrder(t *testing.T) {
	m := New()

	var order []string
	tag := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Result {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	m.Use(tag("outer"))
	m.Use(tag("inner"))
	m.Register("MakeMerchantDepositCommand", CommandHandlerFunc(
		func(ctx context.Context, cmd domain.Command) domain.Result {
			order = append(order, "handler")
			return domain.Ok()
		}))

	require.False(t, m.Send(context.Background(), depositCommand()).IsFailed())
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRecoveryMiddlewareConvertsPanicToResult(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := New()
	m.Use(RecoveryMiddleware(logger))
	m.Register("MakeMerchantDepositCommand", CommandHandlerFunc(
		func(ctx context.Context, cmd domain.Command) domain.Result {
			panic("write model exploded")
		}))

	result := m.Send(context.Background(), depositCommand())

	require.True(t, result.IsFailed())
	assert.Equal(t, domain.CodeInternal, result.Error.Code)
	assert.Contains(t, result.Error.Message, "write model exploded")
	assert.False(t, result.IsTransient())
}

func TestValidationMiddlewareRejectsIncompleteCommand(t *testing.T) {
	m := New()
	m.Use(ValidationMiddleware())

	reached := false
	m.Register("MakeMerchantDepositCommand", CommandHandlerFunc(
		func(ctx context.Context, cmd domain.Command) domain.Result {
			reached = true
			return domain.Ok()
		}))

	cmd := depositCommand()
	cmd.Reference = ""
	result := m.Send(context.Background(), cmd)

	require.True(t, result.IsFailed())
	assert.Equal(t, domain.CodeInvalid, result.Error.Code)
	assert.False(t, reached)
}

func TestValidationMiddlewarePassesCompleteCommand(t *testing.T) {
	m := New()
	m.Use(ValidationMiddleware())
	m.Register("MakeMerchantDepositCommand", CommandHandlerFunc(
		func(ctx context.Context, cmd domain.Command) domain.Result {
			return domain.Ok()
		}))

	result := m.Send(context.Background(), depositCommand())
	assert.False(t, result.IsFailed())
}

func TestLoggingMiddlewarePassesResultThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := New()
	m.Use(LoggingMiddleware(logger))
	m.Register("MakeMerchantDepositCommand", CommandHandlerFunc(
		func(ctx context.Context, cmd domain.Command) domain.Result {
			return domain.Failure(domain.CodeConcurrencyConflict, "version raced")
		}))

	result := m.Send(context.Background(), depositCommand())

	require.True(t, result.IsFailed())
	assert.Equal(t, domain.CodeConcurrencyConflict, result.Error.Code)
}
