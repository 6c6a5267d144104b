package merchantbalance

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/projection"
)

func openStores(t *testing.T) map[string]projection.StateRepository[State] {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sqliteStore, err := NewSQLiteStateStore(db)
	if err != nil {
		t.Fatalf("create sqlite store: %v", err)
	}

	return map[string]projection.StateRepository[State]{
		"memory": NewMemoryStateStore(),
		"sqlite": sqliteStore,
	}
}

func TestStateKeyExtraction(t *testing.T) {
	estateID := uuid.New()
	merchantID := uuid.New()

	tests := []struct {
		name  string
		event domain.DomainEvent
		ok    bool
	}{
		{
			name: "merchant event keys on the aggregate",
			event: &domain.ManualDepositMadeEvent{
				Event:    domain.NewEvent(merchantID, t1),
				EstateID: estateID,
			},
			ok: true,
		},
		{
			name: "transaction event keys on the merchant field",
			event: &domain.TransactionHasBeenCompletedEvent{
				Event:      domain.NewEvent(uuid.New(), t1),
				EstateID:   estateID,
				MerchantID: merchantID,
			},
			ok: true,
		},
		{
			name:  "unrelated event has no key",
			event: &domain.StatementCreatedEvent{Event: domain.NewEvent(uuid.New(), t1)},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotEstate, gotMerchant, ok := StateKey(tt.event)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if gotEstate != estateID || gotMerchant != merchantID {
				t.Errorf("key = %s/%s, want %s/%s", gotEstate, gotMerchant, estateID, merchantID)
			}
		})
	}
}

func TestStoreLoadUnknownKeyYieldsFreshState(t *testing.T) {
	event := &domain.ManualDepositMadeEvent{
		Event:    domain.NewEvent(uuid.New(), t1),
		EstateID: uuid.New(),
	}

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			state, err := store.Load(context.Background(), event)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !state.Equal(State{}) || state.Version != 0 {
				t.Errorf("fresh state = %+v, want zero value", state)
			}
		})
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	estateID := uuid.New()
	merchantID := uuid.New()
	event := &domain.ManualDepositMadeEvent{
		Event:           domain.NewEvent(merchantID, t1),
		EstateID:        estateID,
		DepositDateTime: t1,
		Amount:          d("125.50"),
	}

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			state := State{}.
				initialise(estateID, merchantID, "Corner Shop").
				recordDeposit(d("125.50"), t1)

			if err := store.Save(ctx, state, event); err != nil {
				t.Fatalf("Save: %v", err)
			}

			loaded, err := store.Load(ctx, event)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !loaded.Equal(state) {
				t.Errorf("round trip diverged:\nsaved:  %+v\nloaded: %+v", state, loaded)
			}
			if loaded.Version != 1 {
				t.Errorf("version = %d, want 1", loaded.Version)
			}
		})
	}
}

func TestStoreStaleSaveIsConcurrencyConflict(t *testing.T) {
	estateID := uuid.New()
	merchantID := uuid.New()
	event := &domain.ManualDepositMadeEvent{
		Event:           domain.NewEvent(merchantID, t1),
		EstateID:        estateID,
		DepositDateTime: t1,
		Amount:          d("10"),
	}

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first := State{}.initialise(estateID, merchantID, "Corner Shop").recordDeposit(d("10"), t1)
			if err := store.Save(ctx, first, event); err != nil {
				t.Fatalf("initial Save: %v", err)
			}

			// A second writer saving with the pre-insert version loses.
			stale := first
			err := store.Save(ctx, stale, event)
			if !errors.Is(err, domain.ErrConcurrencyConflict) {
				t.Errorf("stale Save error = %v, want ErrConcurrencyConflict", err)
			}

			// The loser reloads and succeeds.
			current, err := store.Load(ctx, event)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := store.Save(ctx, current.recordDeposit(d("5"), t2), event); err != nil {
				t.Errorf("Save after reload: %v", err)
			}
		})
	}
}

func TestStoreSaveWithoutKeyFails(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			event := &domain.StatementCreatedEvent{Event: domain.NewEvent(uuid.New(), t1)}
			if err := store.Save(context.Background(), State{}, event); err == nil {
				t.Error("Save without a state key must fail")
			}
			if _, err := store.Load(context.Background(), event); err == nil {
				t.Error("Load without a state key must fail")
			}
		})
	}
}

func TestSQLiteStoreGetState(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	store, err := NewSQLiteStateStore(db)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	estateID := uuid.New()
	merchantID := uuid.New()
	event := &domain.ManualDepositMadeEvent{
		Event:           domain.NewEvent(merchantID, t2),
		EstateID:        estateID,
		DepositDateTime: t2,
		Amount:          d("42"),
	}

	state := State{}.initialise(estateID, merchantID, "Corner Shop").recordDeposit(d("42"), t2)
	if err := store.Save(context.Background(), state, event); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetState(context.Background(), estateID, merchantID)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !got.Balance.Equal(d("42")) {
		t.Errorf("balance = %s, want 42", got.Balance)
	}
	if !got.LastDeposit.Equal(t2) {
		t.Errorf("last deposit = %s, want %s", got.LastDeposit, t2)
	}
}
