// Command processor runs the read side of the transaction processing
// platform: it consumes domain events from NATS, routes them through the
// configured handlers and projections, and maintains the relational read
// models and balance snapshots in SQLite.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	_ "modernc.org/sqlite"

	"github.com/settleflow/processor/pkg/config"
	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/eventbus"
	"github.com/settleflow/processor/pkg/eventhandling"
	"github.com/settleflow/processor/pkg/handlers"
	"github.com/settleflow/processor/pkg/mediator"
	"github.com/settleflow/processor/pkg/observability"
	"github.com/settleflow/processor/pkg/projection"
	"github.com/settleflow/processor/pkg/projection/merchantbalance"
	"github.com/settleflow/processor/pkg/projection/voucherstate"
	"github.com/settleflow/processor/pkg/readmodel"
	"github.com/settleflow/processor/pkg/runner"
	"github.com/settleflow/processor/pkg/subscription"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML configuration file")
		embedded   = flag.Bool("embedded-nats", false, "run an embedded NATS server instead of connecting to an external one")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := run(cfg, logger, *embedded); err != nil {
		logger.Error("processor exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, embedded bool) error {
	ctx := context.Background()

	if embedded {
		srv, err := eventbus.StartEmbeddedServer()
		if err != nil {
			return err
		}
		defer srv.Shutdown()
		cfg.EventBus.URL = srv.URL()
		logger.Info("embedded NATS server started", "url", srv.URL())
	}

	meterProvider := sdkmetric.NewMeterProvider()
	defer meterProvider.Shutdown(ctx)

	metrics, err := observability.NewMetrics(meterProvider.Meter("processor"))
	if err != nil {
		return err
	}

	bus, err := eventbus.New(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	readDB, err := sql.Open("sqlite", cfg.Database.ReadModelDSN)
	if err != nil {
		return err
	}
	defer readDB.Close()

	repository, err := readmodel.NewSQLiteRepository(readDB)
	if err != nil {
		return err
	}

	projectionDB, err := sql.Open("sqlite", cfg.Database.ProjectionDSN)
	if err != nil {
		return err
	}
	defer projectionDB.Close()

	balanceStore, err := merchantbalance.NewSQLiteStateStore(projectionDB)
	if err != nil {
		return err
	}

	// Commands produced by the handlers go back out over NATS to the write
	// side.
	nc, err := nats.Connect(cfg.EventBus.URL)
	if err != nil {
		return err
	}
	defer nc.Close()

	sender := newMediator(nc, logger, metrics)

	balanceHandler := projection.NewHandler[merchantbalance.State](
		merchantbalance.NewProjection(),
		balanceStore,
		merchantbalance.NewBalanceChangedDispatcher(repository),
		projection.WithMetrics[merchantbalance.State](metrics),
		projection.WithLogger[merchantbalance.State](logger),
	)
	voucherHandler := projection.NewHandler[voucherstate.State](
		voucherstate.NewProjection(),
		voucherstate.NewMemoryStateStore(),
		nil,
		projection.WithMetrics[voucherstate.State](metrics),
		projection.WithLogger[voucherstate.State](logger),
	)

	factory := handlers.Factory{
		Repository: repository,
		Sender:     sender,
		Metrics:    metrics,
		Extra: map[string]eventhandling.DomainEventHandler{
			handlers.TypeMerchantBalance: balanceHandler,
			handlers.TypeVoucherState:    voucherHandler,
		},
	}

	resolver, err := eventhandling.NewDomainEventHandlerResolver(cfg.Handlers, factory.New())
	if err != nil {
		return err
	}

	service := subscription.New(bus, domain.NewDefaultRegistry(), resolver, cfg.Subscription,
		subscription.WithLogger(logger),
		subscription.WithMetrics(metrics),
	)

	return runner.New(
		[]runner.Service{service},
		runner.WithLogger(logger),
	).Run(ctx)
}

// newMediator builds the command dispatch pipeline: panic recovery, logging,
// struct validation, then the NATS forwarder for every command type the
// handlers can emit.
func newMediator(nc *nats.Conn, logger *slog.Logger, metrics *observability.Metrics) *mediator.Mediator {
	m := mediator.New(mediator.WithMetrics(metrics))
	m.Use(mediator.RecoveryMiddleware(logger))
	m.Use(mediator.LoggingMiddleware(logger))
	m.Use(mediator.ValidationMiddleware())

	forwarder := newCommandForwarder(nc)
	for _, commandType := range []string{
		"MakeMerchantDepositCommand",
		"CalculateFeesForTransactionCommand",
		"AddTransactionToMerchantStatementCommand",
		"AddSettledFeeToMerchantStatementCommand",
		"GenerateMerchantStatementCommand",
		"AddPendingMerchantFeeToSettlementCommand",
		"RecordCreditPurchaseForFloatCommand",
	} {
		m.Register(commandType, forwarder)
	}

	return m
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
