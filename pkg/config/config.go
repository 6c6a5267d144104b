// Package config provides configuration loading and validation for the
// processor host.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/settleflow/processor/pkg/eventbus"
	"github.com/settleflow/processor/pkg/handlers"
	"github.com/settleflow/processor/pkg/subscription"
)

// Configuration errors.
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrConfigInvalid  = errors.New("invalid configuration")
)

// Config holds the complete processor configuration.
type Config struct {
	Log          LogConfig           `yaml:"log"`
	EventBus     eventbus.Config     `yaml:"eventbus"`
	Subscription subscription.Config `yaml:"subscription"`
	Database     DatabaseConfig      `yaml:"database"`

	// Handlers maps an event type name to the ordered handler type names
	// that must receive it. This is the registration table the resolver is
	// built from.
	Handlers map[string][]string `yaml:"handlers"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

// DatabaseConfig holds SQLite DSNs for the two stores.
type DatabaseConfig struct {
	// ReadModelDSN is the SQLite DSN for the relational read models.
	ReadModelDSN string `yaml:"readModelDSN"`

	// ProjectionDSN is the SQLite DSN for projection state snapshots.
	ProjectionDSN string `yaml:"projectionDSN"`
}

// DefaultConfig returns a Config with sensible default values, including the
// full production handler registration table.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		EventBus:     eventbus.DefaultConfig(),
		Subscription: subscription.DefaultConfig(),
		Database: DatabaseConfig{
			ReadModelDSN:  "readmodel.db",
			ProjectionDSN: "projections.db",
		},
		Handlers: DefaultHandlerRegistrations(),
	}
}

// DefaultHandlerRegistrations returns the production routing table: every
// event type mapped to the handlers that process it, in invocation order.
func DefaultHandlerRegistrations() map[string][]string {
	merchantWithBalance := []string{handlers.TypeMerchant, handlers.TypeMerchantBalance}
	transaction := []string{handlers.TypeTransaction}
	transactionWithBalance := []string{handlers.TypeTransaction, handlers.TypeMerchantBalance}
	voucherWithState := []string{handlers.TypeVoucher, handlers.TypeVoucherState}

	return map[string][]string{
		// Merchant aggregate
		"MerchantCreatedEvent":            merchantWithBalance,
		"AddressAddedEvent":               {handlers.TypeMerchant},
		"ContactAddedEvent":               {handlers.TypeMerchant},
		"DeviceAddedToMerchantEvent":      {handlers.TypeMerchant},
		"OperatorAssignedToMerchantEvent": {handlers.TypeMerchant},
		"MerchantReferenceAllocatedEvent": {handlers.TypeMerchant},
		"SettlementScheduleChangedEvent":  {handlers.TypeMerchant},
		"CallbackReceivedEnrichedEvent":   {handlers.TypeMerchant},
		"ManualDepositMadeEvent":          {handlers.TypeMerchantBalance},
		"AutomaticDepositMadeEvent":       {handlers.TypeMerchantBalance},
		"WithdrawalMadeEvent":             {handlers.TypeMerchantBalance},

		// Transaction aggregate
		"TransactionHasStartedEvent":                transactionWithBalance,
		"TransactionHasBeenLocallyAuthorisedEvent":  transaction,
		"TransactionHasBeenLocallyDeclinedEvent":    transaction,
		"TransactionAuthorisedByOperatorEvent":      transaction,
		"TransactionDeclinedByOperatorEvent":        transaction,
		"TransactionHasBeenCompletedEvent":          transactionWithBalance,
		"TransactionSourceAddedToTransactionEvent":  transaction,
		"AdditionalRequestDataRecordedEvent":        transaction,
		"AdditionalResponseDataRecordedEvent":       transaction,
		"MerchantFeeAddedToTransactionEvent":        transactionWithBalance,
		"SettledMerchantFeeAddedToTransactionEvent": transactionWithBalance,

		// Settlement aggregate
		"SettlementCreatedForDateEvent":          {handlers.TypeMerchantSettlement},
		"MerchantFeeAddedPendingSettlementEvent": {handlers.TypeMerchantSettlement},
		"SettlementProcessingStartedEvent":       {handlers.TypeMerchantSettlement},
		"MerchantFeeSettledEvent":                {handlers.TypeMerchantSettlement},
		"SettlementCompletedEvent":               {handlers.TypeMerchantSettlement},

		// Statement aggregate
		"StatementCreatedEvent":            {handlers.TypeMerchantStatement},
		"TransactionAddedToStatementEvent": {handlers.TypeMerchantStatement},
		"SettledFeeAddedToStatementEvent":  {handlers.TypeMerchantStatement},
		"StatementGeneratedEvent":          {handlers.TypeMerchantStatement},

		// Voucher aggregate
		"VoucherGeneratedEvent":     voucherWithState,
		"BarcodeAddedEvent":         voucherWithState,
		"VoucherIssuedEvent":        voucherWithState,
		"VoucherFullyRedeemedEvent": voucherWithState,

		// Contract aggregate
		"ContractCreatedEvent":                         {handlers.TypeContract},
		"FixedValueProductAddedToContractEvent":        {handlers.TypeContract},
		"VariableValueProductAddedToContractEvent":     {handlers.TypeContract},
		"TransactionFeeForProductAddedToContractEvent": {handlers.TypeContract},
		"TransactionFeeForProductDisabledEvent":        {handlers.TypeContract},

		// Operator aggregate
		"OperatorCreatedEvent":     {handlers.TypeOperator},
		"OperatorNameUpdatedEvent": {handlers.TypeOperator},

		// Float aggregate
		"FloatCreatedForContractProductEvent": {handlers.TypeReadModel},
		"FloatCreditPurchasedEvent":           {handlers.TypeReadModel},
		"FloatDecreasedByTransactionEvent":    {handlers.TypeReadModel},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, errors.New("log.level must be debug, info, warn, or error"))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, errors.New("log.format must be json or text"))
	}

	if c.EventBus.URL == "" {
		errs = append(errs, errors.New("eventbus.url is required"))
	}
	if c.EventBus.StreamName == "" {
		errs = append(errs, errors.New("eventbus.streamName is required"))
	}
	if c.Subscription.ConsumerName == "" {
		errs = append(errs, errors.New("subscription.consumerName is required"))
	}
	if c.Subscription.MaxAttempts < 1 {
		errs = append(errs, errors.New("subscription.maxAttempts must be at least 1"))
	}
	if c.Database.ReadModelDSN == "" {
		errs = append(errs, errors.New("database.readModelDSN is required"))
	}
	if c.Database.ProjectionDSN == "" {
		errs = append(errs, errors.New("database.projectionDSN is required"))
	}

	for eventType, handlerNames := range c.Handlers {
		if len(handlerNames) == 0 {
			errs = append(errs, fmt.Errorf("handlers.%s must list at least one handler", eventType))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, errors.Join(errs...))
	}
	return nil
}

// Load loads configuration from path, falling back to defaults for any
// omitted section. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
