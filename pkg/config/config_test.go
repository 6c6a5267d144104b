package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleflow/processor/pkg/eventhandling"
	"github.com/settleflow/processor/pkg/handlers"
	"github.com/settleflow/processor/pkg/observability"
	"github.com/settleflow/processor/pkg/readmodel"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

// Every handler name in the default routing table must be constructible, so a
// misspelled registration fails here and not at the first event in production.
func TestDefaultRegistrationsResolve(t *testing.T) {
	factory := handlers.Factory{
		Repository: readmodel.NewMemoryRepository(),
		Metrics:    observability.NewNoopMetrics(),
		Extra: map[string]eventhandling.DomainEventHandler{
			handlers.TypeMerchantBalance: nil,
			handlers.TypeVoucherState:    nil,
		},
	}.New()

	for eventType, handlerNames := range DefaultHandlerRegistrations() {
		require.NotEmpty(t, handlerNames, eventType)
		for _, handlerName := range handlerNames {
			_, err := factory(handlerName)
			assert.NoError(t, err, "%s -> %s", eventType, handlerName)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "DOMAIN_EVENTS", cfg.EventBus.StreamName)
	assert.NotEmpty(t, cfg.Handlers)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: text
database:
  readModelDSN: /var/lib/processor/readmodel.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/var/lib/processor/readmodel.db", cfg.Database.ReadModelDSN)

	// Untouched sections keep their defaults.
	assert.Equal(t, "projections.db", cfg.Database.ProjectionDSN)
	assert.Equal(t, "DOMAIN_EVENTS", cfg.EventBus.StreamName)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"missing bus url", func(c *Config) { c.EventBus.URL = "" }},
		{"missing stream name", func(c *Config) { c.EventBus.StreamName = "" }},
		{"missing consumer name", func(c *Config) { c.Subscription.ConsumerName = "" }},
		{"zero max attempts", func(c *Config) { c.Subscription.MaxAttempts = 0 }},
		{"missing read model dsn", func(c *Config) { c.Database.ReadModelDSN = "" }},
		{"missing projection dsn", func(c *Config) { c.Database.ProjectionDSN = "" }},
		{"empty handler list", func(c *Config) { c.Handlers["MerchantCreatedEvent"] = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfigInvalid)
		})
	}
}
