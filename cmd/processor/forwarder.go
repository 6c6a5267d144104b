package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/settleflow/processor/pkg/domain"
)

// commandForwarder hands commands produced by the domain event handlers off
// to the write side over NATS. Each command type gets its own subject so the
// write side can subscribe selectively.
type commandForwarder struct {
	nc *nats.Conn
}

func newCommandForwarder(nc *nats.Conn) *commandForwarder {
	return &commandForwarder{nc: nc}
}

// Handle implements mediator.CommandHandler for every registered command
// type. Publish failures surface as transient results so delivery is
// retried.
func (f *commandForwarder) Handle(ctx context.Context, cmd domain.Command) domain.Result {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return domain.Failuref(domain.CodeInvalid, "failed to encode command %s: %v", cmd.CommandType(), err)
	}

	subject := fmt.Sprintf("commands.%s", cmd.CommandType())
	if err := f.nc.Publish(subject, payload); err != nil {
		return domain.Failuref(domain.CodeUnavailable, "failed to publish command %s: %v", cmd.CommandType(), err)
	}

	return domain.Ok()
}
