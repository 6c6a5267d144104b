package handlers

import (
	"fmt"

	"github.com/settleflow/processor/pkg/eventhandling"
	"github.com/settleflow/processor/pkg/mediator"
	"github.com/settleflow/processor/pkg/observability"
	"github.com/settleflow/processor/pkg/readmodel"
)

// Handler type names used in resolver configuration.
const (
	TypeMerchant           = "MerchantDomainEventHandler"
	TypeTransaction        = "TransactionDomainEventHandler"
	TypeContract           = "ContractDomainEventHandler"
	TypeOperator           = "OperatorDomainEventHandler"
	TypeMerchantSettlement = "MerchantSettlementDomainEventHandler"
	TypeMerchantStatement  = "MerchantStatementDomainEventHandler"
	TypeVoucher            = "VoucherDomainEventHandler"
	TypeReadModel          = "ReadModelDomainEventHandler"

	// Projection handlers, supplied to the Factory via Extra.
	TypeMerchantBalance = "MerchantBalanceProjectionHandler"
	TypeVoucherState    = "VoucherStateProjectionHandler"
)

// Factory builds the handler instances named in resolver configuration and
// wraps each in the metrics decorator. Projection handlers register under
// their own type names via Extra.
type Factory struct {
	Repository readmodel.Repository
	Sender     mediator.CommandSender
	Metrics    *observability.Metrics

	// Extra maps additional handler type names (e.g. projection handlers)
	// to pre-built instances.
	Extra map[string]eventhandling.DomainEventHandler
}

// New returns the HandlerFactory function the resolver consumes.
func (f Factory) New() eventhandling.HandlerFactory {
	return func(handlerTypeName string) (eventhandling.DomainEventHandler, error) {
		var handler eventhandling.DomainEventHandler

		switch handlerTypeName {
		case TypeMerchant:
			handler = NewMerchantDomainEventHandler(f.Repository, f.Sender)
		case TypeTransaction:
			handler = NewTransactionDomainEventHandler(f.Repository, f.Sender)
		case TypeContract:
			handler = NewContractDomainEventHandler(f.Repository)
		case TypeOperator:
			handler = NewOperatorDomainEventHandler(f.Repository)
		case TypeMerchantSettlement:
			handler = NewMerchantSettlementDomainEventHandler(f.Repository, f.Sender)
		case TypeMerchantStatement:
			handler = NewMerchantStatementDomainEventHandler(f.Repository)
		case TypeVoucher:
			handler = NewVoucherDomainEventHandler(f.Repository)
		case TypeReadModel:
			handler = NewReadModelDomainEventHandler(f.Repository)
		default:
			if extra, exists := f.Extra[handlerTypeName]; exists {
				handler = extra
				break
			}
			return nil, fmt.Errorf("unknown handler type name: %s", handlerTypeName)
		}

		return eventhandling.NewInstrumentedHandler(handlerTypeName, handler, f.Metrics), nil
	}
}
