package mediator

import (
	"context"

	"github.com/asaskevich/govalidator"

	"github.com/settleflow/processor/pkg/domain"
)

// ValidationMiddleware validates command structs against their `valid` tags
// before they reach a handler. Validation failures are expected failures and
// come back as an INVALID Result.
func ValidationMiddleware() Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Result {
			if ok, err := govalidator.ValidateStruct(cmd); !ok {
				return domain.Failuref(domain.CodeInvalid, "command validation failed: %v", err)
			}

			return next.Handle(ctx, cmd)
		})
	}
}
