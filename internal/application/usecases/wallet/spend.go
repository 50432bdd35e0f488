package wallet

import (
	"context"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// SpendUseCase moves funds from a user wallet to SYSTEM_REVENUE, e.g. for an
// in-game purchase.
type SpendUseCase struct {
	resolver *resolver.Resolver
	engine   *engine.Engine
}

// NewSpendUseCase creates the use case.
func NewSpendUseCase(res *resolver.Resolver, eng *engine.Engine) *SpendUseCase {
	return &SpendUseCase{resolver: res, engine: eng}
}

// Execute runs the spend flow. The purchased itemId is merged into the
// transaction metadata.
func (uc *SpendUseCase) Execute(ctx context.Context, cmd dtos.SpendCommand) (*dtos.TransferOutcomeDTO, error) {
	if cmd.ItemID == "" {
		return nil, errors.ValidationError{Field: "itemId", Message: "item id is required"}
	}

	metadata := mergeMetadata(cmd.Metadata, map[string]any{"itemId": cmd.ItemID})
	return runTransferFlow(
		ctx, uc.resolver, uc.engine,
		userToSystem, entities.SystemRevenue,
		cmd.UserID, cmd.AssetCode, cmd.Amount, cmd.IdempotencyKey,
		entities.TransactionTypeSpend,
		"purchase: "+cmd.ItemID,
		metadata,
	)
}
