package wallet

import (
	"context"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
)

// TopUpUseCase funds a user wallet from SYSTEM_TREASURY.
type TopUpUseCase struct {
	resolver *resolver.Resolver
	engine   *engine.Engine
}

// NewTopUpUseCase creates the use case.
func NewTopUpUseCase(res *resolver.Resolver, eng *engine.Engine) *TopUpUseCase {
	return &TopUpUseCase{resolver: res, engine: eng}
}

// Execute runs the top-up flow.
func (uc *TopUpUseCase) Execute(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransferOutcomeDTO, error) {
	return runTransferFlow(
		ctx, uc.resolver, uc.engine,
		systemToUser, entities.SystemTreasury,
		cmd.UserID, cmd.AssetCode, cmd.Amount, cmd.IdempotencyKey,
		entities.TransactionTypeTopup,
		"wallet top-up",
		cmd.Metadata,
	)
}
