package wallet

import (
	"context"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// BonusUseCase grants a bonus to a user wallet from SYSTEM_BONUS_POOL.
type BonusUseCase struct {
	resolver *resolver.Resolver
	engine   *engine.Engine
}

// NewBonusUseCase creates the use case.
func NewBonusUseCase(res *resolver.Resolver, eng *engine.Engine) *BonusUseCase {
	return &BonusUseCase{resolver: res, engine: eng}
}

// Execute runs the bonus flow. The reason tag is merged into the transaction
// metadata.
func (uc *BonusUseCase) Execute(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransferOutcomeDTO, error) {
	if cmd.Reason == "" {
		return nil, errors.ValidationError{Field: "reason", Message: "bonus reason is required"}
	}

	metadata := mergeMetadata(cmd.Metadata, map[string]any{"reason": cmd.Reason})
	return runTransferFlow(
		ctx, uc.resolver, uc.engine,
		systemToUser, entities.SystemBonusPool,
		cmd.UserID, cmd.AssetCode, cmd.Amount, cmd.IdempotencyKey,
		entities.TransactionTypeBonus,
		"bonus grant: "+cmd.Reason,
		metadata,
	)
}
