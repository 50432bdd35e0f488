// Package wallet contains the wallet-facing use cases: the three write flows
// (top-up, bonus, spend) and the read operations (balance, history, ledger
// verification). Each write flow selects the correct source and destination
// for the transfer engine; the engine does the rest.
package wallet

import (
	"context"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// flowDirection selects which side of a transfer is the system account.
type flowDirection int

const (
	systemToUser flowDirection = iota // top-up, bonus
	userToSystem                      // spend
)

// runTransferFlow resolves the asset and both accounts for a named flow and
// delegates to the engine.
func runTransferFlow(
	ctx context.Context,
	res *resolver.Resolver,
	eng *engine.Engine,
	direction flowDirection,
	systemAccount string,
	userID, assetCode, rawAmount, idempotencyKey string,
	txType entities.TransactionType,
	description string,
	metadata map[string]any,
) (*dtos.TransferOutcomeDTO, error) {
	amount, err := valueobjects.NewAmount(rawAmount)
	if err != nil {
		return nil, errors.ValidationError{Field: "amount", Message: err.Error()}
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}

	asset, err := res.ResolveAssetType(ctx, assetCode)
	if err != nil {
		return nil, err
	}

	userAccount, err := res.ResolveUserAccount(ctx, userID, asset.ID())
	if err != nil {
		return nil, err
	}
	sysAccount, err := res.ResolveSystemAccount(ctx, systemAccount, asset.ID())
	if err != nil {
		return nil, err
	}

	params := engine.TransferParams{
		IdempotencyKey: idempotencyKey,
		AssetType:      asset,
		Amount:         amount,
		Type:           txType,
		Description:    description,
		Metadata:       metadata,
	}
	switch direction {
	case systemToUser:
		params.FromAccountID = sysAccount.ID()
		params.ToAccountID = userAccount.ID()
	case userToSystem:
		params.FromAccountID = userAccount.ID()
		params.ToAccountID = sysAccount.ID()
	}

	result, err := eng.ExecuteTransfer(ctx, params)
	if err != nil {
		return nil, err
	}
	return &dtos.TransferOutcomeDTO{
		Transaction: dtos.MapTransactionToDTO(result.Transaction),
		IsReplay:    result.IsReplay,
	}, nil
}

// mergeMetadata copies base and overlays extra keys onto it.
func mergeMetadata(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
