package wallet

import (
	"context"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/resolver"
)

// GetBalanceUseCase reads a wallet's cached balance.
type GetBalanceUseCase struct {
	resolver *resolver.Resolver
}

// NewGetBalanceUseCase creates the use case.
func NewGetBalanceUseCase(res *resolver.Resolver) *GetBalanceUseCase {
	return &GetBalanceUseCase{resolver: res}
}

// Execute resolves the wallet and returns its balance formatted at the
// asset's precision.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, q dtos.GetBalanceQuery) (*dtos.BalanceDTO, error) {
	asset, err := uc.resolver.ResolveAssetType(ctx, q.AssetCode)
	if err != nil {
		return nil, err
	}
	account, err := uc.resolver.ResolveUserAccount(ctx, q.UserID, asset.ID())
	if err != nil {
		return nil, err
	}

	return &dtos.BalanceDTO{
		UserID:    q.UserID,
		AssetCode: asset.Code(),
		AssetName: asset.Name(),
		Balance:   account.Balance().StringFixed(asset.DecimalPlaces()),
	}, nil
}
