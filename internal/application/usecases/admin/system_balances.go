package admin

import (
	"context"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// SystemBalancesUseCase snapshots the balances of the well-known system
// accounts across every asset type.
type SystemBalancesUseCase struct {
	assetTypes ports.AssetTypeRepository
	accounts   ports.AccountRepository
}

// NewSystemBalancesUseCase creates the use case.
func NewSystemBalancesUseCase(assetTypes ports.AssetTypeRepository, accounts ports.AccountRepository) *SystemBalancesUseCase {
	return &SystemBalancesUseCase{assetTypes: assetTypes, accounts: accounts}
}

// Execute returns one row per existing (systemAccount, assetType) wallet.
// System accounts without a wallet for some asset are simply omitted.
func (uc *SystemBalancesUseCase) Execute(ctx context.Context) ([]dtos.SystemBalanceDTO, error) {
	assets, err := uc.assetTypes.List(ctx)
	if err != nil {
		return nil, errors.NewStoreError("assetType.list", err)
	}

	out := make([]dtos.SystemBalanceDTO, 0, len(assets)*len(entities.SystemAccountNames))
	for _, asset := range assets {
		for _, name := range entities.SystemAccountNames {
			account, err := uc.accounts.FindByUserAndAsset(ctx, name, asset.ID())
			if err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return nil, errors.NewStoreError("account.findByUserAndAsset", err)
			}
			out = append(out, dtos.SystemBalanceDTO{
				SystemAccount: name,
				AssetCode:     asset.Code(),
				Balance:       account.Balance().StringFixed(asset.DecimalPlaces()),
			})
		}
	}
	return out, nil
}
