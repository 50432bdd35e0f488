package admin

import (
	"context"
	"fmt"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// CreateAccountUseCase provisions a wallet for a user or a system account.
type CreateAccountUseCase struct {
	resolver *resolver.Resolver
	accounts ports.AccountRepository
}

// NewCreateAccountUseCase creates the use case.
func NewCreateAccountUseCase(res *resolver.Resolver, accounts ports.AccountRepository) *CreateAccountUseCase {
	return &CreateAccountUseCase{resolver: res, accounts: accounts}
}

// Execute creates the account. A second wallet for the same
// (userId, assetType) fails with ErrAlreadyExists.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, cmd dtos.CreateAccountCommand) (*dtos.AccountDTO, error) {
	asset, err := uc.resolver.ResolveAssetType(ctx, cmd.AssetCode)
	if err != nil {
		return nil, err
	}

	accountType := entities.AccountType(cmd.AccountType)
	if cmd.AccountType == "" {
		accountType = entities.AccountTypeUser
	}

	account, err := entities.NewAccount(cmd.UserID, accountType, asset.ID(), cmd.DisplayName, cmd.Metadata)
	if err != nil {
		return nil, err
	}

	if err := uc.accounts.Create(ctx, account); err != nil {
		if errors.IsConflict(err) {
			return nil, fmt.Errorf("%w: wallet for user %s and asset %s",
				errors.ErrAlreadyExists, cmd.UserID, asset.Code())
		}
		return nil, errors.NewStoreError("account.create", err)
	}

	dto := dtos.MapAccountToDTO(account)
	return &dto, nil
}
