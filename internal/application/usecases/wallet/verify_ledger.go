package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// consistencyTolerance is the maximum |computed - cached| difference still
// considered consistent.
var consistencyTolerance = decimal.New(1, -6) // 10^-6

// VerifyLedgerUseCase recomputes a wallet balance from its ledger entries and
// compares it against the cached balance. This is the out-of-band audit tool
// operators use after partial failures.
type VerifyLedgerUseCase struct {
	resolver *resolver.Resolver
	ledger   ports.LedgerEntryRepository
}

// NewVerifyLedgerUseCase creates the use case.
func NewVerifyLedgerUseCase(res *resolver.Resolver, ledger ports.LedgerEntryRepository) *VerifyLedgerUseCase {
	return &VerifyLedgerUseCase{resolver: res, ledger: ledger}
}

// Execute runs the audit for one wallet.
func (uc *VerifyLedgerUseCase) Execute(ctx context.Context, q dtos.VerifyLedgerQuery) (*dtos.VerificationDTO, error) {
	asset, err := uc.resolver.ResolveAssetType(ctx, q.AssetCode)
	if err != nil {
		return nil, err
	}
	account, err := uc.resolver.ResolveUserAccount(ctx, q.UserID, asset.ID())
	if err != nil {
		return nil, err
	}

	credits, debits, err := uc.ledger.SumByAccount(ctx, account.ID())
	if err != nil {
		return nil, errors.NewStoreError("ledgerEntry.sumByAccount", err)
	}

	computed := credits.Decimal().Sub(debits.Decimal())
	cached := account.Balance().Decimal()
	diff := computed.Sub(cached).Abs()

	return &dtos.VerificationDTO{
		UserID:          q.UserID,
		AssetCode:       asset.Code(),
		CachedBalance:   cached.String(),
		ComputedBalance: computed.String(),
		IsConsistent:    diff.LessThan(consistencyTolerance),
	}, nil
}
