package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// MaxHistoryLimit caps a single history page.
const MaxHistoryLimit = 100

// DefaultHistoryLimit is used when the caller does not pass a limit.
const DefaultHistoryLimit = 20

// GetHistoryUseCase pages through a wallet's ledger entries, most recent
// first, each enriched with its owning transaction.
type GetHistoryUseCase struct {
	resolver     *resolver.Resolver
	ledger       ports.LedgerEntryRepository
	transactions ports.TransactionRepository
}

// NewGetHistoryUseCase creates the use case.
func NewGetHistoryUseCase(
	res *resolver.Resolver,
	ledger ports.LedgerEntryRepository,
	transactions ports.TransactionRepository,
) *GetHistoryUseCase {
	return &GetHistoryUseCase{resolver: res, ledger: ledger, transactions: transactions}
}

// Execute runs the history query. Page starts at 1; limit is clamped to
// MaxHistoryLimit.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, q dtos.GetHistoryQuery) (*dtos.HistoryDTO, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	asset, err := uc.resolver.ResolveAssetType(ctx, q.AssetCode)
	if err != nil {
		return nil, err
	}
	account, err := uc.resolver.ResolveUserAccount(ctx, q.UserID, asset.ID())
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	entries, err := uc.ledger.ListByAccount(ctx, account.ID(), offset, limit)
	if err != nil {
		return nil, errors.NewStoreError("ledgerEntry.listByAccount", err)
	}
	total, err := uc.ledger.CountByAccount(ctx, account.ID())
	if err != nil {
		return nil, errors.NewStoreError("ledgerEntry.countByAccount", err)
	}

	txIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		txIDs = append(txIDs, e.TransactionID())
	}
	txByID, err := uc.transactions.FindByIDs(ctx, txIDs)
	if err != nil {
		return nil, errors.NewStoreError("transaction.findByIDs", err)
	}

	items := make([]dtos.HistoryItemDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, dtos.MapLedgerEntryToHistoryItem(e, txByID[e.TransactionID()]))
	}

	return &dtos.HistoryDTO{
		UserID:    q.UserID,
		AssetCode: asset.Code(),
		Page:      page,
		Limit:     limit,
		Total:     total,
		Entries:   items,
	}, nil
}
