package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// clampPaging normalizes page/limit into an offset/limit pair.
func clampPaging(page, limit int) (offset, clamped int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return (page - 1) * limit, limit
}

// ListAssetTypesUseCase lists all currency definitions.
type ListAssetTypesUseCase struct {
	assetTypes ports.AssetTypeRepository
}

// NewListAssetTypesUseCase creates the use case.
func NewListAssetTypesUseCase(assetTypes ports.AssetTypeRepository) *ListAssetTypesUseCase {
	return &ListAssetTypesUseCase{assetTypes: assetTypes}
}

// Execute returns all asset types ordered by code.
func (uc *ListAssetTypesUseCase) Execute(ctx context.Context) ([]dtos.AssetTypeDTO, error) {
	list, err := uc.assetTypes.List(ctx)
	if err != nil {
		return nil, errors.NewStoreError("assetType.list", err)
	}
	out := make([]dtos.AssetTypeDTO, 0, len(list))
	for _, at := range list {
		out = append(out, dtos.MapAssetTypeToDTO(at))
	}
	return out, nil
}

// ListAccountsUseCase lists wallets with filters.
type ListAccountsUseCase struct {
	resolver *resolver.Resolver
	accounts ports.AccountRepository
}

// NewListAccountsUseCase creates the use case.
func NewListAccountsUseCase(res *resolver.Resolver, accounts ports.AccountRepository) *ListAccountsUseCase {
	return &ListAccountsUseCase{resolver: res, accounts: accounts}
}

// Execute returns accounts matching the query, newest first.
func (uc *ListAccountsUseCase) Execute(ctx context.Context, q dtos.ListAccountsQuery) ([]dtos.AccountDTO, error) {
	var filter ports.AccountFilter
	if q.UserID != "" {
		filter.UserID = &q.UserID
	}
	if q.AccountType != "" {
		at := entities.AccountType(q.AccountType)
		if !at.IsValid() {
			return nil, errors.ValidationError{Field: "accountType", Message: "account type must be user or system"}
		}
		filter.AccountType = &at
	}
	if q.AssetCode != "" {
		asset, err := uc.resolver.ResolveAssetType(ctx, q.AssetCode)
		if err != nil {
			return nil, err
		}
		id := asset.ID()
		filter.AssetTypeID = &id
	}

	offset, limit := clampPaging(q.Page, q.Limit)
	list, err := uc.accounts.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, errors.NewStoreError("account.list", err)
	}
	out := make([]dtos.AccountDTO, 0, len(list))
	for _, a := range list {
		out = append(out, dtos.MapAccountToDTO(a))
	}
	return out, nil
}

// ListTransactionsUseCase lists money-movement records with filters.
type ListTransactionsUseCase struct {
	resolver     *resolver.Resolver
	transactions ports.TransactionRepository
}

// NewListTransactionsUseCase creates the use case.
func NewListTransactionsUseCase(res *resolver.Resolver, transactions ports.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{resolver: res, transactions: transactions}
}

// Execute returns transactions matching the query, newest first.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, q dtos.ListTransactionsQuery) ([]dtos.TransactionDTO, error) {
	var filter ports.TransactionFilter
	if q.AccountID != "" {
		id, err := uuid.Parse(q.AccountID)
		if err != nil {
			return nil, errors.ValidationError{Field: "accountId", Message: "invalid account id"}
		}
		filter.AccountID = &id
	}
	if q.AssetCode != "" {
		asset, err := uc.resolver.ResolveAssetType(ctx, q.AssetCode)
		if err != nil {
			return nil, err
		}
		id := asset.ID()
		filter.AssetTypeID = &id
	}
	if q.Type != "" {
		tt := entities.TransactionType(q.Type)
		if !tt.IsValid() {
			return nil, errors.ValidationError{Field: "type", Message: "invalid transaction type"}
		}
		filter.Type = &tt
	}
	if q.Status != "" {
		st := entities.TransactionStatus(q.Status)
		if !st.IsValid() {
			return nil, errors.ValidationError{Field: "status", Message: "invalid transaction status"}
		}
		filter.Status = &st
	}

	offset, limit := clampPaging(q.Page, q.Limit)
	list, err := uc.transactions.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, errors.NewStoreError("transaction.list", err)
	}
	out := make([]dtos.TransactionDTO, 0, len(list))
	for _, tx := range list {
		out = append(out, dtos.MapTransactionToDTO(tx))
	}
	return out, nil
}
