package dtos

import (
	"time"

	"github.com/playforge/gamewallet/internal/domain/entities"
)

// MapTransactionToDTO converts a Transaction entity.
func MapTransactionToDTO(tx *entities.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:             tx.ID().String(),
		IdempotencyKey: tx.IdempotencyKey(),
		AssetTypeID:    tx.AssetTypeID().String(),
		FromAccountID:  tx.FromAccountID().String(),
		ToAccountID:    tx.ToAccountID().String(),
		Amount:         tx.Amount().String(),
		Type:           string(tx.Type()),
		Status:         string(tx.Status()),
		Description:    tx.Description(),
		Metadata:       tx.Metadata(),
		FailureReason:  tx.FailureReason(),
		CreatedAt:      tx.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	for _, id := range tx.LedgerEntryIDs() {
		dto.LedgerEntryIDs = append(dto.LedgerEntryIDs, id.String())
	}
	if at := tx.CompletedAt(); at != nil {
		dto.CompletedAt = at.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

// MapAssetTypeToDTO converts an AssetType entity.
func MapAssetTypeToDTO(at *entities.AssetType) AssetTypeDTO {
	return AssetTypeDTO{
		ID:            at.ID().String(),
		Code:          at.Code(),
		Name:          at.Name(),
		Description:   at.Description(),
		DecimalPlaces: at.DecimalPlaces(),
		IsActive:      at.IsActive(),
		CreatedAt:     at.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// MapAccountToDTO converts an Account entity.
func MapAccountToDTO(a *entities.Account) AccountDTO {
	return AccountDTO{
		ID:          a.ID().String(),
		UserID:      a.UserID(),
		AccountType: string(a.AccountType()),
		AssetTypeID: a.AssetTypeID().String(),
		Balance:     a.Balance().String(),
		DisplayName: a.DisplayName(),
		Metadata:    a.Metadata(),
		IsActive:    a.IsActive(),
		CreatedAt:   a.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// MapLedgerEntryToHistoryItem converts a ledger entry plus its owning
// transaction (may be nil when the join misses) into one history row.
func MapLedgerEntryToHistoryItem(e *entities.LedgerEntry, tx *entities.Transaction) HistoryItemDTO {
	item := HistoryItemDTO{
		EntryID:       e.ID().String(),
		TransactionID: e.TransactionID().String(),
		EntryType:     string(e.EntryType()),
		Amount:        e.Amount().String(),
		BalanceAfter:  e.BalanceAfter().String(),
		CreatedAt:     e.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	if tx != nil {
		item.Type = string(tx.Type())
		item.Description = tx.Description()
		item.Status = string(tx.Status())
		item.Metadata = tx.Metadata()
	}
	return item
}
