package dtos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

func TestMapTransactionToDTO(t *testing.T) {
	tx, err := entities.NewTransaction(
		"map-key-00001",
		uuid.New(), uuid.New(), uuid.New(),
		valueobjects.MustAmount("12.50"),
		entities.TransactionTypeSpend,
		"purchase: item_x",
		map[string]any{"itemId": "item_x"},
	)
	require.NoError(t, err)

	dto := MapTransactionToDTO(tx)
	assert.Equal(t, tx.ID().String(), dto.ID)
	assert.Equal(t, "12.5", dto.Amount)
	assert.Equal(t, "spend", dto.Type)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "item_x", dto.Metadata["itemId"])
	assert.Empty(t, dto.CompletedAt)
	assert.Empty(t, dto.LedgerEntryIDs)

	debitID, creditID := uuid.New(), uuid.New()
	require.NoError(t, tx.MarkCompleted(debitID, creditID))

	dto = MapTransactionToDTO(tx)
	assert.Equal(t, "completed", dto.Status)
	assert.Equal(t, []string{debitID.String(), creditID.String()}, dto.LedgerEntryIDs)
	assert.NotEmpty(t, dto.CompletedAt)
}

func TestMapLedgerEntryToHistoryItem(t *testing.T) {
	txID, accountID, assetID := uuid.New(), uuid.New(), uuid.New()
	entry, err := entities.NewLedgerEntry(
		txID, accountID, assetID,
		entities.EntryTypeDebit,
		valueobjects.MustAmount("30"), valueobjects.MustAmount("570"),
	)
	require.NoError(t, err)

	t.Run("without transaction join", func(t *testing.T) {
		item := MapLedgerEntryToHistoryItem(entry, nil)
		assert.Equal(t, "debit", item.EntryType)
		assert.Equal(t, "30", item.Amount)
		assert.Equal(t, "570", item.BalanceAfter)
		assert.Empty(t, item.Type)
	})

	t.Run("with transaction join", func(t *testing.T) {
		tx, err := entities.NewTransaction(
			"hist-key-0001", assetID, accountID, uuid.New(),
			valueobjects.MustAmount("30"), entities.TransactionTypeSpend, "purchase", nil,
		)
		require.NoError(t, err)

		item := MapLedgerEntryToHistoryItem(entry, tx)
		assert.Equal(t, "spend", item.Type)
		assert.Equal(t, "purchase", item.Description)
		assert.Equal(t, "pending", item.Status)
	})
}
