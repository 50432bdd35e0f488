package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

func newTestTransaction(t *testing.T) *Transaction {
	t.Helper()
	tx, err := NewTransaction(
		"key-12345678",
		uuid.New(), uuid.New(), uuid.New(),
		valueobjects.MustAmount("100"),
		TransactionTypeTopup,
		"test",
		nil,
	)
	require.NoError(t, err)
	return tx
}

func TestNewTransactionValidation(t *testing.T) {
	from, to, asset := uuid.New(), uuid.New(), uuid.New()
	amount := valueobjects.MustAmount("10")

	t.Run("short idempotency key", func(t *testing.T) {
		_, err := NewTransaction("short", asset, from, to, amount, TransactionTypeTopup, "", nil)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := NewTransaction("key-12345678", asset, from, to, valueobjects.ZeroAmount(), TransactionTypeTopup, "", nil)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := NewTransaction("key-12345678", asset, from, to, amount, TransactionType("refund"), "", nil)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("same account on both sides", func(t *testing.T) {
		_, err := NewTransaction("key-12345678", asset, from, from, amount, TransactionTypeTopup, "", nil)
		assert.ErrorIs(t, err, errors.ErrInvalidTransfer)
	})

	t.Run("starts pending with empty metadata bag", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.Equal(t, TransactionStatusPending, tx.Status())
		assert.NotNil(t, tx.Metadata())
		assert.Empty(t, tx.LedgerEntryIDs())
	})
}

func TestTransactionStateMachine(t *testing.T) {
	t.Run("pending to completed", func(t *testing.T) {
		tx := newTestTransaction(t)
		debitID, creditID := uuid.New(), uuid.New()

		require.NoError(t, tx.MarkCompleted(debitID, creditID))
		assert.True(t, tx.IsCompleted())
		assert.Equal(t, []uuid.UUID{debitID, creditID}, tx.LedgerEntryIDs())
		assert.NotNil(t, tx.CompletedAt())
	})

	t.Run("pending to failed", func(t *testing.T) {
		tx := newTestTransaction(t)

		require.NoError(t, tx.MarkFailed("insufficient balance"))
		assert.True(t, tx.IsFailed())
		assert.Equal(t, "insufficient balance", tx.FailureReason())
	})

	t.Run("completed is terminal", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.MarkCompleted(uuid.New(), uuid.New()))

		assert.Error(t, tx.MarkFailed("nope"))
		assert.Error(t, tx.MarkCompleted(uuid.New(), uuid.New()))
		assert.True(t, tx.IsCompleted())
	})

	t.Run("failed is terminal", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.MarkFailed("boom"))

		assert.Error(t, tx.MarkCompleted(uuid.New(), uuid.New()))
		assert.True(t, tx.IsFailed())
	})
}

func TestTransactionStatusIsFinal(t *testing.T) {
	assert.False(t, TransactionStatusPending.IsFinal())
	assert.True(t, TransactionStatusCompleted.IsFinal())
	assert.True(t, TransactionStatusFailed.IsFinal())
}
