package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// AccountType distinguishes user wallets from named system accounts.
type AccountType string

const (
	AccountTypeUser   AccountType = "user"
	AccountTypeSystem AccountType = "system"
)

// IsValid checks if the account type is valid.
func (t AccountType) IsValid() bool {
	return t == AccountTypeUser || t == AccountTypeSystem
}

// Well-known system account names. System accounts use these as their userId.
const (
	SystemTreasury  = "SYSTEM_TREASURY"
	SystemBonusPool = "SYSTEM_BONUS_POOL"
	SystemRevenue   = "SYSTEM_REVENUE"
)

// SystemAccountNames lists the fixed set of system accounts.
var SystemAccountNames = []string{SystemTreasury, SystemBonusPool, SystemRevenue}

// IsSystemAccountName reports whether name is one of the well-known system
// account names.
func IsSystemAccountName(name string) bool {
	for _, n := range SystemAccountNames {
		if n == name {
			return true
		}
	}
	return false
}

// Account is a wallet: a per-user (or per-system-account) balance slot for
// one asset type.
//
// Invariants:
//   - (userId, assetType) is unique: one wallet per user per currency.
//   - balance never goes negative; the store's conditional update enforces it.
//   - balance equals credits minus debits over completed ledger entries
//     (holds after every completed transfer; /verify audits it).
//
// Lifecycle: created by the admin/seed flow, mutated only through the transfer
// engine's atomic store primitives, never deleted.
type Account struct {
	id          uuid.UUID
	userID      string
	accountType AccountType
	assetTypeID uuid.UUID
	balance     valueobjects.Amount // cached balance, >= 0
	displayName string
	metadata    map[string]any
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewAccount creates a new active account with zero balance.
func NewAccount(userID string, accountType AccountType, assetTypeID uuid.UUID, displayName string, metadata map[string]any) (*Account, error) {
	if userID == "" {
		return nil, errors.ValidationError{Field: "userId", Message: "user id is required"}
	}
	if !accountType.IsValid() {
		return nil, errors.ValidationError{Field: "accountType", Message: "account type must be user or system"}
	}
	if accountType == AccountTypeSystem && !IsSystemAccountName(userID) {
		return nil, errors.ValidationError{
			Field:   "userId",
			Message: "system accounts must use a well-known system account name",
		}
	}
	if assetTypeID == uuid.Nil {
		return nil, errors.ValidationError{Field: "assetTypeId", Message: "asset type id is required"}
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	return &Account{
		id:          uuid.New(),
		userID:      userID,
		accountType: accountType,
		assetTypeID: assetTypeID,
		balance:     valueobjects.ZeroAmount(),
		displayName: displayName,
		metadata:    metadata,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructAccount hydrates an Account from stored data.
func ReconstructAccount(
	id uuid.UUID,
	userID string,
	accountType AccountType,
	assetTypeID uuid.UUID,
	balance valueobjects.Amount,
	displayName string,
	metadata map[string]any,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Account {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Account{
		id:          id,
		userID:      userID,
		accountType: accountType,
		assetTypeID: assetTypeID,
		balance:     balance,
		displayName: displayName,
		metadata:    metadata,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (a *Account) ID() uuid.UUID                { return a.id }
func (a *Account) UserID() string               { return a.userID }
func (a *Account) AccountType() AccountType     { return a.accountType }
func (a *Account) AssetTypeID() uuid.UUID       { return a.assetTypeID }
func (a *Account) Balance() valueobjects.Amount { return a.balance }
func (a *Account) DisplayName() string          { return a.displayName }
func (a *Account) Metadata() map[string]any     { return a.metadata }
func (a *Account) IsActive() bool               { return a.isActive }
func (a *Account) CreatedAt() time.Time         { return a.createdAt }
func (a *Account) UpdatedAt() time.Time         { return a.updatedAt }

// IsSystem reports whether this is a system account.
func (a *Account) IsSystem() bool {
	return a.accountType == AccountTypeSystem
}

// Deactivate disables the account for new transactions.
func (a *Account) Deactivate() {
	a.isActive = false
	a.updatedAt = time.Now()
}
