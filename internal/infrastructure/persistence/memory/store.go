// Package memory implements the Store contract on mutex-guarded maps.
//
// It honors the same two guarantees the engine relies on from any backend:
// per-document atomicity (every mutation runs under the store lock) and the
// unique-key constraints (asset code, user+asset wallet, idempotency key).
// Used by unit and concurrency tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// Store is the in-memory Store implementation.
type Store struct {
	mu sync.Mutex

	assetTypes      map[uuid.UUID]*entities.AssetType
	assetTypeByCode map[string]uuid.UUID

	accounts       map[uuid.UUID]*entities.Account
	accountByOwner map[string]uuid.UUID // userID|assetTypeID

	transactions     map[uuid.UUID]*entities.Transaction
	transactionByKey map[string]uuid.UUID // idempotencyKey|assetTypeID

	entries  []*entities.LedgerEntry
	entrySeq map[uuid.UUID]int // entry id -> insertion sequence
	nextSeq  int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		assetTypes:       make(map[uuid.UUID]*entities.AssetType),
		assetTypeByCode:  make(map[string]uuid.UUID),
		accounts:         make(map[uuid.UUID]*entities.Account),
		accountByOwner:   make(map[string]uuid.UUID),
		transactions:     make(map[uuid.UUID]*entities.Transaction),
		transactionByKey: make(map[string]uuid.UUID),
		entrySeq:         make(map[uuid.UUID]int),
	}
}

// Compile-time checks.
var (
	_ ports.Store                 = (*Store)(nil)
	_ ports.AssetTypeRepository   = (*assetTypeRepo)(nil)
	_ ports.AccountRepository     = (*accountRepo)(nil)
	_ ports.TransactionRepository = (*transactionRepo)(nil)
	_ ports.LedgerEntryRepository = (*ledgerRepo)(nil)
)

// AssetTypes implements ports.Store.
func (s *Store) AssetTypes() ports.AssetTypeRepository { return &assetTypeRepo{s} }

// Accounts implements ports.Store.
func (s *Store) Accounts() ports.AccountRepository { return &accountRepo{s} }

// Transactions implements ports.Store.
func (s *Store) Transactions() ports.TransactionRepository { return &transactionRepo{s} }

// LedgerEntries implements ports.Store.
func (s *Store) LedgerEntries() ports.LedgerEntryRepository { return &ledgerRepo{s} }

func ownerKey(userID string, assetTypeID uuid.UUID) string {
	return userID + "|" + assetTypeID.String()
}

func idemKey(key string, assetTypeID uuid.UUID) string {
	return key + "|" + assetTypeID.String()
}

// copyAccount clones an account so callers never share the stored document.
func copyAccount(a *entities.Account) *entities.Account {
	meta := make(map[string]any, len(a.Metadata()))
	for k, v := range a.Metadata() {
		meta[k] = v
	}
	return entities.ReconstructAccount(
		a.ID(), a.UserID(), a.AccountType(), a.AssetTypeID(),
		a.Balance(), a.DisplayName(), meta, a.IsActive(),
		a.CreatedAt(), a.UpdatedAt(),
	)
}

// copyTransaction clones a transaction.
func copyTransaction(t *entities.Transaction) *entities.Transaction {
	meta := make(map[string]any, len(t.Metadata()))
	for k, v := range t.Metadata() {
		meta[k] = v
	}
	ids := append([]uuid.UUID(nil), t.LedgerEntryIDs()...)
	return entities.ReconstructTransaction(
		t.ID(), t.IdempotencyKey(), t.AssetTypeID(),
		t.FromAccountID(), t.ToAccountID(),
		t.Amount(), t.Type(), t.Status(),
		t.Description(), meta, t.FailureReason(), ids,
		t.CreatedAt(), t.UpdatedAt(), t.CompletedAt(),
	)
}

// ---------------------------------------------------------------------------
// AssetTypeRepository

type assetTypeRepo struct{ s *Store }

func (r *assetTypeRepo) Create(_ context.Context, at *entities.AssetType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.assetTypeByCode[at.Code()]; taken {
		return fmt.Errorf("%w: asset code %s", errors.ErrAlreadyExists, at.Code())
	}
	r.s.assetTypes[at.ID()] = at
	r.s.assetTypeByCode[at.Code()] = at.ID()
	return nil
}

func (r *assetTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.AssetType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	at, ok := r.s.assetTypes[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return at, nil
}

func (r *assetTypeRepo) FindByCode(_ context.Context, code string) (*entities.AssetType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.assetTypeByCode[entities.NormalizeAssetCode(code)]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return r.s.assetTypes[id], nil
}

func (r *assetTypeRepo) List(_ context.Context) ([]*entities.AssetType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entities.AssetType, 0, len(r.s.assetTypes))
	for _, at := range r.s.assetTypes {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, nil
}

// ---------------------------------------------------------------------------
// AccountRepository

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(_ context.Context, a *entities.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := ownerKey(a.UserID(), a.AssetTypeID())
	if _, taken := r.s.accountByOwner[key]; taken {
		return fmt.Errorf("%w: wallet %s", errors.ErrAlreadyExists, key)
	}
	r.s.accounts[a.ID()] = copyAccount(a)
	r.s.accountByOwner[key] = a.ID()
	return nil
}

func (r *accountRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyAccount(a), nil
}

func (r *accountRepo) FindByUserAndAsset(_ context.Context, userID string, assetTypeID uuid.UUID) (*entities.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.accountByOwner[ownerKey(userID, assetTypeID)]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyAccount(r.s.accounts[id]), nil
}

// DebitIfSufficient checks the predicate and applies the mutation as one
// atomic step under the store lock.
func (r *accountRepo) DebitIfSufficient(_ context.Context, id uuid.UUID, amount valueobjects.Amount) (valueobjects.Amount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return valueobjects.ZeroAmount(), errors.ErrNotFound
	}
	if !a.IsActive() || a.Balance().Cmp(amount) < 0 {
		return valueobjects.ZeroAmount(), errors.ErrInsufficientBalance
	}

	newBalance, err := a.Balance().Sub(amount)
	if err != nil {
		return valueobjects.ZeroAmount(), err
	}
	r.s.accounts[id] = entities.ReconstructAccount(
		a.ID(), a.UserID(), a.AccountType(), a.AssetTypeID(),
		newBalance, a.DisplayName(), a.Metadata(), a.IsActive(),
		a.CreatedAt(), a.UpdatedAt(),
	)
	return newBalance, nil
}

// Credit applies balance += amount for an active account.
func (r *accountRepo) Credit(_ context.Context, id uuid.UUID, amount valueobjects.Amount) (valueobjects.Amount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok || !a.IsActive() {
		return valueobjects.ZeroAmount(), errors.ErrWalletInactive
	}

	newBalance := a.Balance().Add(amount)
	r.s.accounts[id] = entities.ReconstructAccount(
		a.ID(), a.UserID(), a.AccountType(), a.AssetTypeID(),
		newBalance, a.DisplayName(), a.Metadata(), a.IsActive(),
		a.CreatedAt(), a.UpdatedAt(),
	)
	return newBalance, nil
}

func (r *accountRepo) List(_ context.Context, filter ports.AccountFilter, offset, limit int) ([]*entities.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := make([]*entities.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		if filter.UserID != nil && a.UserID() != *filter.UserID {
			continue
		}
		if filter.AccountType != nil && a.AccountType() != *filter.AccountType {
			continue
		}
		if filter.AssetTypeID != nil && a.AssetTypeID() != *filter.AssetTypeID {
			continue
		}
		matched = append(matched, copyAccount(a))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt().Equal(matched[j].CreatedAt()) {
			return matched[i].CreatedAt().After(matched[j].CreatedAt())
		}
		return matched[i].ID().String() < matched[j].ID().String()
	})
	return paginate(matched, offset, limit), nil
}

// ---------------------------------------------------------------------------
// TransactionRepository

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Insert(_ context.Context, tx *entities.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := idemKey(tx.IdempotencyKey(), tx.AssetTypeID())
	if _, taken := r.s.transactionByKey[key]; taken {
		return fmt.Errorf("%w: idempotency key %s", errors.ErrDuplicateKey, tx.IdempotencyKey())
	}
	r.s.transactions[tx.ID()] = copyTransaction(tx)
	r.s.transactionByKey[key] = tx.ID()
	return nil
}

func (r *transactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyTransaction(tx), nil
}

func (r *transactionRepo) FindByIdempotencyKey(_ context.Context, key string, assetTypeID uuid.UUID) (*entities.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.transactionByKey[idemKey(key, assetTypeID)]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyTransaction(r.s.transactions[id]), nil
}

func (r *transactionRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[uuid.UUID]*entities.Transaction, len(ids))
	for _, id := range ids {
		if tx, ok := r.s.transactions[id]; ok {
			out[id] = copyTransaction(tx)
		}
	}
	return out, nil
}

func (r *transactionRepo) Update(_ context.Context, tx *entities.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.transactions[tx.ID()]; !ok {
		return errors.ErrNotFound
	}
	r.s.transactions[tx.ID()] = copyTransaction(tx)
	return nil
}

func (r *transactionRepo) List(_ context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := make([]*entities.Transaction, 0, len(r.s.transactions))
	for _, tx := range r.s.transactions {
		if filter.AccountID != nil && tx.FromAccountID() != *filter.AccountID && tx.ToAccountID() != *filter.AccountID {
			continue
		}
		if filter.AssetTypeID != nil && tx.AssetTypeID() != *filter.AssetTypeID {
			continue
		}
		if filter.Type != nil && tx.Type() != *filter.Type {
			continue
		}
		if filter.Status != nil && tx.Status() != *filter.Status {
			continue
		}
		matched = append(matched, copyTransaction(tx))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt().Equal(matched[j].CreatedAt()) {
			return matched[i].CreatedAt().After(matched[j].CreatedAt())
		}
		return matched[i].ID().String() < matched[j].ID().String()
	})
	return paginate(matched, offset, limit), nil
}

// ---------------------------------------------------------------------------
// LedgerEntryRepository

type ledgerRepo struct{ s *Store }

func (r *ledgerRepo) Insert(_ context.Context, e *entities.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Append-only: an id is written at most once.
	if _, seen := r.s.entrySeq[e.ID()]; seen {
		return fmt.Errorf("%w: ledger entry %s", errors.ErrAlreadyExists, e.ID())
	}
	r.s.entries = append(r.s.entries, e)
	r.s.entrySeq[e.ID()] = r.s.nextSeq
	r.s.nextSeq++
	return nil
}

func (r *ledgerRepo) ListByAccount(_ context.Context, accountID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := make([]*entities.LedgerEntry, 0)
	for _, e := range r.s.entries {
		if e.AccountID() == accountID {
			matched = append(matched, e)
		}
	}
	// Most recent first by insertion sequence.
	sort.Slice(matched, func(i, j int) bool {
		return r.s.entrySeq[matched[i].ID()] > r.s.entrySeq[matched[j].ID()]
	})
	return paginate(matched, offset, limit), nil
}

func (r *ledgerRepo) CountByAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, e := range r.s.entries {
		if e.AccountID() == accountID {
			n++
		}
	}
	return n, nil
}

func (r *ledgerRepo) FindByTransaction(_ context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := make([]*entities.LedgerEntry, 0, 2)
	for _, e := range r.s.entries {
		if e.TransactionID() == transactionID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (r *ledgerRepo) SumByAccount(_ context.Context, accountID uuid.UUID) (credits, debits valueobjects.Amount, err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	credits, debits = valueobjects.ZeroAmount(), valueobjects.ZeroAmount()
	for _, e := range r.s.entries {
		if e.AccountID() != accountID {
			continue
		}
		if e.EntryType() == entities.EntryTypeCredit {
			credits = credits.Add(e.Amount())
		} else {
			debits = debits.Add(e.Amount())
		}
	}
	return credits, debits, nil
}

// paginate applies offset/limit to a sorted slice.
func paginate[T any](in []T, offset, limit int) []T {
	if offset >= len(in) {
		return []T{}
	}
	end := len(in)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return in[offset:end]
}
