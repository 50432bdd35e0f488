package dtos

// TransactionDTO is the external representation of a money-movement record.
type TransactionDTO struct {
	ID             string         `json:"id"`
	IdempotencyKey string         `json:"idempotencyKey"`
	AssetTypeID    string         `json:"assetTypeId"`
	FromAccountID  string         `json:"fromAccountId"`
	ToAccountID    string         `json:"toAccountId"`
	Amount         string         `json:"amount"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	FailureReason  string         `json:"failureReason,omitempty"`
	LedgerEntryIDs []string       `json:"ledgerEntryIds,omitempty"`
	CreatedAt      string         `json:"createdAt"`
	CompletedAt    string         `json:"completedAt,omitempty"`
}

// AssetTypeDTO is the external representation of a currency definition.
type AssetTypeDTO struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	IsActive      bool   `json:"isActive"`
	CreatedAt     string `json:"createdAt"`
}

// AccountDTO is the external representation of a wallet.
type AccountDTO struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	AccountType string         `json:"accountType"`
	AssetTypeID string         `json:"assetTypeId"`
	Balance     string         `json:"balance"`
	DisplayName string         `json:"displayName,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   string         `json:"createdAt"`
}

// SystemBalanceDTO is one row of the system balances snapshot.
type SystemBalanceDTO struct {
	SystemAccount string `json:"systemAccount"`
	AssetCode     string `json:"assetCode"`
	Balance       string `json:"balance"`
}

// CreateAssetTypeCommand creates a currency definition (admin surface).
type CreateAssetTypeCommand struct {
	Code          string
	Name          string
	Description   string
	DecimalPlaces int32
}

// CreateAccountCommand creates a user or system wallet (admin surface).
type CreateAccountCommand struct {
	UserID      string
	AccountType string
	AssetCode   string
	DisplayName string
	Metadata    map[string]any
}

// ListTransactionsQuery filters the admin transaction listing.
type ListTransactionsQuery struct {
	AccountID string
	AssetCode string
	Type      string
	Status    string
	Page      int
	Limit     int
}

// ListAccountsQuery filters the admin account listing.
type ListAccountsQuery struct {
	UserID      string
	AccountType string
	AssetCode   string
	Page        int
	Limit       int
}
