package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
	"github.com/playforge/gamewallet/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateAssetTypeUseCase provisions a currency definition.
type CreateAssetTypeUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateAssetTypeCommand) (*dtos.AssetTypeDTO, error)
}

// ListAssetTypesUseCase lists currency definitions.
type ListAssetTypesUseCase interface {
	Execute(ctx context.Context) ([]dtos.AssetTypeDTO, error)
}

// CreateAccountUseCase provisions a wallet.
type CreateAccountUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateAccountCommand) (*dtos.AccountDTO, error)
}

// ListAccountsUseCase lists wallets.
type ListAccountsUseCase interface {
	Execute(ctx context.Context, q dtos.ListAccountsQuery) ([]dtos.AccountDTO, error)
}

// ListTransactionsUseCase lists money-movement records.
type ListTransactionsUseCase interface {
	Execute(ctx context.Context, q dtos.ListTransactionsQuery) ([]dtos.TransactionDTO, error)
}

// SystemBalancesUseCase snapshots system account balances.
type SystemBalancesUseCase interface {
	Execute(ctx context.Context) ([]dtos.SystemBalanceDTO, error)
}

// ============================================
// Admin Handler
// ============================================

// AdminHandler serves the administrative endpoints.
type AdminHandler struct {
	createAssetType  CreateAssetTypeUseCase
	listAssetTypes   ListAssetTypesUseCase
	createAccount    CreateAccountUseCase
	listAccounts     ListAccountsUseCase
	listTransactions ListTransactionsUseCase
	systemBalances   SystemBalancesUseCase
}

// NewAdminHandler creates the handler.
func NewAdminHandler(
	createAssetType CreateAssetTypeUseCase,
	listAssetTypes ListAssetTypesUseCase,
	createAccount CreateAccountUseCase,
	listAccounts ListAccountsUseCase,
	listTransactions ListTransactionsUseCase,
	systemBalances SystemBalancesUseCase,
) *AdminHandler {
	return &AdminHandler{
		createAssetType:  createAssetType,
		listAssetTypes:   listAssetTypes,
		createAccount:    createAccount,
		listAccounts:     listAccounts,
		listTransactions: listTransactions,
		systemBalances:   systemBalances,
	}
}

// ============================================
// Request DTOs
// ============================================

// CreateAssetTypeRequest is the body of POST /api/admin/asset-types.
type CreateAssetTypeRequest struct {
	Code          string `json:"code" binding:"required,asset_code"`
	Name          string `json:"name" binding:"required,min=1,max=128"`
	Description   string `json:"description"`
	DecimalPlaces int32  `json:"decimalPlaces" binding:"min=0,max=8"`
}

// CreateAccountRequest is the body of POST /api/admin/accounts.
type CreateAccountRequest struct {
	UserID      string         `json:"userId" binding:"required"`
	AccountType string         `json:"accountType" binding:"omitempty,oneof=user system"`
	AssetCode   string         `json:"assetCode" binding:"required,asset_code"`
	DisplayName string         `json:"displayName"`
	Metadata    map[string]any `json:"metadata"`
}

// ============================================
// Handlers
// ============================================

// CreateAssetType handles POST /api/admin/asset-types.
func (h *AdminHandler) CreateAssetType(c *gin.Context) {
	var req CreateAssetTypeRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.createAssetType.Execute(c.Request.Context(), dtos.CreateAssetTypeCommand{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		DecimalPlaces: req.DecimalPlaces,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, result)
}

// ListAssetTypes handles GET /api/admin/asset-types.
func (h *AdminHandler) ListAssetTypes(c *gin.Context) {
	result, err := h.listAssetTypes.Execute(c.Request.Context())
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}

// CreateAccount handles POST /api/admin/accounts.
func (h *AdminHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.createAccount.Execute(c.Request.Context(), dtos.CreateAccountCommand{
		UserID:      req.UserID,
		AccountType: req.AccountType,
		AssetCode:   req.AssetCode,
		DisplayName: req.DisplayName,
		Metadata:    req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, result)
}

// ListAccounts handles GET /api/admin/accounts.
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.listAccounts.Execute(c.Request.Context(), dtos.ListAccountsQuery{
		UserID:      c.Query("userId"),
		AccountType: c.Query("accountType"),
		AssetCode:   c.Query("assetCode"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}

// ListTransactions handles GET /api/admin/transactions.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.listTransactions.Execute(c.Request.Context(), dtos.ListTransactionsQuery{
		AccountID: c.Query("accountId"),
		AssetCode: c.Query("assetCode"),
		Type:      c.Query("type"),
		Status:    c.Query("status"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}

// SystemBalances handles GET /api/admin/system-balances.
func (h *AdminHandler) SystemBalances(c *gin.Context) {
	result, err := h.systemBalances.Execute(c.Request.Context())
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}
