package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
	"github.com/playforge/gamewallet/internal/adapters/http/middleware"
	"github.com/playforge/gamewallet/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// TopUpUseCase funds a user wallet from the treasury.
type TopUpUseCase interface {
	Execute(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransferOutcomeDTO, error)
}

// BonusUseCase grants a bonus from the bonus pool.
type BonusUseCase interface {
	Execute(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransferOutcomeDTO, error)
}

// SpendUseCase moves funds from a user wallet to revenue.
type SpendUseCase interface {
	Execute(ctx context.Context, cmd dtos.SpendCommand) (*dtos.TransferOutcomeDTO, error)
}

// GetBalanceUseCase reads a wallet balance.
type GetBalanceUseCase interface {
	Execute(ctx context.Context, q dtos.GetBalanceQuery) (*dtos.BalanceDTO, error)
}

// GetHistoryUseCase pages through a wallet's ledger history.
type GetHistoryUseCase interface {
	Execute(ctx context.Context, q dtos.GetHistoryQuery) (*dtos.HistoryDTO, error)
}

// VerifyLedgerUseCase audits one wallet's ledger consistency.
type VerifyLedgerUseCase interface {
	Execute(ctx context.Context, q dtos.VerifyLedgerQuery) (*dtos.VerificationDTO, error)
}

// ============================================
// Wallet Handler
// ============================================

// WalletHandler serves the wallet-facing endpoints.
type WalletHandler struct {
	topUp      TopUpUseCase
	bonus      BonusUseCase
	spend      SpendUseCase
	getBalance GetBalanceUseCase
	getHistory GetHistoryUseCase
	verify     VerifyLedgerUseCase
}

// NewWalletHandler creates the handler.
func NewWalletHandler(
	topUp TopUpUseCase,
	bonus BonusUseCase,
	spend SpendUseCase,
	getBalance GetBalanceUseCase,
	getHistory GetHistoryUseCase,
	verify VerifyLedgerUseCase,
) *WalletHandler {
	return &WalletHandler{
		topUp:      topUp,
		bonus:      bonus,
		spend:      spend,
		getBalance: getBalance,
		getHistory: getHistory,
		verify:     verify,
	}
}

// ============================================
// Request DTOs
// ============================================

// IdempotencyKeyHeader is the alternative transport for the key.
const IdempotencyKeyHeader = "idempotency-key"

// TopUpRequest is the body of POST /api/wallets/topup.
type TopUpRequest struct {
	UserID         string         `json:"userId" binding:"required"`
	AssetCode      string         `json:"assetCode" binding:"required,asset_code"`
	Amount         string         `json:"amount" binding:"required,money_amount"`
	IdempotencyKey string         `json:"idempotencyKey"`
	Metadata       map[string]any `json:"metadata"`
}

// BonusRequest adds the reason tag.
type BonusRequest struct {
	TopUpRequest
	Reason string `json:"reason" binding:"required"`
}

// SpendRequest adds the purchased item id.
type SpendRequest struct {
	TopUpRequest
	ItemID string `json:"itemId" binding:"required"`
}

// resolveIdempotencyKey takes the key from the header or the body, trims it
// and enforces the minimum length. Empty string means rejection was already
// written.
func resolveIdempotencyKey(c *gin.Context, bodyKey string) (string, bool) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" {
		key = strings.TrimSpace(bodyKey)
	}
	if key == "" {
		common.Fail(c, http.StatusBadRequest, "idempotency key is required (header idempotency-key or body idempotencyKey)")
		return "", false
	}
	if len(key) < 8 {
		common.Fail(c, http.StatusBadRequest, "idempotency key must be at least 8 characters")
		return "", false
	}
	return key, true
}

// recordTransferMetrics feeds the business counters after a write flow.
func recordTransferMetrics(outcome *dtos.TransferOutcomeDTO, assetCode string) {
	middleware.TransfersTotal.WithLabelValues(
		outcome.Transaction.Type, outcome.Transaction.Status, assetCode,
	).Inc()
	if outcome.IsReplay {
		middleware.IdempotentReplaysTotal.Inc()
	}
}

// ============================================
// Write Endpoints
// ============================================

// TopUp handles POST /api/wallets/topup.
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if !BindJSON(c, &req) {
		return
	}
	key, ok := resolveIdempotencyKey(c, req.IdempotencyKey)
	if !ok {
		return
	}

	outcome, err := h.topUp.Execute(c.Request.Context(), dtos.TopUpCommand{
		UserID:         req.UserID,
		AssetCode:      req.AssetCode,
		Amount:         req.Amount,
		IdempotencyKey: key,
		Metadata:       req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	recordTransferMetrics(outcome, req.AssetCode)
	common.SuccessWithReplay(c, outcome, outcome.IsReplay)
}

// Bonus handles POST /api/wallets/bonus.
func (h *WalletHandler) Bonus(c *gin.Context) {
	var req BonusRequest
	if !BindJSON(c, &req) {
		return
	}
	key, ok := resolveIdempotencyKey(c, req.IdempotencyKey)
	if !ok {
		return
	}

	outcome, err := h.bonus.Execute(c.Request.Context(), dtos.BonusCommand{
		UserID:         req.UserID,
		AssetCode:      req.AssetCode,
		Amount:         req.Amount,
		IdempotencyKey: key,
		Reason:         req.Reason,
		Metadata:       req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	recordTransferMetrics(outcome, req.AssetCode)
	common.SuccessWithReplay(c, outcome, outcome.IsReplay)
}

// Spend handles POST /api/wallets/spend.
func (h *WalletHandler) Spend(c *gin.Context) {
	var req SpendRequest
	if !BindJSON(c, &req) {
		return
	}
	key, ok := resolveIdempotencyKey(c, req.IdempotencyKey)
	if !ok {
		return
	}

	outcome, err := h.spend.Execute(c.Request.Context(), dtos.SpendCommand{
		UserID:         req.UserID,
		AssetCode:      req.AssetCode,
		Amount:         req.Amount,
		IdempotencyKey: key,
		ItemID:         req.ItemID,
		Metadata:       req.Metadata,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	recordTransferMetrics(outcome, req.AssetCode)
	common.SuccessWithReplay(c, outcome, outcome.IsReplay)
}

// ============================================
// Read Endpoints
// ============================================

// GetBalance handles GET /api/wallets/:userId/balance/:assetCode.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	result, err := h.getBalance.Execute(c.Request.Context(), dtos.GetBalanceQuery{
		UserID:    c.Param("userId"),
		AssetCode: c.Param("assetCode"),
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}

// GetHistory handles GET /api/wallets/:userId/history/:assetCode.
func (h *WalletHandler) GetHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.getHistory.Execute(c.Request.Context(), dtos.GetHistoryQuery{
		UserID:    c.Param("userId"),
		AssetCode: c.Param("assetCode"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}

// Verify handles GET /api/wallets/:userId/verify/:assetCode.
func (h *WalletHandler) Verify(c *gin.Context) {
	result, err := h.verify.Execute(c.Request.Context(), dtos.VerifyLedgerQuery{
		UserID:    c.Param("userId"),
		AssetCode: c.Param("assetCode"),
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	common.Success(c, http.StatusOK, result)
}
