package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/playforge/gamewallet/internal/domain/errors"
)

func performWithError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleDomainError(c, err)
	return w
}

func TestHandleDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domainErrors.ValidationError{Field: "amount", Message: "bad"}, http.StatusBadRequest},
		{"invalid transfer", domainErrors.ErrInvalidTransfer, http.StatusBadRequest},
		{"asset mismatch", domainErrors.ErrAssetMismatch, http.StatusBadRequest},
		{"amount limit", domainErrors.ErrAmountExceedsLimit, http.StatusBadRequest},
		{"wallet inactive", domainErrors.ErrWalletInactive, http.StatusBadRequest},
		{"asset not found", domainErrors.ErrAssetNotFound, http.StatusNotFound},
		{"wallet not found", fmt.Errorf("%w: user x", domainErrors.ErrWalletNotFound), http.StatusNotFound},
		{"insufficient balance", domainErrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"duplicate", domainErrors.ErrAlreadyExists, http.StatusConflict},
		{"transaction conflict", domainErrors.ErrTransactionConflict, http.StatusConflict},
		{"store error", domainErrors.NewStoreError("x", fmt.Errorf("boom")), http.StatusInternalServerError},
		{"unknown", fmt.Errorf("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(tt.err)
			assert.Equal(t, tt.status, w.Code)

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestInternalErrorsNeverLeakDetails(t *testing.T) {
	w := performWithError(domainErrors.NewStoreError("account.debit", fmt.Errorf("pq: secret dsn")))

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Error, "secret")
}

func TestSuccessWithReplayStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("fresh execution answers 201", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SuccessWithReplay(c, gin.H{"ok": true}, false)
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.IsIdempotentReplay)
		assert.False(t, *resp.IsIdempotentReplay)
	})

	t.Run("replay answers 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SuccessWithReplay(c, gin.H{"ok": true}, true)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.IsIdempotentReplay)
		assert.True(t, *resp.IsIdempotentReplay)
	})
}
