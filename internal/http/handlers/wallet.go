package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leaseledger/leaseledger-backend/internal/http/response"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/ctxutil"
	"github.com/leaseledger/leaseledger-backend/internal/services"
)

type WalletHandler struct {
	wallet services.WalletService
}

func NewWalletHandler(wallet services.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// Get returns the caller's escrow-held balance and ledger history.
func (h *WalletHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}

	balance, err := h.wallet.GetBalance(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	entries, err := h.wallet.ListEntries(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	response.RespondOK(c, gin.H{
		"balance": balance,
		"entries": entries,
	})
}
