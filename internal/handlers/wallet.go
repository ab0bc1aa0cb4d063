package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/auth"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

type WalletReader interface {
	Get(ctx context.Context, userID string) (*models.Wallet, error)
}

type WalletHandler struct {
	wallets WalletReader
	log     logrus.FieldLogger
}

func NewWalletHandler(wallets WalletReader, log logrus.FieldLogger) *WalletHandler {
	return &WalletHandler{wallets: wallets, log: log}
}

// GetWallet handles GET /api/wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	wallet, err := h.wallets.Get(r.Context(), claims.UserID)
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch wallet")
		writeError(w, http.StatusInternalServerError, "failed to fetch wallet")
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}
