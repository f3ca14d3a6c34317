package handler

import (
	"net/http"

	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

// WalletNFTs queries the account the caller's wallet connection selected,
// passed in the X-Wallet-Address header.
func (h *ServiceHandler) WalletNFTs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.QueryWallet(ctx, wallet.FromRequest(r))
	if err != nil {
		h.sendError(ctx, w, "QueryWallet", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, h.presentQuery(resp))
}
