package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"presale/internal/model"
	"presale/internal/presale"
	"presale/internal/solana"
)

// Handler manages HTTP request handling for the presale API
type Handler struct {
	svc *presale.Service
	sol *solana.Client
}

// NewHandler creates a new Handler instance over the presale service
func NewHandler(svc *presale.Service, sol *solana.Client) *Handler {
	return &Handler{svc: svc, sol: sol}
}

// Pay handles a payment claim for the chain named in the route. Either a
// distribution receipt with a valid signature is returned, or none is;
// partial success is never reported.
func (h *Handler) Pay(c *gin.Context) {
	chainID := c.Param("chain")

	var req model.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   "missing txSignature or buyer",
			Code:    string(model.ClassInput),
		})
		return
	}

	receipt, err := h.svc.ProcessPayment(c.Request.Context(), chainID, req.TxSignature, req.Buyer)
	if err != nil {
		class := model.Classify(err)
		log.Printf("POST /pay/%s error (%s): %v", chainID, class, err)
		c.JSON(model.HTTPStatus(class), model.Response{
			Success: false,
			Error:   err.Error(),
			Code:    string(class),
		})
		return
	}

	c.JSON(http.StatusOK, model.PayResponse{
		Success: true,
		Tokens:  receipt.Tokens,
		Sig:     receipt.Signature,
	})
}

// Stats returns the sale progress derived from the reserve's live balance.
// Intermediaries must not cache it.
func (h *Handler) Stats(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		log.Printf("GET /stats error: %v", err)
		c.JSON(http.StatusInternalServerError, model.Response{
			Success: false,
			Error:   "failed to read sale progress",
		})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, model.StatsResponse{
		Success:   true,
		Target:    snap.Target,
		Sold:      snap.Sold,
		Remaining: snap.Remaining,
		Pct:       snap.Percent,
		Decimals:  snap.Decimals,
	})
}

// Health echoes the signer and receiver identities plus live RPC state
func (h *Handler) Health(c *gin.Context) {
	version, slot := h.sol.NodeInfo(c.Request.Context())
	c.JSON(http.StatusOK, model.HealthResponse{
		OK:       true,
		Signer:   h.sol.SignerAddress(),
		Receiver: h.sol.ReceiverAddress(),
		Chains:   h.svc.Chains(),
		Version:  version,
		Slot:     slot,
	})
}
