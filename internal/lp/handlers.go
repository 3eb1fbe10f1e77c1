package lp

import (
	"github.com/gin-gonic/gin"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/ksred/liquidity-api/pkg/response"
)

// GinHandlers contains the HTTP handlers for the provider facade endpoints.
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers over the facade.
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

type quoteRequest struct {
	Pair   string `json:"pair" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

type tradeRequest struct {
	QuoteID        string  `json:"quote_id" binding:"required"`
	Direction      string  `json:"direction" binding:"required"`
	DepositAddress string  `json:"deposit_address"`
	TxVersion      *uint64 `json:"tx_version"`
}

type settleRequest struct {
	Confirmation string `json:"confirmation" binding:"required"`
}

// LPDetailsHandler handles GET requests for the provider's settlement
// coordinates.
func (h *GinHandlers) LPDetailsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := h.service.LPDetails()
		response.Handle(c, details, err)
	}
}

// CreateQuoteHandler handles POST requests to lock a rate into a new quote.
func (h *GinHandlers) CreateQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		pair, err := types.ParsePair(req.Pair)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		quoteData, err := h.service.GetQuote(pair, req.Amount)
		response.Handle(c, quoteData, err)
	}
}

// TradeHandler handles POST requests to create and execute a trade against a
// quote.
func (h *GinHandlers) TradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tradeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		direction, err := types.ParseDirection(req.Direction)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		tradeID, err := h.service.TradeAndExecute(c.Request.Context(), req.QuoteID, direction, req.DepositAddress, req.TxVersion)
		if err != nil {
			response.HandleWith(c, gin.H{"trade_id": tradeID}, err)
			return
		}

		response.Success(c, gin.H{"trade_id": tradeID})
	}
}

// TradeInfoHandler handles GET requests for a trade's execution status.
// URL parameter: trade_id
func (h *GinHandlers) TradeInfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tradeID := c.Param("trade_id")
		if tradeID == "" {
			response.BadRequest(c, "trade ID is required")
			return
		}

		tradeData, err := h.service.TradeInfo(tradeID)
		response.Handle(c, tradeData, err)
	}
}

// GetDebtHandler handles GET requests for the outstanding debt listing. The
// listing triggers a settlement pass before reporting.
func (h *GinHandlers) GetDebtHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		debts, err := h.service.GetDebt()
		response.Handle(c, debts, err)
	}
}

// SettleHandler handles POST requests confirming out-of-band payment of a
// debt.
// URL parameter: debt_id
func (h *GinHandlers) SettleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		debtID := c.Param("debt_id")

		var req settleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		if err := h.service.Settle(debtID, req.Confirmation); err != nil {
			response.Handle(c, nil, err)
			return
		}

		response.Success(c, gin.H{"message": "debt settled successfully"})
	}
}
