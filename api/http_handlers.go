package api

import (
	"errors"
	"net/http"

	"sollotto/domain/entities"
	"sollotto/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// walletHeader carries the caller's wallet address. Signature verification
// happens upstream; the address is trusted at this boundary.
const walletHeader = "X-Wallet-Address"

// HTTPHandler holds the dependencies for the HTTP handlers
type HTTPHandler struct {
	settlement interfaces.SettlementService
	pots       interfaces.PotService
	oracle     interfaces.RandomnessOracle
}

// NewHTTPHandler creates a new HTTPHandler
func NewHTTPHandler(
	settlement interfaces.SettlementService,
	pots interfaces.PotService,
	oracle interfaces.RandomnessOracle,
) *HTTPHandler {
	return &HTTPHandler{
		settlement: settlement,
		pots:       pots,
		oracle:     oracle,
	}
}

// RegisterRoutes registers all the application routes
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	router.POST("/pots/:potId", h.CreatePot)
	router.POST("/pots/:potId/fundings", h.FundPot)
	router.GET("/pots/:potId/balance", h.GetPotBalance)
	router.GET("/pots/:potId/fundings", h.ListPotFundings)

	router.POST("/rounds", h.CreateRound)
	router.GET("/rounds/:roundId", h.GetRound)
	router.POST("/rounds/:roundId/close", h.CloseRound)
	router.GET("/rounds/:roundId/vrf-address", h.GetRoundVRFAddress)
	router.POST("/rounds/:roundId/reveals/:revealId", h.RoundReveal)

	router.POST("/rounds/:roundId/tickets", h.BuyTicket)
	router.GET("/rounds/:roundId/tickets", h.ListTickets)
	router.GET("/rounds/:roundId/tickets/:ticketId", h.GetTicket)
	router.POST("/rounds/:roundId/tickets/:ticketId/reveal", h.TicketReveal)
}

// Health reports liveness
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createRoundRequest struct {
	RoundID string `json:"round_id" binding:"required"`
}

// CreateRound registers a new round and requests its activation randomness
func (h *HTTPHandler) CreateRound(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "round_id is required")
		return
	}

	round, err := h.settlement.CreateRound(c.Request.Context(), req.RoundID, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, round)
}

// GetRound returns a round by id
func (h *HTTPHandler) GetRound(c *gin.Context) {
	round, err := h.settlement.GetRound(c.Request.Context(), c.Param("roundId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if round == nil {
		respondNotFound(c, "round not found")
		return
	}

	c.JSON(http.StatusOK, round)
}

// CloseRound deactivates a round (admin safety valve)
func (h *HTTPHandler) CloseRound(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.settlement.AdminCloseRound(c.Request.Context(), c.Param("roundId"), caller); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// GetRoundVRFAddress returns the on-chain address of the round's
// randomness request
func (h *HTTPHandler) GetRoundVRFAddress(c *gin.Context) {
	roundID := c.Param("roundId")

	round, err := h.settlement.GetRound(c.Request.Context(), roundID)
	if err != nil {
		respondError(c, err)
		return
	}
	if round == nil {
		respondNotFound(c, "round not found")
		return
	}

	address, err := h.oracle.VRFAddress(c.Request.Context(), roundID)
	if err != nil {
		respondError(c, entities.NewDependencyError("vrf address lookup", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"round_id": roundID, "vrf_address": address})
}

type revealRequest struct {
	Value *int64 `json:"value" binding:"required"`
}

// RoundReveal is the webhook delivering a round's activation randomness
func (h *HTTPHandler) RoundReveal(c *gin.Context) {
	var req revealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "value is required")
		return
	}

	err := h.settlement.OnRoundRevealed(c.Request.Context(), c.Param("roundId"), c.Param("revealId"), *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

type buyTicketRequest struct {
	TicketID string `json:"ticket_id"`
	Buyer    string `json:"buyer" binding:"required"`
}

// BuyTicket escrows the ticket price and records a new ticket
func (h *HTTPHandler) BuyTicket(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req buyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "buyer is required")
		return
	}
	if req.TicketID == "" {
		req.TicketID = uuid.New().String()
	}

	ticket, err := h.settlement.BuyTicket(c.Request.Context(), c.Param("roundId"), req.TicketID, entities.Address(req.Buyer), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListTickets returns all tickets of a round
func (h *HTTPHandler) ListTickets(c *gin.Context) {
	tickets, err := h.settlement.ListRoundTickets(c.Request.Context(), c.Param("roundId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GetTicket returns a ticket by id
func (h *HTTPHandler) GetTicket(c *gin.Context) {
	ticket, err := h.settlement.GetTicket(c.Request.Context(), c.Param("roundId"), c.Param("ticketId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if ticket == nil {
		respondNotFound(c, "ticket not found")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// TicketReveal is the webhook delivering a ticket's settlement randomness
func (h *HTTPHandler) TicketReveal(c *gin.Context) {
	var req revealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "value is required")
		return
	}

	err := h.settlement.OnTicketRevealed(c.Request.Context(), c.Param("roundId"), c.Param("ticketId"), *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// CreatePot creates the escrow pot (admin only)
func (h *HTTPHandler) CreatePot(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	pot, err := h.pots.CreatePot(c.Request.Context(), c.Param("potId"), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pot)
}

type fundPotRequest struct {
	FundingID string `json:"funding_id"`
	Amount    int64  `json:"amount" binding:"required"`
}

// FundPot transfers funds from the admin wallet into the pot (admin only)
func (h *HTTPHandler) FundPot(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req fundPotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "amount is required")
		return
	}
	if req.FundingID == "" {
		req.FundingID = uuid.New().String()
	}

	funding, err := h.pots.FundPot(c.Request.Context(), req.FundingID, req.Amount, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, funding)
}

// GetPotBalance returns the pot's ledger balance
func (h *HTTPHandler) GetPotBalance(c *gin.Context) {
	balance, err := h.pots.Balance(c.Request.Context(), c.Param("potId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pot_id": c.Param("potId"), "balance": balance})
}

// ListPotFundings returns the pot's funding history
func (h *HTTPHandler) ListPotFundings(c *gin.Context) {
	fundings, err := h.pots.FundingHistory(c.Request.Context(), c.Param("potId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fundings": fundings})
}

// caller extracts the wallet address header, failing the request when absent
func (h *HTTPHandler) caller(c *gin.Context) (entities.Address, bool) {
	wallet := c.GetHeader(walletHeader)
	if wallet == "" {
		respondBadRequest(c, walletHeader+" header is required")
		return "", false
	}
	return entities.Address(wallet), true
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain errors to HTTP statuses. Business-rule failures
// are 4xx; dependency failures are 502 so clients can tell retryable from
// terminal.
func respondError(c *gin.Context, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, entities.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, entities.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	case errors.Is(err, entities.ErrUnauthorized):
		status, code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, entities.ErrInsufficientFunds):
		status, code = http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, entities.ErrRoundNotActive):
		status, code = http.StatusConflict, "round_not_active"
	case errors.Is(err, entities.ErrInvalidReveal):
		status, code = http.StatusBadRequest, "invalid_reveal"
	case errors.Is(err, entities.ErrValidation):
		status, code = http.StatusBadRequest, "validation"
	case entities.IsDependencyError(err):
		status, code = http.StatusBadGateway, "dependency_unavailable"
	default:
		status, code = http.StatusInternalServerError, "internal"
		log.WithError(err).Error("Unhandled error in HTTP handler")
	}

	c.JSON(status, gin.H{"error": errorBody{Code: code, Message: err.Error()}})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: message}})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": errorBody{Code: "not_found", Message: message}})
}
