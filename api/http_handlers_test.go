package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sollotto/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSettlementService struct {
	mock.Mock
}

func (m *mockSettlementService) CreateRound(ctx context.Context, roundID string, creator entities.Address) (*entities.Round, error) {
	args := m.Called(ctx, roundID, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *mockSettlementService) OnRoundRevealed(ctx context.Context, roundID, revealID string, value int64) error {
	args := m.Called(ctx, roundID, revealID, value)
	return args.Error(0)
}

func (m *mockSettlementService) BuyTicket(ctx context.Context, roundID, ticketID string, buyer, caller entities.Address) (*entities.Ticket, error) {
	args := m.Called(ctx, roundID, ticketID, buyer, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *mockSettlementService) OnTicketRevealed(ctx context.Context, roundID, ticketID string, value int64) error {
	args := m.Called(ctx, roundID, ticketID, value)
	return args.Error(0)
}

func (m *mockSettlementService) AdminCloseRound(ctx context.Context, roundID string, caller entities.Address) error {
	args := m.Called(ctx, roundID, caller)
	return args.Error(0)
}

func (m *mockSettlementService) GetRound(ctx context.Context, roundID string) (*entities.Round, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *mockSettlementService) GetTicket(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error) {
	args := m.Called(ctx, roundID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *mockSettlementService) ListRoundTickets(ctx context.Context, roundID string) ([]*entities.Ticket, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

type mockPotService struct {
	mock.Mock
}

func (m *mockPotService) CreatePot(ctx context.Context, potID string, caller entities.Address) (*entities.Pot, error) {
	args := m.Called(ctx, potID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Pot), args.Error(1)
}

func (m *mockPotService) FundPot(ctx context.Context, fundingID string, amount int64, caller entities.Address) (*entities.PotFunding, error) {
	args := m.Called(ctx, fundingID, amount, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PotFunding), args.Error(1)
}

func (m *mockPotService) Balance(ctx context.Context, potID string) (int64, error) {
	args := m.Called(ctx, potID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPotService) FundingHistory(ctx context.Context, potID string) ([]*entities.PotFunding, error) {
	args := m.Called(ctx, potID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PotFunding), args.Error(1)
}

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) RequestRandom(ctx context.Context, key string, min, max int64) error {
	args := m.Called(ctx, key, min, max)
	return args.Error(0)
}

func (m *mockOracle) VRFAddress(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func setupTestRouter() (*gin.Engine, *mockSettlementService, *mockPotService, *mockOracle) {
	gin.SetMode(gin.TestMode)

	settlement := new(mockSettlementService)
	pots := new(mockPotService)
	oracle := new(mockOracle)

	router := gin.New()
	NewHTTPHandler(settlement, pots, oracle).RegisterRoutes(router)
	return router, settlement, pots, oracle
}

func doJSON(router *gin.Engine, method, path, wallet string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		req.Header.Set(walletHeader, wallet)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestCreateRound(t *testing.T) {
	t.Parallel()

	t.Run("creates round", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("CreateRound", mock.Anything, "round-1", entities.Address("wallet-a")).
			Return(&entities.Round{ID: "round-1"}, nil)

		w := doJSON(router, http.MethodPost, "/rounds", "wallet-a", gin.H{"round_id": "round-1"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("requires wallet header", func(t *testing.T) {
		router, _, _, _ := setupTestRouter()

		w := doJSON(router, http.MethodPost, "/rounds", "", gin.H{"round_id": "round-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate id maps to conflict", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("CreateRound", mock.Anything, "round-1", mock.Anything).
			Return(nil, fmt.Errorf("round round-1: %w", entities.ErrAlreadyExists))

		w := doJSON(router, http.MethodPost, "/rounds", "wallet-a", gin.H{"round_id": "round-1"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "already_exists", errorCode(t, w))
	})
}

func TestGetRound(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("GetRound", mock.Anything, "round-1").Return(&entities.Round{ID: "round-1"}, nil)

		w := doJSON(router, http.MethodGet, "/rounds/round-1", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("GetRound", mock.Anything, "nope").Return(nil, nil)

		w := doJSON(router, http.MethodGet, "/rounds/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoundReveal(t *testing.T) {
	t.Parallel()

	t.Run("processed", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("OnRoundRevealed", mock.Anything, "round-1", "round-1", int64(42)).Return(nil)

		w := doJSON(router, http.MethodPost, "/rounds/round-1/reveals/round-1", "", gin.H{"value": 42})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatched reveal id", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("OnRoundRevealed", mock.Anything, "round-1", "other", int64(42)).
			Return(fmt.Errorf("mismatch: %w", entities.ErrInvalidReveal))

		w := doJSON(router, http.MethodPost, "/rounds/round-1/reveals/other", "", gin.H{"value": 42})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_reveal", errorCode(t, w))
	})

	t.Run("value zero is a valid reveal", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("OnRoundRevealed", mock.Anything, "round-1", "round-1", int64(0)).Return(nil)

		w := doJSON(router, http.MethodPost, "/rounds/round-1/reveals/round-1", "", gin.H{"value": 0})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBuyTicket(t *testing.T) {
	t.Parallel()

	t.Run("purchases ticket", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("BuyTicket", mock.Anything, "round-1", "ticket-1", entities.Address("wallet-a"), entities.Address("wallet-a")).
			Return(&entities.Ticket{ID: "ticket-1", RoundID: "round-1"}, nil)

		w := doJSON(router, http.MethodPost, "/rounds/round-1/tickets", "wallet-a",
			gin.H{"ticket_id": "ticket-1", "buyer": "wallet-a"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("insufficient funds maps to payment required", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("BuyTicket", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("escrow: %w", entities.ErrInsufficientFunds))

		w := doJSON(router, http.MethodPost, "/rounds/round-1/tickets", "wallet-a",
			gin.H{"ticket_id": "ticket-1", "buyer": "wallet-a"})
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, "insufficient_funds", errorCode(t, w))
	})

	t.Run("inactive round maps to conflict", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("BuyTicket", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("round: %w", entities.ErrRoundNotActive))

		w := doJSON(router, http.MethodPost, "/rounds/round-1/tickets", "wallet-a",
			gin.H{"ticket_id": "ticket-1", "buyer": "wallet-a"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "round_not_active", errorCode(t, w))
	})
}

func TestCloseRound(t *testing.T) {
	t.Parallel()

	t.Run("non-admin is forbidden", func(t *testing.T) {
		router, settlement, _, _ := setupTestRouter()
		settlement.On("AdminCloseRound", mock.Anything, "round-1", entities.Address("wallet-a")).
			Return(fmt.Errorf("nope: %w", entities.ErrUnauthorized))

		w := doJSON(router, http.MethodPost, "/rounds/round-1/close", "wallet-a", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "unauthorized", errorCode(t, w))
	})
}

func TestPotEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("balance", func(t *testing.T) {
		router, _, pots, _ := setupTestRouter()
		pots.On("Balance", mock.Anything, "main-pot").Return(int64(12345), nil)

		w := doJSON(router, http.MethodGet, "/pots/main-pot/balance", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Balance int64 `json:"balance"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(12345), body.Balance)
	})

	t.Run("dependency failure maps to bad gateway", func(t *testing.T) {
		router, _, pots, _ := setupTestRouter()
		pots.On("Balance", mock.Anything, "main-pot").
			Return(int64(0), entities.NewDependencyError("pot balance read", errors.New("ledger down")))

		w := doJSON(router, http.MethodGet, "/pots/main-pot/balance", "", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "dependency_unavailable", errorCode(t, w))
	})

	t.Run("funding requires amount", func(t *testing.T) {
		router, _, _, _ := setupTestRouter()

		w := doJSON(router, http.MethodPost, "/pots/main-pot/fundings", "admin-wallet", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVRFAddress(t *testing.T) {
	t.Parallel()

	router, settlement, _, oracle := setupTestRouter()
	settlement.On("GetRound", mock.Anything, "round-1").Return(&entities.Round{ID: "round-1"}, nil)
	oracle.On("VRFAddress", mock.Anything, "round-1").Return("vrf-pubkey", nil)

	w := doJSON(router, http.MethodGet, "/rounds/round-1/vrf-address", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		VRFAddress string `json:"vrf_address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "vrf-pubkey", body.VRFAddress)
}
