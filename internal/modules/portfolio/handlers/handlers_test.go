package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/aristath/bank/internal/modules/accounts"
	"github.com/aristath/bank/internal/modules/customers"
	"github.com/aristath/bank/internal/modules/ledger"
	"github.com/aristath/bank/internal/modules/portfolio"
	testingpkg "github.com/aristath/bank/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (chi.Router, *database.DB, *testingpkg.MockPriceOracle) {
	t.Helper()

	db, cleanup := testingpkg.NewTestDB(t, "ledger")
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	oracle := new(testingpkg.MockPriceOracle)
	service := portfolio.NewService(db,
		portfolio.NewPortfolioRepository(db, log),
		portfolio.NewPositionRepository(db, log),
		portfolio.NewTickerRepository(db, log),
		accounts.NewRepository(db, log),
		customers.NewRepository(db, log),
		ledger.NewTransactionRepository(db, log),
		ledger.NewAccountLocks(),
		oracle,
		testingpkg.NewRecordingPublisher(),
		func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) },
		testingpkg.CheckingTypeID,
		log,
	)

	router := chi.NewRouter()
	NewHandler(service, log).RegisterRoutes(router)
	return router, db, oracle
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleBuy(t *testing.T) {
	router, db, oracle := setupRouter(t)
	customerID := testingpkg.SeedCustomer(t, db, 1)
	accountID := testingpkg.SeedAccount(t, db, customerID, testingpkg.CheckingTypeID, "1000")
	portfolioID := testingpkg.SeedPortfolio(t, db, customerID)
	oracle.On("ClosePrice", mock.Anything, "XYZ", mock.Anything).Return(decimal.NewFromInt(20), nil)

	w := do(router, http.MethodPost, "/portfolios/"+portfolioID+"/positions/buy",
		`{"ticker": "XYZ", "quantity": 10, "account_id": "`+accountID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Ticker      map[string]interface{} `json:"ticker"`
		Position    map[string]interface{} `json:"position"`
		Transaction map[string]interface{} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "XYZ", body.Ticker["ticker"])
	assert.Equal(t, 10.0, body.Ticker["quantity"])
	assert.Equal(t, portfolioID, body.Position["portfolio_id"])
	assert.Equal(t, 200.0, body.Transaction["amount"])
	assert.Equal(t, portfolioID, body.Transaction["credit_id"])

	w = do(router, http.MethodPost, "/portfolios/"+portfolioID+"/positions/buy",
		`{"ticker": "XYZ", "quantity": 5, "account_id": "`+accountID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"position"`)
}

func TestHandleBuy_Errors(t *testing.T) {
	router, db, oracle := setupRouter(t)
	customerID := testingpkg.SeedCustomer(t, db, 1)
	checking := testingpkg.SeedAccount(t, db, customerID, testingpkg.CheckingTypeID, "10")
	savings := testingpkg.SeedAccount(t, db, customerID, testingpkg.SavingsTypeID, "1000")
	portfolioID := testingpkg.SeedPortfolio(t, db, customerID)
	oracle.On("ClosePrice", mock.Anything, "XYZ", mock.Anything).Return(decimal.NewFromInt(20), nil)
	oracle.On("ClosePrice", mock.Anything, "BAD", mock.Anything).Return(decimal.Zero, errors.New("404"))

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
	}{
		{"malformed body", `{`, http.StatusBadRequest, "invalid request body"},
		{"missing fields", `{"ticker": "XYZ"}`, http.StatusBadRequest, "quantity is required"},
		{"unknown account", `{"ticker": "XYZ", "quantity": 1, "account_id": "nope"}`, http.StatusNotFound, "not found"},
		{"savings account", `{"ticker": "XYZ", "quantity": 1, "account_id": "` + savings + `"}`, http.StatusBadRequest, "funding account must be a checking account"},
		{"insufficient funds", `{"ticker": "XYZ", "quantity": 1, "account_id": "` + checking + `"}`, http.StatusBadRequest, "Insufficient Funds"},
		{"oracle failure", `{"ticker": "BAD", "quantity": 1, "account_id": "` + checking + `"}`, http.StatusBadGateway, "error getting price of ticker: BAD"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/portfolios/"+portfolioID+"/positions/buy", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantText)
		})
	}
}

func TestHandleValuation(t *testing.T) {
	router, db, oracle := setupRouter(t)
	portfolioID := testingpkg.SeedPortfolio(t, db, testingpkg.SeedCustomer(t, db, 1))
	_, positionID := testingpkg.SeedHolding(t, db, portfolioID, "XYZ", "20", 15)
	oracle.On("ClosePrice", mock.Anything, "XYZ", mock.Anything).Return(decimal.NewFromInt(22), nil)

	w := do(router, http.MethodGet, "/positions/"+positionID+"/tickers", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"XYZ_position_value": 330}`, w.Body.String())

	w = do(router, http.MethodGet, "/portfolios/"+portfolioID+"/positions", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[{"XYZ_position_value": 330}]`, w.Body.String())
}

func TestHandlePortfolioReads(t *testing.T) {
	router, db, _ := setupRouter(t)
	customerID := testingpkg.SeedCustomer(t, db, 1)

	w := do(router, http.MethodGet, "/customers/"+customerID+"/tickers", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPost, "/portfolios", `{"customer_id": "`+customerID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	portfolioID := created["id"].(string)
	testingpkg.SeedHolding(t, db, portfolioID, "XYZ", "20", 3)

	w = do(router, http.MethodGet, "/portfolios", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), portfolioID)

	w = do(router, http.MethodGet, "/customers/"+customerID+"/portfolios", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer_id":"`+customerID+`"`)

	w = do(router, http.MethodGet, "/customers/"+customerID+"/positions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"portfolio_id":"`+portfolioID+`"`)

	w = do(router, http.MethodGet, "/customers/"+customerID+"/tickers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ticker":"XYZ"`)
	assert.Contains(t, w.Body.String(), `"quantity":3`)
}
