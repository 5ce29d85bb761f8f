// Package server is the HTTP boundary over the account engine. Handlers
// parse requests, call the engine or stores, and format responses; all
// decision logic stays in the policy/engine layers.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/accounts"
	"github.com/corebank-dev/corebank/internal/config"
	"github.com/corebank-dev/corebank/internal/engine"
	"github.com/corebank-dev/corebank/internal/ledger"
	"github.com/corebank-dev/corebank/internal/model"
)

// Server wires the engine and stores to HTTP handlers.
type Server struct {
	engine *engine.Engine
	store  *accounts.Store
	ledger *ledger.Store
	auth   config.AuthConfig
	log    zerolog.Logger
}

// New creates a Server.
func New(eng *engine.Engine, store *accounts.Store, led *ledger.Store, auth config.AuthConfig, log zerolog.Logger) *Server {
	return &Server{engine: eng, store: store, ledger: led, auth: auth, log: log}
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("POST /users", s.requireAuth(s.createUser))
	mux.HandleFunc("POST /banks", s.requireAuth(s.createBank))
	mux.HandleFunc("POST /accounts", s.requireAuth(s.createAccount))
	mux.HandleFunc("GET /accounts/{number}", s.getAccount)
	mux.HandleFunc("POST /accounts/{number}/deposit", s.deposit)
	mux.HandleFunc("POST /accounts/{number}/withdraw", s.withdraw)
	mux.HandleFunc("GET /accounts/{number}/transactions", s.transactions)
	mux.HandleFunc("PATCH /accounts/{number}/kyc", s.requireAuth(s.updateKYC))

	return s.logRequests(mux)
}

// logRequests logs one line per request with method, path, status, and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	u, err := s.store.CreateUser(req.Name, req.Address)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userJSON(u))
}

func (s *Server) createBank(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	b, err := s.store.CreateBank(req.Name, req.Location)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bankJSON(b))
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountType string `json:"account_type"`
		UserID      string `json:"user_id"`
		BankID      string `json:"bank_id"`
		Balance     string `json:"balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		balance, err = parseAmountString(req.Balance)
		if err != nil || balance.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid balance")
			return
		}
	}

	acct, err := s.store.CreateAccount(accounts.CreateAccountParams{
		Type:    model.AccountType(req.AccountType),
		UserID:  req.UserID,
		BankID:  req.BankID,
		Balance: balance,
	})
	switch {
	case errors.Is(err, accounts.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, "user not found")
		return
	case errors.Is(err, accounts.ErrBankNotFound):
		writeError(w, http.StatusBadRequest, "bank not found")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, accountJSON(acct))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.ByNumber(r.PathValue("number"))
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, accountJSON(acct))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.ByNumber(r.PathValue("number"))
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	amount, ok := parseAmount(w, r, "Invalid deposit amount")
	if !ok {
		return
	}

	result, err := s.engine.Deposit(acct.ID, amount)
	if errors.Is(err, engine.ErrInvalidAmount) {
		writeError(w, http.StatusBadRequest, "Invalid deposit amount")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !result.OK {
		writeError(w, http.StatusBadRequest, "Deposit failed because "+result.Reason.Message())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Deposit successful",
		"updated_balance": result.Balance.StringFixed(2),
	})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.ByNumber(r.PathValue("number"))
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	amount, ok := parseAmount(w, r, "Invalid withdrawal amount")
	if !ok {
		return
	}

	result, err := s.engine.Withdraw(acct.ID, amount)
	if errors.Is(err, engine.ErrInvalidAmount) {
		writeError(w, http.StatusBadRequest, "Invalid withdrawal amount")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !result.OK {
		writeError(w, http.StatusBadRequest, "Withdrawal failed because "+result.Reason.Message())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Withdrawal successful",
		"updated_balance": result.Balance.StringFixed(2),
	})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.ByNumber(r.PathValue("number"))
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	txs := s.ledger.Query(acct.ID, ledger.Filter{})

	// Newest first.
	out := make([]map[string]any, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		out = append(out, map[string]any{
			"id":            tx.ID,
			"amount":        tx.Amount.StringFixed(2),
			"kind":          string(tx.Kind),
			"timestamp":     tx.Timestamp.Format(time.RFC3339Nano),
			"balance_after": tx.BalanceAfter.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateKYC(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.ByNumber(r.PathValue("number"))
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	var req struct {
		KYCVerified *bool `json:"kyc_verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.KYCVerified == nil {
		writeError(w, http.StatusBadRequest, "KYC flag not provided")
		return
	}

	if err := s.engine.UpdateKYCStatus(acct.ID, *req.KYCVerified); err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "KYC status updated successfully"})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// parseAmount reads {"amount": "123.45"} from the request body. The amount
// may be a JSON string or number; it must be a positive decimal with at
// most 2 decimal places.
func parseAmount(w http.ResponseWriter, r *http.Request, errMsg string) (decimal.Decimal, bool) {
	var req struct {
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errMsg)
		return decimal.Zero, false
	}

	amount, err := parseAmountString(strings.Trim(string(req.Amount), `"`))
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, errMsg)
		return decimal.Zero, false
	}
	return amount, true
}

func parseAmountString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Exponent() < -2 {
		return decimal.Zero, errors.New("more than 2 decimal places")
	}
	return d, nil
}

func userJSON(u model.User) map[string]any {
	return map[string]any{"id": u.ID, "name": u.Name, "address": u.Address}
}

func bankJSON(b model.Bank) map[string]any {
	return map[string]any{"id": b.ID, "name": b.Name, "location": b.Location}
}

func accountJSON(a model.Account) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"account_number": a.Number,
		"account_type":   string(a.Type),
		"balance":        a.Balance.StringFixed(2),
		"kyc_verified":   a.KYCVerified,
		"user_id":        a.UserID,
		"bank_id":        a.BankID,
	}
}
