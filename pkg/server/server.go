package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/csv"
	"github.com/yurifrl/fintszen/pkg/executors"
	"github.com/yurifrl/fintszen/pkg/models"
	"github.com/yurifrl/fintszen/pkg/service"
)

// Opener connects to bank and ledger. It runs once per request so every
// plan sees a fresh ledger snapshot.
type Opener func(ctx context.Context) (*service.Service, error)

// Server exposes read-only reconciliation previews over HTTP.
type Server struct {
	logger *log.Logger
	mux    *http.ServeMux
	open   Opener
}

// New creates a new HTTP server
func New(open Opener, logger *log.Logger) *Server {
	s := &Server{
		logger: logger,
		mux:    http.NewServeMux(),
		open:   open,
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/healthz", s.withLogging(s.handleHealth))
	s.mux.HandleFunc("/api/plan", s.withLogging(s.handlePlan))
	s.mux.HandleFunc("/api/plan.csv", s.withLogging(s.handlePlanCSV))
	s.mux.HandleFunc("/api/accounts", s.withLogging(s.handleAccounts))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// Transaction represents a simplified transaction for JSON responses.
type Transaction struct {
	Date     string `json:"date"`
	Payee    string `json:"payee"`
	Comment  string `json:"comment"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// PairReport is the JSON form of one reconciled pair.
type PairReport struct {
	Pair       models.AccountPair `json:"pair"`
	InSync     int                `json:"in_sync"`
	ToAdd      []Transaction      `json:"to_add"`
	OnlyLedger []Transaction      `json:"only_ledger"`
}

func toView(txs []*models.Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		out[i] = Transaction{
			Date:     t.DateString(),
			Payee:    t.Payee,
			Comment:  t.Comment,
			Amount:   t.Amount.StringFixed(2),
			Currency: t.Currency,
		}
	}
	return out
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) ([]*executors.Report, bool) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return nil, false
	}

	svc, err := s.open(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to open sessions", err)
		return nil, false
	}

	pairs := svc.Config().Accounts
	if iban := r.URL.Query().Get("iban"); iban != "" {
		pairs = filterPairs(pairs, iban)
		if len(pairs) == 0 {
			s.respondError(w, r, http.StatusNotFound, "no pair for iban", nil)
			return nil, false
		}
	}

	reports, err := svc.Executor(false, executors.WithOutput(io.Discard)).Plan(r.Context(), pairs)
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "plan failed", err)
		return nil, false
	}
	return reports, true
}

func filterPairs(pairs []models.AccountPair, iban string) []models.AccountPair {
	var out []models.AccountPair
	for _, p := range pairs {
		if strings.EqualFold(p.IBAN, iban) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	reports, ok := s.plan(w, r)
	if !ok {
		return
	}

	out := make([]PairReport, len(reports))
	for i, rep := range reports {
		out[i] = PairReport{
			Pair:       rep.Pair,
			InSync:     rep.Synced(),
			ToAdd:      toView(rep.OnlyBank()),
			OnlyLedger: toView(rep.OnlyLedger()),
		}
	}
	s.logger.Info("plan served", "pairs", len(out))

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"reports": out,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handlePlanCSV serves the transactions a sync would add as CSV.
func (s *Server) handlePlanCSV(w http.ResponseWriter, r *http.Request) {
	reports, ok := s.plan(w, r)
	if !ok {
		return
	}

	var filter csv.FilterFunc[*models.Transaction]
	if payee := r.URL.Query().Get("payee"); payee != "" {
		filter = func(t *models.Transaction) bool {
			return strings.Contains(strings.ToLower(t.Payee), strings.ToLower(payee))
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "fintszen-plan.csv"))
	if err := executors.WriteCSV(w, reports, filter); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	svc, err := s.open(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to open sessions", err)
		return
	}
	bankAccounts, err := svc.Bank.Accounts(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to fetch bank accounts", err)
		return
	}
	ledgerAccounts, err := svc.Ledger.Accounts(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to fetch ledger accounts", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"bank":   bankAccounts,
		"ledger": ledgerAccounts,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
