// Package http exposes the JSON REST API: user registration and login,
// category, expense, income, goal and alert CRUD, and the aggregate report
// endpoints. Entity routes require a Bearer token.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"poupabem/internal/auth"
	"poupabem/internal/core"
	applog "poupabem/internal/log"
	"poupabem/internal/services"
)

// Store is the storage surface the handlers use. *storage.SQLiteRepository
// satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u core.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)

	CreateCategory(ctx context.Context, c core.Category) (int64, error)
	GetCategory(ctx context.Context, userID, id int64) (*core.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id int64) error

	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	GetTransaction(ctx context.Context, userID, id int64) (*core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64, kind core.TransactionKind) error
	SumTransactions(ctx context.Context, userID int64, kind core.TransactionKind) (core.Money, error)
	SumTransactionsByCategory(ctx context.Context, userID, categoryID int64) (core.Money, error)

	CreateGoal(ctx context.Context, g core.Goal) (int64, error)
	GetGoal(ctx context.Context, userID, id int64) (*core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, userID, id int64) error

	CreateAlert(ctx context.Context, a core.Alert) (int64, error)
	GetAlert(ctx context.Context, userID, id int64) (*core.Alert, error)
	UpdateAlert(ctx context.Context, a core.Alert) error
	DeleteAlert(ctx context.Context, userID, id int64) error
}

type Server struct {
	http.Server

	store   Store
	issuer  *auth.TokenIssuer
	reports *services.ReportService
	goals   *services.GoalService
	alerts  *services.AlertDispatcher

	logger       *applog.Logger
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store Store, issuer *auth.TokenIssuer, reports *services.ReportService, goals *services.GoalService, alerts *services.AlertDispatcher) *Server {
	s := &Server{
		store:       store,
		issuer:      issuer,
		reports:     reports,
		goals:       goals,
		alerts:      alerts,
		logger:      applog.New(applog.Config{Handler: slog.Default().Handler(), Component: applog.ComponentHTTP}),
		rateLimiter: newRateLimiter(),
	}
	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /user/register", s.handleRegister)
	mux.HandleFunc("POST /user/login", s.handleLogin)

	authed := http.NewServeMux()

	authed.HandleFunc("POST /categoria/create", s.handleCreateCategory)
	authed.HandleFunc("GET /categoria/listar", s.handleListOwnCategories)
	authed.HandleFunc("GET /categoria/total/{categoryId}", s.handleCategoryTotal)
	authed.HandleFunc("GET /categoria/{userId}", s.handleListCategories)
	authed.HandleFunc("PUT /categoria/update/{id}", s.handleUpdateCategory)
	authed.HandleFunc("DELETE /categoria/delete/{id}", s.handleDeleteCategory)

	authed.HandleFunc("POST /despesa/create", s.handleCreateExpense)
	authed.HandleFunc("GET /despesa/total/{userId}", s.transactionTotalHandler(core.KindDespesa))
	authed.HandleFunc("GET /despesa/{userId}", s.listTransactionsHandler(core.KindDespesa))
	authed.HandleFunc("PUT /despesa/update/{id}", s.updateTransactionHandler(core.KindDespesa))
	authed.HandleFunc("DELETE /despesa/delete/{id}", s.deleteTransactionHandler(core.KindDespesa))

	authed.HandleFunc("POST /receita/create", s.handleCreateIncome)
	authed.HandleFunc("GET /receita/total/{userId}", s.transactionTotalHandler(core.KindReceita))
	authed.HandleFunc("GET /receita/{userId}", s.listTransactionsHandler(core.KindReceita))
	authed.HandleFunc("PUT /receita/update/{id}", s.updateTransactionHandler(core.KindReceita))
	authed.HandleFunc("DELETE /receita/delete/{id}", s.deleteTransactionHandler(core.KindReceita))

	authed.HandleFunc("POST /meta_financeira/create", s.handleCreateGoal)
	authed.HandleFunc("GET /meta_financeira/{userId}", s.handleListGoals)
	authed.HandleFunc("PUT /meta_financeira/update/{id}", s.handleUpdateGoal)
	authed.HandleFunc("DELETE /meta_financeira/delete/{id}", s.handleDeleteGoal)

	authed.HandleFunc("POST /alert/create", s.handleCreateAlert)
	authed.HandleFunc("GET /alert/all", s.handleUpcomingAlerts)
	authed.HandleFunc("GET /alert/{userId}", s.handleFiredAlerts)
	authed.HandleFunc("PUT /alert/update", s.handleUpdateAlert)
	authed.HandleFunc("DELETE /alert/delete/{id}", s.handleDeleteAlert)

	authed.HandleFunc("GET /relatorio/evolucao/{userId}", s.handleEvolutionReport)
	authed.HandleFunc("GET /relatorio/orcamentos/{userId}", s.handleBudgetReport)

	mux.Handle("/", auth.Middleware(s.issuer)(authed))

	return s.withRequestLogging(mux)
}

// withRequestLogging adds security headers, rate limiting on writes and
// request-ID logging around the whole mux.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)

		reqLogger := s.logger.With(
			applog.FieldRequestID, requestID,
			applog.FieldClientIP, clientIP)
		ctx = context.WithValue(ctx, applog.LoggerContextKey, reqLogger)
		r = r.WithContext(ctx)

		reqLogger.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded", applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		reqLogger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the rate limiter janitor alongside the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
