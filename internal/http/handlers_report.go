package http

import (
	"log/slog"
	"net/http"
	"strings"

	"poupabem/internal/core"
)

// handleEvolutionReport returns the month-by-month income and expense series.
// Optional inicio/fim query parameters bound the period; without them the
// whole history is bucketed.
func (s *Server) handleEvolutionReport(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	var start, end core.Date
	if raw := strings.TrimSpace(r.URL.Query().Get("inicio")); raw != "" {
		if start, err = core.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Data inválida")
			return
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("fim")); raw != "" {
		if end, err = core.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Data inválida")
			return
		}
	}
	// One-sided bounds get widened to an effectively open end.
	if !start.IsZero() && end.IsZero() {
		end = core.NewDate(9999, 12, 31)
	}
	if start.IsZero() && !end.IsZero() {
		start = core.NewDate(1, 1, 1)
	}

	buckets, err := s.reports.EvolutionReport(r.Context(), userID, start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build evolution report", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}

	dtos := make([]evolucaoDTO, 0, len(buckets))
	for _, b := range buckets {
		dtos = append(dtos, toEvolucaoDTO(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"evolucao": dtos,
	})
}

// handleBudgetReport returns per-category spending and budget utilization for
// the current calendar month.
func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	report, err := s.reports.BudgetReport(r.Context(), userID, core.Today())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build budget report", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}

	dtos := make([]orcamentoDTO, 0, len(report))
	for _, cs := range report {
		dtos = append(dtos, toOrcamentoDTO(cs))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"orcamentos": dtos,
	})
}
