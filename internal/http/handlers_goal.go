package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"poupabem/internal/core"
	"poupabem/internal/services"
	"poupabem/internal/storage"
)

type metaRequest struct {
	Titulo      string          `json:"titulo"`
	ValorMeta   json.RawMessage `json:"valor_meta"`
	ValorAtual  json.RawMessage `json:"valor_atual"`
	DataInicio  string          `json:"data_inicio"`
	DataFim     string          `json:"data_fim"`
	Tipo        string          `json:"tipo"`
	CategoriaID int64           `json:"categoria_id"`
}

func (req metaRequest) toGoal(userID int64) (core.Goal, error) {
	target, err := parseAmount(req.ValorMeta)
	if err != nil {
		return core.Goal{}, err
	}
	start, err := parseDate(req.DataInicio)
	if err != nil {
		return core.Goal{}, err
	}
	end, err := parseDate(req.DataFim)
	if err != nil {
		return core.Goal{}, err
	}
	g := core.Goal{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Titulo),
		TargetAmount: target,
		StartDate:    start,
		EndDate:      end,
		Kind:         core.GoalKind(req.Tipo),
		CategoryID:   req.CategoriaID,
	}
	// valor_atual is only writable on manual ("geral") goals; the other
	// kinds derive it from transactions.
	if len(req.ValorAtual) > 0 && string(req.ValorAtual) != "null" && string(req.ValorAtual) != "0" {
		current, err := parseAmount(req.ValorAtual)
		if err != nil {
			return core.Goal{}, err
		}
		g.CurrentAmount = current
	}
	return g, g.Validate()
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	var req metaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	goal, err := req.toGoal(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, transactionMessage(err))
		return
	}

	if goal.Kind == core.GoalCategoria {
		if _, err := s.store.GetCategory(r.Context(), userID, goal.CategoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Categoria não encontrada")
				return
			}
			respondStoreError(w, err)
			return
		}
	}

	id, err := s.store.CreateGoal(r.Context(), goal)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create goal", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}
	goal.ID = id

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"meta":   toMetaDTO(services.GoalStatus{Goal: goal, Progress: core.EvaluateGoal(goal)}),
	})
}

// handleListGoals refreshes transaction-backed progress before answering, so
// the client always sees totals derived from current rows.
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	achieved, inProgress, err := s.goals.Overview(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build goal overview", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}

	metas := make([]metaDTO, 0, len(achieved)+len(inProgress))
	for _, st := range inProgress {
		metas = append(metas, toMetaDTO(st))
	}
	for _, st := range achieved {
		metas = append(metas, toMetaDTO(st))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"metas":  metas,
	})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	var req metaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	goal, err := req.toGoal(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, transactionMessage(err))
		return
	}
	goal.ID = id

	if err := s.store.UpdateGoal(r.Context(), goal); err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"meta":   toMetaDTO(services.GoalStatus{Goal: goal, Progress: core.EvaluateGoal(goal)}),
	})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	if err := s.store.DeleteGoal(r.Context(), userID, id); err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Meta removida",
	})
}
