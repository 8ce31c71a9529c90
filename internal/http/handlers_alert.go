package http

import (
	"log/slog"
	"net/http"
	"strings"

	"poupabem/internal/core"
)

type alertaRequest struct {
	ID         int64  `json:"id"`
	Titulo     string `json:"titulo"`
	Descricao  string `json:"descricao"`
	DataAlerta string `json:"data_alerta"`
}

func (req alertaRequest) toAlert(userID int64) (core.Alert, error) {
	date, err := parseDate(req.DataAlerta)
	if err != nil {
		return core.Alert{}, err
	}
	a := core.Alert{
		ID:          req.ID,
		UserID:      userID,
		Title:       strings.TrimSpace(req.Titulo),
		Description: strings.TrimSpace(req.Descricao),
		AlertDate:   date,
	}
	return a, a.Validate()
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	var req alertaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	alert, err := req.toAlert(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, transactionMessage(err))
		return
	}
	alert.ID = 0

	id, err := s.store.CreateAlert(r.Context(), alert)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create alert", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}
	alert.ID = id

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"alerta": toAlertaDTO(alert),
	})
}

// handleFiredAlerts returns the alerts due today, the set the client surfaces
// as notifications on open.
func (s *Server) handleFiredAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	fired, _, err := s.alerts.ForUser(r.Context(), userID, core.Today())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to classify alerts", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}

	dtos := make([]alertaDTO, 0, len(fired))
	for _, a := range fired {
		dtos = append(dtos, toAlertaDTO(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "success",
		"alertas_disparados": dtos,
	})
}

// handleUpcomingAlerts returns the alerts dated strictly after today.
func (s *Server) handleUpcomingAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	_, upcoming, err := s.alerts.ForUser(r.Context(), userID, core.Today())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to classify alerts", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}

	dtos := make([]alertaDTO, 0, len(upcoming))
	for _, a := range upcoming {
		dtos = append(dtos, toAlertaDTO(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"alertas": dtos,
	})
}

// handleUpdateAlert carries the full field set, id included, in the body.
func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	var req alertaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	alert, err := req.toAlert(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, transactionMessage(err))
		return
	}

	if err := s.store.UpdateAlert(r.Context(), alert); err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"alerta": toAlertaDTO(alert),
	})
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
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

	if err := s.store.DeleteAlert(r.Context(), userID, id); err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Alerta removido",
	})
}
