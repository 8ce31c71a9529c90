package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"poupabem/internal/core"
	"poupabem/internal/storage"
)

type transacaoRequest struct {
	Valor       json.RawMessage `json:"valor"`
	Data        string          `json:"data"`
	Descricao   string          `json:"descricao"`
	CategoriaID int64           `json:"categoria_id"`
	Imagem      string          `json:"imagem"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
}

func (req transacaoRequest) toTransaction(userID int64, kind core.TransactionKind) (core.Transaction, error) {
	amount, err := parseAmount(req.Valor)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(req.Data)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		UserID:      userID,
		CategoryID:  req.CategoriaID,
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(req.Descricao),
	}
	if kind == core.KindDespesa {
		t.Image = strings.TrimSpace(req.Imagem)
		t.Latitude = req.Latitude
		t.Longitude = req.Longitude
	}
	return t, t.Validate(core.Today())
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	s.createTransaction(w, r, core.KindDespesa)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	s.createTransaction(w, r, core.KindReceita)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request, kind core.TransactionKind) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	var req transacaoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	t, err := req.toTransaction(userID, kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, transactionMessage(err))
		return
	}

	if t.CategoryID != 0 {
		if _, err := s.store.GetCategory(r.Context(), userID, t.CategoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Categoria não encontrada")
				return
			}
			respondStoreError(w, err)
			return
		}
	}

	id, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create transaction",
			"error", err, "user_id", userID, "kind", kind)
		respondStoreError(w, err)
		return
	}
	t.ID = id

	slog.InfoContext(r.Context(), "Transaction created",
		"user_id", userID, "kind", kind, "amount_cents", t.Amount.Cents, "id", id)

	if kind == core.KindDespesa {
		writeJSON(w, http.StatusCreated, map[string]any{
			"status":  "success",
			"despesa": toDespesaDTO(t),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"receita": toReceitaDTO(t),
	})
}

func (s *Server) listTransactionsHandler(kind core.TransactionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			writeError(w, http.StatusForbidden, "Acesso negado")
			return
		}

		transactions, err := s.store.ListTransactions(r.Context(), userID, kind)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to list transactions",
				"error", err, "user_id", userID, "kind", kind)
			respondStoreError(w, err)
			return
		}

		if kind == core.KindDespesa {
			dtos := make([]despesaDTO, 0, len(transactions))
			for _, t := range transactions {
				dtos = append(dtos, toDespesaDTO(t))
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"status":   "success",
				"despesas": dtos,
			})
			return
		}
		dtos := make([]receitaDTO, 0, len(transactions))
		for _, t := range transactions {
			dtos = append(dtos, toReceitaDTO(t))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "success",
			"receitas": dtos,
		})
	}
}

func (s *Server) transactionTotalHandler(kind core.TransactionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			writeError(w, http.StatusForbidden, "Acesso negado")
			return
		}

		total, err := s.store.SumTransactions(r.Context(), userID, kind)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to sum transactions",
				"error", err, "user_id", userID, "kind", kind)
			respondStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"total":  total.Reais(),
		})
	}
}

func (s *Server) updateTransactionHandler(kind core.TransactionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		var req transacaoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
			return
		}

		t, err := req.toTransaction(userID, kind)
		if err != nil {
			writeError(w, http.StatusBadRequest, transactionMessage(err))
			return
		}
		t.ID = id

		if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
			respondStoreError(w, err)
			return
		}

		if kind == core.KindDespesa {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":  "success",
				"despesa": toDespesaDTO(t),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"receita": toReceitaDTO(t),
		})
	}
}

func (s *Server) deleteTransactionHandler(kind core.TransactionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		if err := s.store.DeleteTransaction(r.Context(), userID, id, kind); err != nil {
			respondStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Registro removido",
		})
	}
}

func transactionMessage(err error) string {
	// Date parse failures arrive as time.Parse errors, not sentinels.
	if msg := validationMessage(err); msg != "Dados inválidos" {
		return msg
	}
	if err != nil && strings.Contains(err.Error(), "parsing time") {
		return "Data inválida"
	}
	return "Dados inválidos"
}
