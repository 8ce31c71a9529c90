package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"poupabem/internal/core"
)

type categoriaRequest struct {
	Nome        string          `json:"nome"`
	Tipo        string          `json:"tipo"`
	LimiteGasto json.RawMessage `json:"limite_gasto"`
}

func (req categoriaRequest) toCategory(userID int64) (core.Category, error) {
	c := core.Category{
		UserID: userID,
		Name:   strings.TrimSpace(req.Nome),
		Kind:   core.TransactionKind(req.Tipo),
	}
	// The budget limit is optional and only meaningful for expense
	// categories.
	if len(req.LimiteGasto) > 0 && string(req.LimiteGasto) != "null" && string(req.LimiteGasto) != "0" {
		limit, err := parseAmount(req.LimiteGasto)
		if err != nil {
			return core.Category{}, err
		}
		c.MonthlyBudgetLimit = limit
	}
	return c, c.Validate()
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}

	var req categoriaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	category, err := req.toCategory(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	id, err := s.store.CreateCategory(r.Context(), category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create category", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}
	category.ID = id

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":    "success",
		"categoria": toCategoriaDTO(category),
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	s.listCategories(w, r, userID)
}

// handleListOwnCategories lists the token holder's categories without a
// userId path segment.
func (s *Server) handleListOwnCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	s.listCategories(w, r, userID)
}

// listCategories lists the user's categories, optionally filtered by the
// "tipo" query parameter (despesa or receita).
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request, userID int64) {
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err, "user_id", userID)
		respondStoreError(w, err)
		return
	}

	if tipo := r.URL.Query().Get("tipo"); tipo != "" {
		kind := core.TransactionKind(tipo)
		if err := kind.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "Tipo inválido")
			return
		}
		filtered := categories[:0]
		for _, c := range categories {
			if c.Kind == kind {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}

	dtos := make([]categoriaDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toCategoriaDTO(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"categorias": dtos,
	})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	var req categoriaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	category, err := req.toCategory(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	category.ID = id

	if err := s.store.UpdateCategory(r.Context(), category); err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"categoria": toCategoriaDTO(category),
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
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

	if err := s.store.DeleteCategory(r.Context(), userID, id); err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Categoria removida",
	})
}

// handleCategoryTotal returns everything ever spent against one category.
func (s *Server) handleCategoryTotal(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	if _, err := s.store.GetCategory(r.Context(), userID, categoryID); err != nil {
		respondStoreError(w, err)
		return
	}

	total, err := s.store.SumTransactionsByCategory(r.Context(), userID, categoryID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to sum category", "error", err, "category_id", categoryID)
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"total":  total.Reais(),
	})
}
