package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"poupabem/internal/auth"
	"poupabem/internal/core"
	"poupabem/internal/storage"
)

type registerRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	user := core.User{
		Name:  strings.TrimSpace(req.Nome),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := user.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, registrationMessage(err))
		return
	}
	if err := core.ValidatePassword(req.Senha); err != nil {
		writeError(w, http.StatusBadRequest, "Senha deve ter pelo menos 6 caracteres")
		return
	}

	hash, err := auth.HashPassword(req.Senha)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	user.PasswordHash = hash

	id, err := s.store.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "Email já cadastrado")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", id)
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "Usuário criado com sucesso",
		"id":      id,
	})
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Email ou senha inválidos")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load user", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Senha) {
		writeError(w, http.StatusUnauthorized, "Email ou senha inválidos")
		return
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue token", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"token":  token,
		"id":     user.ID,
		"nome":   user.Name,
	})
}

func registrationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "Nome é obrigatório"
	case errors.Is(err, core.ErrEmptyEmail), errors.Is(err, core.ErrInvalidEmail):
		return "Email inválido"
	}
	return "Dados inválidos"
}
