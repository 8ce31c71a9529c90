package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"poupabem/internal/auth"
	"poupabem/internal/core"
	"poupabem/internal/storage"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var errUserMismatch = errors.New("path user does not match token")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// requestUserID returns the authenticated user id and, when the route
// carries a {userId} segment, enforces that it matches the token.
func requestUserID(r *http.Request) (int64, error) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return 0, auth.ErrMissingToken
	}
	if raw := r.PathValue("userId"); raw != "" {
		pathUser, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || pathUser != claims.UserID {
			return 0, errUserMismatch
		}
	}
	return claims.UserID, nil
}

// parseAmount accepts the amount either as a JSON number or a decimal
// string, both of which the mobile client sends.
func parseAmount(raw json.RawMessage) (core.Money, error) {
	if len(raw) == 0 {
		return core.Money{}, core.ErrInvalidAmount
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return core.Money{}, core.ErrInvalidAmount
		}
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Cents: cents}, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return core.Money{}, core.ErrInvalidAmount
	}
	if v <= 0 {
		return core.Money{}, core.ErrInvalidAmount
	}
	return core.Money{Cents: core.CentsFromFloat(v)}, nil
}

func parseDate(s string) (core.Date, error) {
	return core.ParseDate(strings.TrimSpace(s))
}

// respondStoreError maps storage errors to the API's error responses.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Registro não encontrado")
		return
	}
	writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
}

// validationMessage translates core sentinel errors into the Portuguese
// messages the client shows verbatim.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Valor inválido"
	case errors.Is(err, core.ErrEmptyDescription):
		return "Descrição é obrigatória"
	case errors.Is(err, core.ErrEmptyName):
		return "Nome é obrigatório"
	case errors.Is(err, core.ErrEmptyTitle):
		return "Título é obrigatório"
	case errors.Is(err, core.ErrInvalidKind):
		return "Tipo inválido"
	case errors.Is(err, core.ErrFutureDate):
		return "Data não pode estar no futuro"
	case errors.Is(err, core.ErrInvalidPeriod):
		return "Data final anterior à data inicial"
	case errors.Is(err, core.ErrMissingCategory):
		return "Categoria é obrigatória para metas por categoria"
	}
	return "Dados inválidos"
}
