package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"poupabem/internal/core"
	"poupabem/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  "error",
		"message": message,
	})
}

// DTOs mirror the wire format the mobile client expects: Portuguese field
// names, monetary values as decimal reais, dates as ISO strings.

type categoriaDTO struct {
	ID          int64   `json:"id"`
	Nome        string  `json:"nome"`
	Tipo        string  `json:"tipo"`
	LimiteGasto float64 `json:"limite_gasto"`
	UserID      int64   `json:"user_id"`
}

func toCategoriaDTO(c core.Category) categoriaDTO {
	return categoriaDTO{
		ID:          c.ID,
		Nome:        c.Name,
		Tipo:        string(c.Kind),
		LimiteGasto: c.MonthlyBudgetLimit.Reais(),
		UserID:      c.UserID,
	}
}

type despesaDTO struct {
	ID          int64   `json:"id"`
	Valor       float64 `json:"valor"`
	Data        string  `json:"data"`
	Descricao   string  `json:"descricao"`
	CategoriaID int64   `json:"categoria_id"`
	UserID      int64   `json:"user_id"`
	Imagem      string  `json:"imagem,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

func toDespesaDTO(t core.Transaction) despesaDTO {
	return despesaDTO{
		ID:          t.ID,
		Valor:       t.Amount.Reais(),
		Data:        t.Date.String(),
		Descricao:   t.Description,
		CategoriaID: t.CategoryID,
		UserID:      t.UserID,
		Imagem:      t.Image,
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
	}
}

type receitaDTO struct {
	ID          int64   `json:"id"`
	Valor       float64 `json:"valor"`
	Data        string  `json:"data"`
	Descricao   string  `json:"descricao"`
	CategoriaID int64   `json:"categoria_id"`
	UserID      int64   `json:"user_id"`
}

func toReceitaDTO(t core.Transaction) receitaDTO {
	return receitaDTO{
		ID:          t.ID,
		Valor:       t.Amount.Reais(),
		Data:        t.Date.String(),
		Descricao:   t.Description,
		CategoriaID: t.CategoryID,
		UserID:      t.UserID,
	}
}

type metaDTO struct {
	ID          int64   `json:"id"`
	Titulo      string  `json:"titulo"`
	ValorMeta   float64 `json:"valor_meta"`
	ValorAtual  float64 `json:"valor_atual"`
	DataInicio  string  `json:"data_inicio"`
	DataFim     string  `json:"data_fim"`
	Tipo        string  `json:"tipo"`
	CategoriaID int64   `json:"categoria_id,omitempty"`
	UserID      int64   `json:"user_id"`
	Progresso   float64 `json:"progresso"`
	Atingida    bool    `json:"atingida"`
}

func toMetaDTO(st services.GoalStatus) metaDTO {
	g := st.Goal
	return metaDTO{
		ID:          g.ID,
		Titulo:      g.Title,
		ValorMeta:   g.TargetAmount.Reais(),
		ValorAtual:  g.CurrentAmount.Reais(),
		DataInicio:  g.StartDate.String(),
		DataFim:     g.EndDate.String(),
		Tipo:        string(g.Kind),
		CategoriaID: g.CategoryID,
		UserID:      g.UserID,
		Progresso:   st.Progress.Percent,
		Atingida:    st.Progress.Met,
	}
}

type alertaDTO struct {
	ID         int64  `json:"id"`
	Titulo     string `json:"titulo"`
	Descricao  string `json:"descricao"`
	DataAlerta string `json:"data_alerta"`
	UserID     int64  `json:"user_id"`
}

func toAlertaDTO(a core.Alert) alertaDTO {
	return alertaDTO{
		ID:         a.ID,
		Titulo:     a.Title,
		Descricao:  a.Description,
		DataAlerta: a.AlertDate.String(),
		UserID:     a.UserID,
	}
}

type orcamentoDTO struct {
	CategoriaID   int64   `json:"categoria_id,omitempty"`
	Nome          string  `json:"nome"`
	TotalGasto    float64 `json:"total_gasto"`
	LimiteGasto   float64 `json:"limite_gasto,omitempty"`
	Utilizacao    float64 `json:"utilizacao"`
	Excedente     float64 `json:"excedente,omitempty"`
	Classificacao string  `json:"classificacao,omitempty"`
	SemCategoria  bool    `json:"sem_categoria,omitempty"`
}

func toOrcamentoDTO(cs core.CategorySpend) orcamentoDTO {
	return orcamentoDTO{
		CategoriaID:   cs.CategoryID,
		Nome:          cs.Name,
		TotalGasto:    cs.SpentTotal.Reais(),
		LimiteGasto:   cs.Limit.Reais(),
		Utilizacao:    cs.UtilizationPercent,
		Excedente:     cs.Exceeded.Reais(),
		Classificacao: string(cs.Class),
		SemCategoria:  cs.Uncategorized,
	}
}

type evolucaoDTO struct {
	Mes      string  `json:"mes"`
	Receitas float64 `json:"receitas"`
	Despesas float64 `json:"despesas"`
}

func toEvolucaoDTO(b core.MonthBucket) evolucaoDTO {
	return evolucaoDTO{
		Mes:      b.Month,
		Receitas: b.IncomeTotal.Reais(),
		Despesas: b.ExpenseTotal.Reais(),
	}
}
