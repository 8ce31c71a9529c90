package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindDespesa TransactionKind = "despesa"
	KindReceita TransactionKind = "receita"
)

const (
	GoalGeral     GoalKind = "geral"
	GoalCategoria GoalKind = "categoria"
	GoalReceita   GoalKind = "receita"
	GoalDespesa   GoalKind = "despesa"
)

type (
	// TransactionKind selects between expense ("despesa") and income ("receita").
	TransactionKind string

	// GoalKind determines the direction of success for a financial goal:
	// "geral" and "receita" accumulate toward the target, "despesa" and
	// "categoria" are spending ceilings.
	GoalKind string

	// Date is a calendar date with no meaningful time-of-day component.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single dated expense or income row. Image and the
	// capture coordinates are only populated for expenses.
	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Kind        TransactionKind
		Amount      Money
		Date        Date
		Description string
		Image       string
		Latitude    float64
		Longitude   float64
		CreatedAt   time.Time
	}

	Category struct {
		ID     int64
		UserID int64
		Name   string
		Kind   TransactionKind
		// MonthlyBudgetLimit is optional and expense-only; zero means unset.
		MonthlyBudgetLimit Money
	}

	Goal struct {
		ID            int64
		UserID        int64
		Title         string
		CurrentAmount Money
		TargetAmount  Money
		StartDate     Date
		EndDate       Date
		Kind          GoalKind
		// CategoryID is required iff Kind == GoalCategoria.
		CategoryID int64
	}

	Alert struct {
		ID          int64
		UserID      int64
		Title       string
		Description string
		AlertDate   Date
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrFutureDate       = errors.New("date is in the future")
	ErrInvalidPeriod    = errors.New("end date before start date")
	ErrMissingCategory  = errors.New("missing category for category goal")
)

// NewDate creates a Date from year, month, day, normalized to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// String formats the date as ISO "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the zero-padded "YYYY-MM" bucket key for the date.
// Lexicographic order on these keys equals chronological order.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether both values are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (k TransactionKind) Validate() error {
	switch k {
	case KindDespesa, KindReceita:
		return nil
	}
	return ErrInvalidKind
}

func (k GoalKind) Validate() error {
	switch k {
	case GoalGeral, GoalCategoria, GoalReceita, GoalDespesa:
		return nil
	}
	return ErrInvalidKind
}

// SpendingLimit reports whether the goal kind is a spending ceiling rather
// than an accumulation target.
func (k GoalKind) SpendingLimit() bool {
	return k == GoalDespesa || k == GoalCategoria
}

// Validate checks the transaction against a reference date. The transaction
// date may not be later than today.
func (t Transaction) Validate(today Date) error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Date.After(today) {
		return ErrFutureDate
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return t.Kind.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if c.MonthlyBudgetLimit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.StartDate.Validate(); err != nil {
		return err
	}
	if err := g.EndDate.Validate(); err != nil {
		return err
	}
	if g.EndDate.Before(g.StartDate) {
		return ErrInvalidPeriod
	}
	if err := g.Kind.Validate(); err != nil {
		return err
	}
	if g.Kind == GoalCategoria && g.CategoryID == 0 {
		return ErrMissingCategory
	}
	return nil
}

func (a Alert) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(a.Description) == "" {
		return ErrEmptyDescription
	}
	return a.AlertDate.Validate()
}
