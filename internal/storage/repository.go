package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"poupabem/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, core.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	u := &core.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (*core.User, error) {
	u := &core.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`,
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUserIDs returns the ids of every registered user. The worker uses it
// to run per-user passes such as the report export.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, kind, monthly_budget_limit_cents) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Name, string(c.Kind), c.MonthlyBudgetLimit.Cents)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id int64) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, kind, monthly_budget_limit_cents
		 FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	c, err := scanCategory(row)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, kind, monthly_budget_limit_cents
		 FROM categories WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, kind = ?, monthly_budget_limit_cents = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, string(c.Kind), c.MonthlyBudgetLimit.Cents, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return checkAffected(res)
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, kind, amount_cents, date, description, image, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, nullableID(t.CategoryID), string(t.Kind), t.Amount.Cents,
		t.Date.String(), t.Description, t.Image, t.Latitude, t.Longitude)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, kind, amount_cents, date, description, image, latitude, longitude, created_at
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTransactions returns all of the user's transactions of the given kind,
// ordered by date then id.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, kind, amount_cents, date, description, image, latitude, longitude, created_at
		 FROM transactions WHERE user_id = ? AND kind = ? ORDER BY date, id`,
		userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsByPeriod returns the user's transactions of the given kind
// dated within [start, end], both bounds inclusive.
func (r *SQLiteRepository) ListTransactionsByPeriod(ctx context.Context, userID int64, kind core.TransactionKind, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, kind, amount_cents, date, description, image, latitude, longitude, created_at
		 FROM transactions WHERE user_id = ? AND kind = ? AND date >= ? AND date <= ? ORDER BY date, id`,
		userID, string(kind), start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions by period: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, amount_cents = ?, date = ?, description = ?, image = ?, latitude = ?, longitude = ?
		 WHERE id = ? AND user_id = ? AND kind = ?`,
		nullableID(t.CategoryID), t.Amount.Cents, t.Date.String(), t.Description,
		t.Image, t.Latitude, t.Longitude, t.ID, t.UserID, string(t.Kind))
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64, kind core.TransactionKind) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ? AND kind = ?`,
		id, userID, string(kind))
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return checkAffected(res)
}

// SumTransactions returns the total amount of the user's transactions of the
// given kind.
func (r *SQLiteRepository) SumTransactions(ctx context.Context, userID int64, kind core.TransactionKind) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = ? AND kind = ?`,
		userID, string(kind)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SumTransactionsByCategory returns the total spent against one category.
func (r *SQLiteRepository) SumTransactionsByCategory(ctx context.Context, userID, categoryID int64) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = ? AND category_id = ?`,
		userID, categoryID).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions by category: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// --- goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, title, current_amount_cents, target_amount_cents, start_date, end_date, kind, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Title, g.CurrentAmount.Cents, g.TargetAmount.Cents,
		g.StartDate.String(), g.EndDate.String(), string(g.Kind), nullableID(g.CategoryID))
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id int64) (*core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, current_amount_cents, target_amount_cents, start_date, end_date, kind, category_id
		 FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, current_amount_cents, target_amount_cents, start_date, end_date, kind, category_id
		 FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET title = ?, current_amount_cents = ?, target_amount_cents = ?, start_date = ?, end_date = ?, kind = ?, category_id = ?
		 WHERE id = ? AND user_id = ?`,
		g.Title, g.CurrentAmount.Cents, g.TargetAmount.Cents, g.StartDate.String(),
		g.EndDate.String(), string(g.Kind), nullableID(g.CategoryID), g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return checkAffected(res)
}

// UpdateGoalCurrentAmount stores a recomputed progress amount without
// touching the rest of the goal.
func (r *SQLiteRepository) UpdateGoalCurrentAmount(ctx context.Context, userID, id int64, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_amount_cents = ? WHERE id = ? AND user_id = ?`,
		amount.Cents, id, userID)
	if err != nil {
		return fmt.Errorf("update goal current amount: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return checkAffected(res)
}

// --- alerts ---

func (r *SQLiteRepository) CreateAlert(ctx context.Context, a core.Alert) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (user_id, title, description, alert_date) VALUES (?, ?, ?, ?)`,
		a.UserID, a.Title, a.Description, a.AlertDate.String())
	if err != nil {
		return 0, fmt.Errorf("create alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("alert insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAlert(ctx context.Context, userID, id int64) (*core.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, alert_date, created_at
		 FROM alerts WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanAlert(row)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *SQLiteRepository) ListAlerts(ctx context.Context, userID int64) ([]core.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, alert_date, created_at
		 FROM alerts WHERE user_id = ? ORDER BY alert_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// ListAlertsDueOn returns every alert across all users scheduled for the
// given date. Used by the dispatch worker.
func (r *SQLiteRepository) ListAlertsDueOn(ctx context.Context, date core.Date) ([]core.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, alert_date, created_at
		 FROM alerts WHERE alert_date = ? ORDER BY id`, date.String())
	if err != nil {
		return nil, fmt.Errorf("list alerts due on %s: %w", date, err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *SQLiteRepository) UpdateAlert(ctx context.Context, a core.Alert) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET title = ?, description = ?, alert_date = ? WHERE id = ? AND user_id = ?`,
		a.Title, a.Description, a.AlertDate.String(), a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeleteAlert(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM alerts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return checkAffected(res)
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*core.Category, error) {
	var (
		c    core.Category
		kind string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &kind, &c.MonthlyBudgetLimit.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.Kind = core.TransactionKind(kind)
	return &c, nil
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		t          core.Transaction
		kind, date string
		categoryID sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.UserID, &categoryID, &kind, &t.Amount.Cents,
		&date, &t.Description, &t.Image, &t.Latitude, &t.Longitude, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.CategoryID = categoryID.Int64
	t.Kind = core.TransactionKind(kind)
	t.Date, err = core.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	return &t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func scanGoal(row rowScanner) (*core.Goal, error) {
	var (
		g          core.Goal
		kind       string
		start, end string
		categoryID sql.NullInt64
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.CurrentAmount.Cents,
		&g.TargetAmount.Cents, &start, &end, &kind, &categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	g.Kind = core.GoalKind(kind)
	g.CategoryID = categoryID.Int64
	if g.StartDate, err = core.ParseDate(start); err != nil {
		return nil, fmt.Errorf("parse goal start date %q: %w", start, err)
	}
	if g.EndDate, err = core.ParseDate(end); err != nil {
		return nil, fmt.Errorf("parse goal end date %q: %w", end, err)
	}
	return &g, nil
}

func scanAlert(row rowScanner) (*core.Alert, error) {
	var (
		a    core.Alert
		date string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &date, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	a.AlertDate, err = core.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parse alert date %q: %w", date, err)
	}
	return &a, nil
}

func collectAlerts(rows *sql.Rows) ([]core.Alert, error) {
	var alerts []core.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
