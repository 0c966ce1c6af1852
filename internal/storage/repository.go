// Package storage persists users, transactions, recurring rules and goals
// in SQLite. Record IDs are UUIDs assigned on insert; dates are stored as
// ISO day strings so lexical and chronological order agree.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"budgeto/internal/core"
)

const dateLayout = "2006-01-02"

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// User is an account row. PasswordHash is a bcrypt hash, never plaintext.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Currency     string
	CreatedAt    time.Time
}

// PendingSync is the minimal row shape queued for the export worker.
type PendingSync struct {
	ID      string
	Version int64
}

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

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u User) (User, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists)
	if err != nil {
		return User{}, fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return User{}, ErrUsernameTaken
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	if u.Currency == "" {
		u.Currency = "USD"
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Currency, u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", u.ID, "username", u.Username)
	return u, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, currency, created_at
		 FROM users WHERE username = ?`, username))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, currency, created_at
		 FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Currency, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) UpdateUserProfile(ctx context.Context, id, email, currency string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, currency = ? WHERE id = ?`, email, currency, id)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return requireRow(res)
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, description, amount_cents, type, category, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, userID, t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.Date.Format(dateLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"type", t.Type,
		"category", t.Category)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, type, category, date
		 FROM transactions WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var ts []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, type, category, date
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransactionRow(row)
}

// GetTransactionByID loads a transaction without user scoping. It exists for
// the export worker, which receives bare IDs over the queue.
func (r *SQLiteRepository) GetTransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, type, category, date
		 FROM transactions WHERE id = ?`, id)
	return scanTransactionRow(row)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, userID string, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = ?, amount_cents = ?, type = ?, category = ?, date = ?,
		     sync_status = 'pending', version = version + 1
		 WHERE id = ? AND user_id = ?`,
		t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.Date.Format(dateLayout), t.ID, userID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// GetPendingSync returns transactions not yet exported, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version FROM transactions
		 WHERE sync_status = 'pending'
		 ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var pending []PendingSync
	for rows.Next() {
		var p PendingSync
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// --- recurring rules ---

func (r *SQLiteRepository) CreateRule(ctx context.Context, userID string, rule core.RecurringRule) (core.RecurringRule, error) {
	rule.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_rules (id, user_id, description, amount_cents, type, category, frequency, start_date, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, userID, rule.Description, rule.Amount.Cents, string(rule.Type),
		rule.Category, string(rule.Frequency), rule.StartDate.Format(dateLayout),
		boolToInt(rule.IsActive))
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("create recurring rule: %w", err)
	}

	slog.InfoContext(ctx, "Recurring rule saved",
		"id", rule.ID,
		"description", rule.Description,
		"frequency", rule.Frequency)
	return rule, nil
}

func (r *SQLiteRepository) ListRules(ctx context.Context, userID string) ([]core.RecurringRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, type, category, frequency, start_date, is_active
		 FROM recurring_rules WHERE user_id = ?
		 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring rules: %w", err)
	}
	defer rows.Close()

	var rules []core.RecurringRule
	for rows.Next() {
		var (
			rule     core.RecurringRule
			cents    int64
			txType   string
			freq     string
			start    string
			isActive int
		)
		if err := rows.Scan(&rule.ID, &rule.Description, &cents, &txType,
			&rule.Category, &freq, &start, &isActive); err != nil {
			return nil, fmt.Errorf("scan recurring rule: %w", err)
		}
		startDate, err := time.Parse(dateLayout, start)
		if err != nil {
			return nil, fmt.Errorf("parse rule start date: %w", err)
		}
		rule.Amount = core.Money{Cents: cents}
		rule.Type = core.TransactionType(txType)
		rule.Frequency = core.Frequency(freq)
		rule.StartDate = startDate
		rule.IsActive = isActive != 0
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *SQLiteRepository) UpdateRule(ctx context.Context, userID string, rule core.RecurringRule) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_rules
		 SET description = ?, amount_cents = ?, type = ?, category = ?, frequency = ?, start_date = ?, is_active = ?
		 WHERE id = ? AND user_id = ?`,
		rule.Description, rule.Amount.Cents, string(rule.Type), rule.Category,
		string(rule.Frequency), rule.StartDate.Format(dateLayout),
		boolToInt(rule.IsActive), rule.ID, userID)
	if err != nil {
		return fmt.Errorf("update recurring rule: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) SetRuleActive(ctx context.Context, userID, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_rules SET is_active = ? WHERE id = ? AND user_id = ?`,
		boolToInt(active), id, userID)
	if err != nil {
		return fmt.Errorf("set rule active: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteRule(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_rules WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring rule: %w", err)
	}
	return requireRow(res)
}

// --- goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	g.ID = uuid.NewString()
	var deadline any
	if g.Deadline != nil {
		deadline = g.Deadline.Format(dateLayout)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, category, description, target_cents, current_cents, deadline)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, userID, g.Name, g.Category, g.Description,
		g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved",
		"id", g.ID,
		"name", g.Name,
		"target_cents", g.TargetAmount.Cents)
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, description, target_cents, current_cents, deadline
		 FROM goals WHERE user_id = ?
		 ORDER BY created_at ASC`, userID)
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
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, description, target_cents, current_cents, deadline
		 FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Goal{}, err
		}
		return core.Goal{}, ErrNotFound
	}
	return scanGoal(rows)
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, userID string, g core.Goal) error {
	var deadline any
	if g.Deadline != nil {
		deadline = g.Deadline.Format(dateLayout)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals
		 SET name = ?, category = ?, description = ?, target_cents = ?, current_cents = ?, deadline = ?
		 WHERE id = ? AND user_id = ?`,
		g.Name, g.Category, g.Description, g.TargetAmount.Cents,
		g.CurrentAmount.Cents, deadline, g.ID, userID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) SetGoalCurrent(ctx context.Context, userID, id string, current core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE id = ? AND user_id = ?`,
		current.Cents, id, userID)
	if err != nil {
		return fmt.Errorf("set goal current amount: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		cents  int64
		txType string
		date   string
	)
	if err := s.Scan(&t.ID, &t.Description, &cents, &txType, &t.Category, &date); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	t.Amount = core.Money{Cents: cents}
	t.Type = core.TransactionType(txType)
	t.Date = d
	return t, nil
}

func scanTransactionRow(row *sql.Row) (core.Transaction, error) {
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, ErrNotFound
		}
		return core.Transaction{}, err
	}
	return t, nil
}

func scanGoal(s rowScanner) (core.Goal, error) {
	var (
		g        core.Goal
		target   int64
		current  int64
		deadline sql.NullString
	)
	if err := s.Scan(&g.ID, &g.Name, &g.Category, &g.Description, &target, &current, &deadline); err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	g.TargetAmount = core.Money{Cents: target}
	g.CurrentAmount = core.Money{Cents: current}
	if deadline.Valid {
		d, err := time.Parse(dateLayout, deadline.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse goal deadline: %w", err)
		}
		g.Deadline = &d
	}
	return g, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
