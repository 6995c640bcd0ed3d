package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/dbx"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/models"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/store"
)

// SQLiteRepository implements Repository over a DBTX, so it works both on
// *sql.DB and inside a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, email, salt, verifier, created_at, is_active)
	          VALUES (?, ?, ?, ?, ?, ?)
	          RETURNING id`

	email := sql.NullString{String: user.Email, Valid: user.Email != ""}

	err := r.db.QueryRowContext(ctx, query,
		user.Username, email, user.Salt, user.Verifier,
		store.ToMillis(user.CreatedAt), boolToInt(user.IsActive)).Scan(&user.ID)
	if err != nil {
		if store.IsConflict(err) {
			return nil, fmt.Errorf("username %q: %w", user.Username, common.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, salt, verifier, created_at, is_active
	          FROM users WHERE username = ?`

	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, salt, verifier, created_at, is_active
	          FROM users WHERE id = ?`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.execOne(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, boolToInt(active), id)
}

func (r *SQLiteRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	v := sql.NullString{String: email, Valid: email != ""}
	return r.execOne(ctx, `UPDATE users SET email = ? WHERE id = ?`, v, id)
}

func (r *SQLiteRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	var createdAt int64
	var active int

	err := row.Scan(&user.ID, &user.Username, &email, &user.Salt, &user.Verifier, &createdAt, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Email = email.String
	user.CreatedAt = store.FromMillis(createdAt)
	user.IsActive = active != 0
	return user, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
