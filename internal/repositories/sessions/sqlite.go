package sessions

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

func (r *SQLiteRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	query := `INSERT INTO sessions (user_id, token_id, login_at, expires_at)
	          VALUES (?, ?, ?, ?)
	          RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		session.UserID, session.TokenID,
		store.ToMillis(session.LoginAt), store.ToMillis(session.ExpiresAt)).Scan(&session.ID)
	if err != nil {
		if store.IsConflict(err) {
			return nil, fmt.Errorf("token id: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT id, user_id, token_id, login_at, expires_at
	          FROM sessions WHERE id = ?`

	session := &models.Session{}
	var loginAt, expiresAt int64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.TokenID, &loginAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.LoginAt = store.FromMillis(loginAt)
	session.ExpiresAt = store.FromMillis(expiresAt)
	return session, nil
}

// DeleteByID removes a session row. Deleting an absent row is not an error;
// logout and lazy expiry both rely on that.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
