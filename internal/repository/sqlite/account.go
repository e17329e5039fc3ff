package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/garnizeh/outreach/pkg/models"
)

func (r *SQLiteRepo) CreateFirstAccount(ctx context.Context, a *models.Account) (int64, bool, error) {
	if a == nil {
		return 0, false, fmt.Errorf("account is nil")
	}

	// single statement so the emptiness check and the insert cannot interleave
	res, err := r.conn.Exec(ctx, `INSERT INTO accounts (username, password_hash, created) SELECT ?, ?, ? WHERE NOT EXISTS (SELECT 1 FROM accounts)`, a.Username, a.PasswordHash, now().UnixMilli())
	if err != nil {
		return 0, false, translate(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		r.logger.Debug("first account already present", slog.String("username", a.Username))
		return 0, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("account is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO accounts (username, password_hash, created) VALUES (?, ?, ?)`, a.Username, a.PasswordHash, now().UnixMilli())
	if err != nil {
		return 0, translate(err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, password_hash, created FROM accounts WHERE username = ?`, username)
	var a models.Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}

func (r *SQLiteRepo) CountAccounts(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
