package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/outreach/pkg/models"
)

func (r *SQLiteRepo) CreateInquiry(ctx context.Context, i *models.Inquiry) (int64, error) {
	if i == nil {
		return 0, fmt.Errorf("inquiry is nil")
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now()
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO inquiries (full_name, email, mobile, subject, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		i.FullName, i.Email, i.Mobile, i.Subject, i.Message, i.CreatedAt.UTC().UnixMicro())
	if err != nil {
		return 0, translate(err)
	}

	return res.LastInsertId()
}
