package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/nandanijewellers/storefront-api/internal/utils"
)

type EmailLogRepository interface {
	RecordSend(ctx context.Context, entry *models.EmailLog) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EmailLog, error)
}

type emailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepo(db *sql.DB) EmailLogRepository {
	return &emailLogRepository{DB: db}
}

func (r *emailLogRepository) RecordSend(ctx context.Context, entry *models.EmailLog) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO email_log (user_id, recipient, subject, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`

	return r.DB.QueryRowContext(dbCtx, query,
		entry.UserID, entry.To, entry.Subject, entry.Status, entry.Error).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *emailLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EmailLog, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, recipient, subject, status, error, created_at
		FROM email_log
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email log: %w", err)
	}
	defer rows.Close()

	var entries []models.EmailLog

	for rows.Next() {
		var entry models.EmailLog

		err := rows.Scan(&entry.ID, &entry.UserID, &entry.To, &entry.Subject,
			&entry.Status, &entry.Error, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email log entry: %w", err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
