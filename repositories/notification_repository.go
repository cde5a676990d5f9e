package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cricket-system/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByReceiver(ctx context.Context, receiverID int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int) error
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (type, status, sender_id, receiver_id, message, redirect_url, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		n.Type, n.Status, n.SenderID, n.ReceiverID, n.Message, n.RedirectURL, n.IsRead,
	).Scan(&n.ID, &n.Timestamp)
}

func (r *postgresNotificationRepository) ListByReceiver(ctx context.Context, receiverID int) ([]*models.Notification, error) {
	query := `
		SELECT id, type, status, sender_id, receiver_id, message, redirect_url, is_read, created_at
		FROM notifications
		WHERE receiver_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		n := &models.Notification{}
		if scanErr := rows.Scan(
			&n.ID, &n.Type, &n.Status, &n.SenderID, &n.ReceiverID,
			&n.Message, &n.RedirectURL, &n.IsRead, &n.Timestamp,
		); scanErr != nil {
			return nil, scanErr
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *postgresNotificationRepository) MarkRead(ctx context.Context, id int) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}
