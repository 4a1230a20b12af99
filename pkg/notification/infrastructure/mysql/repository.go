package mysql

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) model.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	var userID interface{}
	if notification.UserID != nil {
		userID = notification.UserID.String()
	}

	_, err := r.db.Exec(
		`INSERT INTO notifications (id, user_id, recipient, subject, body, status, failure_reason, created_at, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID.String(), userID, notification.RecipientAddress,
		notification.Subject, notification.Body, int(notification.Status),
		notification.FailureReason, notification.CreatedAt, notification.SentAt,
	)
	return errors.Wrap(err, "insert notification")
}

func (r *notificationRepository) Update(notification *model.Notification) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET status = ?, failure_reason = ?, sent_at = ? WHERE id = ?`,
		int(notification.Status), notification.FailureReason, notification.SentAt,
		notification.ID.String(),
	)
	return errors.Wrap(err, "update notification")
}
